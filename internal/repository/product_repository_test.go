package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("add returns a fresh object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		store := NewMongoStore(mt.Coll, time.Second)

		fields := bson.D{{Key: "name", Value: "Widget"}, {Key: "price", Value: int64(10)}}
		p, err := store.Add(ctx, fields)
		require.NoError(mt, err)

		_, err = primitive.ObjectIDFromHex(p.ID)
		assert.NoError(mt, err)
		assert.Equal(mt, fields, p.Fields)

		inserted := mt.GetStartedEvent()
		require.NotNil(mt, inserted)
		assert.Equal(mt, "insert", inserted.CommandName)
		doc, err := inserted.Command.LookupErr("documents", "0")
		require.NoError(mt, err)
		elems, err := doc.Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, elems, 3)
		assert.Equal(mt, "_id", elems[0].Key())
		assert.Equal(mt, "name", elems[1].Key())
		assert.Equal(mt, "price", elems[2].Key())
	})

	mt.Run("add surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		store := NewMongoStore(mt.Coll, time.Second)

		_, err := store.Add(ctx, bson.D{{Key: "name", Value: "Widget"}})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "duplicate key error")
		assert.NotErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("all decodes every document", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "name", Value: "Widget"}},
			bson.D{{Key: "price", Value: 12.5}, {Key: "_id", Value: second}, {Key: "name", Value: "Gadget"}},
		))
		store := NewMongoStore(mt.Coll, time.Second)

		products, err := store.All(ctx)
		require.NoError(mt, err)
		require.Len(mt, products, 2)

		assert.Equal(mt, first.Hex(), products[0].ID)
		assert.Equal(mt, bson.D{{Key: "name", Value: "Widget"}}, products[0].Fields)
		assert.Equal(mt, second.Hex(), products[1].ID)
		assert.Equal(mt, bson.D{{Key: "price", Value: 12.5}, {Key: "name", Value: "Gadget"}}, products[1].Fields)
	})

	mt.Run("all on an empty collection is an empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		store := NewMongoStore(mt.Coll, time.Second)

		products, err := store.All(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, products)
		assert.Empty(mt, products)
	})

	mt.Run("get finds a document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: id},
				{Key: "zeta", Value: "last"},
				{Key: "dims", Value: bson.D{{Key: "w", Value: 1.5}, {Key: "h", Value: 2.0}}},
			},
		))
		store := NewMongoStore(mt.Coll, time.Second)

		p, err := store.Get(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), p.ID)
		assert.Equal(mt, bson.D{
			{Key: "zeta", Value: "last"},
			{Key: "dims", Value: bson.D{{Key: "w", Value: 1.5}, {Key: "h", Value: 2.0}}},
		}, p.Fields)
	})

	mt.Run("get reports missing documents", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		store := NewMongoStore(mt.Coll, time.Second)

		_, err := store.Get(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("ids that are not object ids are never found", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, time.Second)

		_, err := store.Get(ctx, "abc123")
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.ErrorIs(mt, store.Update(ctx, "abc123", bson.D{{Key: "price", Value: 12}}), ErrNotFound)
		assert.ErrorIs(mt, store.Delete(ctx, "abc123"), ErrNotFound)
	})

	mt.Run("get surfaces command errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized on productCatalog",
		}))
		store := NewMongoStore(mt.Coll, time.Second)

		_, err := store.Get(ctx, primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, ErrNotFound))
		assert.Contains(mt, err.Error(), "not authorized on productCatalog")
	})

	mt.Run("update merges into a matched document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		store := NewMongoStore(mt.Coll, time.Second)

		err := store.Update(ctx, primitive.NewObjectID().Hex(), bson.D{{Key: "price", Value: 12}})
		assert.NoError(mt, err)
	})

	mt.Run("update without a match is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		store := NewMongoStore(mt.Coll, time.Second)

		err := store.Update(ctx, primitive.NewObjectID().Hex(), bson.D{{Key: "price", Value: 12}})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("empty update only checks existence", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		store := NewMongoStore(mt.Coll, time.Second)

		err := store.Update(ctx, primitive.NewObjectID().Hex(), bson.D{})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete removes a document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		store := NewMongoStore(mt.Coll, time.Second)

		assert.NoError(mt, store.Delete(ctx, primitive.NewObjectID().Hex()))
	})

	mt.Run("delete without a match is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		store := NewMongoStore(mt.Coll, time.Second)

		assert.ErrorIs(mt, store.Delete(ctx, primitive.NewObjectID().Hex()), ErrNotFound)
	})

	mt.Run("ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		store := NewMongoStore(mt.Coll, time.Second)

		assert.NoError(mt, store.Ping(ctx))
	})
}
