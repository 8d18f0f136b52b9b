package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"product-gateway/internal/models"
)

// MongoStore keeps products in a MongoDB collection. Ids are ObjectID hex
// strings generated on insert.
type MongoStore struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoStore(collection *mongo.Collection, timeout time.Duration) *MongoStore {
	return &MongoStore{
		collection: collection,
		timeout:    timeout,
	}
}

// Add inserts a new document and returns it with its generated id.
func (r *MongoStore) Add(ctx context.Context, fields bson.D) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id := primitive.NewObjectID()
	doc := make(bson.D, 0, len(fields)+1)
	doc = append(doc, bson.E{Key: "_id", Value: id})
	doc = append(doc, fields...)

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return models.Product{ID: id.Hex(), Fields: fields}, nil
}

// All returns every document in natural order.
func (r *MongoStore) All(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, toProduct(doc))
	}
	return products, nil
}

func (r *MongoStore) Get(ctx context.Context, id string) (models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc bson.D
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, fmt.Errorf("find product %s: %w", id, err)
	}

	return toProduct(doc), nil
}

// Update applies fields with $set. It never upserts, so a document removed
// concurrently is reported as ErrNotFound instead of being recreated.
func (r *MongoStore) Update(ctx context.Context, id string, fields bson.D) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	// $set with an empty document is rejected by the server.
	if len(fields) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.D{{Key: "$set", Value: fields}})
	if err != nil {
		return fmt.Errorf("update product %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStore) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func toProduct(doc bson.D) models.Product {
	p := models.Product{Fields: make(bson.D, 0, len(doc))}
	for _, e := range doc {
		if e.Key != "_id" {
			p.Fields = append(p.Fields, e)
			continue
		}
		switch v := e.Value.(type) {
		case primitive.ObjectID:
			p.ID = v.Hex()
		case string:
			p.ID = v
		default:
			p.ID = fmt.Sprint(v)
		}
	}
	return p
}
