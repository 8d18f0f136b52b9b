package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"product-gateway/internal/models"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks product-gateway/internal/repository ProductStore

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("product not found")

// ProductStore is the document-collection capability the gateway is built on.
// Implementations assign ids on Add, keep field order and report missing ids
// as ErrNotFound.
type ProductStore interface {
	Add(ctx context.Context, fields bson.D) (models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	// Update merges fields into the top level of an existing document. Existing
	// keys keep their position.
	Update(ctx context.Context, id string, fields bson.D) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
