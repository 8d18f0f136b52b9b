package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"product-gateway/internal/models"
)

// MemoryStore is a process-local ProductStore. All returns documents in
// insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]bson.D
	order []string
	newID func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]bson.D),
		newID: uuid.NewString,
	}
}

func (s *MemoryStore) Add(ctx context.Context, fields bson.D) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := append(make(bson.D, 0, len(fields)), fields...)

	id := s.newID()
	s.docs[id] = doc
	s.order = append(s.order, id)

	return models.Product{ID: id, Fields: slices.Clone(doc)}, nil
}

func (s *MemoryStore) All(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		products = append(products, models.Product{ID: id, Fields: slices.Clone(s.docs[id])})
	}
	return products, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return models.Product{ID: id, Fields: slices.Clone(doc)}, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fields bson.D) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	s.docs[id] = models.Merge(doc, fields)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
