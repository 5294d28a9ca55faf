package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// DocumentStore keeps read models in nested maps.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]storage.Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]map[string]storage.Document)}
}

// GetDocument returns storage.ErrNotFound for unknown ids.
func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][strings.TrimSpace(id)]
	if !ok {
		return storage.Document{}, storage.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// PutDocument inserts or replaces a document.
func (s *DocumentStore) PutDocument(ctx context.Context, doc storage.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc.ID = strings.TrimSpace(doc.ID)
	if doc.Collection == "" || doc.ID == "" {
		return fmt.Errorf("put document: collection and id are required")
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[doc.Collection]
	if !ok {
		docs = make(map[string]storage.Document)
		s.collections[doc.Collection] = docs
	}
	docs[doc.ID] = cloneDocument(doc)
	return nil
}

// ListDocuments returns documents newest first.
func (s *DocumentStore) ListDocuments(ctx context.Context, collection string, filter storage.ListFilter) ([]storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		if filter.CustomerID != "" && doc.CustomerID != filter.CustomerID {
			continue
		}
		out = append(out, cloneDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ClearCollection drops every document in collection.
func (s *DocumentStore) ClearCollection(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, collection)
	return nil
}

func cloneDocument(doc storage.Document) storage.Document {
	doc.Data = append([]byte(nil), doc.Data...)
	return doc
}
