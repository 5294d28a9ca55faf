package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// loadView returns the stored view, or found=false when none exists.
func loadView[V any](ctx context.Context, docs storage.DocumentStore, collection, id string) (view V, version uint64, found bool, err error) {
	doc, err := docs.GetDocument(ctx, collection, id)
	if errors.Is(err, storage.ErrNotFound) {
		return view, 0, false, nil
	}
	if err != nil {
		return view, 0, false, fmt.Errorf("load %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(doc.Data, &view); err != nil {
		return view, 0, false, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return view, doc.Version, true, nil
}

func saveView[V any](ctx context.Context, docs storage.DocumentStore, collection, id, customerID string, version uint64, updatedAt time.Time, view V) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return docs.PutDocument(ctx, storage.Document{
		Collection: collection,
		ID:         id,
		CustomerID: customerID,
		Version:    version,
		Data:       data,
		UpdatedAt:  updatedAt,
	})
}

// eventTime parses a payload timestamp, falling back to the store's
// recorded time.
func eventTime(raw string, rec event.Recorded) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC()
	}
	return rec.RecordedAt.UTC()
}
