package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkpoint"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/storagetest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "storefront.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestEventStore(t *testing.T) {
	storagetest.RunEventStore(t, func(t *testing.T) storage.EventStore { return openTestStore(t) })
}

func TestDocumentStore(t *testing.T) {
	storagetest.RunDocumentStore(t, func(t *testing.T) storage.DocumentStore { return openTestStore(t) })
}

func TestCheckpointStore(t *testing.T) {
	storagetest.RunCheckpointStore(t, func(t *testing.T) checkpoint.Store { return openTestStore(t).Checkpoints() })
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestReopenKeepsEventsAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storefront.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.AppendToStream(ctx, "Order-o1", event.NoStream, storagetest.Pending("o1", 2)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	events, err := reopened.ReadStream(ctx, "Order-o1", 0, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 2 || events[1].StreamVersion != 2 {
		t.Fatalf("events = %+v", events)
	}
}
