// Package storagetest holds the behaviour every storage backend must share.
// Backend test files call these helpers with a constructor for a fresh store.
package storagetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkpoint"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// Pending builds n pending events with distinct ids.
func Pending(prefix string, n int) []event.Pending {
	out := make([]event.Pending, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, event.Pending{
			ID:       fmt.Sprintf("%s-%d", prefix, i+1),
			Type:     "ItemAddedToCart",
			Data:     json.RawMessage(fmt.Sprintf(`{"n":%d}`, i+1)),
			Metadata: map[string]string{event.MetaCommandType: "AddItemToCart"},
		})
	}
	return out
}

// RunEventStore exercises the storage.EventStore contract.
func RunEventStore(t *testing.T, newStore func(t *testing.T) storage.EventStore) {
	t.Helper()

	t.Run("missing stream reads empty", func(t *testing.T) {
		store := newStore(t)
		events, err := store.ReadStream(context.Background(), "ShoppingCart-missing", 0, 10)
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if len(events) != 0 {
			t.Fatalf("expected no events, got %d", len(events))
		}
	})

	t.Run("append assigns versions and positions", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		result, err := store.AppendToStream(ctx, "ShoppingCart-a", event.NoStream, Pending("a", 2))
		if err != nil {
			t.Fatalf("append a: %v", err)
		}
		if result.NextVersion != 2 || len(result.Events) != 2 {
			t.Fatalf("result = %+v", result)
		}
		if _, err := store.AppendToStream(ctx, "Checkout-b", event.NoStream, Pending("b", 1)); err != nil {
			t.Fatalf("append b: %v", err)
		}
		result, err = store.AppendToStream(ctx, "ShoppingCart-a", event.Exact(2), Pending("a2", 1))
		if err != nil {
			t.Fatalf("append a again: %v", err)
		}
		if result.NextVersion != 3 || result.Events[0].StreamVersion != 3 {
			t.Fatalf("result = %+v", result)
		}

		stream, err := store.ReadStream(ctx, "ShoppingCart-a", 0, 10)
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if len(stream) != 3 {
			t.Fatalf("stream len = %d, want 3", len(stream))
		}
		for i, rec := range stream {
			if rec.StreamVersion != uint64(i+1) {
				t.Fatalf("stream[%d].StreamVersion = %d", i, rec.StreamVersion)
			}
			if rec.StreamID != "ShoppingCart-a" || rec.RecordedAt.IsZero() {
				t.Fatalf("stream[%d] = %+v", i, rec)
			}
		}
		if stream[0].ID != "a-1" || stream[0].Type != "ItemAddedToCart" || stream[0].Metadata[event.MetaCommandType] != "AddItemToCart" {
			t.Fatalf("stream[0] = %+v", stream[0])
		}
		var payload struct{ N int }
		if err := json.Unmarshal(stream[1].Data, &payload); err != nil || payload.N != 2 {
			t.Fatalf("payload = %+v, %v", payload, err)
		}

		after, err := store.ReadStream(ctx, "ShoppingCart-a", 1, 1)
		if err != nil {
			t.Fatalf("read after: %v", err)
		}
		if len(after) != 1 || after[0].StreamVersion != 2 {
			t.Fatalf("after = %+v", after)
		}

		all, err := store.ReadAll(ctx, 0, 100)
		if err != nil {
			t.Fatalf("read all: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("all len = %d, want 4", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i].GlobalPosition <= all[i-1].GlobalPosition {
				t.Fatalf("positions not increasing: %d then %d", all[i-1].GlobalPosition, all[i].GlobalPosition)
			}
		}
		if all[2].StreamID != "Checkout-b" {
			t.Fatalf("all[2].StreamID = %q, want commit order", all[2].StreamID)
		}
		tail, err := store.ReadAll(ctx, all[1].GlobalPosition, 1)
		if err != nil {
			t.Fatalf("read all tail: %v", err)
		}
		if len(tail) != 1 || tail[0].GlobalPosition != all[2].GlobalPosition {
			t.Fatalf("tail = %+v", tail)
		}
	})

	t.Run("stale expected version conflicts", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		if _, err := store.AppendToStream(ctx, "Order-o", event.NoStream, Pending("o", 1)); err != nil {
			t.Fatalf("append: %v", err)
		}
		cases := []event.ExpectedVersion{event.NoStream, event.Exact(0), event.Exact(2)}
		for _, expected := range cases {
			_, err := store.AppendToStream(ctx, "Order-o", expected, Pending("x", 1))
			if !apperrors.IsKind(err, apperrors.KindConcurrencyConflict) {
				t.Fatalf("expected %s: expected conflict, got %v", expected, err)
			}
		}
		if _, err := store.AppendToStream(ctx, "Order-new", event.StreamExists, Pending("n", 1)); !apperrors.IsKind(err, apperrors.KindConcurrencyConflict) {
			t.Fatalf("stream exists on new stream: expected conflict, got %v", err)
		}
		if _, err := store.AppendToStream(ctx, "Order-o", event.StreamExists, Pending("y", 1)); err != nil {
			t.Fatalf("stream exists: %v", err)
		}
		if _, err := store.AppendToStream(ctx, "Order-o", event.Any, Pending("z", 1)); err != nil {
			t.Fatalf("any: %v", err)
		}
		stream, err := store.ReadStream(ctx, "Order-o", 0, 10)
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if len(stream) != 3 {
			t.Fatalf("stream len = %d, want 3 (conflicts must not write)", len(stream))
		}
	})

	t.Run("concurrent appends admit one winner", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		const writers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			wins      int
			conflicts int
			others    []error
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.AppendToStream(ctx, "ShoppingCart-race", event.NoStream, Pending(fmt.Sprintf("w%d", i), 1))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case apperrors.IsKind(err, apperrors.KindConcurrencyConflict):
					conflicts++
				default:
					others = append(others, err)
				}
			}(i)
		}
		wg.Wait()
		if len(others) > 0 {
			t.Fatalf("unexpected errors: %v", others)
		}
		if wins != 1 || conflicts != writers-1 {
			t.Fatalf("wins=%d conflicts=%d", wins, conflicts)
		}
	})
}

// RunDocumentStore exercises the storage.DocumentStore contract.
func RunDocumentStore(t *testing.T, newStore func(t *testing.T) storage.DocumentStore) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.GetDocument(context.Background(), "carts", "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("put get list clear", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		docs := []storage.Document{
			{Collection: "carts", ID: "c1", CustomerID: "u1", Version: 1, Data: json.RawMessage(`{"id":"c1"}`), UpdatedAt: base},
			{Collection: "carts", ID: "c2", CustomerID: "u2", Version: 1, Data: json.RawMessage(`{"id":"c2"}`), UpdatedAt: base.Add(time.Minute)},
			{Collection: "carts", ID: "c3", CustomerID: "u1", Version: 1, Data: json.RawMessage(`{"id":"c3"}`), UpdatedAt: base.Add(2 * time.Minute)},
			{Collection: "orders", ID: "o1", CustomerID: "u1", Version: 1, Data: json.RawMessage(`{"id":"o1"}`), UpdatedAt: base},
		}
		for _, doc := range docs {
			if err := store.PutDocument(ctx, doc); err != nil {
				t.Fatalf("put %s: %v", doc.ID, err)
			}
		}
		updated := docs[0]
		updated.Version = 2
		updated.Data = json.RawMessage(`{"id":"c1","v":2}`)
		updated.UpdatedAt = base.Add(3 * time.Minute)
		if err := store.PutDocument(ctx, updated); err != nil {
			t.Fatalf("replace: %v", err)
		}

		got, err := store.GetDocument(ctx, "carts", "c1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Version != 2 || got.CustomerID != "u1" || !got.UpdatedAt.Equal(updated.UpdatedAt) {
			t.Fatalf("got = %+v", got)
		}
		var payload map[string]any
		if err := json.Unmarshal(got.Data, &payload); err != nil || payload["v"] != float64(2) {
			t.Fatalf("payload = %v, %v", payload, err)
		}

		all, err := store.ListDocuments(ctx, "carts", storage.ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if ids := docIDs(all); fmt.Sprint(ids) != "[c1 c3 c2]" {
			t.Fatalf("list order = %v", ids)
		}
		mine, err := store.ListDocuments(ctx, "carts", storage.ListFilter{CustomerID: "u1"})
		if err != nil {
			t.Fatalf("list by customer: %v", err)
		}
		if ids := docIDs(mine); fmt.Sprint(ids) != "[c1 c3]" {
			t.Fatalf("customer list = %v", ids)
		}
		limited, err := store.ListDocuments(ctx, "carts", storage.ListFilter{Limit: 1})
		if err != nil {
			t.Fatalf("list limited: %v", err)
		}
		if len(limited) != 1 {
			t.Fatalf("limited len = %d", len(limited))
		}

		if err := store.ClearCollection(ctx, "carts"); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if _, err := store.GetDocument(ctx, "carts", "c2"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected cleared, got %v", err)
		}
		if _, err := store.GetDocument(ctx, "orders", "o1"); err != nil {
			t.Fatalf("other collection affected: %v", err)
		}
	})
}

// RunCheckpointStore exercises the checkpoint.Store contract.
func RunCheckpointStore(t *testing.T, newStore func(t *testing.T) checkpoint.Store) {
	t.Helper()

	store := newStore(t)
	ctx := context.Background()
	if _, err := store.Get(ctx, "projections"); !errors.Is(err, checkpoint.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	for _, pos := range []checkpoint.Position{3, 9} {
		if err := store.Save(ctx, checkpoint.Checkpoint{Name: "projections", Position: pos}); err != nil {
			t.Fatalf("save %d: %v", pos, err)
		}
	}
	cp, err := store.Get(ctx, "projections")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cp.Position != 9 {
		t.Fatalf("position = %d, want 9", cp.Position)
	}
	if err := store.Save(ctx, checkpoint.Checkpoint{Name: " "}); !errors.Is(err, checkpoint.ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
}

func docIDs(docs []storage.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids
}
