package checkpoint

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySaveAndGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Get(ctx, "projections"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Save(ctx, Checkpoint{Name: " projections ", Position: 42}); err != nil {
		t.Fatalf("save: %v", err)
	}
	cp, err := store.Get(ctx, "projections")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cp.Position != 42 || cp.UpdatedAt.IsZero() {
		t.Fatalf("checkpoint = %+v", cp)
	}
}

func TestMemoryRejectsBlankName(t *testing.T) {
	store := NewMemory()
	if err := store.Save(context.Background(), Checkpoint{Name: " "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
	if _, err := store.Get(context.Background(), ""); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemory().Save(ctx, Checkpoint{Name: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestNoopNeverRemembers(t *testing.T) {
	store := NewNoop()
	ctx := context.Background()
	if err := store.Save(ctx, Checkpoint{Name: "x", Position: 9}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	pos, err := Load(ctx, NewNoop(), "x")
	if err != nil || pos != 0 {
		t.Fatalf("load = %d, %v", pos, err)
	}
	store := NewMemory()
	_ = store.Save(ctx, Checkpoint{Name: "x", Position: 7})
	pos, err = Load(ctx, store, "x")
	if err != nil || pos != 7 {
		t.Fatalf("load = %d, %v", pos, err)
	}
	if _, err := Load(ctx, nil, "x"); !errors.Is(err, ErrStoreRequired) {
		t.Fatalf("expected store required, got %v", err)
	}
}
