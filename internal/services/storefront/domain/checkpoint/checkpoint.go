// Package checkpoint records how far each subscription has consumed the
// global event log.
package checkpoint

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNameRequired indicates a missing subscription name.
	ErrNameRequired = errors.New("subscription name is required")
	// ErrNotFound indicates no checkpoint has been saved yet.
	ErrNotFound = errors.New("checkpoint not found")
	// ErrStoreRequired indicates a missing checkpoint store.
	ErrStoreRequired = errors.New("checkpoint store is required")
)

// Position is a global log position. Zero means before the first event.
type Position = uint64

// Checkpoint is the last global position a subscription fully processed.
type Checkpoint struct {
	Name      string
	Position  Position
	UpdatedAt time.Time
}

// Store persists checkpoints by subscription name.
type Store interface {
	Get(ctx context.Context, name string) (Checkpoint, error)
	Save(ctx context.Context, checkpoint Checkpoint) error
}

// Load returns the saved position for name, or 0 when none exists.
func Load(ctx context.Context, store Store, name string) (Position, error) {
	if store == nil {
		return 0, ErrStoreRequired
	}
	cp, err := store.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cp.Position, nil
}
