package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkpoint"
)

// Checkpoints returns the store's checkpoint.Store view.
func (s *Store) Checkpoints() checkpoint.Store {
	return checkpointStore{s}
}

type checkpointStore struct {
	s *Store
}

func (c checkpointStore) Get(ctx context.Context, name string) (checkpoint.Checkpoint, error) {
	if err := c.s.ready(ctx); err != nil {
		return checkpoint.Checkpoint{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return checkpoint.Checkpoint{}, checkpoint.ErrNameRequired
	}
	var position, updatedAt int64
	err := c.s.sqlDB.QueryRowContext(ctx,
		`SELECT position, updated_at FROM checkpoints WHERE name = ?`, name,
	).Scan(&position, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return checkpoint.Checkpoint{}, checkpoint.ErrNotFound
	}
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("get checkpoint %s: %w", name, err)
	}
	return checkpoint.Checkpoint{Name: name, Position: uint64(position), UpdatedAt: fromNanos(updatedAt)}, nil
}

func (c checkpointStore) Save(ctx context.Context, cp checkpoint.Checkpoint) error {
	if err := c.s.ready(ctx); err != nil {
		return err
	}
	cp.Name = strings.TrimSpace(cp.Name)
	if cp.Name == "" {
		return checkpoint.ErrNameRequired
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	_, err := c.s.sqlDB.ExecContext(ctx,
		`INSERT INTO checkpoints (name, position, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET position = excluded.position, updated_at = excluded.updated_at`,
		cp.Name, int64(cp.Position), toNanos(cp.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", cp.Name, err)
	}
	return nil
}
