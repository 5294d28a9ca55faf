package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

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
	var row checkpointRow
	err := c.s.db.WithContext(ctx).Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return checkpoint.Checkpoint{}, checkpoint.ErrNotFound
	}
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("get checkpoint %s: %w", name, err)
	}
	return checkpoint.Checkpoint{Name: row.Name, Position: row.Position, UpdatedAt: row.UpdatedAt.UTC()}, nil
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
	row := checkpointRow{Name: cp.Name, Position: cp.Position, UpdatedAt: cp.UpdatedAt}
	err := c.s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", cp.Name, err)
	}
	return nil
}
