package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// GetDocument returns storage.ErrNotFound for unknown ids.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (storage.Document, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Document{}, err
	}
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, strings.TrimSpace(id)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.Document{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	return row.document(), nil
}

// PutDocument upserts a document.
func (s *Store) PutDocument(ctx context.Context, doc storage.Document) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	doc.ID = strings.TrimSpace(doc.ID)
	if doc.Collection == "" || doc.ID == "" {
		return fmt.Errorf("put document: collection and id are required")
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	row := documentRow{
		Collection: doc.Collection,
		ID:         doc.ID,
		CustomerID: doc.CustomerID,
		Version:    doc.Version,
		Data:       datatypes.JSON(doc.Data),
		UpdatedAt:  doc.UpdatedAt.UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"customer_id", "version", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put document %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return nil
}

// ListDocuments returns documents newest first.
func (s *Store) ListDocuments(ctx context.Context, collection string, filter storage.ListFilter) ([]storage.Document, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := s.db.WithContext(ctx).Where("collection = ?", collection)
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	query = query.Order("updated_at DESC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var rows []documentRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list documents %s: %w", collection, err)
	}
	out := make([]storage.Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.document())
	}
	return out, nil
}

// ClearCollection deletes every document in collection.
func (s *Store) ClearCollection(ctx context.Context, collection string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Delete(&documentRow{}).Error; err != nil {
		return fmt.Errorf("clear collection %s: %w", collection, err)
	}
	return nil
}

func (r documentRow) document() storage.Document {
	return storage.Document{
		Collection: r.Collection,
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Version:    r.Version,
		Data:       json.RawMessage(append([]byte(nil), r.Data...)),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}
