package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// GetDocument returns storage.ErrNotFound for unknown ids.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (storage.Document, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Document{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT collection, id, customer_id, version, data, updated_at
		 FROM documents WHERE collection = ? AND id = ?`,
		collection, strings.TrimSpace(id),
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Document{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	return doc, nil
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
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO documents (collection, id, customer_id, version, data, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET
		   customer_id = excluded.customer_id,
		   version = excluded.version,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		doc.Collection, doc.ID, doc.CustomerID, int64(doc.Version), string(doc.Data), toNanos(doc.UpdatedAt),
	)
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
	query := `SELECT collection, id, customer_id, version, data, updated_at
		 FROM documents WHERE collection = ?`
	args := []any{collection}
	if filter.CustomerID != "" {
		query += ` AND customer_id = ?`
		args = append(args, filter.CustomerID)
	}
	query += ` ORDER BY updated_at DESC, id ASC LIMIT ?`
	args = append(args, sqlLimit(filter.Limit))

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents %s: %w", collection, err)
	}
	defer rows.Close()

	var out []storage.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// ClearCollection deletes every document in collection.
func (s *Store) ClearCollection(ctx context.Context, collection string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clear collection %s: %w", collection, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (storage.Document, error) {
	var (
		doc       storage.Document
		version   int64
		data      string
		updatedAt int64
	)
	if err := row.Scan(&doc.Collection, &doc.ID, &doc.CustomerID, &version, &data, &updatedAt); err != nil {
		return storage.Document{}, err
	}
	doc.Version = uint64(version)
	doc.Data = json.RawMessage(data)
	doc.UpdatedAt = fromNanos(updatedAt)
	return doc, nil
}
