package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

const eventColumns = `position, event_id, stream_id, stream_version, event_type, data, metadata, recorded_at`

// ReadStream returns up to limit events of streamID after afterVersion.
func (s *Store) ReadStream(ctx context.Context, streamID string, afterVersion uint64, limit int) ([]event.Recorded, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE stream_id = ? AND stream_version > ?
		 ORDER BY stream_version ASC
		 LIMIT ?`,
		strings.TrimSpace(streamID), int64(afterVersion), sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("read stream %s: %w", streamID, err)
	}
	return scanEvents(rows)
}

// ReadAll returns up to limit events after afterPosition in commit order.
func (s *Store) ReadAll(ctx context.Context, afterPosition uint64, limit int) ([]event.Recorded, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE position > ?
		 ORDER BY position ASC
		 LIMIT ?`,
		int64(afterPosition), sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("read all: %w", err)
	}
	return scanEvents(rows)
}

// AppendToStream checks expected against the stream head and inserts events
// in one transaction. The unique (stream_id, stream_version) index turns any
// race the check misses into a conflict.
func (s *Store) AppendToStream(ctx context.Context, streamID string, expected event.ExpectedVersion, events []event.Pending) (result storage.AppendResult, err error) {
	if err := s.ready(ctx); err != nil {
		return storage.AppendResult{}, err
	}
	streamID = strings.TrimSpace(streamID)
	if streamID == "" {
		return storage.AppendResult{}, fmt.Errorf("append: stream id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.AppendResult{}, fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(stream_version), 0) FROM events WHERE stream_id = ?`, streamID,
	).Scan(&current); err != nil {
		return storage.AppendResult{}, fmt.Errorf("read stream head %s: %w", streamID, err)
	}
	if err = event.CheckExpected(streamID, expected, uint64(current)); err != nil {
		return storage.AppendResult{}, err
	}

	result.NextVersion = uint64(current)
	recordedAt := s.now().UTC()
	for _, pending := range events {
		metadata, merr := json.Marshal(metadataOrEmpty(pending.Metadata))
		if merr != nil {
			err = fmt.Errorf("encode metadata: %w", merr)
			return storage.AppendResult{}, err
		}
		result.NextVersion++
		res, ierr := tx.ExecContext(ctx,
			`INSERT INTO events (event_id, stream_id, stream_version, event_type, data, metadata, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			pending.ID, streamID, int64(result.NextVersion), string(pending.Type), string(pending.Data), string(metadata), toNanos(recordedAt),
		)
		if ierr != nil {
			if isUniqueViolation(ierr) {
				err = event.ConflictError(streamID, expected, result.NextVersion-1)
				return storage.AppendResult{}, err
			}
			err = fmt.Errorf("insert event: %w", ierr)
			return storage.AppendResult{}, err
		}
		position, perr := res.LastInsertId()
		if perr != nil {
			err = fmt.Errorf("read event position: %w", perr)
			return storage.AppendResult{}, err
		}
		result.LastPosition = uint64(position)
		result.Events = append(result.Events, event.Recorded{
			ID:             pending.ID,
			StreamID:       streamID,
			Type:           pending.Type,
			Data:           append([]byte(nil), pending.Data...),
			Metadata:       event.CloneMetadata(pending.Metadata),
			StreamVersion:  result.NextVersion,
			GlobalPosition: result.LastPosition,
			RecordedAt:     fromNanos(toNanos(recordedAt)),
		})
	}
	if err = tx.Commit(); err != nil {
		return storage.AppendResult{}, fmt.Errorf("commit append: %w", err)
	}
	return result, nil
}

func scanEvents(rows *sql.Rows) ([]event.Recorded, error) {
	defer rows.Close()
	var out []event.Recorded
	for rows.Next() {
		var (
			rec        event.Recorded
			position   int64
			version    int64
			eventType  string
			data       string
			metadata   string
			recordedAt int64
		)
		if err := rows.Scan(&position, &rec.ID, &rec.StreamID, &version, &eventType, &data, &metadata, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata at %s@%d: %w", rec.StreamID, version, err)
			}
		}
		rec.GlobalPosition = uint64(position)
		rec.StreamVersion = uint64(version)
		rec.Type = event.Type(eventType)
		rec.Data = json.RawMessage(data)
		rec.RecordedAt = fromNanos(recordedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func metadataOrEmpty(md map[string]string) map[string]string {
	if md == nil {
		return map[string]string{}
	}
	return md
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
