package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// appendLockKey serializes appends so global positions become visible in
// commit order.
const appendLockKey = 7_202_604_101

// ReadStream returns up to limit events of streamID after afterVersion.
func (s *Store) ReadStream(ctx context.Context, streamID string, afterVersion uint64, limit int) ([]event.Recorded, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var rows []eventRow
	query := s.db.WithContext(ctx).
		Where("stream_id = ? AND stream_version > ?", strings.TrimSpace(streamID), afterVersion).
		Order("stream_version ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read stream %s: %w", streamID, err)
	}
	return toRecorded(rows)
}

// ReadAll returns up to limit events after afterPosition in commit order.
func (s *Store) ReadAll(ctx context.Context, afterPosition uint64, limit int) ([]event.Recorded, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var rows []eventRow
	query := s.db.WithContext(ctx).Where("position > ?", afterPosition).Order("position ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read all: %w", err)
	}
	return toRecorded(rows)
}

// AppendToStream checks expected against the stream head and inserts events
// in one transaction. A unique violation on (stream_id, stream_version) is
// reported as a concurrency conflict.
func (s *Store) AppendToStream(ctx context.Context, streamID string, expected event.ExpectedVersion, events []event.Pending) (storage.AppendResult, error) {
	if err := s.ready(ctx); err != nil {
		return storage.AppendResult{}, err
	}
	streamID = strings.TrimSpace(streamID)
	if streamID == "" {
		return storage.AppendResult{}, fmt.Errorf("append: stream id is required")
	}

	var result storage.AppendResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", appendLockKey).Error; err != nil {
			return fmt.Errorf("lock event log: %w", err)
		}
		var current uint64
		if err := tx.Model(&eventRow{}).
			Select("COALESCE(MAX(stream_version), 0)").
			Where("stream_id = ?", streamID).
			Scan(&current).Error; err != nil {
			return fmt.Errorf("read stream head %s: %w", streamID, err)
		}
		if err := event.CheckExpected(streamID, expected, current); err != nil {
			return err
		}

		result.NextVersion = current
		if len(events) == 0 {
			return nil
		}
		recordedAt := s.now().UTC().Truncate(time.Microsecond)
		rows := make([]eventRow, 0, len(events))
		for _, pending := range events {
			metadata, err := json.Marshal(metadataOrEmpty(pending.Metadata))
			if err != nil {
				return fmt.Errorf("encode metadata: %w", err)
			}
			result.NextVersion++
			rows = append(rows, eventRow{
				EventID:       pending.ID,
				StreamID:      streamID,
				StreamVersion: result.NextVersion,
				EventType:     string(pending.Type),
				Data:          datatypes.JSON(pending.Data),
				Metadata:      datatypes.JSON(metadata),
				RecordedAt:    recordedAt,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return event.ConflictError(streamID, expected, current)
			}
			return fmt.Errorf("insert events: %w", err)
		}
		recorded, err := toRecorded(rows)
		if err != nil {
			return err
		}
		result.Events = recorded
		result.LastPosition = rows[len(rows)-1].Position
		return nil
	})
	if err != nil {
		return storage.AppendResult{}, err
	}
	return result, nil
}

func toRecorded(rows []eventRow) ([]event.Recorded, error) {
	out := make([]event.Recorded, 0, len(rows))
	for _, row := range rows {
		rec := event.Recorded{
			ID:             row.EventID,
			StreamID:       row.StreamID,
			Type:           event.Type(row.EventType),
			Data:           json.RawMessage(append([]byte(nil), row.Data...)),
			StreamVersion:  row.StreamVersion,
			GlobalPosition: row.Position,
			RecordedAt:     row.RecordedAt.UTC(),
		}
		if len(row.Metadata) > 0 {
			var md map[string]string
			if err := json.Unmarshal(row.Metadata, &md); err != nil {
				return nil, fmt.Errorf("decode metadata at %s@%d: %w", row.StreamID, row.StreamVersion, err)
			}
			rec.Metadata = event.CloneMetadata(md)
		}
		out = append(out, rec)
	}
	return out, nil
}

func metadataOrEmpty(md map[string]string) map[string]string {
	if md == nil {
		return map[string]string{}
	}
	return md
}
