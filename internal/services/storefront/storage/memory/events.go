// Package memory provides process-local storage backends. Everything is
// lost on restart; it backs tests and the memory event store mode.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// EventStore is an in-memory append-only log. A single mutex serializes
// appends, so expected-version checks and writes are atomic.
type EventStore struct {
	mu      sync.RWMutex
	log     []event.Recorded
	streams map[string][]int
	now     func() time.Time
}

// NewEventStore creates an empty event store.
func NewEventStore() *EventStore {
	return &EventStore{streams: make(map[string][]int), now: time.Now}
}

// ReadStream returns up to limit events of streamID after afterVersion.
func (s *EventStore) ReadStream(ctx context.Context, streamID string, afterVersion uint64, limit int) ([]event.Recorded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.streams[strings.TrimSpace(streamID)]
	if afterVersion >= uint64(len(indexes)) {
		return nil, nil
	}
	indexes = indexes[afterVersion:]
	if limit > 0 && len(indexes) > limit {
		indexes = indexes[:limit]
	}
	out := make([]event.Recorded, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, cloneRecorded(s.log[idx]))
	}
	return out, nil
}

// AppendToStream appends events after checking expected against the
// stream's current version.
func (s *EventStore) AppendToStream(ctx context.Context, streamID string, expected event.ExpectedVersion, events []event.Pending) (storage.AppendResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.AppendResult{}, err
	}
	streamID = strings.TrimSpace(streamID)
	if streamID == "" {
		return storage.AppendResult{}, fmt.Errorf("append: stream id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := uint64(len(s.streams[streamID]))
	if err := event.CheckExpected(streamID, expected, current); err != nil {
		return storage.AppendResult{}, err
	}
	result := storage.AppendResult{NextVersion: current, LastPosition: uint64(len(s.log))}
	if len(events) == 0 {
		return result, nil
	}

	recordedAt := s.now().UTC()
	result.Events = make([]event.Recorded, 0, len(events))
	for _, pending := range events {
		result.NextVersion++
		result.LastPosition++
		rec := event.Recorded{
			ID:             pending.ID,
			StreamID:       streamID,
			Type:           pending.Type,
			Data:           append([]byte(nil), pending.Data...),
			Metadata:       event.CloneMetadata(pending.Metadata),
			StreamVersion:  result.NextVersion,
			GlobalPosition: result.LastPosition,
			RecordedAt:     recordedAt,
		}
		s.log = append(s.log, rec)
		s.streams[streamID] = append(s.streams[streamID], len(s.log)-1)
		result.Events = append(result.Events, cloneRecorded(rec))
	}
	return result, nil
}

// ReadAll returns up to limit events after afterPosition in commit order.
func (s *EventStore) ReadAll(ctx context.Context, afterPosition uint64, limit int) ([]event.Recorded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if afterPosition >= uint64(len(s.log)) {
		return nil, nil
	}
	tail := s.log[afterPosition:]
	if limit > 0 && len(tail) > limit {
		tail = tail[:limit]
	}
	out := make([]event.Recorded, 0, len(tail))
	for _, rec := range tail {
		out = append(out, cloneRecorded(rec))
	}
	return out, nil
}

func cloneRecorded(r event.Recorded) event.Recorded {
	r.Data = append([]byte(nil), r.Data...)
	r.Metadata = event.CloneMetadata(r.Metadata)
	return r
}
