// Package replay rebuilds aggregate state from a single event stream.
package replay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/decider"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

const defaultPageSize = 200

var (
	// ErrEventStoreRequired indicates a missing event store.
	ErrEventStoreRequired = errors.New("event store is required")
	// ErrApplierRequired indicates a missing apply function.
	ErrApplierRequired = errors.New("applier is required")
	// ErrStreamIDRequired indicates a blank stream id.
	ErrStreamIDRequired = errors.New("stream id is required")
)

// StreamReader lists one stream's events in version order.
type StreamReader interface {
	ReadStream(ctx context.Context, streamID string, afterVersion uint64, limit int) ([]event.Recorded, error)
}

// ApplyFunc folds one recorded event into state.
type ApplyFunc[S any] func(S, event.Recorded) (S, error)

// Options configures a stream replay.
type Options struct {
	// PageSize bounds each ReadStream call. Defaults to 200.
	PageSize int
	// UntilVersion stops the replay after this version when non-zero.
	UntilVersion uint64
}

// Aggregate is the folded state of a stream.
type Aggregate[S any] struct {
	State S
	// CurrentVersion is the version of the last applied event, 0 when the
	// stream is empty.
	CurrentVersion uint64
	// Exists reports whether the stream had at least one event.
	Exists bool
}

// AggregateStream reads streamID page by page and folds every event over
// initial. Versions must be contiguous from 1; a gap fails the replay.
func AggregateStream[S any](ctx context.Context, store StreamReader, streamID string, initial S, apply ApplyFunc[S], options Options) (Aggregate[S], error) {
	if store == nil {
		return Aggregate[S]{}, ErrEventStoreRequired
	}
	if apply == nil {
		return Aggregate[S]{}, ErrApplierRequired
	}
	streamID = strings.TrimSpace(streamID)
	if streamID == "" {
		return Aggregate[S]{}, ErrStreamIDRequired
	}
	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result := Aggregate[S]{State: initial}
	for {
		events, err := store.ReadStream(ctx, streamID, result.CurrentVersion, pageSize)
		if err != nil {
			return result, fmt.Errorf("read stream %s: %w", streamID, err)
		}
		if len(events) == 0 {
			return result, nil
		}
		for _, evt := range events {
			if options.UntilVersion > 0 && evt.StreamVersion > options.UntilVersion {
				return result, nil
			}
			expected := result.CurrentVersion + 1
			if evt.StreamVersion != expected {
				return result, gapError(streamID, expected, evt.StreamVersion)
			}
			next, err := apply(result.State, evt)
			if err != nil {
				return result, err
			}
			result.State = next
			result.CurrentVersion = evt.StreamVersion
			result.Exists = true
		}
		if len(events) < pageSize {
			return result, nil
		}
	}
}

// Evolve adapts a typed evolve function and codec into an ApplyFunc. Events
// the codec does not recognise leave state unchanged.
func Evolve[E, S any](evolve func(S, E) S, codec decider.Codec[E]) ApplyFunc[S] {
	return func(state S, r event.Recorded) (S, error) {
		evt, ok, err := codec.Decode(r)
		if err != nil {
			return state, err
		}
		if !ok {
			return state, nil
		}
		return evolve(state, evt), nil
	}
}

func gapError(streamID string, expected, got uint64) error {
	return apperrors.WithMetadata(apperrors.CodeStreamGap,
		fmt.Sprintf("event sequence gap in %s: expected %d got %d", streamID, expected, got),
		map[string]string{
			"stream_id":        streamID,
			"expected_version": strconv.FormatUint(expected, 10),
			"got_version":      strconv.FormatUint(got, 10),
		})
}
