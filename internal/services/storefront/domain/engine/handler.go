package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/decider"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/replay"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

const tracerName = "github.com/louisbranch/storefront/engine"

var (
	// ErrEventStoreRequired indicates a missing event store.
	ErrEventStoreRequired = errors.New("event store is required")
	// ErrDeciderRequired indicates a decider without Decide or Evolve.
	ErrDeciderRequired = errors.New("decider is required")
	// ErrCodecRequired indicates a missing event codec.
	ErrCodecRequired = errors.New("event codec is required")
	// ErrStreamIDRequired indicates a missing stream id function or a blank id.
	ErrStreamIDRequired = errors.New("stream id is required")
)

// Command is the minimum a handler needs from a command.
type Command interface {
	CommandName() string
}

// EventStore is the subset of storage.EventStore a handler uses.
type EventStore interface {
	storage.StreamReader
	storage.StreamWriter
}

// Handler executes commands for one aggregate type.
type Handler[C Command, E any, S any] struct {
	Store    EventStore
	Decider  decider.Decider[C, E, S]
	Codec    decider.Codec[E]
	StreamID func(C) string
	// Publisher receives recorded events after a successful append. Optional.
	Publisher Publisher
	Now       func() time.Time
	Logger    *logging.Logger
	Tracer    trace.Tracer
	// NewEventID overrides event id generation in tests.
	NewEventID func() (string, error)
}

// Result captures the outcome of a handled command.
type Result[S any] struct {
	// Events are the stored envelopes, empty when the decision was a no-op.
	Events []event.Recorded
	// Version is the stream version after the command.
	Version uint64
	// State is the aggregate state with the new events applied.
	State S
}

// Handle runs cmd to completion: load, decide, append, publish.
//
// Decision errors are returned unchanged and nothing is appended. Publish
// failures are logged only, since the events are already durable.
func (h Handler[C, E, S]) Handle(ctx context.Context, cmd C) (Result[S], error) {
	if err := h.validate(); err != nil {
		return Result[S]{}, err
	}
	streamID := h.StreamID(cmd)
	if streamID == "" {
		return Result[S]{}, ErrStreamIDRequired
	}
	commandName := cmd.CommandName()

	ctx, span := h.tracer().Start(ctx, "engine.Handle", trace.WithAttributes(
		attribute.String("storefront.stream_id", streamID),
		attribute.String("storefront.command", commandName),
	))
	defer span.End()

	result, err := h.handle(ctx, streamID, commandName, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	span.SetAttributes(attribute.Int64("storefront.stream_version", int64(result.Version)))
	return result, nil
}

func (h Handler[C, E, S]) handle(ctx context.Context, streamID, commandName string, cmd C) (Result[S], error) {
	logger := logging.OrNop(h.Logger).With("stream_id", streamID, "command", commandName)

	agg, err := replay.AggregateStream(ctx, h.Store, streamID, h.Decider.InitialState, replay.Evolve(h.Decider.Evolve, h.Codec), replay.Options{})
	if err != nil {
		return Result[S]{}, fmt.Errorf("load %s: %w", streamID, err)
	}

	now := h.Now
	if now == nil {
		now = time.Now
	}
	decided, err := h.Decider.Decide(agg.State, cmd, now)
	if err != nil {
		logger.Debug("command rejected", "version", agg.CurrentVersion, "error", err)
		return Result[S]{}, err
	}
	if len(decided) == 0 {
		return Result[S]{Version: agg.CurrentVersion, State: agg.State}, nil
	}

	pending, err := h.encode(ctx, commandName, decided)
	if err != nil {
		return Result[S]{}, err
	}
	appended, err := h.Store.AppendToStream(ctx, streamID, event.Exact(agg.CurrentVersion), pending)
	if err != nil {
		logger.Debug("append failed", "expected_version", agg.CurrentVersion, "error", err)
		return Result[S]{}, err
	}

	state := decider.Fold(agg.State, h.Decider.Evolve, decided)
	logger.Debug("command handled", "events", len(appended.Events), "version", appended.NextVersion)

	if h.Publisher != nil {
		if err := h.Publisher.Publish(ctx, appended.Events); err != nil {
			logger.Warn("publish events", "error", err)
		}
	}
	return Result[S]{Events: appended.Events, Version: appended.NextVersion, State: state}, nil
}

func (h Handler[C, E, S]) encode(ctx context.Context, commandName string, decided []E) ([]event.Pending, error) {
	newID := h.NewEventID
	if newID == nil {
		newID = id.NewUUID
	}
	correlationID := requestctx.RequestIDFromContext(ctx)

	pending := make([]event.Pending, 0, len(decided))
	for _, evt := range decided {
		envelope, err := h.Codec.Encode(evt)
		if err != nil {
			return nil, fmt.Errorf("encode event: %w", err)
		}
		eventID, err := newID()
		if err != nil {
			return nil, fmt.Errorf("generate event id: %w", err)
		}
		envelope.ID = eventID
		envelope.Metadata = map[string]string{event.MetaCommandType: commandName}
		if correlationID != "" {
			envelope.Metadata[event.MetaCorrelationID] = correlationID
		}
		pending = append(pending, envelope)
	}
	return pending, nil
}

func (h Handler[C, E, S]) validate() error {
	if h.Store == nil {
		return ErrEventStoreRequired
	}
	if h.Decider.Decide == nil || h.Decider.Evolve == nil {
		return ErrDeciderRequired
	}
	if h.Codec == nil {
		return ErrCodecRequired
	}
	if h.StreamID == nil {
		return ErrStreamIDRequired
	}
	return nil
}

func (h Handler[C, E, S]) tracer() trace.Tracer {
	if h.Tracer != nil {
		return h.Tracer
	}
	return otel.Tracer(tracerName)
}
