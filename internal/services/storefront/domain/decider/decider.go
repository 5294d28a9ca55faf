// Package decider holds the generic shape shared by every aggregate.
//
// An aggregate is three things: a constant initial state, an evolve function
// that folds one event into state, and a decide function that turns a command
// plus current state into new events or a domain error. Neither function does
// I/O; the engine package owns loading and appending.
package decider

import (
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

// Decider bundles an aggregate's pure functions.
type Decider[C, E, S any] struct {
	// InitialState is the state of a stream that has no events.
	InitialState S
	// Evolve applies one event. Unknown events must return state unchanged.
	Evolve func(S, E) S
	// Decide validates cmd against state and returns the events to append.
	// It must not mutate state. now is the only clock it may read.
	Decide func(state S, cmd C, now func() time.Time) ([]E, error)
}

// Fold replays events over the initial state.
func (d Decider[C, E, S]) Fold(events []E) S {
	return Fold(d.InitialState, d.Evolve, events)
}

// Fold applies evolve to each event in order, starting from initial.
func Fold[S, E any](initial S, evolve func(S, E) S, events []E) S {
	state := initial
	for _, evt := range events {
		state = evolve(state, evt)
	}
	return state
}

// Codec converts between an aggregate's typed events and stored envelopes.
type Codec[E any] interface {
	// Encode produces the envelope for a typed event.
	Encode(E) (event.Pending, error)
	// Decode returns ok=false for event types the aggregate does not know.
	Decode(event.Recorded) (evt E, ok bool, err error)
}

// Timestamp renders now in the RFC 3339 form used in event payloads.
func Timestamp(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(time.RFC3339Nano)
}
