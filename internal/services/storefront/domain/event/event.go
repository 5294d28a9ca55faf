// Package event defines the envelope every aggregate event travels in.
//
// Aggregates encode their typed events into a Pending envelope before append;
// the store assigns stream version, global position and timestamp and returns
// a Recorded envelope. Payloads are JSON built from primitives only, so they
// decode identically after any number of round trips.
package event

import (
	"encoding/json"
	"strings"
	"time"
)

// Type identifies an event payload schema, e.g. "ItemAddedToCart".
type Type string

// Metadata keys written by the command handler.
const (
	MetaCorrelationID = "correlation_id"
	MetaCommandType   = "command_type"
)

// Pending is an event produced by a decision and not yet stored.
type Pending struct {
	// ID is a unique event identifier, generated before append.
	ID string
	// Type selects the payload schema.
	Type Type
	// Data is the JSON payload.
	Data json.RawMessage
	// Metadata carries correlation context; never used for folding.
	Metadata map[string]string
}

// Recorded is an event as read back from the store.
type Recorded struct {
	ID       string
	StreamID string
	Type     Type
	Data     json.RawMessage
	Metadata map[string]string

	// StreamVersion is the 1-based position within the stream.
	StreamVersion uint64
	// GlobalPosition is the 1-based commit order across all streams.
	GlobalPosition uint64
	// RecordedAt is assigned by the store at append time, in UTC.
	RecordedAt time.Time
}

// Category returns the aggregate category of the event's stream.
func (r Recorded) Category() string {
	category, _ := SplitStreamID(r.StreamID)
	return category
}

// Encode marshals a payload into a Pending envelope.
func Encode(t Type, payload any) (Pending, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Pending{}, err
	}
	return Pending{Type: t, Data: data}, nil
}

// Decode unmarshals a recorded payload into T.
func Decode[T any](r Recorded) (T, error) {
	var payload T
	if err := json.Unmarshal(r.Data, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// CloneMetadata returns a copy of md, or nil when md is empty.
func CloneMetadata(md map[string]string) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[strings.TrimSpace(k)] = v
	}
	return out
}
