// Package messaging defines the wire form of events published outside the
// process. Broker adapters live in subpackages.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

// Envelope is the JSON body of a published event.
type Envelope struct {
	ID             string            `json:"id"`
	StreamID       string            `json:"stream_id"`
	Type           string            `json:"type"`
	StreamVersion  uint64            `json:"stream_version"`
	GlobalPosition uint64            `json:"global_position"`
	RecordedAt     string            `json:"recorded_at"`
	Data           json.RawMessage   `json:"data"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Marshal renders a recorded event as an envelope.
func Marshal(rec event.Recorded) ([]byte, error) {
	data := rec.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	return json.Marshal(Envelope{
		ID:             rec.ID,
		StreamID:       rec.StreamID,
		Type:           string(rec.Type),
		StreamVersion:  rec.StreamVersion,
		GlobalPosition: rec.GlobalPosition,
		RecordedAt:     rec.RecordedAt.UTC().Format(time.RFC3339Nano),
		Data:           data,
		Metadata:       rec.Metadata,
	})
}

// Unmarshal parses an envelope back into a recorded event.
func Unmarshal(raw []byte) (event.Recorded, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return event.Recorded{}, fmt.Errorf("decode envelope: %w", err)
	}
	recordedAt, err := time.Parse(time.RFC3339Nano, env.RecordedAt)
	if err != nil {
		return event.Recorded{}, fmt.Errorf("decode envelope recorded_at: %w", err)
	}
	return event.Recorded{
		ID:             env.ID,
		StreamID:       env.StreamID,
		Type:           event.Type(env.Type),
		Data:           env.Data,
		Metadata:       env.Metadata,
		StreamVersion:  env.StreamVersion,
		GlobalPosition: env.GlobalPosition,
		RecordedAt:     recordedAt,
	}, nil
}
