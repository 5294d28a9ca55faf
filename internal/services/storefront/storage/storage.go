// Package storage defines the persistence contracts for storefront: an
// append-only event store with optimistic concurrency and a document store
// for read models. Backends live in subpackages.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

// ErrNotFound indicates a missing document.
var ErrNotFound = errors.New("not found")

// StreamReader reads one stream in version order. A stream that does not
// exist reads as empty.
type StreamReader interface {
	ReadStream(ctx context.Context, streamID string, afterVersion uint64, limit int) ([]event.Recorded, error)
}

// StreamWriter appends to one stream atomically. When expected does not match
// the stream's current version it returns a CONCURRENCY_CONFLICT error and
// writes nothing.
type StreamWriter interface {
	AppendToStream(ctx context.Context, streamID string, expected event.ExpectedVersion, events []event.Pending) (AppendResult, error)
}

// LogReader reads the global log in commit order.
type LogReader interface {
	ReadAll(ctx context.Context, afterPosition uint64, limit int) ([]event.Recorded, error)
}

// EventStore is the full event log contract.
type EventStore interface {
	StreamReader
	StreamWriter
	LogReader
}

// AppendResult describes a successful append.
type AppendResult struct {
	// NextVersion is the stream version after the append.
	NextVersion uint64
	// LastPosition is the global position of the last appended event.
	LastPosition uint64
	// Events are the stored envelopes in append order.
	Events []event.Recorded
}

// Document is one read model snapshot.
type Document struct {
	Collection string
	ID         string
	CustomerID string
	// Version is the last stream version folded into Data.
	Version   uint64
	Data      json.RawMessage
	UpdatedAt time.Time
}

// ListFilter narrows a document listing.
type ListFilter struct {
	// CustomerID restricts results to one customer when set.
	CustomerID string
	// Limit caps the number of results; zero means no cap.
	Limit int
}

// DocumentStore persists read models keyed by collection and id, with a
// secondary index on customer id.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	PutDocument(ctx context.Context, doc Document) error
	// ListDocuments orders by UpdatedAt descending, then id ascending.
	ListDocuments(ctx context.Context, collection string, filter ListFilter) ([]Document, error)
	// ClearCollection removes every document in a collection.
	ClearCollection(ctx context.Context, collection string) error
}
