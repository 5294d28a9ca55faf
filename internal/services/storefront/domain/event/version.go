package event

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// ExpectedVersion is the append precondition on a stream's current version.
//
// Non-negative values are exact versions; 0 means the stream must not exist.
// The two negative sentinels relax the check.
type ExpectedVersion int64

const (
	// Any skips the version check.
	Any ExpectedVersion = -1
	// StreamExists requires at least one event in the stream.
	StreamExists ExpectedVersion = -2
	// NoStream requires the stream to be empty.
	NoStream ExpectedVersion = 0
)

// Exact requires the stream to be at version v.
func Exact(v uint64) ExpectedVersion {
	return ExpectedVersion(v)
}

func (e ExpectedVersion) String() string {
	switch e {
	case Any:
		return "any"
	case StreamExists:
		return "stream-exists"
	case NoStream:
		return "no-stream"
	default:
		return strconv.FormatInt(int64(e), 10)
	}
}

// CheckExpected returns a concurrency conflict when current does not satisfy
// expected.
func CheckExpected(streamID string, expected ExpectedVersion, current uint64) error {
	switch {
	case expected == Any:
		return nil
	case expected == StreamExists:
		if current > 0 {
			return nil
		}
	case expected >= 0 && uint64(expected) == current:
		return nil
	}
	return ConflictError(streamID, expected, current)
}

// ConflictError builds the concurrency conflict error for a stream.
func ConflictError(streamID string, expected ExpectedVersion, current uint64) error {
	return apperrors.WithMetadata(apperrors.CodeConcurrencyConflict,
		fmt.Sprintf("stream %s changed concurrently: expected version %s, current %d", streamID, expected, current),
		map[string]string{
			"stream_id":        streamID,
			"expected_version": expected.String(),
			"current_version":  strconv.FormatUint(current, 10),
		})
}
