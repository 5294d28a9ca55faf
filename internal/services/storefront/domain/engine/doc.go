// Package engine runs commands against event-sourced aggregates.
//
// A Handler derives the stream id from a command, folds the stream into
// state, asks the aggregate's decider for new events, and appends them with
// the version it folded as the expected version. A concurrent writer turns
// that append into a CONCURRENCY_CONFLICT, which is returned to the caller
// as-is; the handler never retries.
package engine
