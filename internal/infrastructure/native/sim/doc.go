// Package sim is an in-process emulation of the native toolkit primitives.
//
// It follows the native conventions closely enough for the managed façade to be
// exercised without linking libcrypto: null and negative sentinels, a queue of pending
// error codes, cumulative stream counters and the quirks of the list primitives (insert
// past the end appends, find compares pointer identity). On top of that it keeps a
// registry of live objects so callers can detect leaked or double-released handles, and
// it can be told to fail the next call of a named primitive.
//
// The error queue is kept per Library instance rather than per OS thread.
package sim
