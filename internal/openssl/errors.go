package openssl

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrAllocation is returned when the native allocator returned a null object.
	ErrAllocation = errors.New("native allocation failed")

	// ErrIndex is returned when no element exists at the requested position.
	ErrIndex = errors.New("index out of range")

	// ErrOperation is returned when a mutating native call reported failure.
	ErrOperation = errors.New("native operation failed")

	// ErrCount is returned when the native list reports a negative size.
	// It indicates a corrupted or invalid list and is not recoverable.
	ErrCount = errors.New("native list reported a negative size")

	// ErrOpen is returned when a native stream could not be opened.
	ErrOpen = errors.New("failed to open native stream")

	// ErrIO is returned on a short write, a negative read or a failed gets.
	ErrIO = errors.New("native stream I/O failed")

	// ErrLink is returned when two streams could not be chained.
	ErrLink = errors.New("failed to link native streams")

	// ErrClosed is returned when a released object is used.
	ErrClosed = errors.New("native object already released")

	// ErrUnknownDigest is returned when the native library has no digest by that name.
	ErrUnknownDigest = errors.New("unknown message digest")

	// ErrLineTooLong is returned when ReadString exceeds the configured maximum.
	ErrLineTooLong = fmt.Errorf("%w: accumulated line exceeds maximum length", ErrIO)
)

// Error describes a failed native call.
type Error struct {
	// Op is the native primitive that failed.
	Op string
	// Kind is one of the package sentinels.
	Kind error
	// Detail describes the failure from the façade's side.
	Detail string
	// Code is the oldest native error code queued by the call, or 0.
	Code uint64
	// Reason is the diagnostic text for Code.
	Reason string
	// Queue holds the diagnostic text of every drained native error, oldest first.
	Queue []string
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Reason != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Reason)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the sentinel kind.
func (e *Error) Unwrap() error {
	return e.Kind
}
