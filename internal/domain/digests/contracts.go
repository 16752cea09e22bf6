package digests

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned for self tests that are listed but have no vectors.
var ErrNotImplemented = errors.New("not implemented yet")

// DigestService computes digests through native stream chains.
type DigestService interface {
	// DigestBytes hashes data by reading it through a digest filter over a read-only
	// memory stream.
	DigestBytes(ctx context.Context, req *DigestBytesRequest) (*DigestResult, error)

	// DigestFile hashes a file by copying it from a file stream into a digest filter that
	// writes to a memory sink.
	DigestFile(ctx context.Context, req *DigestFileRequest) (*DigestResult, error)
}

// SelfTestService runs the known-answer self tests.
type SelfTestService interface {
	// Names returns every listed self test in sorted order, implemented or not.
	Names() []string

	// Run executes the named self test. It returns ErrNotImplemented for listed tests
	// without vectors, and an error for names that are not listed.
	Run(ctx context.Context, name string) (*SelfTestReport, error)
}

// LeakReporter reports native objects that are still allocated. Only backends that track
// allocations can provide it.
type LeakReporter interface {
	// LiveByKind returns the live native objects grouped by native type name.
	LiveByKind() map[string]int
}
