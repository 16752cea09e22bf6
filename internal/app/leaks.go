package app

import (
	"github.com/MGTheTrain/managed-openssl/internal/domain/digests"
	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
)

// LiveObjects returns the native objects lib still holds, grouped by type. ok is false
// when the backend does not track allocations.
func LiveObjects(lib native.Library) (live map[string]int, ok bool) {
	reporter, ok := lib.(digests.LeakReporter)
	if !ok {
		return nil, false
	}
	return reporter.LiveByKind(), true
}
