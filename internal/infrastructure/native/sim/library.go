package sim

import (
	"sort"
	"sync"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
)

// BackendName identifies this backend in settings and diagnostics.
const BackendName = "sim"

// pointers handed out start here and advance by ptrStride, so they look like heap addresses.
const (
	ptrBase   native.Ptr = 0x7f3a10000000
	ptrStride native.Ptr = 0x40
)

type object interface {
	kindName() string
}

// Library emulates the native toolkit. It is safe for concurrent use.
type Library struct {
	mu      sync.Mutex
	next    native.Ptr
	objects map[native.Ptr]object
	static  map[native.Ptr]bool
	digests map[string]native.Ptr
	errs    []uint64
	faults  map[string]int
}

var _ native.Library = (*Library)(nil)

// New returns an empty emulated library.
func New() *Library {
	return &Library{
		next:    ptrBase,
		objects: make(map[native.Ptr]object),
		static:  make(map[native.Ptr]bool),
		digests: make(map[string]native.Ptr),
		faults:  make(map[string]int),
	}
}

// Name implements native.Library.
func (l *Library) Name() string {
	return BackendName
}

// FailNext makes the next n calls of the named primitive report failure.
func (l *Library) FailNext(op string, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.faults[op] += n
}

// Live returns the number of allocated, non-static objects.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.objects) - len(l.static)
}

// LiveByKind returns the live non-static objects grouped by kind name.
func (l *Library) LiveByKind() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int)
	for p, obj := range l.objects {
		if l.static[p] {
			continue
		}
		out[obj.kindName()]++
	}
	return out
}

// LiveKinds returns the sorted kind names that still have live objects.
func (l *Library) LiveKinds() []string {
	byKind := l.LiveByKind()
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// IsLive reports whether p refers to an allocated object.
func (l *Library) IsLive(p native.Ptr) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.objects[p]
	return ok
}

func (l *Library) allocLocked(obj object) native.Ptr {
	p := l.next
	l.next += ptrStride
	l.objects[p] = obj
	return p
}

func (l *Library) releaseLocked(p native.Ptr) {
	delete(l.objects, p)
}

// faultLocked consumes one injected failure for op.
func (l *Library) faultLocked(op string) bool {
	if l.faults[op] > 0 {
		l.faults[op]--
		return true
	}
	return false
}
