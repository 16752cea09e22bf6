package handle

import (
	"runtime"
	"sync"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
)

// ReleaseFunc is the native destructor for one handle.
type ReleaseFunc func(native.Ptr)

// Ref is the view shared by owned and borrowed handles.
type Ref interface {
	// Ptr exposes the native pointer for native calls.
	Ptr() native.Ptr
	// IsOwner reports whether releasing the object is this reference's job.
	IsOwner() bool
}

// Borrowed references a native object without owning it.
type Borrowed struct {
	ptr native.Ptr
}

// Borrow wraps p as a non-owning reference.
func Borrow(p native.Ptr) Borrowed {
	return Borrowed{ptr: p}
}

// Ptr implements Ref.
func (b Borrowed) Ptr() native.Ptr {
	return b.ptr
}

// IsOwner implements Ref. A borrowed reference never owns.
func (b Borrowed) IsOwner() bool {
	return false
}

// Owned holds a native pointer together with its release function.
type Owned struct {
	mu      sync.Mutex
	ptr     native.Ptr
	release ReleaseFunc
	done    bool
}

// Own takes ownership of p. release runs at most once, on Close, or from a finalizer
// if the handle is dropped without being closed. A null p yields an already released
// handle.
func Own(p native.Ptr, release ReleaseFunc) *Owned {
	o := &Owned{ptr: p, release: release, done: p.IsNull()}
	if !o.done {
		runtime.SetFinalizer(o, (*Owned).finalize)
	}
	return o
}

// Ptr implements Ref. It returns native.Null once the handle was released or disowned.
func (o *Owned) Ptr() native.Ptr {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ptr
}

// IsOwner implements Ref.
func (o *Owned) IsOwner() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.done
}

// Released reports whether the handle no longer owns a native object.
func (o *Owned) Released() bool {
	return !o.IsOwner()
}

// Borrow returns a non-owning reference to the same native object.
func (o *Owned) Borrow() Borrowed {
	return Borrow(o.Ptr())
}

// Disown transfers ownership out of the handle: the release function will not run and
// the caller becomes responsible for the returned pointer. Returns native.Null if the
// handle was already released.
func (o *Owned) Disown() native.Ptr {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.done {
		return native.Null
	}
	p := o.ptr
	o.ptr = native.Null
	o.done = true
	runtime.SetFinalizer(o, nil)
	return p
}

// Close releases the native object. Calling Close more than once is a no-op.
func (o *Owned) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.done {
		return nil
	}
	p := o.ptr
	o.ptr = native.Null
	o.done = true
	runtime.SetFinalizer(o, nil)

	if o.release != nil {
		o.release(p)
	}
	return nil
}

func (o *Owned) finalize() {
	_ = o.Close()
}
