package openssl

import (
	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/openssl/handle"
)

// Record is implemented by every element kind a Stack can hold.
type Record interface {
	// Handle exposes the native pointer. Identity, not content, defines equality.
	Handle() native.Ptr
}

// Kind tells a Stack how to rebuild records of type T from raw native pointers.
type Kind[T Record] struct {
	// Name is the native type name, used in diagnostics.
	Name string
	// Borrow wraps a pointer the record must never release.
	Borrow func(rt *Runtime, ref handle.Borrowed) T
	// Adopt wraps a pointer whose ownership moves into the record.
	Adopt func(rt *Runtime, ref *handle.Owned) T
	// Free is the native destructor for this kind.
	Free func(lib native.Library, p native.Ptr)
}

// Stack is a typed view over one native pointer list.
//
// The Stack owns the list container and releases it on Close. It never owns the
// elements: records added to it stay owned by their creators, and records read back
// from it are borrowed. Shift is the one operation that hands ownership to the caller.
type Stack[T Record] struct {
	rt   *Runtime
	kind Kind[T]
	h    *handle.Owned
}

// NewStack allocates an empty native list for records of the given kind.
func NewStack[T Record](rt *Runtime, kind Kind[T]) (*Stack[T], error) {
	unpin := rt.pin()
	defer unpin()

	sk := rt.lib.SkNewNull()
	if sk.IsNull() {
		return nil, rt.fail("sk_new_null", ErrAllocation, "stack of %s", kind.Name)
	}

	lib := rt.lib
	s := &Stack[T]{
		rt:   rt,
		kind: kind,
		h:    handle.Own(sk, lib.SkFree),
	}
	rt.logger.Debug("allocated stack of ", kind.Name, " at ", sk)
	return s, nil
}

// Handle exposes the native list pointer.
func (s *Stack[T]) Handle() native.Ptr {
	return s.h.Ptr()
}

func (s *Stack[T]) ptr(op string) (native.Ptr, error) {
	sk := s.h.Ptr()
	if sk.IsNull() {
		return native.Null, closedError(op, "stack of "+s.kind.Name)
	}
	return sk, nil
}

// Count returns the element count, queried from the native list on every call.
func (s *Stack[T]) Count() (int, error) {
	sk, err := s.ptr("sk_num")
	if err != nil {
		return 0, err
	}
	unpin := s.rt.pin(s)
	defer unpin()

	n := s.rt.lib.SkNum(sk)
	if n < 0 {
		return 0, s.rt.fail("sk_num", ErrCount, "native list reported %d elements", n)
	}
	return n, nil
}

// Get returns a borrowed record for the element at index.
func (s *Stack[T]) Get(index int) (T, error) {
	var zero T
	sk, err := s.ptr("sk_value")
	if err != nil {
		return zero, err
	}
	unpin := s.rt.pin(s)
	defer unpin()

	p := s.rt.lib.SkValue(sk, index)
	if p.IsNull() {
		return zero, s.rt.fail("sk_value", ErrIndex, "no element at index %d", index)
	}
	return s.kind.Borrow(s.rt, handle.Borrow(p)), nil
}

// Set stores item at index through the native insert primitive.
//
// Set does NOT overwrite: the element previously at index and every element after it
// shift one position to the right, and an index outside [0, Count) appends. This is the
// native list's own behavior and is kept as is.
func (s *Stack[T]) Set(index int, item T) error {
	return s.insert("Set", index, item)
}

// Insert inserts item at index, shifting later elements. As in the native list, an
// index outside [0, Count) appends.
func (s *Stack[T]) Insert(index int, item T) error {
	return s.insert("Insert", index, item)
}

func (s *Stack[T]) insert(caller string, index int, item T) error {
	sk, err := s.ptr("sk_insert")
	if err != nil {
		return err
	}
	unpin := s.rt.pin(s, item)
	defer unpin()

	if ret := s.rt.lib.SkInsert(sk, item.Handle(), index); ret <= 0 {
		return s.rt.fail("sk_insert", ErrOperation, "%s at index %d returned %d", caller, index, ret)
	}
	return nil
}

// Add appends item.
func (s *Stack[T]) Add(item T) error {
	sk, err := s.ptr("sk_push")
	if err != nil {
		return err
	}
	unpin := s.rt.pin(s, item)
	defer unpin()

	if ret := s.rt.lib.SkPush(sk, item.Handle()); ret <= 0 {
		return s.rt.fail("sk_push", ErrOperation, "push returned %d", ret)
	}
	return nil
}

// RemoveAt removes the element at index. The removed pointer is not wrapped again:
// ownership stays with whoever owned the record before it was added.
func (s *Stack[T]) RemoveAt(index int) error {
	sk, err := s.ptr("sk_delete")
	if err != nil {
		return err
	}
	unpin := s.rt.pin(s)
	defer unpin()

	if p := s.rt.lib.SkDelete(sk, index); p.IsNull() {
		return s.rt.fail("sk_delete", ErrIndex, "no element at index %d", index)
	}
	return nil
}

// Remove removes the first element whose handle is identical to item's and reports
// whether one was found.
func (s *Stack[T]) Remove(item T) (bool, error) {
	sk, err := s.ptr("sk_delete_ptr")
	if err != nil {
		return false, err
	}
	unpin := s.rt.pin(s, item)
	defer unpin()

	return !s.rt.lib.SkDeletePtr(sk, item.Handle()).IsNull(), nil
}

// IndexOf returns the position of the first element identical to item, or -1.
func (s *Stack[T]) IndexOf(item T) (int, error) {
	sk, err := s.ptr("sk_find")
	if err != nil {
		return -1, err
	}
	unpin := s.rt.pin(s, item)
	defer unpin()

	return s.rt.lib.SkFind(sk, item.Handle()), nil
}

// Contains reports whether an element with item's handle is present. It walks the
// stack through a Cursor and never uses the native find primitive.
func (s *Stack[T]) Contains(item T) (bool, error) {
	want := item.Handle()
	c := s.Cursor()
	for c.Next() {
		elem, err := c.Current()
		if err != nil {
			return false, err
		}
		if elem.Handle() == want {
			return true, nil
		}
	}
	return false, c.Err()
}

// Shift removes the first element and returns it as an owning record: closing the
// returned record releases the native object.
func (s *Stack[T]) Shift() (T, error) {
	var zero T
	sk, err := s.ptr("sk_shift")
	if err != nil {
		return zero, err
	}
	unpin := s.rt.pin(s)
	defer unpin()

	p := s.rt.lib.SkShift(sk)
	if p.IsNull() {
		return zero, s.rt.fail("sk_shift", ErrIndex, "stack of %s is empty", s.kind.Name)
	}

	lib, free := s.rt.lib, s.kind.Free
	owned := handle.Own(p, func(p native.Ptr) { free(lib, p) })
	return s.kind.Adopt(s.rt, owned), nil
}

// Clear empties the native list without releasing the elements.
func (s *Stack[T]) Clear() error {
	sk, err := s.ptr("sk_zero")
	if err != nil {
		return err
	}
	unpin := s.rt.pin(s)
	defer unpin()

	s.rt.lib.SkZero(sk)
	return nil
}

// Close releases the native list container. Elements are never released. Close is
// idempotent.
func (s *Stack[T]) Close() error {
	if s.h.Released() {
		return nil
	}
	sk := s.h.Ptr()
	if err := s.h.Close(); err != nil {
		return err
	}
	s.rt.logger.Debug("released stack of ", s.kind.Name, " at ", sk)
	return nil
}
