package openssl

import "iter"

// Cursor walks a Stack by index. It holds no handles of its own: every access re-reads
// the count and the element from the native list, so it observes mutations made while
// it is in use. Mutating the stack during a walk may skip or repeat elements.
type Cursor[T Record] struct {
	s     *Stack[T]
	index int
	err   error
}

// Cursor returns a cursor positioned before the first element.
func (s *Stack[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{s: s, index: -1}
}

// Next advances the cursor and reports whether an element exists at the new position.
// It returns false at the end of the stack or when the native count fails; Err tells
// the two apart.
func (c *Cursor[T]) Next() bool {
	if c.err != nil {
		return false
	}
	c.index++
	n, err := c.s.Count()
	if err != nil {
		c.err = err
		return false
	}
	return c.index < n
}

// Index returns the current position, -1 before the first call to Next.
func (c *Cursor[T]) Index() int {
	return c.index
}

// Current returns a borrowed record for the element at the cursor position.
func (c *Cursor[T]) Current() (T, error) {
	var zero T
	n, err := c.s.Count()
	if err != nil {
		return zero, err
	}
	if c.index < 0 || c.index >= n {
		return zero, &Error{Op: "cursor", Kind: ErrIndex, Detail: "cursor is not positioned on an element"}
	}
	return c.s.Get(c.index)
}

// Reset moves the cursor back before the first element.
func (c *Cursor[T]) Reset() {
	c.index = -1
	c.err = nil
}

// Err returns the native failure that stopped Next, if any.
func (c *Cursor[T]) Err() error {
	return c.err
}

// All returns a restartable sequence of the stack's elements as borrowed records. A
// native failure is yielded as the final pair with a zero record.
func (s *Stack[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		c := s.Cursor()
		for c.Next() {
			item, err := c.Current()
			if !yield(item, err) || err != nil {
				return
			}
		}
		if err := c.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
