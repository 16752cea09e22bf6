package native

import "fmt"

// Ptr is an opaque native pointer. The zero value is the null pointer.
type Ptr uintptr

// Null is the native null pointer.
const Null Ptr = 0

// IsNull reports whether p is the null pointer.
func (p Ptr) IsNull() bool {
	return p == Null
}

func (p Ptr) String() string {
	return fmt.Sprintf("0x%x", uintptr(p))
}

// ListPrimitives mirrors the native untyped pointer list (OPENSSL_sk_*).
type ListPrimitives interface {
	// SkNewNull allocates an empty list without comparator. Returns Null on failure.
	SkNewNull() Ptr

	// SkPush appends p and returns the new element count, or 0 on failure.
	SkPush(sk, p Ptr) int

	// SkShift removes and returns the first element, or Null if the list is empty.
	SkShift(sk Ptr) Ptr

	// SkInsert inserts p at where and returns the new element count, or 0 on failure.
	// A position outside [0, num) appends.
	SkInsert(sk, p Ptr, where int) int

	// SkDelete removes and returns the element at where, or Null if out of range.
	SkDelete(sk Ptr, where int) Ptr

	// SkDeletePtr removes the first element identical to p and returns it, or Null.
	SkDeletePtr(sk, p Ptr) Ptr

	// SkFind returns the index of the first element identical to p, or -1.
	SkFind(sk, p Ptr) int

	// SkValue returns the element at i, or Null if i is out of range.
	SkValue(sk Ptr, i int) Ptr

	// SkNum returns the element count, or -1 if sk is not a valid list.
	SkNum(sk Ptr) int

	// SkZero sets the element count to zero without freeing the elements.
	SkZero(sk Ptr)

	// SkFree releases the list container. Elements are not freed.
	SkFree(sk Ptr)
}

// StreamPrimitives mirrors the native BIO API.
type StreamPrimitives interface {
	// BIONew creates a stream of the given method kind. Returns Null on failure.
	BIONew(kind StreamKind) Ptr

	// BIONewMemBuf creates a read-only memory stream over a copy of buf.
	BIONewMemBuf(buf []byte) Ptr

	// BIONewFile opens path with an fopen mode string. Returns Null on failure.
	BIONewFile(path, mode string) Ptr

	// BIOSetMD attaches the digest md to a digest filter. Returns 1 on success.
	BIOSetMD(b, md Ptr) int

	// BIOSetMemEOFReturn sets the value a memory stream reports when empty.
	BIOSetMemEOFReturn(b Ptr, v int) int

	// BIOWrite returns the number of bytes written, 0 or a negative value on failure.
	BIOWrite(b Ptr, buf []byte) int

	// BIORead returns the number of bytes read, 0 at end of stream, negative on failure.
	BIORead(b Ptr, buf []byte) int

	// BIOPuts writes s up to its first NUL byte and returns the length written.
	BIOPuts(b Ptr, s string) int

	// BIOGets reads at most len(buf)-1 bytes, stopping after a newline.
	BIOGets(b Ptr, buf []byte) int

	// BIOPush appends next at the end of b's chain and returns b, or Null.
	BIOPush(b, next Ptr) Ptr

	// BIOFree releases a single stream without touching the rest of its chain.
	BIOFree(b Ptr) int

	// BIONumberRead returns the cumulative number of bytes read through b.
	BIONumberRead(b Ptr) uint64

	// BIONumberWritten returns the cumulative number of bytes written through b.
	BIONumberWritten(b Ptr) uint64

	// BIODigestFinal finalizes the digest context of a digest filter.
	// Returns nil on failure.
	BIODigestFinal(b Ptr) []byte
}

// DigestPrimitives looks up static digest descriptors.
type DigestPrimitives interface {
	// DigestByName returns a static digest descriptor, or Null if unknown.
	DigestByName(name string) Ptr

	// DigestSize returns the output size of md in bytes, or -1.
	DigestSize(md Ptr) int
}

// RecordPrimitives exposes the octet-string record kind.
type RecordPrimitives interface {
	// OctetStringNew allocates an octet string holding a copy of data. Returns Null on failure.
	OctetStringNew(data []byte) Ptr

	// OctetStringData returns a copy of the octet string contents, or nil.
	OctetStringData(p Ptr) []byte

	// OctetStringFree releases the octet string.
	OctetStringFree(p Ptr)
}

// ErrorQueue is the native per-thread queue of pending error codes.
type ErrorQueue interface {
	// ErrGetError removes and returns the oldest pending error code, or 0 if none.
	ErrGetError() uint64

	// ErrErrorString renders a human-readable diagnostic for code.
	ErrErrorString(code uint64) string

	// ErrClearError drops every pending error code.
	ErrClearError()
}

// Library is the full set of primitives the façade consumes.
type Library interface {
	ListPrimitives
	StreamPrimitives
	DigestPrimitives
	RecordPrimitives
	ErrorQueue

	// Name identifies the backend.
	Name() string
}
