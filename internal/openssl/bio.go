package openssl

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/openssl/handle"
)

// BIO is one node of a native byte-stream chain.
//
// A freshly constructed BIO owns its native stream. Push links another node downstream
// and moves that node's ownership to this one, the head. Closing the head releases every
// node it owns, last linked first, then itself. Closing a node that was linked downstream
// does nothing; using it after its head was closed fails with ErrClosed.
type BIO struct {
	rt   *Runtime
	kind native.StreamKind

	// owned is nil once the node was linked downstream of a head.
	owned *handle.Owned
	ref   handle.Ref

	head  *BIO
	links []*handle.Owned
	chain []*BIO

	released bool
	digest   *digestState
}

var (
	_ io.Reader       = (*BIO)(nil)
	_ io.Writer       = (*BIO)(nil)
	_ io.StringWriter = (*BIO)(nil)
	_ io.ByteWriter   = (*BIO)(nil)
	_ io.Closer       = (*BIO)(nil)
)

func (rt *Runtime) newBIO(p native.Ptr, kind native.StreamKind) *BIO {
	owned := handle.Own(p, rt.releaseBIO)
	rt.logger.Debug("allocated ", kind, " BIO at ", p)
	return &BIO{rt: rt, kind: kind, owned: owned, ref: owned}
}

func (rt *Runtime) releaseBIO(p native.Ptr) {
	rt.lib.BIOFree(p)
}

// NewMemBuf creates a read-only memory stream over a copy of data.
func (rt *Runtime) NewMemBuf(data []byte) (*BIO, error) {
	unpin := rt.pin()
	defer unpin()

	p := rt.lib.BIONewMemBuf(data)
	if p.IsNull() {
		return nil, rt.fail("BIO_new_mem_buf", ErrAllocation, "buffer of %d bytes", len(data))
	}
	return rt.newBIO(p, native.StreamMemBuf), nil
}

// NewMemBufString creates a read-only memory stream over the ASCII encoding of s.
func (rt *Runtime) NewMemBufString(s string) (*BIO, error) {
	return rt.NewMemBuf([]byte(asciiString(s)))
}

// NewMemory creates a growable memory stream. Reading it while empty reports end of
// stream rather than a retryable failure.
func (rt *Runtime) NewMemory() (*BIO, error) {
	unpin := rt.pin()
	defer unpin()

	p := rt.lib.BIONew(native.StreamMemory)
	if p.IsNull() {
		return nil, rt.fail("BIO_new", ErrAllocation, "%s", native.StreamMemory)
	}
	if rt.lib.BIOSetMemEOFReturn(p, 0) != 1 {
		err := rt.fail("BIO_set_mem_eof_return", ErrOperation, "memory BIO at %s", p)
		rt.lib.BIOFree(p)
		return nil, err
	}
	return rt.newBIO(p, native.StreamMemory), nil
}

// OpenFile opens a file stream with an fopen mode string such as "r", "wb" or "a+".
func (rt *Runtime) OpenFile(path, mode string) (*BIO, error) {
	unpin := rt.pin()
	defer unpin()

	p := rt.lib.BIONewFile(path, mode)
	if p.IsNull() {
		return nil, rt.fail("BIO_new_file", ErrOpen, "%s (mode %q)", path, mode)
	}
	return rt.newBIO(p, native.StreamFile), nil
}

// Kind returns the native stream method of b.
func (b *BIO) Kind() native.StreamKind {
	return b.kind
}

// Handle exposes the native stream pointer.
func (b *BIO) Handle() native.Ptr {
	if b.released {
		return native.Null
	}
	return b.ref.Ptr()
}

// IsOwner reports whether closing b releases native objects.
func (b *BIO) IsOwner() bool {
	return b.ref.IsOwner()
}

// Linked reports whether b was linked downstream of another node.
func (b *BIO) Linked() bool {
	return b.head != nil
}

// Len returns the number of nodes in the chain b heads, b included.
func (b *BIO) Len() int {
	return 1 + len(b.chain)
}

func (b *BIO) ptr(op string) (native.Ptr, error) {
	if b.released {
		return native.Null, closedError(op, b.kind.String()+" BIO")
	}
	return b.ref.Ptr(), nil
}

// Write writes all of p. A native write of any other length fails with ErrIO; partial
// writes are not retried.
func (b *BIO) Write(p []byte) (int, error) {
	bp, err := b.ptr("BIO_write")
	if err != nil {
		return 0, err
	}
	if err := b.digest.beforeWrite(); err != nil {
		return 0, err
	}
	unpin := b.rt.pin(b)
	defer unpin()

	n := b.rt.lib.BIOWrite(bp, p)
	if n != len(p) {
		err := b.rt.fail("BIO_write", ErrIO, "wrote %d of %d bytes", n, len(p))
		return max(n, 0), err
	}
	b.digest.observe(n)
	return n, nil
}

// WriteByte writes a single byte.
func (b *BIO) WriteByte(c byte) error {
	_, err := b.Write([]byte{c})
	return err
}

// WriteUint16 writes v in native byte order.
func (b *BIO) WriteUint16(v uint16) error {
	_, err := b.Write(binary.NativeEndian.AppendUint16(nil, v))
	return err
}

// WriteUint32 writes v in native byte order.
func (b *BIO) WriteUint32(v uint32) error {
	_, err := b.Write(binary.NativeEndian.AppendUint32(nil, v))
	return err
}

// WriteString writes the ASCII encoding of s through the native puts primitive.
// Characters outside ASCII are written as '?'. A NUL byte ends the native string, so
// text containing one fails with ErrIO.
func (b *BIO) WriteString(s string) (int, error) {
	bp, err := b.ptr("BIO_puts")
	if err != nil {
		return 0, err
	}
	if err := b.digest.beforeWrite(); err != nil {
		return 0, err
	}
	unpin := b.rt.pin(b)
	defer unpin()

	text := asciiString(s)
	n := b.rt.lib.BIOPuts(bp, text)
	if n != len(text) {
		err := b.rt.fail("BIO_puts", ErrIO, "wrote %d of %d bytes", n, len(text))
		return max(n, 0), err
	}
	b.digest.observe(n)
	return n, nil
}

// ReadBytes reads up to count bytes. The result is shorter than count near the end of
// the stream and empty at the end of it.
func (b *BIO) ReadBytes(count int) ([]byte, error) {
	bp, err := b.ptr("BIO_read")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &Error{Op: "BIO_read", Kind: ErrIO, Detail: "negative byte count"}
	}
	unpin := b.rt.pin(b)
	defer unpin()

	buf := make([]byte, count)
	n := b.rt.lib.BIORead(bp, buf)
	if n < 0 {
		return nil, b.rt.fail("BIO_read", ErrIO, "read returned %d", n)
	}
	b.digest.observe(n)
	return buf[:n], nil
}

// Read implements io.Reader on top of the native read primitive.
func (b *BIO) Read(p []byte) (int, error) {
	bp, err := b.ptr("BIO_read")
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	unpin := b.rt.pin(b)
	defer unpin()

	n := b.rt.lib.BIORead(bp, p)
	switch {
	case n < 0:
		return 0, b.rt.fail("BIO_read", ErrIO, "read returned %d", n)
	case n == 0:
		return 0, io.EOF
	default:
		b.digest.observe(n)
		return n, nil
	}
}

// ReadString calls the native gets primitive with a buffer of the configured chunk size
// until it returns zero bytes, and returns everything read. For memory and file streams
// that is the rest of the stream, newlines included. The accumulated text is capped at
// the configured maximum; exceeding it fails with ErrLineTooLong.
//
// Digest filters are refused with ErrOperation: their native gets finalizes the digest
// instead of reading through. Use Read, then Digest.
func (b *BIO) ReadString() (string, error) {
	bp, err := b.ptr("BIO_gets")
	if err != nil {
		return "", err
	}
	if b.digest != nil {
		return "", &Error{Op: "BIO_gets", Kind: ErrOperation, Detail: "line reads are not supported on a digest filter"}
	}
	unpin := b.rt.pin(b)
	defer unpin()

	limit := b.rt.settings.MaxLineLength
	buf := make([]byte, b.rt.settings.LineChunkSize)

	var sb strings.Builder
	for {
		n := b.rt.lib.BIOGets(bp, buf)
		if n == 0 {
			break
		}
		if n < 0 {
			return "", b.rt.fail("BIO_gets", ErrIO, "gets returned %d after %d bytes", n, sb.Len())
		}
		if sb.Len()+n > limit {
			return "", &Error{Op: "BIO_gets", Kind: ErrLineTooLong, Detail: "limit is " + itoa(limit) + " bytes"}
		}
		sb.Write(buf[:n])
	}
	return sb.String(), nil
}

// NumberRead returns the cumulative count of bytes read through b.
func (b *BIO) NumberRead() (uint64, error) {
	bp, err := b.ptr("BIO_number_read")
	if err != nil {
		return 0, err
	}
	unpin := b.rt.pin(b)
	defer unpin()

	return b.rt.lib.BIONumberRead(bp), nil
}

// NumberWritten returns the cumulative count of bytes written through b.
func (b *BIO) NumberWritten() (uint64, error) {
	bp, err := b.ptr("BIO_number_written")
	if err != nil {
		return 0, err
	}
	unpin := b.rt.pin(b)
	defer unpin()

	return b.rt.lib.BIONumberWritten(bp), nil
}

// Push links next downstream of b. b must not itself be linked downstream, and next must
// not belong to any chain. Ownership of next, and of any chain next already headed,
// moves to b. Linking is one-way: there is no Pop.
func (b *BIO) Push(next *BIO) error {
	bp, err := b.ptr("BIO_push")
	if err != nil {
		return err
	}
	np, err := next.ptr("BIO_push")
	if err != nil {
		return err
	}
	switch {
	case next == b:
		return &Error{Op: "BIO_push", Kind: ErrLink, Detail: "cannot link a BIO to itself"}
	case b.head != nil:
		return &Error{Op: "BIO_push", Kind: ErrLink, Detail: "cannot push onto a BIO linked downstream of another"}
	case next.head != nil:
		return &Error{Op: "BIO_push", Kind: ErrLink, Detail: "BIO already belongs to a chain"}
	}

	unpin := b.rt.pin(b, next)
	defer unpin()

	if b.rt.lib.BIOPush(bp, np).IsNull() {
		return b.rt.fail("BIO_push", ErrLink, "%s BIO onto %s BIO", next.kind, b.kind)
	}

	// ownership of next and its downstream nodes moves to b
	p := next.owned.Disown()
	next.owned = nil
	next.ref = handle.Borrow(p)
	next.head = b
	b.links = append(b.links, handle.Own(p, b.rt.releaseBIO))
	b.chain = append(b.chain, next)
	for _, n := range next.chain {
		n.head = b
	}
	b.links = append(b.links, next.links...)
	b.chain = append(b.chain, next.chain...)
	next.links, next.chain = nil, nil

	b.rt.logger.Debug("linked ", next.kind, " BIO at ", p, " onto ", b.kind, " BIO at ", bp)
	return nil
}

// Close releases b and every node linked downstream of it, last linked first. On a node
// linked downstream of another it does nothing. Close is idempotent.
func (b *BIO) Close() error {
	if b.owned == nil || b.released {
		return nil
	}
	for i := len(b.links) - 1; i >= 0; i-- {
		_ = b.links[i].Close()
		b.chain[i].released = true
	}
	p := b.owned.Ptr()
	if err := b.owned.Close(); err != nil {
		return err
	}
	b.released = true
	b.rt.logger.Debug("released ", b.kind, " BIO at ", p, " and ", len(b.links), " linked nodes")
	b.links, b.chain = nil, nil
	return nil
}
