package openssl

import (
	"bytes"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
)

// DigestState is the lifecycle of a digest filter's context.
type DigestState int

const (
	// DigestConstructed means no data passed through the filter yet.
	DigestConstructed DigestState = iota
	// DigestAccumulating means data passed through and the sum is still open.
	DigestAccumulating
	// DigestFinalized means the sum was computed. The filter cannot be reset.
	DigestFinalized
)

func (s DigestState) String() string {
	switch s {
	case DigestConstructed:
		return "constructed"
	case DigestAccumulating:
		return "accumulating"
	case DigestFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

type digestState struct {
	md    *MessageDigest
	state DigestState
	sum   []byte
}

// beforeWrite rejects writes once the sum was taken. A nil state belongs to a non-digest node.
func (d *digestState) beforeWrite() error {
	if d == nil || d.state != DigestFinalized {
		return nil
	}
	return &Error{Op: "BIO_write", Kind: ErrIO, Detail: d.md.Name() + " digest already finalized"}
}

func (d *digestState) observe(n int) {
	if d != nil && n > 0 && d.state == DigestConstructed {
		d.state = DigestAccumulating
	}
}

// NewDigestFilter creates a pass-through filter that hashes everything written to or read
// through it with md. Link a sink or source downstream with Push.
func (rt *Runtime) NewDigestFilter(md *MessageDigest) (*BIO, error) {
	if md == nil {
		return nil, &Error{Op: "BIO_set_md", Kind: ErrOperation, Detail: "message digest cannot be nil"}
	}
	unpin := rt.pin()
	defer unpin()

	p := rt.lib.BIONew(native.StreamDigest)
	if p.IsNull() {
		return nil, rt.fail("BIO_new", ErrAllocation, "%s", native.StreamDigest)
	}
	if rt.lib.BIOSetMD(p, md.Handle()) != 1 {
		err := rt.fail("BIO_set_md", ErrOperation, "digest %q", md.Name())
		rt.lib.BIOFree(p)
		return nil, err
	}

	b := rt.newBIO(p, native.StreamDigest)
	b.digest = &digestState{md: md}
	return b, nil
}

// DigestState reports where a digest filter is in its lifecycle.
func (b *BIO) DigestState() (DigestState, error) {
	if b.digest == nil {
		return 0, &Error{Op: "BIO_get_md_ctx", Kind: ErrOperation, Detail: b.kind.String() + " BIO is not a digest filter"}
	}
	return b.digest.state, nil
}

// MessageDigest returns the digest the filter was created with, or nil for other kinds.
func (b *BIO) MessageDigest() *MessageDigest {
	if b.digest == nil {
		return nil
	}
	return b.digest.md
}

// Digest finalizes the filter's context and returns the sum of everything that passed
// through it. Later calls return the same sum; writes after the first call fail with ErrIO.
func (b *BIO) Digest() ([]byte, error) {
	bp, err := b.ptr("EVP_DigestFinal_ex")
	if err != nil {
		return nil, err
	}
	if b.digest == nil {
		return nil, &Error{Op: "EVP_DigestFinal_ex", Kind: ErrOperation, Detail: b.kind.String() + " BIO is not a digest filter"}
	}
	if b.digest.state == DigestFinalized {
		return bytes.Clone(b.digest.sum), nil
	}

	unpin := b.rt.pin(b)
	defer unpin()

	sum := b.rt.lib.BIODigestFinal(bp)
	if sum == nil {
		return nil, b.rt.fail("EVP_DigestFinal_ex", ErrOperation, "%s digest", b.digest.md.Name())
	}
	if len(sum) != b.digest.md.Size() {
		return nil, &Error{Op: "EVP_DigestFinal_ex", Kind: ErrOperation, Detail: "digest length " + itoa(len(sum)) + ", expected " + itoa(b.digest.md.Size())}
	}
	b.digest.sum = sum
	b.digest.state = DigestFinalized
	return bytes.Clone(sum), nil
}
