package openssl

import (
	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/openssl/handle"
)

// MessageDigest is a static native digest descriptor. It is never released.
type MessageDigest struct {
	ref  handle.Borrowed
	name string
	size int
}

// DigestByName looks up a digest by its native name, e.g. "sha256".
func (rt *Runtime) DigestByName(name string) (*MessageDigest, error) {
	unpin := rt.pin()
	defer unpin()

	md := rt.lib.DigestByName(name)
	if md.IsNull() {
		return nil, rt.fail("EVP_get_digestbyname", ErrUnknownDigest, "%q", name)
	}
	size := rt.lib.DigestSize(md)
	if size <= 0 {
		return nil, rt.fail("EVP_MD_get_size", ErrOperation, "digest %q reported size %d", name, size)
	}
	return &MessageDigest{ref: handle.Borrow(md), name: name, size: size}, nil
}

// Handle implements Record.
func (md *MessageDigest) Handle() native.Ptr {
	return md.ref.Ptr()
}

// Name returns the name the digest was looked up by.
func (md *MessageDigest) Name() string {
	return md.name
}

// Size returns the digest output length in bytes.
func (md *MessageDigest) Size() int {
	return md.size
}
