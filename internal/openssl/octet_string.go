package openssl

import (
	"bytes"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/openssl/handle"
)

// OctetString wraps a native ASN1_OCTET_STRING. It is either owning or borrowed,
// depending on how it was obtained.
type OctetString struct {
	rt  *Runtime
	ref handle.Ref
}

// OctetStrings is the Stack kind for octet strings.
var OctetStrings = Kind[*OctetString]{
	Name: "ASN1_OCTET_STRING",
	Borrow: func(rt *Runtime, ref handle.Borrowed) *OctetString {
		return &OctetString{rt: rt, ref: ref}
	},
	Adopt: func(rt *Runtime, ref *handle.Owned) *OctetString {
		return &OctetString{rt: rt, ref: ref}
	},
	Free: func(lib native.Library, p native.Ptr) {
		lib.OctetStringFree(p)
	},
}

// NewOctetString allocates an owning octet string holding a copy of data.
func (rt *Runtime) NewOctetString(data []byte) (*OctetString, error) {
	unpin := rt.pin()
	defer unpin()

	p := rt.lib.OctetStringNew(data)
	if p.IsNull() {
		return nil, rt.fail("ASN1_OCTET_STRING_new", ErrAllocation, "octet string of %d bytes", len(data))
	}
	return OctetStrings.Adopt(rt, handle.Own(p, rt.lib.OctetStringFree)), nil
}

// Handle implements Record.
func (o *OctetString) Handle() native.Ptr {
	return o.ref.Ptr()
}

// IsOwner reports whether closing o releases the native object.
func (o *OctetString) IsOwner() bool {
	return o.ref.IsOwner()
}

// Bytes returns a copy of the contents.
func (o *OctetString) Bytes() ([]byte, error) {
	p := o.ref.Ptr()
	if p.IsNull() {
		return nil, closedError("ASN1_STRING_get0_data", "octet string")
	}
	unpin := o.rt.pin(o)
	defer unpin()

	data := o.rt.lib.OctetStringData(p)
	if data == nil {
		return nil, o.rt.fail("ASN1_STRING_get0_data", ErrOperation, "octet string at %s", p)
	}
	return data, nil
}

// Equal reports whether both octet strings hold the same bytes.
func (o *OctetString) Equal(other *OctetString) (bool, error) {
	a, err := o.Bytes()
	if err != nil {
		return false, err
	}
	b, err := other.Bytes()
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

// Close releases the native object if o owns it. On a borrowed octet string it does nothing.
func (o *OctetString) Close() error {
	if owned, ok := o.ref.(*handle.Owned); ok {
		return owned.Close()
	}
	return nil
}
