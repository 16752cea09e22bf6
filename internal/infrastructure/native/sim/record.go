package sim

import (
	"bytes"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
)

type octetString struct {
	data []byte
}

func (*octetString) kindName() string { return "ASN1_OCTET_STRING" }

// OctetStringNew implements native.RecordPrimitives.
func (l *Library) OctetStringNew(data []byte) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpOctetStringNew) {
		l.raiseLocked(libASN1, reasonMallocFailure)
		return native.Null
	}
	return l.allocLocked(&octetString{data: bytes.Clone(data)})
}

// OctetStringData implements native.RecordPrimitives.
func (l *Library) OctetStringData(p native.Ptr) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.octetStringLocked(p)
	if s == nil {
		return nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// OctetStringFree implements native.RecordPrimitives.
func (l *Library) OctetStringFree(p native.Ptr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p.IsNull() {
		return
	}
	if s := l.octetStringLocked(p); s != nil {
		l.releaseLocked(p)
	}
}

func (l *Library) octetStringLocked(p native.Ptr) *octetString {
	obj, ok := l.objects[p]
	if !ok {
		l.raiseLocked(libASN1, reasonInvalidHandle)
		return nil
	}
	s, ok := obj.(*octetString)
	if !ok {
		l.raiseLocked(libASN1, reasonWrongObjectType)
		return nil
	}
	return s
}
