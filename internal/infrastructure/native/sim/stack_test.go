//go:build unit
// +build unit

package sim

import (
	"testing"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newList(t *testing.T, lib *Library, items ...native.Ptr) native.Ptr {
	t.Helper()

	sk := lib.SkNewNull()
	require.False(t, sk.IsNull())
	for _, p := range items {
		require.Positive(t, lib.SkPush(sk, p))
	}
	return sk
}

func TestSkInsert(t *testing.T) {
	const a, b, c, x native.Ptr = 0xa0, 0xb0, 0xc0, 0xf0

	tests := []struct {
		name  string
		where int
		want  []native.Ptr
	}{
		{"front", 0, []native.Ptr{x, a, b, c}},
		{"middle", 1, []native.Ptr{a, x, b, c}},
		{"last index shifts last element", 2, []native.Ptr{a, b, x, c}},
		{"past end appends", 3, []native.Ptr{a, b, c, x}},
		{"far past end appends", 99, []native.Ptr{a, b, c, x}},
		{"negative appends", -1, []native.Ptr{a, b, c, x}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := New()
			sk := newList(t, lib, a, b, c)

			assert.Equal(t, 4, lib.SkInsert(sk, x, tt.where))
			for i, want := range tt.want {
				assert.Equal(t, want, lib.SkValue(sk, i))
			}
		})
	}
}

func TestSkSentinels(t *testing.T) {
	const a, b native.Ptr = 0xa0, 0xb0
	lib := New()
	sk := newList(t, lib, a, b)

	assert.Equal(t, native.Null, lib.SkValue(sk, 2))
	assert.Equal(t, native.Null, lib.SkValue(sk, -1))
	assert.Equal(t, native.Null, lib.SkDelete(sk, 5))
	assert.Equal(t, -1, lib.SkFind(sk, 0xdead))
	assert.Equal(t, native.Null, lib.SkDeletePtr(sk, 0xdead))

	assert.Equal(t, 1, lib.SkFind(sk, b))
	assert.Equal(t, b, lib.SkDeletePtr(sk, b))
	assert.Equal(t, a, lib.SkShift(sk))
	assert.Equal(t, native.Null, lib.SkShift(sk))
	assert.Equal(t, 0, lib.SkNum(sk))
}

func TestSkZeroKeepsElements(t *testing.T) {
	lib := New()
	o := lib.OctetStringNew([]byte("x"))
	sk := newList(t, lib, o)

	lib.SkZero(sk)
	assert.Equal(t, 0, lib.SkNum(sk))
	assert.True(t, lib.IsLive(o))

	lib.SkFree(sk)
	assert.False(t, lib.IsLive(sk))
	assert.True(t, lib.IsLive(o))
	lib.OctetStringFree(o)
	assert.Zero(t, lib.Live())
}

func TestSkInvalidList(t *testing.T) {
	lib := New()
	o := lib.OctetStringNew(nil)

	assert.Equal(t, -1, lib.SkNum(native.Null))
	assert.Equal(t, -1, lib.SkNum(0x1234))
	assert.Equal(t, -1, lib.SkNum(o))
	assert.Equal(t, 0, lib.SkPush(o, 0xa0))
	assert.Equal(t, 4, lib.Pending())

	lib.SkFree(native.Null)
	assert.Equal(t, 4, lib.Pending())
}

func TestSkFaults(t *testing.T) {
	lib := New()

	lib.FailNext(OpSkNewNull, 1)
	assert.Equal(t, native.Null, lib.SkNewNull())
	assert.Equal(t, 1, lib.Pending())

	sk := newList(t, lib)
	lib.FailNext(OpSkPush, 1)
	assert.Equal(t, 0, lib.SkPush(sk, 0xa0))
	lib.FailNext(OpSkInsert, 1)
	assert.Equal(t, 0, lib.SkInsert(sk, 0xa0, 0))
	lib.FailNext(OpSkNum, 1)
	assert.Equal(t, -1, lib.SkNum(sk))
	assert.Equal(t, 0, lib.SkNum(sk))
}
