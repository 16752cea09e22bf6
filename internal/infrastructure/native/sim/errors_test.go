//go:build unit
// +build unit

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorQueueOrder(t *testing.T) {
	lib := New()

	lib.BIOWrite(lib.BIONewMemBuf(nil), []byte("x"))
	lib.SkNum(0x1234)

	first := lib.ErrGetError()
	second := lib.ErrGetError()
	assert.Equal(t, packError(libBIO, reasonWriteToReadOnly), first)
	assert.Equal(t, packError(libCrypto, reasonInvalidHandle), second)
	assert.Zero(t, lib.ErrGetError())
}

func TestErrErrorString(t *testing.T) {
	lib := New()

	tests := []struct {
		name string
		code uint64
		want string
	}{
		{"known", packError(libBIO, reasonWriteToReadOnly), "error:10000107:BIO routines::write to read only BIO"},
		{"unknown lib", packError(99, reasonBrokenPipe), "error:31800108:lib(99)::broken pipe"},
		{"unknown reason", packError(libEVP, 7), "error:03000007:digital envelope routines::reason(7)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lib.ErrErrorString(tt.code))
		})
	}
}

func TestErrClearError(t *testing.T) {
	lib := New()
	lib.SkNum(0x1234)
	lib.ErrClearError()
	assert.Zero(t, lib.Pending())
	assert.Zero(t, lib.ErrGetError())
}
