//go:build unit
// +build unit

package sim

import (
	"encoding/hex"
	"testing"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestKnownAnswers(t *testing.T) {
	tests := []struct {
		name string
		size int
		want string
	}{
		{"md5", 16, "900150983cd24fb0d6963f7d28e17f72"},
		{"sha224", 28, "23097d223405d8228642a477bda255b32aadbce4bda0b3f7e36c9da7"},
		{"sha3-256", 32, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{"rmd160", 20, "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc"},
		{"blake2b512", 64, "ba80a53f981c4d0d6a2797b69f12f6e94c212f14685ac4b74b12bb6fdbffa2d17d87c5392aab792dc252d5de4533cc9518d38aa8dbf1925ab92386edd4009923"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := New()
			md := lib.DigestByName(tt.name)
			require.False(t, md.IsNull())
			assert.Equal(t, tt.size, lib.DigestSize(md))

			f := lib.BIONew(native.StreamDigest)
			require.Equal(t, 1, lib.BIOSetMD(f, md))
			lib.BIOPush(f, lib.BIONewMemBuf([]byte("abc")))

			buf := make([]byte, 16)
			for lib.BIORead(f, buf) > 0 {
			}
			assert.Equal(t, tt.want, hex.EncodeToString(lib.BIODigestFinal(f)))
		})
	}
}

func TestDigestDescriptorsAreStatic(t *testing.T) {
	lib := New()

	md := lib.DigestByName("sha1")
	assert.Equal(t, md, lib.DigestByName("SHA-1"))
	assert.Zero(t, lib.Live())
	assert.True(t, lib.IsLive(md))

	assert.Equal(t, native.Null, lib.DigestByName("sha0"))
	assert.Equal(t, -1, lib.DigestSize(native.Null))
	assert.Contains(t, DigestNames(), "sha512-256")
}
