//go:build unit
// +build unit

package sim

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBufIsReadOnly(t *testing.T) {
	lib := New()
	b := lib.BIONewMemBuf([]byte("hello"))
	require.False(t, b.IsNull())

	assert.Equal(t, -1, lib.BIOWrite(b, []byte("x")))
	assert.Equal(t, 1, lib.Pending())

	buf := make([]byte, 3)
	assert.Equal(t, 3, lib.BIORead(b, buf))
	assert.Equal(t, "hel", string(buf))
	assert.Equal(t, 2, lib.BIORead(b, buf))
	assert.Equal(t, 0, lib.BIORead(b, buf))
	assert.Equal(t, uint64(5), lib.BIONumberRead(b))

	assert.Equal(t, 1, lib.BIOFree(b))
	assert.Zero(t, lib.Live())
}

func TestMemoryEOFReturn(t *testing.T) {
	lib := New()
	b := lib.BIONew(native.StreamMemory)
	buf := make([]byte, 4)

	assert.Equal(t, -1, lib.BIORead(b, buf))

	require.Equal(t, 1, lib.BIOSetMemEOFReturn(b, 0))
	assert.Equal(t, 0, lib.BIORead(b, buf))

	assert.Equal(t, 2, lib.BIOWrite(b, []byte("ok")))
	assert.Equal(t, 2, lib.BIORead(b, buf))
	assert.Equal(t, uint64(2), lib.BIONumberWritten(b))
}

func TestGets(t *testing.T) {
	lib := New()
	b := lib.BIONewMemBuf([]byte("one\ntwo"))

	buf := make([]byte, 3)
	assert.Equal(t, 2, lib.BIOGets(b, buf))
	assert.Equal(t, []byte{'o', 'n', 0}, buf)

	buf = make([]byte, 16)
	assert.Equal(t, 2, lib.BIOGets(b, buf))
	assert.Equal(t, "e\n", string(buf[:2]))
	assert.Equal(t, 3, lib.BIOGets(b, buf))
	assert.Equal(t, 0, lib.BIOGets(b, buf))

	assert.Equal(t, 0, lib.BIOGets(b, nil))
}

func TestPutsStopsAtNUL(t *testing.T) {
	lib := New()
	b := lib.BIONew(native.StreamMemory)

	assert.Equal(t, 2, lib.BIOPuts(b, "ab\x00cd"))
	buf := make([]byte, 8)
	assert.Equal(t, 2, lib.BIORead(b, buf))
}

func TestFileStream(t *testing.T) {
	lib := New()
	path := filepath.Join(t.TempDir(), "stream.txt")

	w := lib.BIONewFile(path, "wb")
	require.False(t, w.IsNull())
	assert.Equal(t, 6, lib.BIOPuts(w, "line1\n"))
	assert.Equal(t, 1, lib.BIOFree(w))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line1\n", string(data))

	r := lib.BIONewFile(path, "r")
	buf := make([]byte, 64)
	assert.Equal(t, 6, lib.BIOGets(r, buf))
	assert.Equal(t, 0, lib.BIORead(r, buf))
	lib.BIOFree(r)

	assert.Equal(t, native.Null, lib.BIONewFile(filepath.Join(t.TempDir(), "missing"), "r"))
	assert.Equal(t, native.Null, lib.BIONewFile(path, "z"))
	assert.Zero(t, lib.Live())
}

func TestDigestFilter(t *testing.T) {
	lib := New()
	md := lib.DigestByName("SHA-256")
	require.False(t, md.IsNull())
	assert.Equal(t, 32, lib.DigestSize(md))

	f := lib.BIONew(native.StreamDigest)
	buf := []byte("abc")
	assert.Equal(t, -1, lib.BIOWrite(f, buf), "no digest set")

	require.Equal(t, 1, lib.BIOSetMD(f, md))
	assert.Equal(t, 0, lib.BIOWrite(f, buf), "no downstream sink")

	sink := lib.BIONew(native.StreamMemory)
	require.Equal(t, f, lib.BIOPush(f, sink))
	assert.Equal(t, 3, lib.BIOWrite(f, buf))

	sum := lib.BIODigestFinal(f)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(sum))
	assert.Nil(t, lib.BIODigestFinal(f))
	assert.Equal(t, -1, lib.BIOWrite(f, buf))

	assert.Equal(t, 3, lib.BIORead(sink, make([]byte, 8)))
	assert.Nil(t, lib.BIODigestFinal(sink))
}

func TestDigestFilterLineIO(t *testing.T) {
	lib := New()
	md := lib.DigestByName("sha256")
	f := lib.BIONew(native.StreamDigest)
	require.Equal(t, 1, lib.BIOSetMD(f, md))
	sink := lib.BIONew(native.StreamMemory)
	require.Equal(t, f, lib.BIOPush(f, sink))

	assert.Equal(t, -2, lib.BIOPuts(f, "abc"), "md filter has no puts method")
	code := lib.ErrGetError()
	assert.Contains(t, lib.ErrErrorString(code), "unsupported method")
	assert.Equal(t, 0, lib.BIORead(sink, make([]byte, 8)), "nothing reached the sink")

	require.Equal(t, 3, lib.BIOWrite(f, []byte("abc")))

	assert.Equal(t, 0, lib.BIOGets(f, make([]byte, 16)), "buffer shorter than the digest")

	buf := make([]byte, 64)
	n := lib.BIOGets(f, buf)
	require.Equal(t, 32, n)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(buf[:n]))
	assert.Equal(t, uint64(0), lib.BIONumberRead(f))

	assert.Equal(t, -1, lib.BIOGets(f, buf), "gets finalized the digest")
	assert.Nil(t, lib.BIODigestFinal(f))
}

func TestPushRejectsCycle(t *testing.T) {
	lib := New()
	a := lib.BIONew(native.StreamDigest)
	b := lib.BIONew(native.StreamDigest)

	require.Equal(t, a, lib.BIOPush(a, b))
	assert.Equal(t, native.Null, lib.BIOPush(b, a))
	assert.Equal(t, native.Null, lib.BIOPush(a, a))

	lib.FailNext(OpBIOPush, 1)
	c := lib.BIONew(native.StreamMemory)
	assert.Equal(t, native.Null, lib.BIOPush(b, c))
	assert.Equal(t, b, lib.BIOPush(b, c))
}

func TestFreeReleasesSingleNode(t *testing.T) {
	lib := New()
	head := lib.BIONew(native.StreamDigest)
	tail := lib.BIONew(native.StreamMemory)
	lib.BIOPush(head, tail)

	assert.Equal(t, 1, lib.BIOFree(head))
	assert.True(t, lib.IsLive(tail))
	assert.Equal(t, 0, lib.BIOFree(head))
	assert.Equal(t, []string{"BIO(memory buffer)"}, lib.LiveKinds())
}
