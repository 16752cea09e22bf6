//go:build unit
// +build unit

package openssl_test

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/sim"
	"github.com/MGTheTrain/managed-openssl/internal/openssl"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowLibrary stretches the lookup and counter primitives and records whether a release
// ran while one of them was still using its pointer.
type slowLibrary struct {
	*sim.Library
	delay         time.Duration
	inFlight      atomic.Bool
	freedInFlight atomic.Bool
}

func (l *slowLibrary) slow() func() {
	l.inFlight.Store(true)
	time.Sleep(l.delay)
	return func() { l.inFlight.Store(false) }
}

func (l *slowLibrary) SkFind(sk, p native.Ptr) int {
	done := l.slow()
	defer done()
	return l.Library.SkFind(sk, p)
}

func (l *slowLibrary) BIONumberRead(b native.Ptr) uint64 {
	done := l.slow()
	defer done()
	return l.Library.BIONumberRead(b)
}

func (l *slowLibrary) SkFree(sk native.Ptr) {
	if l.inFlight.Load() {
		l.freedInFlight.Store(true)
	}
	l.Library.SkFree(sk)
}

func (l *slowLibrary) BIOFree(b native.Ptr) int {
	if l.inFlight.Load() {
		l.freedInFlight.Store(true)
	}
	return l.Library.BIOFree(b)
}

//go:noinline
func findInUnreferencedStack(t *testing.T, rt *openssl.Runtime, o *openssl.OctetString) int {
	s, err := openssl.NewStack(rt, openssl.OctetStrings)
	require.NoError(t, err)
	require.NoError(t, s.Add(o))

	idx, err := s.IndexOf(o)
	require.NoError(t, err)
	return idx
}

//go:noinline
func countUnreferencedBIO(t *testing.T, rt *openssl.Runtime) uint64 {
	b, err := rt.NewMemBufString("hello")
	require.NoError(t, err)
	_, err = b.ReadBytes(5)
	require.NoError(t, err)

	n, err := b.NumberRead()
	require.NoError(t, err)
	return n
}

// collectWhile runs the garbage collector in a loop until fn returns.
func collectWhile(fn func()) {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				runtime.GC()
			}
		}
	}()
	fn()
	close(stop)
	<-done
}

func TestNativeCallKeepsReceiverAlive(t *testing.T) {
	tests := []struct {
		name string
		call func(t *testing.T, rt *openssl.Runtime, lib *slowLibrary)
	}{
		{
			name: "stack lookup",
			call: func(t *testing.T, rt *openssl.Runtime, lib *slowLibrary) {
				o, err := rt.NewOctetString([]byte("present"))
				require.NoError(t, err)
				defer o.Close()

				var idx int
				collectWhile(func() { idx = findInUnreferencedStack(t, rt, o) })
				assert.Equal(t, 0, idx)
			},
		},
		{
			name: "stream counter",
			call: func(t *testing.T, rt *openssl.Runtime, lib *slowLibrary) {
				var n uint64
				collectWhile(func() { n = countUnreferencedBIO(t, rt) })
				assert.Equal(t, uint64(5), n)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := &slowLibrary{Library: sim.New(), delay: 200 * time.Millisecond}
			rt, err := openssl.NewRuntime(lib, testutil.SetupTestLogger(t), nil)
			require.NoError(t, err)

			tt.call(t, rt, lib)
			assert.False(t, lib.freedInFlight.Load(), "native object released during a call on it")
		})
	}
}
