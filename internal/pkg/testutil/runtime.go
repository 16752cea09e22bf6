package testutil

import (
	"testing"

	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/sim"
	"github.com/MGTheTrain/managed-openssl/internal/openssl"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/config"
	"github.com/stretchr/testify/require"
)

// SetupSimRuntime creates a façade runtime over a fresh emulated library. The returned
// library exposes the live-object registry and fault injection. A nil settings value
// selects the stream defaults.
func SetupSimRuntime(t *testing.T, settings *config.StreamSettings) (*openssl.Runtime, *sim.Library) {
	t.Helper()

	lib := sim.New()
	rt, err := openssl.NewRuntime(lib, SetupTestLogger(t), settings)
	require.NoError(t, err)

	return rt, lib
}

// RequireNoLeaks fails the test if lib still holds live objects.
func RequireNoLeaks(t *testing.T, lib *sim.Library) {
	t.Helper()
	require.Zero(t, lib.Live(), "live native objects: %v", lib.LiveByKind())
}
