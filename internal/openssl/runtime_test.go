//go:build unit
// +build unit

package openssl_test

import (
	"testing"

	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/sim"
	"github.com/MGTheTrain/managed-openssl/internal/openssl"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/config"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntime(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	tests := []struct {
		name      string
		settings  *config.StreamSettings
		expectErr bool
	}{
		{"defaults", nil, false},
		{"custom", &config.StreamSettings{LineChunkSize: 16, MaxLineLength: 1024}, false},
		{"chunk too small", &config.StreamSettings{LineChunkSize: 1, MaxLineLength: 1024}, true},
		{"max below chunk", &config.StreamSettings{LineChunkSize: 64, MaxLineLength: 8}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := openssl.NewRuntime(sim.New(), log, tt.settings)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, rt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sim.BackendName, rt.Library().Name())
		})
	}

	_, err := openssl.NewRuntime(nil, log, nil)
	assert.Error(t, err)
	_, err = openssl.NewRuntime(sim.New(), nil, nil)
	assert.Error(t, err)
}
