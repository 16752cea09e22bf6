//go:build unit
// +build unit

package openssl_test

import (
	"testing"

	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/sim"
	"github.com/MGTheTrain/managed-openssl/internal/openssl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorIsRestartable(t *testing.T) {
	f := setupStack(t)
	items := f.octets(t, "a", "b")
	for _, o := range items {
		require.NoError(t, f.stack.Add(o))
	}

	c := f.stack.Cursor()
	assert.Equal(t, -1, c.Index())
	_, err := c.Current()
	assert.ErrorIs(t, err, openssl.ErrIndex)

	for pass := 0; pass < 2; pass++ {
		var seen []string
		for c.Next() {
			o, err := c.Current()
			require.NoError(t, err)
			data, err := o.Bytes()
			require.NoError(t, err)
			seen = append(seen, string(data))
		}
		require.NoError(t, c.Err())
		assert.Equal(t, []string{"a", "b"}, seen)
		c.Reset()
	}
}

func TestCursorObservesMutation(t *testing.T) {
	f := setupStack(t)
	items := f.octets(t, "a", "b", "c")
	require.NoError(t, f.stack.Add(items[0]))

	c := f.stack.Cursor()
	require.True(t, c.Next())
	require.NoError(t, f.stack.Add(items[1]))
	require.True(t, c.Next(), "live count, no snapshot")

	got, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, items[1].Handle(), got.Handle())
	assert.False(t, c.Next())
}

func TestAllYieldsNativeFailure(t *testing.T) {
	f := setupStack(t)
	for _, o := range f.octets(t, "a", "b") {
		require.NoError(t, f.stack.Add(o))
	}

	f.lib.FailNext(sim.OpSkNum, 1)
	var errs []error
	for _, err := range f.stack.All() {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], openssl.ErrCount)

	n := 0
	for _, err := range f.stack.All() {
		require.NoError(t, err)
		n++
		if n == 1 {
			break
		}
	}
	assert.Equal(t, 1, n)
}
