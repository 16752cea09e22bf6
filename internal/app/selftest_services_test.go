//go:build unit
// +build unit

package app

import (
	"context"
	"encoding/hex"
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/MGTheTrain/managed-openssl/internal/domain/digests"
	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/sim"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupSelfTestService(t *testing.T) (digests.SelfTestService, *sim.Library, string) {
	t.Helper()

	rt, lib := testutil.SetupSimRuntime(t, nil)
	log := testutil.SetupTestLogger(t)
	digestService, err := NewDigestService(rt, log)
	require.NoError(t, err)

	dir := t.TempDir()
	svc, err := NewSelfTestService(rt, digestService, log, dir)
	require.NoError(t, err)
	return svc, lib, dir
}

func TestSelfTestNames(t *testing.T) {
	svc, _, _ := setupSelfTestService(t)

	names := svc.Names()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Len(t, names, len(implementedSelfTests)+len(pendingSelfTests))
	assert.Contains(t, names, "sha256")
	assert.Contains(t, names, "rsa")
}

func TestSelfTestRun(t *testing.T) {
	for _, test := range implementedSelfTests {
		t.Run(test.Name, func(t *testing.T) {
			svc, lib, dir := setupSelfTestService(t)

			report, err := svc.Run(context.Background(), test.Name)
			require.NoError(t, err)
			assert.True(t, report.Passed(), "%+v", report.Cases)
			assert.Len(t, report.Cases, 2*len(test.Vectors))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "scratch files are removed")
			testutil.RequireNoLeaks(t, lib)
		})
	}
}

func TestSelfTestNotImplemented(t *testing.T) {
	svc, _, _ := setupSelfTestService(t)

	_, err := svc.Run(context.Background(), "bf")
	assert.ErrorIs(t, err, digests.ErrNotImplemented)

	_, err = svc.Run(context.Background(), "nope")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, digests.ErrNotImplemented)
}

func TestSelfTestAllocationFailure(t *testing.T) {
	svc, lib, _ := setupSelfTestService(t)

	lib.FailNext(sim.OpOctetStringNew, 1)
	_, err := svc.Run(context.Background(), "md5")
	assert.Error(t, err)
	testutil.RequireNoLeaks(t, lib)
}

func md5SelfTest(t *testing.T) digests.SelfTest {
	t.Helper()
	for _, test := range implementedSelfTests {
		if test.Name == "md5" {
			return test
		}
	}
	t.Fatal("md5 self test missing")
	return digests.SelfTest{}
}

func TestSelfTestReportsWrongSum(t *testing.T) {
	rt, lib := testutil.SetupSimRuntime(t, nil)
	mockDigests := new(MockDigestService)
	svc, err := NewSelfTestService(rt, mockDigests, testutil.SetupTestLogger(t), t.TempDir())
	require.NoError(t, err)

	wrong := &digests.DigestResult{Algorithm: "md5", Sum: make([]byte, 16)}
	isMD5 := func(algorithm string) bool { return algorithm == "md5" }
	mockDigests.On("DigestBytes", mock.Anything, mock.MatchedBy(func(r *digests.DigestBytesRequest) bool { return isMD5(r.Algorithm) })).Return(wrong, nil)
	mockDigests.On("DigestFile", mock.Anything, mock.MatchedBy(func(r *digests.DigestFileRequest) bool { return isMD5(r.Algorithm) })).Return(wrong, nil)

	report, err := svc.Run(context.Background(), "md5")
	require.NoError(t, err)

	vectors := len(md5SelfTest(t).Vectors)
	assert.False(t, report.Passed())
	assert.Equal(t, 2*vectors, report.Failed())
	for _, c := range report.Cases {
		assert.Equal(t, "00000000000000000000000000000000", c.Got)
		assert.NotEqual(t, c.Got, c.Want)
	}
	mockDigests.AssertNumberOfCalls(t, "DigestBytes", vectors)
	mockDigests.AssertNumberOfCalls(t, "DigestFile", vectors)
	testutil.RequireNoLeaks(t, lib)
}

func TestSelfTestDigestFailure(t *testing.T) {
	rt, lib := testutil.SetupSimRuntime(t, nil)
	mockDigests := new(MockDigestService)
	dir := t.TempDir()
	svc, err := NewSelfTestService(rt, mockDigests, testutil.SetupTestLogger(t), dir)
	require.NoError(t, err)

	sum := md5SelfTest(t).Vectors[0].Expected
	right, err := hex.DecodeString(sum)
	require.NoError(t, err)
	mockDigests.On("DigestBytes", mock.Anything, mock.Anything).Return(&digests.DigestResult{Algorithm: "md5", Sum: right}, nil)
	mockDigests.On("DigestFile", mock.Anything, mock.Anything).Return(nil, errors.New("disk gone"))

	_, err = svc.Run(context.Background(), "md5")
	assert.ErrorContains(t, err, "disk gone")
	assert.ErrorContains(t, err, PathFile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch file removed after a failed digest")
	mockDigests.AssertExpectations(t)
	testutil.RequireNoLeaks(t, lib)
}
