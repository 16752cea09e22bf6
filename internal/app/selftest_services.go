package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MGTheTrain/managed-openssl/internal/domain/digests"
	"github.com/MGTheTrain/managed-openssl/internal/openssl"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/logger"
	"github.com/google/uuid"
)

// Stream paths a vector is checked on
const (
	PathMemory = "memory"
	PathFile   = "file"
)

// selfTestService implements the SelfTestService interface
type selfTestService struct {
	rt         *openssl.Runtime
	digests    digests.DigestService
	logger     logger.Logger
	scratchDir string
	tests      map[string]digests.SelfTest
}

// NewSelfTestService creates a new selfTestService instance. Scratch files for the file
// stream path are created in scratchDir, or in the OS temp directory when it is empty.
func NewSelfTestService(rt *openssl.Runtime, digestService digests.DigestService, logger logger.Logger, scratchDir string) (digests.SelfTestService, error) {
	if rt == nil || digestService == nil || logger == nil {
		return nil, fmt.Errorf("runtime, digest service and logger are required")
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	tests := make(map[string]digests.SelfTest, len(implementedSelfTests)+len(pendingSelfTests))
	for _, t := range implementedSelfTests {
		tests[t.Name] = t
	}
	for _, name := range pendingSelfTests {
		tests[name] = digests.SelfTest{Name: name}
	}

	return &selfTestService{
		rt:         rt,
		digests:    digestService,
		logger:     logger.With("service", "selftest"),
		scratchDir: scratchDir,
		tests:      tests,
	}, nil
}

// Names returns every listed self test in sorted order.
func (s *selfTestService) Names() []string {
	names := make([]string, 0, len(s.tests))
	for name := range s.tests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run checks every vector of the named test on the memory path and the file path. The
// expected sums are held as native octet strings in a native list while the test runs.
func (s *selfTestService) Run(ctx context.Context, name string) (*digests.SelfTestReport, error) {
	test, ok := s.tests[name]
	if !ok {
		return nil, fmt.Errorf("unknown self test %q", name)
	}
	if !test.Implemented() {
		return nil, fmt.Errorf("%s: %w", name, digests.ErrNotImplemented)
	}

	expected, release, err := s.expectedSums(test)
	if err != nil {
		return nil, err
	}
	defer release()

	report := &digests.SelfTestReport{Name: name}
	i := 0
	for want, err := range expected.All() {
		if err != nil {
			return nil, fmt.Errorf("failed to read expected sum %d: %w", i, err)
		}
		vector := test.Vectors[i]
		input := strings.Repeat(vector.Input, max(vector.Repeat, 1))

		for _, path := range []string{PathMemory, PathFile} {
			sum, err := s.digest(ctx, path, test.Algorithm, input)
			if err != nil {
				return nil, fmt.Errorf("vector %d on %s path: %w", i, path, err)
			}
			c, err := s.compare(i, path, sum, want)
			if err != nil {
				return nil, err
			}
			report.Cases = append(report.Cases, c)
		}
		i++
	}

	s.logger.Info(fmt.Sprintf("self test %s: %d cases, %d failed", name, len(report.Cases), report.Failed()))
	return report, nil
}

// expectedSums builds the native list of expected sums. release closes the list and the
// octet strings, list first.
func (s *selfTestService) expectedSums(test digests.SelfTest) (*openssl.Stack[*openssl.OctetString], func(), error) {
	var owned []*openssl.OctetString
	closeOwned := func() {
		for _, o := range owned {
			_ = o.Close()
		}
	}

	stack, err := openssl.NewStack(s.rt, openssl.OctetStrings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create expected sum stack: %w", err)
	}
	release := func() {
		_ = stack.Close()
		closeOwned()
	}

	for i, v := range test.Vectors {
		raw, err := hex.DecodeString(v.Expected)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("vector %d has an invalid expected sum: %w", i, err)
		}
		o, err := s.rt.NewOctetString(raw)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("failed to allocate expected sum %d: %w", i, err)
		}
		owned = append(owned, o)
		if err := stack.Add(o); err != nil {
			release()
			return nil, nil, fmt.Errorf("failed to add expected sum %d: %w", i, err)
		}
	}

	return stack, release, nil
}

func (s *selfTestService) compare(vector int, path string, sum []byte, want *openssl.OctetString) (digests.SelfTestCase, error) {
	got, err := s.rt.NewOctetString(sum)
	if err != nil {
		return digests.SelfTestCase{}, fmt.Errorf("failed to wrap computed sum: %w", err)
	}
	defer func() { _ = got.Close() }()

	equal, err := got.Equal(want)
	if err != nil {
		return digests.SelfTestCase{}, fmt.Errorf("failed to compare sums: %w", err)
	}
	wantBytes, err := want.Bytes()
	if err != nil {
		return digests.SelfTestCase{}, err
	}

	return digests.SelfTestCase{
		Vector: vector,
		Path:   path,
		Got:    hex.EncodeToString(sum),
		Want:   hex.EncodeToString(wantBytes),
		Passed: equal,
	}, nil
}

func (s *selfTestService) digest(ctx context.Context, path, algorithm, input string) ([]byte, error) {
	switch path {
	case PathMemory:
		res, err := s.digests.DigestBytes(ctx, &digests.DigestBytesRequest{Algorithm: algorithm, Data: []byte(input)})
		if err != nil {
			return nil, err
		}
		return res.Sum, nil
	case PathFile:
		scratch, err := s.writeScratchFile(input)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := os.Remove(scratch); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn(fmt.Sprintf("failed to remove scratch file %s: %v", scratch, err))
			}
		}()
		res, err := s.digests.DigestFile(ctx, &digests.DigestFileRequest{Algorithm: algorithm, Path: scratch})
		if err != nil {
			return nil, err
		}
		return res.Sum, nil
	default:
		return nil, fmt.Errorf("unknown stream path %q", path)
	}
}

// writeScratchFile writes input through a native file stream.
func (s *selfTestService) writeScratchFile(input string) (string, error) {
	path := filepath.Join(s.scratchDir, "managed-openssl-"+uuid.New().String()+".bin")

	f, err := s.rt.OpenFile(path, "wb")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	if _, err := f.WriteString(input); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}
	return path, nil
}
