//go:build unit
// +build unit

package app

import (
	"context"

	"github.com/MGTheTrain/managed-openssl/internal/domain/digests"
	"github.com/stretchr/testify/mock"
)

// MockDigestService is a mock implementation of DigestService
type MockDigestService struct {
	mock.Mock
}

func (m *MockDigestService) DigestBytes(ctx context.Context, req *digests.DigestBytesRequest) (*digests.DigestResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*digests.DigestResult), args.Error(1)
}

func (m *MockDigestService) DigestFile(ctx context.Context, req *digests.DigestFileRequest) (*digests.DigestResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*digests.DigestResult), args.Error(1)
}
