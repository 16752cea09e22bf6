package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MGTheTrain/managed-openssl/internal/domain/digests"
	"github.com/MGTheTrain/managed-openssl/internal/openssl"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/logger"
)

// chunkSize is the copy buffer used between streams.
const chunkSize = 32 * 1024

// defaultFileMode opens digest inputs read-only in binary mode.
const defaultFileMode = "rb"

// digestService implements the DigestService interface on top of native stream chains
type digestService struct {
	rt     *openssl.Runtime
	logger logger.Logger
}

// NewDigestService creates a new digestService instance
func NewDigestService(rt *openssl.Runtime, logger logger.Logger) (digests.DigestService, error) {
	if rt == nil {
		return nil, fmt.Errorf("runtime cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &digestService{
		rt:     rt,
		logger: logger.With("service", "digest"),
	}, nil
}

// DigestBytes reads data through a digest filter linked to a read-only memory stream.
func (s *digestService) DigestBytes(ctx context.Context, req *digests.DigestBytesRequest) (*digests.DigestResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	md, err := s.rt.DigestByName(req.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to look up digest: %w", err)
	}

	src, err := s.rt.NewMemBuf(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory source: %w", err)
	}
	filter, err := s.newFilterChain(md, src)
	if err != nil {
		return nil, err
	}
	defer s.closeChain(filter)

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := filter.Read(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read through digest filter: %w", err)
		}
	}

	return s.result(md, filter)
}

// DigestFile copies a file stream into a digest filter that writes to a memory sink.
// The sink is drained after every chunk so the file is never held in memory.
func (s *digestService) DigestFile(ctx context.Context, req *digests.DigestFileRequest) (*digests.DigestResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	mode := req.Mode
	if mode == "" {
		mode = defaultFileMode
	}

	md, err := s.rt.DigestByName(req.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to look up digest: %w", err)
	}

	src, err := s.rt.OpenFile(req.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.Path, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to close file stream: %v", err))
		}
	}()

	sink, err := s.rt.NewMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to create memory sink: %w", err)
	}
	filter, err := s.newFilterChain(md, sink)
	if err != nil {
		return nil, err
	}
	defer s.closeChain(filter)

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := src.Read(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", req.Path, err)
		}
		if _, err := filter.Write(buf[:n]); err != nil {
			return nil, fmt.Errorf("failed to write through digest filter: %w", err)
		}
		if _, err := sink.ReadBytes(n); err != nil {
			return nil, fmt.Errorf("failed to drain memory sink: %w", err)
		}
	}

	return s.result(md, filter)
}

// newFilterChain links next below a fresh digest filter. On failure next is closed too.
func (s *digestService) newFilterChain(md *openssl.MessageDigest, next *openssl.BIO) (*openssl.BIO, error) {
	filter, err := s.rt.NewDigestFilter(md)
	if err != nil {
		_ = next.Close()
		return nil, fmt.Errorf("failed to create digest filter: %w", err)
	}
	if err := filter.Push(next); err != nil {
		_ = filter.Close()
		_ = next.Close()
		return nil, fmt.Errorf("failed to link digest filter: %w", err)
	}
	return filter, nil
}

func (s *digestService) closeChain(head *openssl.BIO) {
	if err := head.Close(); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to close stream chain: %v", err))
	}
}

func (s *digestService) result(md *openssl.MessageDigest, filter *openssl.BIO) (*digests.DigestResult, error) {
	sum, err := filter.Digest()
	if err != nil {
		return nil, fmt.Errorf("failed to finalize digest: %w", err)
	}
	nread, err := filter.NumberRead()
	if err != nil {
		return nil, err
	}
	nwritten, err := filter.NumberWritten()
	if err != nil {
		return nil, err
	}

	return &digests.DigestResult{
		Algorithm:    md.Name(),
		Sum:          sum,
		BytesRead:    nread,
		BytesWritten: nwritten,
	}, nil
}
