package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Stream defaults
const (
	DefaultLineChunkSize = 64
	DefaultMaxLineLength = 1 << 20
)

// StreamSettings bounds the byte-stream read helpers
type StreamSettings struct {
	// LineChunkSize is the buffer handed to each native gets call.
	LineChunkSize int `mapstructure:"line_chunk_size" validate:"min=2,max=65536"`
	// MaxLineLength caps the bytes ReadString accumulates before failing.
	MaxLineLength int `mapstructure:"max_line_length" validate:"min=1"`
}

// DefaultStreamSettings returns the stream settings used when nothing is configured
func DefaultStreamSettings() *StreamSettings {
	return &StreamSettings{
		LineChunkSize: DefaultLineChunkSize,
		MaxLineLength: DefaultMaxLineLength,
	}
}

// Validate checks that all fields in StreamSettings are valid
func (s *StreamSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for StreamSettings: %w", err)
	}

	if s.MaxLineLength < s.LineChunkSize-1 {
		return fmt.Errorf("max line length must hold at least one chunk of %d bytes", s.LineChunkSize-1)
	}

	return nil
}
