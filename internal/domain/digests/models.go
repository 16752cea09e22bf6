package digests

import (
	"errors"
	"fmt"

	"github.com/MGTheTrain/managed-openssl/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// DigestBytesRequest asks for the digest of an in-memory buffer
type DigestBytesRequest struct {
	Algorithm string `validate:"required,digestname"`
	Data      []byte
}

// Validate for validating DigestBytesRequest struct
func (r *DigestBytesRequest) Validate() error {
	return validateStruct(r)
}

// DigestFileRequest asks for the digest of a file
type DigestFileRequest struct {
	Algorithm string `validate:"required,digestname"`
	Path      string `validate:"required"`
	Mode      string `validate:"omitempty,fopenmode"`
}

// Validate for validating DigestFileRequest struct
func (r *DigestFileRequest) Validate() error {
	return validateStruct(r)
}

// DigestResult is a computed digest together with the stream counters of the chain head
type DigestResult struct {
	Algorithm    string
	Sum          []byte
	BytesRead    uint64
	BytesWritten uint64
}

// SelfTestVector is one known-answer case: Input repeated Repeat times hashes to Expected (hex)
type SelfTestVector struct {
	Input    string
	Repeat   int
	Expected string
}

// SelfTest groups the vectors of one digest. A test without Algorithm is listed but not implemented.
type SelfTest struct {
	Name      string
	Algorithm string
	Vectors   []SelfTestVector
}

// Implemented reports whether the self test has vectors to run.
func (t *SelfTest) Implemented() bool {
	return t.Algorithm != "" && len(t.Vectors) > 0
}

// SelfTestCase is the outcome of one vector on one stream path
type SelfTestCase struct {
	Vector int
	Path   string
	Got    string
	Want   string
	Passed bool
}

// SelfTestReport is the outcome of a self test run
type SelfTestReport struct {
	Name  string
	Cases []SelfTestCase
}

// Passed reports whether every case passed.
func (r *SelfTestReport) Passed() bool {
	for _, c := range r.Cases {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the number of failed cases.
func (r *SelfTestReport) Failed() int {
	n := 0
	for _, c := range r.Cases {
		if !c.Passed {
			n++
		}
	}
	return n
}

func validateStruct(s interface{}) error {
	validate := validator.New()
	if err := validators.Register(validate); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}
