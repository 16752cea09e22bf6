package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Native backend constants
const (
	BackendSim     = "sim"
	BackendOpenSSL = "openssl"
)

// NativeSettings selects the native toolkit backend
type NativeSettings struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=sim openssl"`
}

// Validate checks that all fields in NativeSettings are valid
func (s *NativeSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for NativeSettings: %w", err)
	}

	return nil
}
