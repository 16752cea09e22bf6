package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation tags registered by Register.
const (
	TagDigestName = "digestname"
	TagFopenMode  = "fopenmode"
)

var digestNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,63}$`)

// DigestNameValidation checks that a field looks like a native digest name, e.g. "sha256"
// or "sha512-256". Whether the native library knows the digest is decided at lookup time.
func DigestNameValidation(fl validator.FieldLevel) bool {
	return digestNamePattern.MatchString(fl.Field().String())
}

// FopenModeValidation checks that a field is an fopen mode string: r, w or a, an optional
// '+', and the optional 'b' or 't' modifier in any position after the first character.
func FopenModeValidation(fl validator.FieldLevel) bool {
	return IsFopenMode(fl.Field().String())
}

// IsFopenMode reports whether mode is an fopen mode string.
func IsFopenMode(mode string) bool {
	if mode == "" {
		return false
	}
	switch mode[0] {
	case 'r', 'w', 'a':
	default:
		return false
	}

	plus, modifier := false, false
	for _, c := range mode[1:] {
		switch {
		case c == '+' && !plus:
			plus = true
		case (c == 'b' || c == 't') && !modifier:
			modifier = true
		default:
			return false
		}
	}
	return true
}

// Register adds the stream validation tags to validate.
func Register(validate *validator.Validate) error {
	if err := validate.RegisterValidation(TagDigestName, DigestNameValidation); err != nil {
		return err
	}
	return validate.RegisterValidation(TagFopenMode, FopenModeValidation)
}
