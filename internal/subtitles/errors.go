package subtitles

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks malformed timestamp text or timing values.
	ErrFormat = errors.New("invalid timing format")
	// ErrConfig marks invalid segmentation parameters.
	ErrConfig = errors.New("invalid segmentation config")
)

// FormatError reports a timestamp or timing value that could not be decoded.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
	}
	return fmt.Sprintf("%s: %s %q", ErrFormat, e.Reason, e.Value)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ConfigError reports a segmentation parameter outside its valid range.
type ConfigError struct {
	Field string
	Value int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s must be positive, got %d", ErrConfig, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

func formatErr(value, reason string) error {
	return &FormatError{Value: value, Reason: reason}
}
