package config

import (
	"fmt"
)

// Error types reported by ConfigError.
const (
	ErrorTypeParse     = "parse"
	ErrorTypeIO        = "io"
	ErrorTypeSerialize = "serialize"
)

// ConfigError is a structured error raised while loading or parsing
// configuration. The previous good MainConfig is always retained by callers;
// a ConfigError never results in a partial apply.
type ConfigError struct {
	FilePath  string // Path of the offending file, if the error came from disk
	ErrorType string // parse, io or serialize
	Message   string // Human-readable summary
	Err       error  // Underlying cause
}

// Error implements the error interface.
func (ce *ConfigError) Error() string {
	if ce.FilePath != "" {
		return fmt.Sprintf("[%s] %s: %s: %v", ce.ErrorType, ce.FilePath, ce.Message, ce.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", ce.ErrorType, ce.Message, ce.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (ce *ConfigError) Unwrap() error {
	return ce.Err
}
