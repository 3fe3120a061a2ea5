// Package errors defines the typed error taxonomy used across blockscan,
// matching spec §7: UnsupportedExtension and ParseFailure are the two error
// kinds the core itself returns; ConfigError and MultiError support the
// collaborators (config loader, file walker) that sit around it.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType classifies an error for logging/metrics purposes.
type ErrorType string

const (
	ErrorTypeUnsupportedExtension ErrorType = "unsupported_extension"
	ErrorTypeParseFailure         ErrorType = "parse_failure"
	ErrorTypeConfig               ErrorType = "config"
	ErrorTypeFile                 ErrorType = "file"
)

// Sentinel errors for errors.Is against the core's two documented failure
// modes (spec §6: "Errors: UnsupportedExtension, ParseFailure").
var (
	ErrUnsupportedExtension = errors.New("unsupported extension")
	ErrParseFailure         = errors.New("parse failure")
)

// UnsupportedExtensionError is returned by the façade when the Language
// Registry has no LanguageImpl for the file's extension.
type UnsupportedExtensionError struct {
	Extension string
}

func NewUnsupportedExtensionError(extension string) *UnsupportedExtensionError {
	return &UnsupportedExtensionError{Extension: extension}
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported extension %q", e.Extension)
}

func (e *UnsupportedExtensionError) Unwrap() error {
	return ErrUnsupportedExtension
}

// ParseFailureError is returned when a grammar rejects content outright
// (distinct from tree-sitter's tolerant partial-tree parsing, which never
// fails outright — this covers setup/registry-level parse errors).
type ParseFailureError struct {
	Extension  string
	Underlying error
}

func NewParseFailureError(extension string, err error) *ParseFailureError {
	return &ParseFailureError{Extension: extension, Underlying: err}
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("parse failure for extension %q: %v", e.Extension, e.Underlying)
}

func (e *ParseFailureError) Unwrap() error {
	if e.Underlying != nil {
		return e.Underlying
	}
	return ErrParseFailure
}

// Is reports ErrParseFailure as a match even when an underlying cause is wrapped.
func (e *ParseFailureError) Is(target error) bool {
	return target == ErrParseFailure
}

// ConfigError represents a configuration value rejected by config's
// Validator.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err, Timestamp: time.Now()}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-access error surfaced by the walker.
type FileError struct {
	Path       string
	Operation  string
	Underlying error
}

func NewFileError(op, path string, err error) *FileError {
	return &FileError{Operation: op, Path: path, Underlying: err}
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

func (e *FileError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates independent errors from concurrent operations
// without losing any of them.
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}
