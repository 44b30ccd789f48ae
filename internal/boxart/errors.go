package boxart

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks on the typed errors below.
var (
	ErrConfig          = errors.New("configuration error")
	ErrNotFound        = errors.New("input not found")
	ErrInvalidOutput   = errors.New("invalid output path")
	ErrAmbiguousOutput = errors.New("ambiguous output")
	ErrBackendMissing  = errors.New("image backend missing")
	ErrConversion      = errors.New("conversion failed")
)

// ConfigError reports a bad mode, profile, background or similar setting.
type ConfigError struct {
	Field string
	Value string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Msg)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NotFoundError reports an input path that is neither a file nor a directory.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidOutputError reports an explicit output file without a .png extension.
type InvalidOutputError struct {
	Path string
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("output file must have a .png extension: %s", e.Path)
}

func (e *InvalidOutputError) Is(target error) bool { return target == ErrInvalidOutput }

// AmbiguousOutputError reports an explicit output file used with more than
// one input file.
type AmbiguousOutputError struct {
	Output string
	Inputs int
}

func (e *AmbiguousOutputError) Error() string {
	if e.Inputs > 1 {
		return fmt.Sprintf("output %s names a single file but %d inputs would be written to it; use a directory", e.Output, e.Inputs)
	}
	return fmt.Sprintf("output %s names a single file but the input is a directory; use a directory", e.Output)
}

func (e *AmbiguousOutputError) Is(target error) bool { return target == ErrAmbiguousOutput }

// BackendMissingError reports that none of the candidate image tools exist.
type BackendMissingError struct {
	Tried []string
}

func (e *BackendMissingError) Error() string {
	return fmt.Sprintf("no image backend found (tried %s)", strings.Join(e.Tried, ", "))
}

func (e *BackendMissingError) Is(target error) bool { return target == ErrBackendMissing }

// ConversionError wraps a backend failure for one source file.
type ConversionError struct {
	Source string
	Cause  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Source, e.Cause)
}

func (e *ConversionError) Unwrap() error { return e.Cause }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// IsFatal reports whether err must stop a run before any file is processed.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig) ||
		errors.Is(err, ErrInvalidOutput) ||
		errors.Is(err, ErrAmbiguousOutput) ||
		errors.Is(err, ErrBackendMissing)
}
