// Package lcierrors implements the error taxonomy: small typed
// wrappers that carry enough context for callers to decide between
// log-and-skip, surface, or terminate, without reaching for an
// external errors package.
package lcierrors

import "fmt"

// Kind classifies an error for that log-and-skip/surface/terminate policy.
type Kind string

const (
	KindIO         Kind = "io"
	KindExtractor  Kind = "extractor"
	KindBackend    Kind = "backend"
	KindRegex      Kind = "regex"
	KindConfig     Kind = "config"
	KindTerminal   Kind = "terminal"
	KindInternal   Kind = "internal"
)

// IndexError wraps a failure during discovery, extraction, or
// metadata persistence with enough context to log and skip.
type IndexError struct {
	Kind      Kind
	Path      string
	Operation string
	Err       error
}

// NewIndexError creates an IndexError for op acting on path.
func NewIndexError(kind Kind, op, path string, err error) *IndexError {
	return &IndexError{Kind: kind, Path: path, Operation: op, Err: err}
}

func (e *IndexError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Kind, e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Operation, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// BackendError wraps a content-search backend failure: unavailable at
// probe time, or a runtime failure with nonzero, non-"no match" exit.
type BackendError struct {
	Backend string
	Err     error
}

func NewBackendError(backend string, err error) *BackendError {
	return &BackendError{Backend: backend, Err: err}
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %q failed: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ErrNoBackendsAvailable is returned by the dispatcher when every backend,
// including the built-in fallback, is unavailable or has failed.
var ErrNoBackendsAvailable = fmt.Errorf("no search backends available")

// RegexError wraps an invalid pattern. Callers surface this as the
// UI's error_message rather than crashing.
type RegexError struct {
	Pattern string
	Err     error
}

func NewRegexError(pattern string, err error) *RegexError {
	return &RegexError{Pattern: pattern, Err: err}
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Err)
}

func (e *RegexError) Unwrap() error { return e.Err }

// ConfigError wraps a configuration load/validation failure.
type ConfigError struct {
	Field string
	Err   error
}

func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
