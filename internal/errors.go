package internal

import "fmt"

// APIError represents a non-success response from the backend
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// StreamError represents a transport failure while consuming a turn stream
type StreamError struct {
	Op  string // "open", "read"
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: %s: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// CacheError represents errors accessing the local conversation cache
type CacheError struct {
	Op  string // "open", "read", "write"
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error: [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
