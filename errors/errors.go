// Package errors provides error types and handling for benchmark runs.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a benchmark failure with context about where it happened.
// It wraps the underlying storage or configuration error so callers can still
// match it with errors.Is and errors.As.
type Error struct {
	// Op is the operation that failed (e.g., "put", "configure", "prepare")
	Op string

	// Level is the concurrency level that was running, or 0 outside a level
	Level int

	// Key is the object key being uploaded (if applicable)
	Key string

	// Err is the underlying error from the storage SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Level > 0 && e.Key != "" {
		return fmt.Sprintf("blobbench.%s level %d key %s: %v", e.Op, e.Level, e.Key, e.Err)
	}
	if e.Level > 0 {
		return fmt.Sprintf("blobbench.%s level %d: %v", e.Op, e.Level, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("blobbench.%s key %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("blobbench.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every failed put match ErrUploadFailed, whatever the underlying cause.
func (e *Error) Is(target error) bool {
	return target == ErrUploadFailed && e.Op == "put"
}

// WithLevel adds concurrency level context to an existing error.
func (e *Error) WithLevel(level int) *Error {
	e.Level = level
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewUploadError creates a new Error for a failed upload at the given level.
func NewUploadError(level int, key string, err error) *Error {
	return &Error{
		Op:    "put",
		Level: level,
		Key:   key,
		Err:   err,
	}
}

// Sentinel errors for common failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates that the run or backend configuration is invalid
	ErrInvalidConfig = errors.New("blobbench: invalid configuration")

	// ErrUploadFailed indicates that a single upload did not complete
	ErrUploadFailed = errors.New("blobbench: upload failed")

	// ErrInvalidKey indicates that a generated object key is not acceptable
	ErrInvalidKey = errors.New("blobbench: invalid object key")

	// ErrInvalidBucketName indicates that the bucket or container name is invalid
	ErrInvalidBucketName = errors.New("blobbench: invalid bucket name")

	// ErrBucketNotFound indicates that the target bucket or container does not exist
	ErrBucketNotFound = errors.New("blobbench: bucket not found")

	// ErrAccessDenied indicates that the credentials were rejected
	ErrAccessDenied = errors.New("blobbench: access denied")

	// ErrTooManyRequests indicates that the store throttled the client
	ErrTooManyRequests = errors.New("blobbench: too many requests")

	// ErrTimeout indicates that an upload exceeded its timeout
	ErrTimeout = errors.New("blobbench: operation timeout")

	// ErrInsufficientData indicates a statistic has no samples to average
	ErrInsufficientData = errors.New("blobbench: insufficient data")
)

// IsInvalidConfig checks if an error indicates an invalid configuration.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsUploadFailed checks if an error indicates a failed upload.
func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsBucketNotFound checks if an error indicates the bucket or container does not exist.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsTooManyRequests checks if an error indicates the store throttled the client.
func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}

// IsTimeout checks if an error indicates an upload timed out.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// LevelOf returns the concurrency level recorded in err, or 0 if none.
func LevelOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Level
	}
	return 0
}

// KeyOf returns the object key recorded in err, or "" if none.
func KeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return ""
}
