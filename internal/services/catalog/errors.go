package catalog

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrTrackNotFound = errors.New("catalog track not found")

	// ErrNoDirectory means the local music directory is not configured.
	ErrNoDirectory = errors.New("catalog directory is not configured")
)

// NotFoundError represents an error when a catalog track is not found
type NotFoundError struct {
	Key   string
	Value interface{}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("catalog track with %s %v not found", e.Key, e.Value)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrTrackNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(key string, value interface{}) error {
	return NotFoundError{Key: key, Value: value}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var notFoundErr NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrTrackNotFound)
}
