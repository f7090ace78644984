package podcasts

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrPodcastNotFound = errors.New("podcast not found")
	ErrPodcastExists   = errors.New("podcast already exists")
	ErrInvalidInput    = errors.New("invalid input")
)

// NotFoundError represents an error when a podcast is not found
type NotFoundError struct {
	Key   string
	Value interface{}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("podcast with %s %v not found", e.Key, e.Value)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrPodcastNotFound
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(key string, value interface{}) error {
	return NotFoundError{Key: key, Value: value}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var notFoundErr NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrPodcastNotFound)
}
