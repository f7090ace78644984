package feed

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrMalformedFeed = errors.New("malformed feed")
)

// ParseError reports a document that could not be read as well-formed XML.
type ParseError struct {
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parsing feed document: %v", e.Err)
}

func (e ParseError) Is(target error) bool {
	return target == ErrMalformedFeed
}

func (e ParseError) Unwrap() error {
	return e.Err
}
