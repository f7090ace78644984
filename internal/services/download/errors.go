package download

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrMissingDirectory means the podcast's download directory does not
	// exist. Directories are never created implicitly.
	ErrMissingDirectory = errors.New("download directory does not exist")

	// ErrNoBasename means no local filename could be derived from the
	// enclosure URL.
	ErrNoBasename = errors.New("cannot derive filename from url")
)

// IncompleteError reports a download that finished without leaving a usable
// file behind.
type IncompleteError struct {
	URL  string
	Path string
}

func (e IncompleteError) Error() string {
	return fmt.Sprintf("download of %s left no content at %s", e.URL, e.Path)
}
