package comixd

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path or archive entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPath is returned when a client path fails validation
	// (traversal attempt, absolute path, malformed input).
	ErrInvalidPath = errors.New("invalid path")
	// ErrAccessDenied is returned on filesystem permission failures.
	ErrAccessDenied = errors.New("access denied")
	// ErrArchive is returned when an archive container cannot be opened or read.
	ErrArchive = errors.New("archive error")
	// ErrInternal is returned when an unexpected I/O or streaming error occurs.
	ErrInternal = errors.New("internal error")
)

// ErrUnsupportedFormat distinguishes "container format not supported" from
// other archive failures so operators can diagnose missing format support.
// It matches ErrArchive under errors.Is.
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported container format", ErrArchive)
