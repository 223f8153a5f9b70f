// Package versioning computes the next plugin version and writes it into
// the project files that carry it.
package versioning

import (
	"errors"
	"fmt"
)

// Sentinel errors for version operations.
var (
	// ErrInvalidVersion indicates a version string is not a plain MAJOR.MINOR.PATCH triple.
	ErrInvalidVersion = errors.New("versioning: invalid version")

	// ErrVersionNotFound indicates no current version could be read from the project.
	ErrVersionNotFound = fmt.Errorf("versioning: no current version found: %w", ErrInvalidVersion)

	// ErrWrite indicates a version target could not be rewritten.
	ErrWrite = errors.New("versioning: write failed")
)
