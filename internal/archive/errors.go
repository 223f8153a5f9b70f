// Package archive stages the files of a plugin release into a scratch
// directory and compresses them into <slug>.zip at the project root.
package archive

import "errors"

// Sentinel errors for archive operations.
var (
	// ErrZip indicates the release archive could not be produced. It is
	// fatal for a release.
	ErrZip = errors.New("archive: zip failed")

	// ErrMissingSource indicates an included path does not exist. Reported as a warning.
	ErrMissingSource = errors.New("archive: included path not found")

	// ErrVendorLoader indicates vendor/autoload.php is absent. Reported as a warning.
	ErrVendorLoader = errors.New("archive: vendor autoloader missing")
)
