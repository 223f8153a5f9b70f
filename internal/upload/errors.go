// Package upload transfers a release archive to a remote FTP server.
package upload

import "errors"

// Sentinel errors for upload operations. None of them abort a release.
var (
	// ErrConnect indicates the FTP session could not be opened or authenticated.
	ErrConnect = errors.New("upload: connect failed")

	// ErrDir indicates the remote directory could not be created or entered.
	ErrDir = errors.New("upload: remote directory unavailable")

	// ErrTransfer indicates the archive could not be stored remotely.
	ErrTransfer = errors.New("upload: transfer failed")

	// ErrNoHost indicates upload is enabled but no host is configured.
	ErrNoHost = errors.New("upload: no host configured")
)
