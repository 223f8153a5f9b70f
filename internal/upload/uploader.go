package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/wpforge/wprelease/internal/credential"
)

// Result describes a finished upload.
type Result struct {
	// Skipped is true when upload is disabled; no connection was attempted.
	Skipped bool
	// Remote is the path of the stored archive on the server.
	Remote string
}

// Uploader sends release archives through a Dialer.
type Uploader struct {
	dialer Dialer
	logger *slog.Logger
}

// NewUploader creates an Uploader. A nil dialer uses FTPDialer.
func NewUploader(dialer Dialer, logger *slog.Logger) *Uploader {
	if dialer == nil {
		dialer = FTPDialer{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Uploader{dialer: dialer, logger: logger.With("module", "upload")}
}

// Upload stores archivePath in creds.Path on the server. Disabled
// credentials skip the upload without dialing. The session is closed on
// every path once dialed.
func (u *Uploader) Upload(ctx context.Context, creds credential.FTPCredentials, archivePath string) (*Result, error) {
	if !creds.Enabled {
		u.logger.Info("upload disabled, skipping")
		return &Result{Skipped: true}, nil
	}
	if creds.Host == "" {
		return nil, ErrNoHost
	}

	target := Target{Host: creds.Host, Port: creds.Port, User: creds.User, Password: creds.Password}
	u.logger.Info("connecting", "addr", target.Addr(), "user", creds.User)

	session, err := u.dialer.Dial(ctx, target)
	if err != nil {
		return nil, classify(err, ErrConnect)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			u.logger.Debug("session close failed", "error", closeErr)
		}
	}()

	if err := session.EnsureDir(creds.Path); err != nil {
		return nil, classify(err, ErrDir)
	}

	name := filepath.Base(archivePath)
	if err := session.Upload(archivePath, name); err != nil {
		return nil, classify(err, ErrTransfer)
	}

	remote := path.Join("/", creds.Path, name)
	u.logger.Info("archive uploaded", "remote", remote)
	return &Result{Remote: remote}, nil
}

// String renders r for the summary.
func (r *Result) String() string {
	if r.Skipped {
		return "skipped"
	}
	return fmt.Sprintf("uploaded to %s", r.Remote)
}

// classify wraps err with sentinel unless it already carries it.
func classify(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%v: %w", err, sentinel)
}
