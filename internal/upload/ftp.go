package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/wpforge/wprelease/internal/defs"
)

// Target identifies the remote server and account.
type Target struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Addr returns host:port.
func (t Target) Addr() string {
	return t.Host + ":" + strconv.Itoa(t.Port)
}

// Dialer opens upload sessions.
type Dialer interface {
	Dial(ctx context.Context, target Target) (Session, error)
}

// Session is an authenticated connection. Close must be called once Dial succeeds.
type Session interface {
	// EnsureDir creates every missing segment of dir and makes it current.
	EnsureDir(dir string) error

	// Upload stores localFile as remoteName in the current directory.
	Upload(localFile, remoteName string) error

	Close() error
}

// FTPDialer dials plain FTP servers.
type FTPDialer struct {
	// Timeout bounds connection setup. Zero uses the package default.
	Timeout time.Duration
}

// Compile-time interface compliance check.
var _ Dialer = FTPDialer{}

// Dial connects to target and logs in.
func (d FTPDialer) Dial(ctx context.Context, target Target) (Session, error) {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = defs.DefaultFTPDialTimeout
	}

	conn, err := ftp.Dial(target.Addr(),
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %v: %w", target.Addr(), err, ErrConnect)
	}
	if err := conn.Login(target.User, target.Password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("login to %s as %q: %v: %w", target.Addr(), target.User, err, ErrConnect)
	}
	return &ftpSession{conn: conn}, nil
}

// ftpConn is the part of *ftp.ServerConn a session uses.
type ftpConn interface {
	ChangeDir(path string) error
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// ftpSession implements Session over an FTP control connection.
type ftpSession struct {
	conn ftpConn
}

// EnsureDir walks dir one segment at a time, creating missing segments.
func (s *ftpSession) EnsureDir(dir string) error {
	dir = path.Clean("/" + strings.TrimSpace(dir))
	if err := s.conn.ChangeDir("/"); err != nil {
		return fmt.Errorf("cwd /: %v: %w", err, ErrDir)
	}
	for _, seg := range strings.Split(strings.Trim(dir, "/"), "/") {
		if seg == "" {
			continue
		}
		if err := s.conn.ChangeDir(seg); err == nil {
			continue
		}
		if err := s.conn.MakeDir(seg); err != nil {
			return fmt.Errorf("mkdir %s in %s: %v: %w", seg, dir, err, ErrDir)
		}
		if err := s.conn.ChangeDir(seg); err != nil {
			return fmt.Errorf("cwd %s in %s: %v: %w", seg, dir, err, ErrDir)
		}
	}
	return nil
}

// Upload streams localFile to the server.
func (s *ftpSession) Upload(localFile, remoteName string) error {
	f, err := os.Open(localFile)
	if err != nil {
		return fmt.Errorf("open %s: %v: %w", localFile, err, ErrTransfer)
	}
	defer func() { _ = f.Close() }()

	if err := s.conn.Stor(remoteName, f); err != nil {
		return fmt.Errorf("store %s: %v: %w", remoteName, err, ErrTransfer)
	}
	return nil
}

// Close ends the session.
func (s *ftpSession) Close() error {
	return s.conn.Quit()
}
