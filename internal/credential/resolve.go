package credential

import (
	"strconv"
	"strings"

	"github.com/wpforge/wprelease/pkg/models"
)

// Environment variables consulted when the store has no value.
const (
	EnvHost     = "FTP_HOST"
	EnvUser     = "FTP_USER"
	EnvPassword = "FTP_PASS"
	EnvPort     = "FTP_PORT"
	EnvPath     = "UPDATE_SERVER_PATH"
)

// envKeys maps store keys to their environment fallback. ftp.enabled has none.
var envKeys = map[string]string{
	KeyHost:     EnvHost,
	KeyUser:     EnvUser,
	KeyPassword: EnvPassword,
	KeyPort:     EnvPort,
	KeyPath:     EnvPath,
}

// Source records where a resolved value came from.
type Source string

const (
	SourceStore   Source = "store"
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

const (
	defaultPort = 21
	defaultPath = "/"
)

// FTPCredentials is the effective upload target of a release.
type FTPCredentials struct {
	Host     string
	User     string
	Password string
	Port     int
	Path     string
	Enabled  bool

	// Sources maps each store key to the origin of its value.
	Sources map[string]Source
}

// Addr returns host:port.
func (c FTPCredentials) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Value returns the resolved value of key as a string.
func (c FTPCredentials) Value(key string) string {
	switch key {
	case KeyHost:
		return c.Host
	case KeyUser:
		return c.User
	case KeyPassword:
		return c.Password
	case KeyPort:
		return strconv.Itoa(c.Port)
	case KeyPath:
		return c.Path
	case KeyEnabled:
		return strconv.FormatBool(c.Enabled)
	}
	return ""
}

// Resolver merges credential sources with precedence store > env > file.
type Resolver struct {
	Store  Provider
	Getenv func(string) string
}

// Resolve computes the effective credentials. Empty values do not shadow
// lower-precedence sources. A store or file port of 0 or an unparsable
// port falls through to the default of 21.
func (r Resolver) Resolve(file models.FTPConfig) FTPCredentials {
	c := FTPCredentials{Sources: make(map[string]Source, len(Keys()))}

	var src Source
	c.Host, c.Sources[KeyHost] = r.lookup(KeyHost, file.Host)
	c.User, c.Sources[KeyUser] = r.lookup(KeyUser, file.User)
	c.Password, c.Sources[KeyPassword] = r.lookup(KeyPassword, file.Password)

	c.Path, src = r.lookup(KeyPath, file.Path)
	if c.Path == "" {
		c.Path, src = defaultPath, SourceDefault
	}
	c.Sources[KeyPath] = src

	filePort := ""
	if file.Port > 0 {
		filePort = strconv.Itoa(file.Port)
	}
	rawPort, src := r.lookup(KeyPort, filePort)
	port, err := strconv.Atoi(rawPort)
	if err != nil || port <= 0 || port > 65535 {
		port, src = defaultPort, SourceDefault
	}
	c.Port = port
	c.Sources[KeyPort] = src

	c.Enabled, c.Sources[KeyEnabled] = file.Enabled, SourceFile
	if r.Store != nil {
		if v, ok := r.Store.Get(KeyEnabled); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				c.Enabled, c.Sources[KeyEnabled] = b, SourceStore
			}
		}
	}
	return c
}

// lookup returns the first non-empty value for key across the sources.
func (r Resolver) lookup(key, fileValue string) (string, Source) {
	if r.Store != nil {
		if v, ok := r.Store.Get(key); ok && v != "" {
			return v, SourceStore
		}
	}
	if env, ok := envKeys[key]; ok && r.Getenv != nil {
		if v := r.Getenv(env); v != "" {
			return v, SourceEnv
		}
	}
	if fileValue != "" {
		return fileValue, SourceFile
	}
	return "", SourceDefault
}

// Mask hides a secret for display, keeping at most its last two characters
// when it is long enough to stay unguessable.
func Mask(secret string) string {
	switch n := len(secret); {
	case n == 0:
		return ""
	case n < 8:
		return strings.Repeat("*", 8)
	default:
		return strings.Repeat("*", 8) + secret[n-2:]
	}
}
