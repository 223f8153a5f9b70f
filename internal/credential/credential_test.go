package credential

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wpforge/wprelease/pkg/models"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolve_Precedence(t *testing.T) {
	store := NewMemoryStore(map[string]string{
		KeyHost: "store.example.com",
		KeyUser: "",
	})
	env := envFrom(map[string]string{
		EnvHost:     "env.example.com",
		EnvUser:     "env-user",
		EnvPassword: "env-secret",
	})
	file := models.FTPConfig{
		Enabled:  true,
		Host:     "file.example.com",
		User:     "file-user",
		Password: "file-secret",
		Port:     2121,
		Path:     "/releases",
	}

	c := Resolver{Store: store, Getenv: env}.Resolve(file)

	checks := []struct {
		key    string
		value  string
		source Source
	}{
		{KeyHost, "store.example.com", SourceStore},
		{KeyUser, "env-user", SourceEnv}, // empty store value does not shadow
		{KeyPassword, "env-secret", SourceEnv},
		{KeyPort, "2121", SourceFile},
		{KeyPath, "/releases", SourceFile},
		{KeyEnabled, "true", SourceFile},
	}
	for _, ck := range checks {
		if got := c.Value(ck.key); got != ck.value {
			t.Errorf("%s = %q, want %q", ck.key, got, ck.value)
		}
		if got := c.Sources[ck.key]; got != ck.source {
			t.Errorf("%s source = %q, want %q", ck.key, got, ck.source)
		}
	}
}

func TestResolve_Defaults(t *testing.T) {
	c := Resolver{}.Resolve(models.FTPConfig{})
	if c.Port != 21 || c.Path != "/" || c.Enabled {
		t.Errorf("got %+v, want port 21, path /, disabled", c)
	}
	if c.Sources[KeyPort] != SourceDefault || c.Sources[KeyHost] != SourceDefault {
		t.Errorf("Sources = %v", c.Sources)
	}
}

func TestResolve_PortFromEnv(t *testing.T) {
	c := Resolver{Getenv: envFrom(map[string]string{EnvPort: "990", EnvPath: "/srv"})}.Resolve(models.FTPConfig{})
	if c.Port != 990 || c.Sources[KeyPort] != SourceEnv {
		t.Errorf("port = %d from %s", c.Port, c.Sources[KeyPort])
	}
	if c.Path != "/srv" {
		t.Errorf("path = %q", c.Path)
	}
}

func TestResolve_InvalidPortFallsBack(t *testing.T) {
	c := Resolver{Getenv: envFrom(map[string]string{EnvPort: "ftp"})}.Resolve(models.FTPConfig{})
	if c.Port != 21 || c.Sources[KeyPort] != SourceDefault {
		t.Errorf("port = %d from %s", c.Port, c.Sources[KeyPort])
	}
}

func TestResolve_StoreEnabledOverridesFile(t *testing.T) {
	tests := []struct {
		name   string
		stored map[string]string
		file   bool
		want   bool
	}{
		{"store disables", map[string]string{KeyEnabled: "false"}, true, false},
		{"store enables", map[string]string{KeyEnabled: "true"}, false, true},
		{"store unset", nil, true, true},
		{"store garbage ignored", map[string]string{KeyEnabled: "maybe"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Resolver{Store: NewMemoryStore(tt.stored)}.Resolve(models.FTPConfig{Enabled: tt.file})
			if c.Enabled != tt.want {
				t.Errorf("Enabled = %v, want %v", c.Enabled, tt.want)
			}
		})
	}
}

func TestFileStore_ScopedPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wprelease", "credentials.yaml")

	demo := NewFileStore(path, "demo", nil)
	if _, ok := demo.Get(KeyHost); ok {
		t.Fatal("empty store returned a value")
	}
	if err := demo.Set(KeyHost, "ftp.example.com"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := demo.Set(KeyEnabled, "true"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("store mode = %o, want 600", perm)
	}

	reopened := NewFileStore(path, "demo", nil)
	if v, ok := reopened.Get(KeyHost); !ok || v != "ftp.example.com" {
		t.Errorf("Get() after reopen = (%q, %v)", v, ok)
	}

	other := NewFileStore(path, "other-plugin", nil)
	if _, ok := other.Get(KeyHost); ok {
		t.Error("values leaked across project scopes")
	}
	if err := other.Set(KeyHost, "other.example.com"); err != nil {
		t.Fatal(err)
	}
	if v, _ := reopened.Get(KeyHost); v != "ftp.example.com" {
		t.Errorf("writing another scope changed this one: %q", v)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	if err := os.WriteFile(path, []byte("projects: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path, "demo", nil)
	if _, ok := s.Get(KeyHost); ok {
		t.Error("corrupt store must read as empty")
	}
	if err := s.Set(KeyHost, "x"); !errors.Is(err, ErrStore) {
		t.Errorf("Set() error = %v, want ErrStore", err)
	}
}

func TestDefaultStorePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	t.Setenv("HOME", "/tmp/home-test")
	path, err := DefaultStorePath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "credentials.yaml" || filepath.Base(filepath.Dir(path)) != "wprelease" {
		t.Errorf("DefaultStorePath() = %q", path)
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"abc":         "********",
		"supersecret": "********et",
	}
	for in, want := range tests {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
