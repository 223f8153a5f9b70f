package config

import (
	"errors"
	"testing"

	"github.com/wpforge/wprelease/pkg/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.ReleaseConfig)
		wantErr bool
	}{
		{"defaults", func(*models.ReleaseConfig) {}, false},
		{"valid slug", func(c *models.ReleaseConfig) { c.PluginSlug = "demo-gallery2" }, false},
		{"uppercase slug", func(c *models.ReleaseConfig) { c.PluginSlug = "Demo" }, true},
		{"double hyphen", func(c *models.ReleaseConfig) { c.PluginSlug = "demo--x" }, true},
		{"unknown package manager", func(c *models.ReleaseConfig) { c.PackageManager = "bun" }, true},
		{"absolute main file", func(c *models.ReleaseConfig) { c.MainFile = "/etc/demo.php" }, true},
		{"escaping include", func(c *models.ReleaseConfig) { c.IncludeFiles = []string{"../secrets"} }, true},
		{"nested include", func(c *models.ReleaseConfig) { c.IncludeFiles = []string{"assets/js"} }, false},
		{"port too large", func(c *models.ReleaseConfig) { c.FTP.Port = 70000 }, true},
		{"zero port", func(c *models.ReleaseConfig) { c.FTP.Port = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultReleaseConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidationErrors_CollectsAll(t *testing.T) {
	cfg := NewDefaultReleaseConfig()
	cfg.PluginSlug = "Bad Slug"
	cfg.PackageManager = "bun"

	var verrs *ValidationErrors
	if !errors.As(Validate(cfg), &verrs) {
		t.Fatal("expected *ValidationErrors")
	}
	if len(verrs.Errors) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(verrs.Errors), verrs)
	}
}

func TestMissingFieldsError(t *testing.T) {
	err := &MissingFieldsError{Fields: []string{"pluginName", "mainFile"}}
	if !errors.Is(err, ErrMissingConfig) {
		t.Error("MissingFieldsError must wrap ErrMissingConfig")
	}
	want := "config: missing required project settings: pluginName, mainFile (run 'wprelease init' or edit .wprelease.json)"
	if err.Error() != want {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestDefaults(t *testing.T) {
	cfg := NewDefaultReleaseConfig()
	if cfg.PackageManager != models.PackageManagerNPM {
		t.Errorf("PackageManager = %q", cfg.PackageManager)
	}
	if cfg.FTP.Enabled {
		t.Error("FTP must be disabled by default")
	}
	found := false
	for _, e := range cfg.ExcludedFiles {
		if e == "node_modules" {
			found = true
		}
	}
	if !found {
		t.Errorf("default exclusions %v lack node_modules", cfg.ExcludedFiles)
	}

	// Each call returns fresh slices.
	cfg.ExcludedFiles[0] = "mutated"
	if NewDefaultReleaseConfig().ExcludedFiles[0] == "mutated" {
		t.Error("defaults share backing storage")
	}
}
