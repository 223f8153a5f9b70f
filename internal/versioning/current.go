package versioning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/pkg/models"
)

// Source names where CurrentVersion found the version.
type Source string

const (
	SourceHeader   Source = "header"
	SourceManifest Source = "package.json"
)

// CurrentVersion reads the version being released from: the first
// "Version:" header field of the main plugin file, else the "version"
// property of package.json. A value that is present but malformed is
// ErrInvalidVersion; no value at all is ErrVersionNotFound.
func CurrentVersion(root string, cfg *models.ReleaseConfig) (Version, Source, error) {
	if cfg.MainFile != "" {
		data, err := os.ReadFile(filepath.Join(root, cfg.MainFile))
		if err != nil && !os.IsNotExist(err) {
			return Version{}, "", fmt.Errorf("read %s: %w", cfg.MainFile, err)
		}
		if raw, ok := FindHeaderVersion(string(data)); ok {
			v, err := Parse(raw)
			if err != nil {
				return Version{}, "", fmt.Errorf("%s header: %w", cfg.MainFile, err)
			}
			return v, SourceHeader, nil
		}
	}

	v, err := ManifestVersion(root)
	if err != nil {
		return Version{}, "", err
	}
	return v, SourceManifest, nil
}

// ManifestVersion reads the "version" property of package.json.
func ManifestVersion(root string) (Version, error) {
	data, err := os.ReadFile(filepath.Join(root, defs.PackageJSON))
	switch {
	case os.IsNotExist(err):
		return Version{}, ErrVersionNotFound
	case err != nil:
		return Version{}, fmt.Errorf("read %s: %w", defs.PackageJSON, err)
	}

	var manifest struct {
		Version *string `json:"version"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Version{}, fmt.Errorf("parse %s: %v: %w", defs.PackageJSON, err, ErrInvalidVersion)
	}
	if manifest.Version == nil {
		return Version{}, ErrVersionNotFound
	}
	v, err := Parse(*manifest.Version)
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", defs.PackageJSON, err)
	}
	return v, nil
}
