package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wpforge/wprelease/internal/defs"
)

// FindProjectRoot locates the project root by searching start and its
// parents for the settings file. Returns an error wrapping ErrNotFound when
// no ancestor holds one.
func FindProjectRoot(start string) (string, error) {
	absDir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		settings := filepath.Join(absDir, defs.SettingsJSON)
		if info, err := os.Stat(settings); err == nil && !info.IsDir() {
			return absDir, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, start)
		}
		absDir = parent
	}
}

// FindProjectRootOrCurrent is like FindProjectRoot but falls back to start
// itself when no settings file exists yet. Used by init and first releases.
func FindProjectRootOrCurrent(start string) (string, error) {
	if root, err := FindProjectRoot(start); err == nil {
		return root, nil
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	if err := validateRoot(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// validateRoot checks that root exists and is a directory.
func validateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}
	return nil
}
