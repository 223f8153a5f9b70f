package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wpforge/wprelease/pkg/models"
)

// slugPattern matches lowercase, hyphenated plugin slugs.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks a configuration whose required fields are populated.
func Validate(cfg *models.ReleaseConfig) error {
	var errs []ValidationError

	if cfg.PluginSlug != "" && !slugPattern.MatchString(cfg.PluginSlug) {
		errs = append(errs, ValidationError{
			Field:   "pluginSlug",
			Message: "must be lowercase letters, digits and single hyphens (example: my-plugin)",
			Value:   cfg.PluginSlug,
			Wrapped: ErrInvalidConfig,
		})
	}

	if !cfg.PackageManager.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "packageManager",
			Message: "must be one of: npm, yarn, pnpm",
			Value:   cfg.PackageManager,
			Wrapped: ErrInvalidConfig,
		})
	}

	if cfg.MainFile != "" && !isInsideRoot(cfg.MainFile) {
		errs = append(errs, ValidationError{
			Field:   "mainFile",
			Message: "must be a relative path inside the project",
			Value:   cfg.MainFile,
			Wrapped: ErrInvalidConfig,
		})
	}

	for _, inc := range cfg.IncludeFiles {
		if !isInsideRoot(inc) {
			errs = append(errs, ValidationError{
				Field:   "includeFiles",
				Message: "entries must be relative paths inside the project",
				Value:   inc,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if cfg.FTP.Port < 0 || cfg.FTP.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "ftpConfig.port",
			Message: "must be between 0 and 65535",
			Value:   cfg.FTP.Port,
			Wrapped: ErrInvalidConfig,
		})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// isInsideRoot reports whether p is relative and does not escape the root.
func isInsideRoot(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	clean := filepath.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
