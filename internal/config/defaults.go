package config

import (
	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/pkg/models"
)

// Default value constants to avoid magic numbers and strings.
const (
	DefaultPackageManager = models.PackageManagerNPM
	DefaultFTPPort        = 21
	DefaultFTPPath        = "/"
	DefaultBuildScript    = "build"
)

// DefaultExcludedFiles are development artifacts never shipped in a release archive.
func DefaultExcludedFiles() []string {
	return []string{
		".git",
		".github",
		".gitignore",
		".gitattributes",
		".editorconfig",
		".DS_Store",
		".idea",
		".vscode",
		"node_modules",
		"tests",
		"phpunit.xml",
		"phpunit.xml.dist",
		"phpcs.xml",
		"phpcs.xml.dist",
		defs.NPMLock,
		defs.YarnLock,
		defs.PNPMLock,
		defs.SettingsJSON,
		defs.StagingDir,
		"*.zip",
		"*.log",
	}
}

// NewDefaultReleaseConfig returns a ReleaseConfig with all fields set to compiled defaults.
// Identity fields are intentionally empty; they come from the settings file,
// detection or prompts.
func NewDefaultReleaseConfig() *models.ReleaseConfig {
	return &models.ReleaseConfig{
		PackageManager: DefaultPackageManager,
		IncludeFiles:   []string{},
		ExcludedFiles:  DefaultExcludedFiles(),
		FTP:            NewDefaultFTPConfig(),
	}
}

// NewDefaultFTPConfig returns an FTPConfig with default values. Upload is off.
func NewDefaultFTPConfig() models.FTPConfig {
	return models.FTPConfig{
		Enabled: false,
		Port:    DefaultFTPPort,
		Path:    DefaultFTPPath,
	}
}
