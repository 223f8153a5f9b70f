// @MX:NOTE: [AUTO] ReleaseConfig is the on-disk schema of .wprelease.json. JSON keys are camelCase and must stay stable.
package models

import "slices"

// PackageManager identifies the JavaScript package manager used by a plugin.
type PackageManager string

const (
	PackageManagerNPM  PackageManager = "npm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerPNPM PackageManager = "pnpm"
)

// ValidPackageManagers returns all supported package manager values.
func ValidPackageManagers() []PackageManager {
	return []PackageManager{PackageManagerNPM, PackageManagerYarn, PackageManagerPNPM}
}

// IsValid checks if the package manager is a supported value.
func (p PackageManager) IsValid() bool {
	return slices.Contains(ValidPackageManagers(), p)
}

// InstallArgs returns the argv that installs dependencies.
func (p PackageManager) InstallArgs() []string {
	return []string{string(p), "install"}
}

// RunScriptCommand returns the command line that runs a package.json script.
func (p PackageManager) RunScriptCommand(script string) string {
	return string(p) + " run " + script
}

// ReleaseConfig represents the project settings file.
type ReleaseConfig struct {
	PluginName     string         `json:"pluginName"`
	PluginSlug     string         `json:"pluginSlug"`
	MainFile       string         `json:"mainFile"`
	BuildCommand   string         `json:"buildCommand,omitempty"`
	PackageManager PackageManager `json:"packageManager"`
	IncludeFiles   []string       `json:"includeFiles"`
	ExcludedFiles  []string       `json:"excludedFiles"`
	FTP            FTPConfig      `json:"ftpConfig"`
}

// FTPConfig represents the upload target kept in the project settings file.
// Values here have the lowest precedence; see the credential package.
type FTPConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Port     int    `json:"port"`
	Path     string `json:"path"`
}

// ArchiveName returns the file name of the release archive.
func (c *ReleaseConfig) ArchiveName() string {
	return c.PluginSlug + ".zip"
}

// MissingRequired returns the JSON names of required identity fields that are empty.
func (c *ReleaseConfig) MissingRequired() []string {
	var missing []string
	if c.PluginName == "" {
		missing = append(missing, "pluginName")
	}
	if c.PluginSlug == "" {
		missing = append(missing, "pluginSlug")
	}
	if c.MainFile == "" {
		missing = append(missing, "mainFile")
	}
	return missing
}

// Clone returns a deep copy of the configuration.
func (c *ReleaseConfig) Clone() *ReleaseConfig {
	out := *c
	out.IncludeFiles = slices.Clone(c.IncludeFiles)
	out.ExcludedFiles = slices.Clone(c.ExcludedFiles)
	return &out
}
