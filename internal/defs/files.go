package defs

// Common file names used across the project.
const (
	// SettingsJSON is the project-scoped release settings file.
	SettingsJSON = ".wprelease.json"

	// StagingDir is the scratch directory used while building the archive.
	StagingDir = ".wprelease-staging"

	// CredentialsYAML is the user-scoped FTP credential store file.
	CredentialsYAML = "credentials.yaml"

	// ConfigDirName is the directory under the user config dir that holds wprelease state.
	ConfigDirName = "wprelease"

	// ArchiveExt is the extension of the release archive.
	ArchiveExt = ".zip"
)

// Project files inspected or rewritten during a release.
const (
	PackageJSON   = "package.json"
	ComposerJSON  = "composer.json"
	ReadmeTXT     = "readme.txt"
	VendorDir     = "vendor"
	VendorLoader  = "autoload.php"
	NPMLock       = "package-lock.json"
	YarnLock      = "yarn.lock"
	PNPMLock      = "pnpm-lock.yaml"
	PluginFileExt = ".php"
)
