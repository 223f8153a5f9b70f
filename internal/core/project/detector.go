package project

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/pkg/models"
)

// Detection is what inspection of a plugin directory revealed.
// Empty fields were not found.
type Detection struct {
	PluginName     string
	PluginSlug     string
	MainFile       string
	HeaderVersion  string
	PackageName    string
	PackageVersion string
	PackageManager models.PackageManager
	HasBuildScript bool
	HasComposer    bool
}

// Detector identifies plugin characteristics from the filesystem.
type Detector interface {
	// Detect inspects root and returns everything it could determine.
	Detect(root string) (*Detection, error)
}

// projectDetector is the concrete implementation of Detector.
type projectDetector struct {
	logger *slog.Logger
}

// NewDetector creates a Detector.
func NewDetector(logger *slog.Logger) Detector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &projectDetector{logger: logger}
}

// packageManifest is the subset of package.json the detector reads.
type packageManifest struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Scripts map[string]string `json:"scripts"`
}

// lockfilePackageManagers maps lockfiles to package managers, in priority order.
var lockfilePackageManagers = []struct {
	file string
	pm   models.PackageManager
}{
	{defs.PNPMLock, models.PackageManagerPNPM},
	{defs.YarnLock, models.PackageManagerYarn},
	{defs.NPMLock, models.PackageManagerNPM},
}

// Detect inspects root for package.json, lockfiles and the plugin header.
func (d *projectDetector) Detect(root string) (*Detection, error) {
	root = filepath.Clean(root)
	if err := validateRoot(root); err != nil {
		return nil, err
	}

	d.logger.Debug("detecting plugin layout", "root", root)

	det := &Detection{PackageManager: DetectPackageManager(root)}

	manifest, err := readPackageManifest(root)
	if err != nil {
		// A broken package.json must not block detection of the PHP side.
		d.logger.Warn("ignoring unreadable package.json", "error", err)
	}
	if manifest != nil {
		det.PackageName = manifest.Name
		det.PackageVersion = manifest.Version
		_, det.HasBuildScript = manifest.Scripts["build"]
	}

	if _, err := os.Stat(filepath.Join(root, defs.ComposerJSON)); err == nil {
		det.HasComposer = true
	}

	mainFile, header, err := findMainFile(root)
	if err != nil {
		return nil, err
	}
	if mainFile != "" {
		det.MainFile = mainFile
		det.PluginName = header.Name
		det.HeaderVersion = header.Version
	}

	switch {
	case det.PackageName != "":
		det.PluginSlug = SlugFromPackageName(det.PackageName)
	case header.TextDomain != "":
		det.PluginSlug = Slugify(header.TextDomain)
	case det.PluginName != "":
		det.PluginSlug = Slugify(det.PluginName)
	default:
		det.PluginSlug = Slugify(filepath.Base(root))
	}

	d.logger.Debug("plugin layout detected",
		"main_file", det.MainFile,
		"slug", det.PluginSlug,
		"package_manager", det.PackageManager,
	)
	return det, nil
}

// DetectPackageManager chooses the package manager from the lockfiles in root.
// Defaults to npm.
func DetectPackageManager(root string) models.PackageManager {
	for _, lf := range lockfilePackageManagers {
		if _, err := os.Stat(filepath.Join(root, lf.file)); err == nil {
			return lf.pm
		}
	}
	return models.PackageManagerNPM
}

// readPackageManifest parses root/package.json. Returns (nil, nil) when absent.
func readPackageManifest(root string) (*packageManifest, error) {
	data, err := os.ReadFile(filepath.Join(root, defs.PackageJSON))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", defs.PackageJSON, err)
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &m, nil
}

// findMainFile scans root-level PHP files in name order and returns the
// first one carrying a plugin header.
func findMainFile(root string) (string, PluginHeader, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", PluginHeader{}, fmt.Errorf("read %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), defs.PluginFileExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		src, err := readHead(filepath.Join(root, name), headerScanLimit)
		if err != nil {
			continue
		}
		if h, ok := ParsePluginHeader(src); ok {
			return name, h, nil
		}
	}
	return "", PluginHeader{}, nil
}

// readHead reads at most n bytes from the start of path.
func readHead(path string, n int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, n))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
