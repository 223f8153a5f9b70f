package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/wpforge/wprelease/internal/core/project"
	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/pkg/models"
)

// Prompter solicits a single value from the operator.
type Prompter interface {
	Input(title, description, defaultValue string) (string, error)
}

// LoadOptions controls how missing settings are resolved.
type LoadOptions struct {
	// SkipPrompts turns unresolved required fields into ErrMissingConfig.
	SkipPrompts bool

	// Prompter asks for missing fields. Nil behaves like SkipPrompts.
	Prompter Prompter
}

// Manager loads and persists the settings file of one project root.
// It must be initialized via Load() before Get or Save are used.
type Manager struct {
	mu       sync.RWMutex
	detector project.Detector
	logger   *slog.Logger
	root      string
	config    *models.ReleaseConfig
	created   bool
	completed []string
}

// NewManager creates a Manager that derives defaults with detector.
func NewManager(detector project.Detector, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if detector == nil {
		detector = project.NewDetector(logger)
	}
	return &Manager{
		detector: detector,
		logger:   logger.With("module", "config"),
	}
}

// SettingsPath returns the settings file path for root.
func SettingsPath(root string) string {
	return filepath.Join(filepath.Clean(root), defs.SettingsJSON)
}

// @MX:ANCHOR: [AUTO] Load resolves project identity for every project verb
// @MX:REASON: [AUTO] fan_in=2, called from cli loadProject and config tests
// Load reads root's settings file and shallow-merges it over the compiled
// defaults. Without a settings file the defaults are derived by inspecting
// the project. A settings file lacking identity fields has them filled
// from the plugin header and detection, in memory only. Required fields
// that remain empty are prompted for, or reported as ErrMissingConfig when
// prompting is not allowed; in that case nothing is written. The settings
// file is written when it was newly created or completed by prompts.
func (m *Manager) Load(root string, opts LoadOptions) (*models.ReleaseConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	root = filepath.Clean(root)
	cfg := NewDefaultReleaseConfig()
	created := false
	var completed []string

	var det *project.Detection
	data, err := os.ReadFile(SettingsPath(root))
	switch {
	case err == nil:
		if err := mergeSettings(cfg, data); err != nil {
			return nil, fmt.Errorf("load %s: %w", defs.SettingsJSON, err)
		}
		m.logger.Debug("settings file loaded", "path", SettingsPath(root))
		if missing := cfg.MissingRequired(); len(missing) > 0 {
			det, err = m.detector.Detect(root)
			if err != nil {
				return nil, fmt.Errorf("detect project: %w", err)
			}
			completeIdentity(root, cfg, det)
			completed = filled(missing, cfg.MissingRequired())
			m.logger.Debug("settings completed from project", "fields", completed)
		}
	case os.IsNotExist(err):
		det, err = m.detector.Detect(root)
		if err != nil {
			return nil, fmt.Errorf("detect project: %w", err)
		}
		ApplyDetection(cfg, det)
		created = true
		m.logger.Info("no settings file, derived defaults from project", "root", root)
	default:
		return nil, fmt.Errorf("read %s: %w", defs.SettingsJSON, err)
	}

	dirty := created
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		if opts.SkipPrompts || opts.Prompter == nil {
			return nil, &MissingFieldsError{Fields: missing}
		}
		if err := promptMissing(cfg, det, opts.Prompter); err != nil {
			return nil, err
		}
		dirty = true
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	if dirty {
		if err := writeSettings(root, cfg); err != nil {
			return nil, err
		}
		m.logger.Info("settings file written", "path", SettingsPath(root))
		completed = nil
	}

	m.root = root
	m.config = cfg
	m.created = created
	m.completed = completed
	return cfg.Clone(), nil
}

// Get returns a copy of the loaded configuration, or nil before Load.
func (m *Manager) Get() *models.ReleaseConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return nil
	}
	return m.config.Clone()
}

// Created reports whether the last Load derived a new settings file.
func (m *Manager) Created() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.created
}

// Completed lists the identity fields the last Load filled in memory
// because the settings file lacked them. Save persists them.
func (m *Manager) Completed() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.completed...)
}

// Set replaces the in-memory configuration. The plugin slug of a loaded
// configuration cannot change.
func (m *Manager) Set(cfg *models.ReleaseConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return ErrNotInitialized
	}
	if m.config.PluginSlug != "" && cfg.PluginSlug != m.config.PluginSlug {
		return &ValidationErrors{Errors: []ValidationError{{
			Field:   "pluginSlug",
			Message: "is fixed once derived",
			Value:   cfg.PluginSlug,
			Wrapped: ErrInvalidConfig,
		}}}
	}
	if err := Validate(cfg); err != nil {
		return err
	}
	m.config = cfg.Clone()
	return nil
}

// Save persists the current configuration to disk atomically.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return ErrNotInitialized
	}
	if err := writeSettings(m.root, m.config); err != nil {
		return err
	}
	m.completed = nil
	return nil
}

// ApplyDetection fills empty fields of cfg from a project detection.
func ApplyDetection(cfg *models.ReleaseConfig, det *project.Detection) {
	if det == nil {
		return
	}
	if cfg.PluginName == "" {
		cfg.PluginName = det.PluginName
	}
	if cfg.PluginSlug == "" {
		cfg.PluginSlug = det.PluginSlug
	}
	if cfg.MainFile == "" {
		cfg.MainFile = det.MainFile
	}
	if det.PackageManager != "" {
		cfg.PackageManager = det.PackageManager
	}
	if cfg.BuildCommand == "" && det.HasBuildScript {
		cfg.BuildCommand = cfg.PackageManager.RunScriptCommand(DefaultBuildScript)
	}
}

// completeIdentity fills the empty identity fields of a loaded settings
// file. The name comes from the main file header, then detection, then the
// slug. Non-identity fields keep the file's values.
func completeIdentity(root string, cfg *models.ReleaseConfig, det *project.Detection) {
	if cfg.MainFile == "" {
		cfg.MainFile = det.MainFile
	}
	if cfg.PluginName == "" && cfg.MainFile != "" {
		if h, err := project.ReadPluginHeader(root, cfg.MainFile); err == nil {
			cfg.PluginName = h.Name
		}
	}
	if cfg.PluginName == "" {
		cfg.PluginName = det.PluginName
	}
	if cfg.PluginSlug == "" {
		cfg.PluginSlug = det.PluginSlug
	}
	if cfg.PluginName == "" && cfg.PluginSlug != "" {
		cfg.PluginName = project.NameFromSlug(cfg.PluginSlug)
	}
}

// filled returns the fields of before that are absent from after.
func filled(before, after []string) []string {
	var out []string
	for _, f := range before {
		if !slices.Contains(after, f) {
			out = append(out, f)
		}
	}
	return out
}

// mergeSettings applies the top-level keys of a settings document over cfg.
// Present keys replace the default wholesale; nested objects are not merged.
func mergeSettings(cfg *models.ReleaseConfig, data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, ok := raw["ftpConfig"]; ok {
		cfg.FTP = models.FTPConfig{}
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if cfg.IncludeFiles == nil {
		cfg.IncludeFiles = []string{}
	}
	if cfg.ExcludedFiles == nil {
		cfg.ExcludedFiles = []string{}
	}
	return nil
}

// promptMissing asks for each empty required field with a computed default.
func promptMissing(cfg *models.ReleaseConfig, det *project.Detection, p Prompter) error {
	if cfg.PluginName == "" {
		def := det.PluginName
		v, err := p.Input("Plugin name", "Display name from the plugin header", def)
		if err != nil {
			return err
		}
		cfg.PluginName = v
	}
	if cfg.PluginSlug == "" {
		def := det.PluginSlug
		if def == "" {
			def = project.Slugify(cfg.PluginName)
		}
		v, err := p.Input("Plugin slug", "Lowercase, hyphenated; names the release archive", def)
		if err != nil {
			return err
		}
		cfg.PluginSlug = project.Slugify(v)
	}
	if cfg.MainFile == "" {
		def := det.MainFile
		if def == "" {
			def = cfg.PluginSlug + defs.PluginFileExt
		}
		v, err := p.Input("Main plugin file", "File holding the plugin header, relative to the project root", def)
		if err != nil {
			return err
		}
		cfg.MainFile = v
	}
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// writeSettings marshals cfg as indented JSON and writes it atomically.
func writeSettings(root string, cfg *models.ReleaseConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", defs.SettingsJSON, err)
	}
	data = append(data, '\n')
	if err := atomicWrite(SettingsPath(root), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", defs.SettingsJSON, err)
	}
	return nil
}

// atomicWrite writes data to a temp file in the target directory and
// renames it over path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".wprelease-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
