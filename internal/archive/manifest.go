package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/pkg/models"
)

// Entry is one include-list item: a path inside the project root and the
// path it takes inside the archive.
type Entry struct {
	Source string
	Dest   string
}

// Manifest is the ordered, de-duplicated list of entries of one release.
type Manifest []Entry

// Dests returns the archive paths of m in order.
func (m Manifest) Dests() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Dest
	}
	return out
}

// Resolve builds the manifest for cfg. An empty includeFiles means every
// top-level entry of root except the scratch directory, the archive and the
// settings file. The main file is appended when absent. Duplicates keep
// their first position.
func Resolve(root string, cfg *models.ReleaseConfig) (Manifest, error) {
	items := slices.Clone(cfg.IncludeFiles)
	if len(items) == 0 {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", root, err)
		}
		skip := map[string]bool{
			defs.StagingDir:    true,
			defs.SettingsJSON:  true,
			cfg.ArchiveName(): true,
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !skip[e.Name()] {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		items = names
	}
	if cfg.MainFile != "" {
		items = append(items, cfg.MainFile)
	}

	seen := make(map[string]bool, len(items))
	m := make(Manifest, 0, len(items))
	for _, item := range items {
		rel := filepath.ToSlash(filepath.Clean(item))
		if rel == "." || seen[rel] {
			continue
		}
		seen[rel] = true
		m = append(m, Entry{
			Source: filepath.Join(root, filepath.FromSlash(rel)),
			Dest:   rel,
		})
	}
	return m, nil
}

// Matcher decides whether a file or directory is excluded from the archive.
// Patterns are literal names or filepath.Match globs compared with base names.
type Matcher struct {
	patterns []string
}

// NewMatcher creates a Matcher over patterns.
func NewMatcher(patterns []string) Matcher {
	return Matcher{patterns: slices.Clone(patterns)}
}

// Match reports whether name (a base name) is excluded.
func (m Matcher) Match(name string) bool {
	for _, p := range m.patterns {
		if p == name {
			return true
		}
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// RsyncArgs renders the patterns as rsync --exclude flags.
func (m Matcher) RsyncArgs() []string {
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, "--exclude="+p)
	}
	return out
}
