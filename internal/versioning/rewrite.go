package versioning

import (
	"regexp"

	"github.com/wpforge/wprelease/internal/core/project"
)

// Patterns passed to RewriteVersionField. Group 1 is the text kept before
// the version and group 2 is the version itself.
var (
	// HeaderVersionPattern matches the "Version:" line of a plugin header.
	// Use FindHeaderVersion and RewriteHeaderVersion, which limit it to the
	// header block.
	HeaderVersionPattern = regexp.MustCompile(`(?mi)^([ \t/*#@]*Version:[ \t]*)([^\s*]+)`)

	// StableTagPattern matches the "Stable tag:" line of readme.txt.
	StableTagPattern = regexp.MustCompile(`(?mi)^([ \t]*Stable tag:[ \t]*)(\S+)`)
)

// ConstantPatterns returns the patterns matching the version constant of
// a plugin, written either with define() or as a class/namespace const.
func ConstantPatterns(slug string) []*regexp.Regexp {
	name := regexp.QuoteMeta(project.ConstantPrefix(slug) + "_VERSION")
	return []*regexp.Regexp{
		regexp.MustCompile(`(define\(\s*['"]` + name + `['"]\s*,\s*['"])([^'"]*)`),
		regexp.MustCompile(`(const\s+` + name + `\s*=\s*['"])([^'"]*)`),
	}
}

// RewriteVersionField replaces the second capture group of the first match
// of pattern with newVersion. Later matches are left untouched. The bool
// result reports whether content changed.
func RewriteVersionField(content string, pattern *regexp.Regexp, newVersion string) (string, bool) {
	loc := pattern.FindStringSubmatchIndex(content)
	if len(loc) < 6 || loc[4] < 0 {
		return content, false
	}
	if content[loc[4]:loc[5]] == newVersion {
		return content, false
	}
	return content[:loc[4]] + newVersion + content[loc[5]:], true
}

// FindVersionField returns the second capture group of the first match of pattern.
func FindVersionField(content string, pattern *regexp.Regexp) (string, bool) {
	m := pattern.FindStringSubmatch(content)
	if len(m) < 3 {
		return "", false
	}
	return m[2], true
}

// FindHeaderVersion returns the "Version:" value of a plugin header. Only
// the block WordPress reads for headers is searched.
func FindHeaderVersion(content string) (string, bool) {
	return FindVersionField(project.HeaderBlock(content), HeaderVersionPattern)
}

// RewriteHeaderVersion replaces the "Version:" value of a plugin header.
// Lines past the header block are never touched.
func RewriteHeaderVersion(content, newVersion string) (string, bool) {
	block := project.HeaderBlock(content)
	out, changed := RewriteVersionField(block, HeaderVersionPattern, newVersion)
	return out + content[len(block):], changed
}
