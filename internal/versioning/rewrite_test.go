package versioning

import (
	"strings"
	"testing"
)

const twoVersionHeader = `<?php
/**
 * Plugin Name: Demo
 * Version: 1.2.3
 * Requires PHP: 7.4
 */

/*
 * Version: 9.9.9
 */
`

func TestRewriteVersionField_FirstMatchOnly(t *testing.T) {
	got, changed := RewriteVersionField(twoVersionHeader, HeaderVersionPattern, "1.2.4")
	if !changed {
		t.Fatal("expected change")
	}
	if !strings.Contains(got, " * Version: 1.2.4\n") {
		t.Errorf("first Version line not rewritten:\n%s", got)
	}
	if !strings.Contains(got, " * Version: 9.9.9\n") {
		t.Errorf("second Version line must stay unchanged:\n%s", got)
	}
	if strings.Count(got, "1.2.3") != 0 {
		t.Errorf("old version still present:\n%s", got)
	}
}

func TestRewriteVersionField_NoMatch(t *testing.T) {
	in := "<?php\n// nothing here\n"
	got, changed := RewriteVersionField(in, HeaderVersionPattern, "1.0.0")
	if changed || got != in {
		t.Errorf("RewriteVersionField() = (%q, %v), want input unchanged", got, changed)
	}
}

func TestRewriteVersionField_SameValue(t *testing.T) {
	in := " * Version: 2.0.0\n"
	if _, changed := RewriteVersionField(in, HeaderVersionPattern, "2.0.0"); changed {
		t.Error("rewriting to the same value must not report a change")
	}
}

func TestRewriteVersionField_HeaderStyles(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"docblock", " * Version: 1.0.0\n", " * Version: 1.1.0\n"},
		{"hash comment", "# Version:   1.0.0\n", "# Version:   1.1.0\n"},
		{"bare", "Version: 1.0.0", "Version: 1.1.0"},
		{"trailing close", " * Version: 1.0.0 */", " * Version: 1.1.0 */"},
		{"stable tag untouched", "Stable tag: 1.0.0\n", "Stable tag: 1.0.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := RewriteVersionField(tt.in, HeaderVersionPattern, "1.1.0")
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstantPatterns(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"define single quotes", "define( 'DEMO_GALLERY_VERSION', '1.0.0' );", "define( 'DEMO_GALLERY_VERSION', '2.0.0' );"},
		{"define double quotes", `define("DEMO_GALLERY_VERSION","1.0.0");`, `define("DEMO_GALLERY_VERSION","2.0.0");`},
		{"const", "const DEMO_GALLERY_VERSION = '1.0.0';", "const DEMO_GALLERY_VERSION = '2.0.0';"},
		{"other constant", "define( 'OTHER_VERSION', '1.0.0' );", "define( 'OTHER_VERSION', '1.0.0' );"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			for _, re := range ConstantPatterns("demo-gallery") {
				got, _ = RewriteVersionField(got, re, "2.0.0")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStableTagPattern(t *testing.T) {
	in := "=== Demo ===\nStable tag: 1.2.3\nTested up to: 6.5\n"
	got, changed := RewriteVersionField(in, StableTagPattern, "1.2.4")
	if !changed || !strings.Contains(got, "Stable tag: 1.2.4\n") {
		t.Errorf("got %q, changed=%v", got, changed)
	}
}

func TestFindVersionField(t *testing.T) {
	v, ok := FindVersionField(twoVersionHeader, HeaderVersionPattern)
	if !ok || v != "1.2.3" {
		t.Errorf("FindVersionField() = (%q, %v), want first occurrence", v, ok)
	}
	if _, ok := FindVersionField("no header", HeaderVersionPattern); ok {
		t.Error("expected no match")
	}
}

func TestHeaderVersion_OnlyHeaderBlock(t *testing.T) {
	late := "<?php\n// no header here\n" + strings.Repeat("// padding\n", 1000) +
		"$yaml = <<<EOT\n    version: 3.0.0\nEOT;\n"

	if v, ok := FindHeaderVersion(late); ok {
		t.Errorf("FindHeaderVersion() = %q, want no match past the header block", v)
	}
	if got, changed := RewriteHeaderVersion(late, "1.2.4"); changed || got != late {
		t.Error("RewriteHeaderVersion() touched code past the header block")
	}

	withHeader := twoVersionHeader + strings.Repeat("// padding\n", 1000) + "    version: 3.0.0\n"
	got, changed := RewriteHeaderVersion(withHeader, "1.2.4")
	if !changed || !strings.Contains(got, " * Version: 1.2.4\n") || !strings.HasSuffix(got, "    version: 3.0.0\n") {
		t.Errorf("RewriteHeaderVersion() changed = %v", changed)
	}
	if len(got) != len(withHeader) {
		t.Errorf("length = %d, want %d", len(got), len(withHeader))
	}
}
