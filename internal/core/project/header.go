package project

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// headerScanLimit is how much of a PHP file is searched for the plugin
// header. WordPress itself reads the first 8 KiB.
const headerScanLimit = 8 * 1024

// PluginHeader holds the fields of a WordPress plugin header block.
type PluginHeader struct {
	Name       string
	Version    string
	TextDomain string
}

var (
	headerNameRe       = regexp.MustCompile(`(?mi)^[ \t/*#@]*Plugin Name:[ \t]*(.+)$`)
	headerVersionRe    = regexp.MustCompile(`(?mi)^[ \t/*#@]*Version:[ \t]*(\S+)`)
	headerTextDomainRe = regexp.MustCompile(`(?mi)^[ \t/*#@]*Text Domain:[ \t]*(\S+)`)
)

// ParsePluginHeader extracts the plugin header from PHP source. The second
// return value is false unless both a name and a version field are present.
func ParsePluginHeader(src string) (PluginHeader, bool) {
	src = HeaderBlock(src)

	var h PluginHeader
	if m := headerNameRe.FindStringSubmatch(src); m != nil {
		h.Name = cleanHeaderValue(m[1])
	}
	if m := headerVersionRe.FindStringSubmatch(src); m != nil {
		h.Version = cleanHeaderValue(m[1])
	}
	if m := headerTextDomainRe.FindStringSubmatch(src); m != nil {
		h.TextDomain = cleanHeaderValue(m[1])
	}
	return h, h.Name != "" && h.Version != ""
}

// ReadPluginHeader parses the header fields of root/file. Fields missing
// from the header are left empty.
func ReadPluginHeader(root, file string) (PluginHeader, error) {
	src, err := readHead(filepath.Join(root, filepath.FromSlash(file)), headerScanLimit)
	if err != nil {
		return PluginHeader{}, fmt.Errorf("read %s: %w", file, err)
	}
	h, _ := ParsePluginHeader(src)
	return h, nil
}

// HeaderBlock returns the part of PHP source WordPress scans for the
// plugin header.
func HeaderBlock(src string) string {
	if len(src) > headerScanLimit {
		return src[:headerScanLimit]
	}
	return src
}

// cleanHeaderValue trims whitespace and a trailing comment terminator.
func cleanHeaderValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "*/")
	return strings.TrimSpace(v)
}
