package project

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify converts a display name into a lowercase, hyphenated plugin slug.
// Accents are folded ("Café Menü" -> "cafe-menu") and runs of other
// characters collapse to a single hyphen.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// SlugFromPackageName strips an npm scope ("@acme/my-plugin" -> "my-plugin")
// and normalises the remainder with Slugify.
func SlugFromPackageName(name string) string {
	if strings.HasPrefix(name, "@") {
		if _, rest, ok := strings.Cut(name, "/"); ok {
			name = rest
		}
	}
	return Slugify(name)
}

// ConstantPrefix converts a slug into the UPPER_SNAKE prefix used by
// plugin constants ("my-plugin" -> "MY_PLUGIN").
func ConstantPrefix(slug string) string {
	return strings.ToUpper(strings.ReplaceAll(slug, "-", "_"))
}

// NameFromSlug turns a slug back into a display name ("my-plugin" -> "My Plugin").
func NameFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}
