package versioning

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SetManifestVersion sets the top-level "version" property of a JSON
// document to newVersion. The value is spliced into the original bytes so
// key order and formatting are preserved. A missing property is inserted
// as the first key. The bool result reports whether content changed.
func SetManifestVersion(content []byte, newVersion string) ([]byte, bool, error) {
	value, err := json.Marshal(newVersion)
	if err != nil {
		return nil, false, err
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	tok, err := dec.Token()
	if err != nil {
		return nil, false, fmt.Errorf("parse manifest: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false, errors.New("parse manifest: top-level value is not an object")
	}
	objStart := int(dec.InputOffset())

	empty := true
	for dec.More() {
		empty = false
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false, fmt.Errorf("parse manifest: %w", err)
		}
		afterKey := int(dec.InputOffset())

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false, fmt.Errorf("parse manifest: %w", err)
		}
		if key, _ := keyTok.(string); key != "version" {
			continue
		}

		end := int(dec.InputOffset())
		start := afterKey
		for start < end && isSeparator(content[start]) {
			start++
		}
		if bytes.Equal(content[start:end], value) {
			return content, false, nil
		}
		return splice(content, start, end, value), true, nil
	}

	// The document must be a single complete object.
	if _, err := dec.Token(); err != nil {
		return nil, false, fmt.Errorf("parse manifest: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false, errors.New("parse manifest: trailing data after object")
	}

	indent := leadingSpace(content[objStart:])
	insert := append([]byte(indent), `"version": `...)
	insert = append(insert, value...)
	if !empty {
		insert = append(insert, ',')
	}
	return splice(content, objStart, objStart, insert), true, nil
}

func isSeparator(b byte) bool {
	return b == ':' || b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// leadingSpace returns the whitespace prefix of b.
func leadingSpace(b []byte) string {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return string(b[:i])
}

func splice(content []byte, start, end int, with []byte) []byte {
	out := make([]byte, 0, len(content)-(end-start)+len(with))
	out = append(out, content[:start]...)
	out = append(out, with...)
	return append(out, content[end:]...)
}
