package versioning

import (
	"encoding/json"
	"testing"
)

func TestSetManifestVersion(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantChanged bool
	}{
		{
			name:        "replace preserves order and formatting",
			in:          "{\n  \"name\": \"demo\",\n  \"version\": \"1.2.3\",\n  \"private\": true\n}\n",
			want:        "{\n  \"name\": \"demo\",\n  \"version\": \"1.2.4\",\n  \"private\": true\n}\n",
			wantChanged: true,
		},
		{
			name:        "compact",
			in:          `{"version":"1.2.3","name":"demo"}`,
			want:        `{"version":"1.2.4","name":"demo"}`,
			wantChanged: true,
		},
		{
			name:        "nested version untouched",
			in:          `{"engines":{"version":"x"},"version":"1.2.3"}`,
			want:        `{"engines":{"version":"x"},"version":"1.2.4"}`,
			wantChanged: true,
		},
		{
			name:        "insert when absent",
			in:          "{\n  \"name\": \"demo\"\n}\n",
			want:        "{\n  \"version\": \"1.2.4\",\n  \"name\": \"demo\"\n}\n",
			wantChanged: true,
		},
		{
			name:        "insert into empty object",
			in:          `{}`,
			want:        `{"version": "1.2.4"}`,
			wantChanged: true,
		},
		{
			name:        "already current",
			in:          `{"version": "1.2.4"}`,
			want:        `{"version": "1.2.4"}`,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := SetManifestVersion([]byte(tt.in), "1.2.4")
			if err != nil {
				t.Fatalf("SetManifestVersion() error: %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if string(got) != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
			if !json.Valid(got) {
				t.Errorf("output is not valid JSON: %s", got)
			}
		})
	}
}

func TestSetManifestVersion_Invalid(t *testing.T) {
	for _, in := range []string{``, `[1,2]`, `{"name":`, `{"a":1} {}`} {
		if _, _, err := SetManifestVersion([]byte(in), "1.0.0"); err == nil {
			t.Errorf("SetManifestVersion(%q) expected error", in)
		}
	}
}
