package versioning

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a MAJOR.MINOR.PATCH triple without pre-release or build metadata.
type Version struct {
	Major int
	Minor int
	Patch int
}

var plainVersion = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// Parse parses s as three dot-separated numbers. Leading zeros are
// allowed (2024.01.15); String renders the numbers without them.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if !plainVersion.MatchString(s) {
		return Version{}, fmt.Errorf("%q: %w", s, ErrInvalidVersion)
	}

	parts := strings.SplitN(s, ".", 3)
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%q: %w", s, ErrInvalidVersion)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Compare returns -1, 0 or +1 as a is lower than, equal to or higher than b.
func Compare(a, b Version) int {
	return semver.Compare("v"+a.String(), "v"+b.String())
}

// String renders v as "M.N.P".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ReleaseType selects which version component a release increments.
type ReleaseType string

const (
	ReleasePatch ReleaseType = "patch"
	ReleaseMinor ReleaseType = "minor"
	ReleaseMajor ReleaseType = "major"
)

// ReleaseTypes returns every recognised release type.
func ReleaseTypes() []ReleaseType {
	return []ReleaseType{ReleasePatch, ReleaseMinor, ReleaseMajor}
}

// ParseReleaseType maps s to a release type. Unrecognised values yield
// ReleasePatch and false.
func ParseReleaseType(s string) (ReleaseType, bool) {
	switch t := ReleaseType(strings.ToLower(strings.TrimSpace(s))); t {
	case ReleasePatch, ReleaseMinor, ReleaseMajor:
		return t, true
	default:
		return ReleasePatch, false
	}
}

// Next returns the version following v for release type t.
// Any type other than major or minor increments the patch number.
func Next(v Version, t ReleaseType) Version {
	switch t {
	case ReleaseMajor:
		return Version{Major: v.Major + 1}
	case ReleaseMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// CommitMessage is the message of the commit recording a version bump.
func CommitMessage(v Version) string {
	return "version bump to " + v.String()
}
