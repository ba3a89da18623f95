// Package normalize canonicalizes raw signal names into comparison keys used
// for deduplication and exact-match lookup.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/crimson-sun/stacklens/internal/model"
)

// Version pins embedded in manifest-derived names, e.g. "django==4.2.0".
var pinOps = []string{"==", ">=", "<=", "~=", "!="}

// Trailing dash-separated version tokens, e.g. "somelib-1.2.3".
var dashVersion = regexp.MustCompile(`-v?(\d+(?:\.\d+)*)$`)

// Split separates a raw name into its base name and any embedded version
// suffix ("django@4.2.0", "django==4.2.0", "somelib-1.2").
func Split(name string) (base, version string) {
	base = strings.TrimSpace(name)

	for _, op := range pinOps {
		if i := strings.Index(base, op); i > 0 {
			return strings.TrimSpace(base[:i]), strings.TrimSpace(base[i+len(op):])
		}
	}

	// "@" splits a version only past position 0, so scoped names like
	// "@types/node" survive intact.
	if i := strings.LastIndex(base, "@"); i > 0 {
		if v := base[i+1:]; looksLikeVersion(v) {
			return base[:i], v
		}
	}

	if m := dashVersion.FindStringSubmatch(base); m != nil {
		return base[:len(base)-len(m[0])], m[1]
	}
	return base, ""
}

// Key returns the normalized comparison key for a raw name: case-folded,
// trimmed, version suffix stripped. An empty result marks the signal invalid;
// callers skip it and count it as skipped.
func Key(name string) string {
	base, _ := Split(name)
	return cases.Fold().String(base)
}

// Signal normalizes a raw signal, preferring the signal's own version field
// over one embedded in the name.
func Signal(raw model.RawSignal) (key, version string) {
	base, embedded := Split(raw.Name)
	key = cases.Fold().String(base)
	version = raw.Version
	if version == "" {
		version = embedded
	}
	return key, version
}

func looksLikeVersion(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == 'v' && len(s) > 1 {
		s = s[1:]
	}
	return s[0] >= '0' && s[0] <= '9'
}
