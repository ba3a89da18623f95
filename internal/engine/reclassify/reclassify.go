// Package reclassify runs the second classification pass that separates
// primary architectural frameworks from supporting libraries. It only touches
// verdicts the first pass left in the generic "frameworks" subcategory, and it
// never leaves an ambiguous entry there: when in doubt a technology is a
// library.
package reclassify

import (
	"strings"

	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/model"
)

const (
	frameworksSubcategory = "frameworks"
	librariesSubcategory  = "libraries"
)

// Name-pattern fallback for keys absent from every curated set. Checked in
// order; the group name becomes the framework_type metadata value.
var patternGroups = []struct {
	group    string
	patterns []string
}{
	{"servers", []string{"server", "wsgi", "asgi"}},
	{"build-tools", []string{"build", "bundle", "compile"}},
	{"testing", []string{"test", "mock", "spec"}},
	{"linting", []string{"lint", "format", "style"}},
}

// Reclassifier applies the framework-vs-library pass over one rule store.
type Reclassifier struct {
	store *rulestore.Store
}

func New(store *rulestore.Store) *Reclassifier {
	return &Reclassifier{store: store}
}

// Apply returns the verdict with its final subcategory. Runs between
// classification and deduplication so dedup only merges stable placements.
func (r *Reclassifier) Apply(v model.Verdict) model.Verdict {
	if v.Subcategory != frameworksSubcategory {
		return v
	}

	if r.store.IsPrimary(v.Category, v.Key) {
		setType(&v, "primary")
		return v
	}

	if group, ok := r.store.GroupOf(v.Key); ok {
		v.Subcategory = librariesSubcategory
		setType(&v, group)
		return v
	}

	for _, pg := range patternGroups {
		for _, p := range pg.patterns {
			if strings.Contains(v.Key, p) {
				v.Subcategory = librariesSubcategory
				setType(&v, pg.group)
				return v
			}
		}
	}

	// Unknown and not curated as primary: demote.
	v.Subcategory = librariesSubcategory
	setType(&v, "supporting")
	return v
}

func setType(v *model.Verdict, t string) {
	if v.Metadata == nil {
		v.Metadata = make(map[string]string, 1)
	}
	v.Metadata["framework_type"] = t
}
