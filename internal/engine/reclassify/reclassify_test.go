package reclassify

import (
	"testing"

	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/model"
)

func newReclassifier(t *testing.T) *Reclassifier {
	t.Helper()
	s, err := rulestore.Load()
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	return New(s)
}

func verdict(key, category, subcategory string) model.Verdict {
	return model.Verdict{
		Key:         key,
		Category:    category,
		Subcategory: subcategory,
		Confidence:  0.7,
		Metadata:    map[string]string{},
	}
}

func TestPrimaryFrameworkStays(t *testing.T) {
	r := newReclassifier(t)

	for _, key := range []string{"django", "flask", "rails"} {
		v := r.Apply(verdict(key, "backend", "frameworks"))
		if v.Subcategory != "frameworks" {
			t.Errorf("%s moved to %s, want frameworks", key, v.Subcategory)
		}
		if v.Metadata["framework_type"] != "primary" {
			t.Errorf("%s framework_type = %q, want primary", key, v.Metadata["framework_type"])
		}
	}

	v := r.Apply(verdict("react", "frontend", "frameworks"))
	if v.Subcategory != "frameworks" || v.Metadata["framework_type"] != "primary" {
		t.Fatalf("react: %s/%s", v.Subcategory, v.Metadata["framework_type"])
	}
}

func TestSupportingGroupsDemote(t *testing.T) {
	r := newReclassifier(t)

	cases := []struct {
		key       string
		wantGroup string
	}{
		{"celery", "task-queues"},
		{"gunicorn", "servers"},
		{"webpack", "build-tools"},
		{"pytest", "testing"},
		{"eslint", "linting"},
	}
	for _, c := range cases {
		v := r.Apply(verdict(c.key, "backend", "frameworks"))
		if v.Subcategory != "libraries" {
			t.Errorf("%s subcategory = %s, want libraries", c.key, v.Subcategory)
		}
		if v.Metadata["framework_type"] != c.wantGroup {
			t.Errorf("%s framework_type = %q, want %q", c.key, v.Metadata["framework_type"], c.wantGroup)
		}
	}
}

func TestNamePatternFallback(t *testing.T) {
	r := newReclassifier(t)

	cases := []struct {
		key       string
		wantGroup string
	}{
		{"someserver", "servers"},
		{"modwsgi", "servers"},
		{"megabuild", "build-tools"},
		{"quicktest", "testing"},
		{"stylelint", "linting"},
	}
	for _, c := range cases {
		v := r.Apply(verdict(c.key, "backend", "frameworks"))
		if v.Subcategory != "libraries" {
			t.Errorf("%s subcategory = %s, want libraries", c.key, v.Subcategory)
		}
		if v.Metadata["framework_type"] != c.wantGroup {
			t.Errorf("%s framework_type = %q, want %q", c.key, v.Metadata["framework_type"], c.wantGroup)
		}
	}
}

func TestAmbiguousDefaultsToLibraries(t *testing.T) {
	r := newReclassifier(t)

	v := r.Apply(verdict("mysteryware", "backend", "frameworks"))
	if v.Subcategory != "libraries" {
		t.Fatalf("ambiguous key left in %s, want libraries", v.Subcategory)
	}
	if v.Metadata["framework_type"] != "supporting" {
		t.Fatalf("framework_type = %q, want supporting", v.Metadata["framework_type"])
	}
}

func TestOtherSubcategoriesUntouched(t *testing.T) {
	r := newReclassifier(t)

	v := r.Apply(verdict("postgresql", "databases", "sql-databases"))
	if v.Subcategory != "sql-databases" {
		t.Fatalf("non-frameworks verdict rewritten to %s", v.Subcategory)
	}
	if _, set := v.Metadata["framework_type"]; set {
		t.Fatal("framework_type set on a non-frameworks verdict")
	}
}
