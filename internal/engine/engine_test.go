package engine

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/model"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	store, err := rulestore.Load()
	require.NoError(t, err)
	return New(store, opts...)
}

func signals(names ...string) []model.RawSignal {
	out := make([]model.RawSignal, len(names))
	for i, n := range names {
		out[i] = model.RawSignal{Name: n, Source: "manual"}
	}
	return out
}

func techNames(tax *model.CategorizedTaxonomy, category, subcategory string) []string {
	var names []string
	for _, e := range tax.Categories[category].Subcategories[subcategory].Technologies {
		names = append(names, e.Name)
	}
	return names
}

func TestCategorizeKnownStack(t *testing.T) {
	eng := newEngine(t)
	tax := eng.Categorize(signals("django", "flask", "react", "postgresql", "docker"))

	assert.Equal(t, 5, tax.TotalTechnologies)
	assert.ElementsMatch(t, []string{"Django", "Flask"}, techNames(tax, "backend", "frameworks"))
	assert.Equal(t, []string{"React"}, techNames(tax, "frontend", "frameworks"))
	assert.Equal(t, []string{"PostgreSQL"}, techNames(tax, "databases", "sql-databases"))
	assert.Equal(t, []string{"Docker"}, techNames(tax, "devops", "containerization"))

	others := tax.Categories["others"]
	assert.Zero(t, others.TotalCount)
	assert.True(t, others.Visible)
	assert.NotEmpty(t, others.LayoutHints["empty_state_message"])

	assert.Equal(t, 5, tax.Processing.RulesApplied)
	assert.False(t, tax.Processing.FallbackMode)
}

func TestSupportingToolsLandInLibraries(t *testing.T) {
	eng := newEngine(t)
	tax := eng.Categorize(signals("celery", "gunicorn"))

	libs := tax.Categories["backend"].Subcategories["libraries"].Technologies
	require.Len(t, libs, 2)
	assert.Empty(t, tax.Categories["backend"].Subcategories["frameworks"].Technologies)

	byKey := map[string]model.TechnologyEntry{}
	for _, e := range libs {
		byKey[e.Key] = e
	}
	assert.Equal(t, "task-queues", byKey["celery"].Metadata["framework_type"])
	assert.Equal(t, "servers", byKey["gunicorn"].Metadata["framework_type"])
}

func TestDuplicateSignalsMerge(t *testing.T) {
	eng := newEngine(t)
	tax := eng.Categorize([]model.RawSignal{
		{Name: "django", Source: "manifest:requirements.txt"},
		{Name: "Django", Source: "file-extension:.py"},
		{Name: "django@4.2.0", Source: "config-file:settings.py"},
	})

	assert.Equal(t, 1, tax.TotalTechnologies)
	frameworks := tax.Categories["backend"].Subcategories["frameworks"].Technologies
	require.Len(t, frameworks, 1)

	e := frameworks[0]
	assert.Equal(t, "Django", e.Name)
	assert.Equal(t, "4.2.0", e.Version)
	assert.Equal(t, 1.0, e.Confidence)
	assert.Len(t, e.Sources, 3)
}

func TestUnknownSignal(t *testing.T) {
	eng := newEngine(t)
	tax := eng.Categorize(signals("foobar-lib-xyz"))

	misc := tax.Categories["others"].Subcategories["miscellaneous"].Technologies
	require.Len(t, misc, 1)
	assert.Equal(t, 0.3, misc[0].Confidence)
	assert.Equal(t, "no-rule-matched", misc[0].Metadata["reason"])
	assert.Zero(t, tax.Processing.RulesApplied)
}

func TestEmptyInputStaysComplete(t *testing.T) {
	eng := newEngine(t)
	tax := eng.Categorize(nil)

	require.Len(t, tax.Categories, 5)
	assert.Zero(t, tax.TotalTechnologies)
	for name, cat := range tax.Categories {
		assert.True(t, cat.Visible, "category %s", name)
		assert.NotEmpty(t, cat.Subcategories, "category %s", name)
	}
}

func TestInvalidSignalsSkipped(t *testing.T) {
	eng := newEngine(t)
	tax := eng.Categorize([]model.RawSignal{
		{Name: "", Source: "manifest:requirements.txt"},
		{Name: "   ", Source: "manifest:requirements.txt"},
		{Name: "django", Source: "manifest:requirements.txt"},
	})

	assert.Equal(t, 2, tax.Processing.SkippedCount)
	assert.Equal(t, 1, tax.TotalTechnologies)
}

func TestFallbackWithoutRuleStore(t *testing.T) {
	eng := New(nil)
	tax := eng.Categorize(signals("django"))

	assert.True(t, tax.Processing.FallbackMode)
	assert.Zero(t, tax.TotalTechnologies)
	require.Len(t, tax.Categories, 5)
	for _, name := range model.CategoryOrder {
		cat, ok := tax.Categories[name]
		require.True(t, ok, "category %s missing from fallback", name)
		assert.True(t, cat.Visible)
	}
}

func TestDeterministicOutput(t *testing.T) {
	eng := newEngine(t)
	input := signals("django", "react", "redis", "unknown-thing", "celery", "Django")

	first := eng.Categorize(input)
	second := eng.Categorize(input)
	first.Processing.ElapsedMs = 0
	second.Processing.ElapsedMs = 0

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBatchEquivalence(t *testing.T) {
	store, err := rulestore.Load()
	require.NoError(t, err)

	input := signals(
		"django", "react", "postgresql", "docker", "celery",
		"Django", "redis", "gunicorn", "django@4.2.0", "vue",
		"mongodb", "terraform", "pytest", "webpack", "react",
	)

	batched := New(store, WithBatchSize(2)).Categorize(input)
	whole := New(store, WithBatchSize(1000)).Categorize(input)
	batched.Processing.ElapsedMs = 0
	whole.Processing.ElapsedMs = 0

	a, err := json.Marshal(batched)
	require.NoError(t, err)
	b, err := json.Marshal(whole)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestLargeBatchedRun(t *testing.T) {
	eng := newEngine(t, WithBatchSize(100), WithCacheSize(256))

	input := signals("django", "flask", "react", "postgresql", "docker")
	for i := 0; i < 500; i++ {
		input = append(input, model.RawSignal{
			Name:   fmt.Sprintf("obscureware%dx", i),
			Source: "manual",
		})
	}

	start := time.Now()
	tax := eng.Categorize(input)
	elapsed := time.Since(start)

	assert.Equal(t, 505, tax.TotalTechnologies)
	assert.ElementsMatch(t, []string{"Django", "Flask"}, techNames(tax, "backend", "frameworks"))
	assert.Equal(t, []string{"React"}, techNames(tax, "frontend", "frameworks"))
	assert.Len(t, tax.Categories["others"].Subcategories["miscellaneous"].Technologies, 500)
	assert.Less(t, elapsed, 2*time.Second)
}
