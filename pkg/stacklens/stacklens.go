package stacklens

import (
	"fmt"

	"github.com/crimson-sun/stacklens/internal/engine"
	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/model"
)

// Categorizer is a technology categorization engine. It classifies detected
// technology signals into a fixed five-domain taxonomy using an immutable
// rule store. Safe for concurrent use: create once, reuse across runs.
type Categorizer struct {
	engine *engine.Engine
	store  *rulestore.Store
}

// New creates a Categorizer, loading and validating the rule tables. Rule
// configuration errors are fatal here: fix the rules and construct again.
func New(opts ...Option) (*Categorizer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var store *rulestore.Store
	var err error
	switch {
	case o.rulesData != nil:
		store, err = rulestore.Parse(o.rulesData)
	case o.rulesPath != "":
		store, err = rulestore.LoadFile(o.rulesPath)
	default:
		store, err = rulestore.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("stacklens: %w", err)
	}

	eng := engine.New(store,
		engine.WithBatchSize(o.batchSize),
		engine.WithCacheSize(o.cacheSize),
	)
	return &Categorizer{engine: eng, store: store}, nil
}

// Categorize classifies a signal list into the complete taxonomy. It never
// fails: malformed signals are skipped and counted, and an internal failure
// yields a structurally valid fallback result flagged in Processing.
func (c *Categorizer) Categorize(signals []Signal) *Taxonomy {
	raws := make([]model.RawSignal, len(signals))
	for i, s := range signals {
		raws[i] = model.RawSignal{Name: s.Name, Version: s.Version, Source: s.Source}
	}
	return taxonomyFromModel(c.engine.Categorize(raws))
}

// CategorizeNames is a convenience for bare technology names without
// provenance, e.g. quick exploration or tests.
func (c *Categorizer) CategorizeNames(names ...string) *Taxonomy {
	signals := make([]Signal, len(names))
	for i, n := range names {
		signals[i] = Signal{Name: n, Source: "manual"}
	}
	return c.Categorize(signals)
}

// RuleCount reports how many classification rules are loaded.
func (c *Categorizer) RuleCount() int {
	return c.store.RuleCount()
}
