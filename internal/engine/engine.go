// Package engine drives the categorization pipeline: normalize → classify →
// reclassify → dedup → build, with chunked processing for large signal lists
// and a guaranteed structurally valid fallback result when anything inside
// the pipeline fails.
package engine

import (
	"log/slog"
	"time"

	"github.com/crimson-sun/stacklens/internal/engine/classifier"
	"github.com/crimson-sun/stacklens/internal/engine/dedup"
	"github.com/crimson-sun/stacklens/internal/engine/normalize"
	"github.com/crimson-sun/stacklens/internal/engine/reclassify"
	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/engine/taxonomy"
	"github.com/crimson-sun/stacklens/internal/model"
)

// DefaultBatchSize is the chunk size used when none is configured.
const DefaultBatchSize = 100

// Engine is the categorization pipeline. The rule store it wraps is immutable,
// all per-run state is local to a call, so an Engine is safe for concurrent
// use. An Engine constructed without a usable store answers every call in
// fallback mode.
type Engine struct {
	store      *rulestore.Store
	classifier *classifier.Classifier
	reclass    *reclassify.Reclassifier
	builder    *taxonomy.Builder
	batchSize  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithBatchSize sets the chunk size for batched processing.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithCacheSize bounds the classifier's verdict cache. Zero disables it.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if e.store != nil {
			e.classifier = classifier.New(e.store, n)
		}
	}
}

// New creates an Engine over the given store. A nil store is tolerated: the
// engine then refuses to classify and serves the fallback taxonomy until a
// valid rule configuration is supplied.
func New(store *rulestore.Store, opts ...Option) *Engine {
	e := &Engine{store: store, batchSize: DefaultBatchSize}
	if store != nil {
		e.classifier = classifier.New(store, 0)
		e.reclass = reclassify.New(store)
		e.builder = taxonomy.New(store)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runStats is the per-run accounting behind processing_metadata.
type runStats struct {
	rulesApplied int
	skipped      int
	tiers        map[model.MatchKind]int
}

// Categorize runs the full pipeline and always returns a structurally valid
// taxonomy. Inputs larger than the batch size are processed in chunks whose
// partial results are re-deduplicated before the single taxonomy build, so
// batched and unbatched runs produce identical output.
func (e *Engine) Categorize(signals []model.RawSignal) (tax *model.CategorizedTaxonomy) {
	start := time.Now()

	if e.store == nil {
		return e.fallback(start)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("categorization pipeline failed, serving fallback", "panic", r)
			tax = e.fallback(start)
		}
	}()

	stats := runStats{tiers: make(map[model.MatchKind]int)}
	var entries []model.TechnologyEntry

	if len(signals) <= e.batchSize {
		entries = e.processChunk(signals, &stats)
	} else {
		var partial []model.TechnologyEntry
		for off := 0; off < len(signals); off += e.batchSize {
			end := off + e.batchSize
			if end > len(signals) {
				end = len(signals)
			}
			partial = append(partial, e.processChunk(signals[off:end], &stats)...)
		}
		// Chunk boundaries can split duplicates; merge once more.
		entries = dedup.Merge(partial)
	}

	meta := model.ProcessingMetadata{
		ElapsedMs:    time.Since(start).Milliseconds(),
		RulesApplied: stats.rulesApplied,
		SkippedCount: stats.skipped,
	}
	slog.Debug("categorization complete",
		"signals", len(signals),
		"technologies", len(entries),
		"exact", stats.tiers[model.MatchExact],
		"keyword", stats.tiers[model.MatchKeyword],
		"hint", stats.tiers[model.MatchHint],
		"regex", stats.tiers[model.MatchRegex],
		"unclassified", stats.tiers[model.MatchNone],
		"skipped", stats.skipped,
	)
	return e.builder.Build(entries, meta)
}

// processChunk runs normalize → classify → reclassify → dedup over one chunk.
func (e *Engine) processChunk(signals []model.RawSignal, stats *runStats) []model.TechnologyEntry {
	classified := make([]dedup.Classified, 0, len(signals))
	for _, sig := range signals {
		key, version := normalize.Signal(sig)
		if key == "" {
			stats.skipped++
			slog.Warn("skipping signal without a usable name", "source", sig.Source)
			continue
		}

		v := e.classifier.Classify(key, sig.Source)
		stats.tiers[v.Match]++
		if v.Match != model.MatchNone {
			stats.rulesApplied++
		}
		v = e.reclass.Apply(v)

		classified = append(classified, dedup.Classified{
			Signal:  sig,
			Key:     v.Key, // hints may rewrite the key to a technology identity
			Version: version,
			Verdict: v,
		})
	}
	return dedup.Collapse(classified)
}

// fallback builds the degraded result: every category present and empty,
// flagged so consumers can render "categorization unavailable".
func (e *Engine) fallback(start time.Time) *model.CategorizedTaxonomy {
	meta := model.ProcessingMetadata{
		ElapsedMs:    time.Since(start).Milliseconds(),
		FallbackMode: true,
	}
	if e.builder != nil {
		tax := e.builder.Skeleton()
		tax.Processing = meta
		return tax
	}

	// No rule store, so no display metadata: serve the bare fixed skeleton.
	tax := &model.CategorizedTaxonomy{
		Categories: make(map[string]*model.CategoryBucket, len(model.CategoryOrder)),
		Processing: meta,
		Layout:     model.LayoutConfig{CategoryOrder: append([]string(nil), model.CategoryOrder...)},
	}
	for _, name := range model.CategoryOrder {
		tax.Categories[name] = &model.CategoryBucket{
			Metadata:      model.DisplayMeta{DisplayName: name},
			Subcategories: map[string]*model.SubcategoryBucket{},
			Visible:       true,
			LayoutHints:   map[string]string{"empty_state_message": "Categorization unavailable"},
		}
	}
	return tax
}
