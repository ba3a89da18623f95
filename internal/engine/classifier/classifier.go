// Package classifier resolves normalized signal keys to taxonomy verdicts by
// consulting the rule store tier by tier. Matching is deterministic: within a
// tier the first-registered rule wins, never a best-confidence search.
package classifier

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/model"
)

// Confidence assigned when no rule matches.
const unclassifiedConfidence = 0.3

// Fallback placement for keys no rule recognizes.
const (
	fallbackCategory    = "others"
	fallbackSubcategory = "miscellaneous"
)

// Source prefixes that make a signal eligible for the hint tier.
var hintSources = []string{"file-extension:", "config-file:", "file:"}

// Classifier maps normalized keys to verdicts. Classification is a pure
// function of (key, source), so verdicts are memoized in a bounded LRU shared
// across runs. Safe for concurrent use.
type Classifier struct {
	store *rulestore.Store
	cache *lru.Cache[cacheKey, model.Verdict]
}

type cacheKey struct {
	key    string
	hinted bool
}

// New creates a Classifier over the given store. cacheSize bounds the verdict
// cache; zero or negative disables caching.
func New(store *rulestore.Store, cacheSize int) *Classifier {
	c := &Classifier{store: store}
	if cacheSize > 0 {
		// lru.New only fails on a non-positive size.
		c.cache, _ = lru.New[cacheKey, model.Verdict](cacheSize)
	}
	return c
}

// Classify resolves a normalized key to a verdict. Tier order: exact table,
// keyword containment, source hints (only for file-derived signals), regex,
// then the unclassified fallback.
func (c *Classifier) Classify(key, source string) model.Verdict {
	ck := cacheKey{key: key, hinted: hintEligible(source)}
	if c.cache != nil {
		if v, ok := c.cache.Get(ck); ok {
			return cloneVerdict(v)
		}
	}

	v := c.classify(key, ck.hinted)
	if c.cache != nil {
		c.cache.Add(ck, cloneVerdict(v))
	}
	return v
}

func (c *Classifier) classify(key string, hinted bool) model.Verdict {
	if r, ok := c.store.Exact(key); ok {
		return verdictFromRule(key, r)
	}
	if r, ok := c.store.Keyword(key); ok {
		return verdictFromRule(key, r)
	}
	if hinted {
		if identity, r, ok := c.store.ExtensionHint(key); ok {
			return verdictFromRule(identity, r)
		}
		if identity, r, ok := c.store.FilenameHint(key); ok {
			return verdictFromRule(identity, r)
		}
	}
	if r, ok := c.store.Regex(key); ok {
		return verdictFromRule(key, r)
	}

	return model.Verdict{
		Key:         key,
		Category:    fallbackCategory,
		Subcategory: fallbackSubcategory,
		Confidence:  unclassifiedConfidence,
		Metadata:    map[string]string{"reason": "no-rule-matched"},
		Match:       model.MatchNone,
	}
}

// verdictFromRule builds a verdict with its own metadata copy; rule metadata
// is shared store state and later passes mutate the verdict's map.
func verdictFromRule(key string, r rulestore.Rule) model.Verdict {
	md := make(map[string]string, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		md[k] = v
	}
	return model.Verdict{
		Key:         key,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Confidence:  r.Confidence,
		Metadata:    md,
		Match:       r.Kind,
	}
}

func cloneVerdict(v model.Verdict) model.Verdict {
	md := make(map[string]string, len(v.Metadata))
	for k, val := range v.Metadata {
		md[k] = val
	}
	v.Metadata = md
	return v
}

func hintEligible(source string) bool {
	for _, p := range hintSources {
		if strings.HasPrefix(source, p) {
			return true
		}
	}
	return false
}
