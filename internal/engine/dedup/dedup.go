// Package dedup merges raw signals that normalize to the same key into a
// single technology entry.
package dedup

import (
	"strings"
	"unicode"

	"github.com/crimson-sun/stacklens/internal/model"
)

// Classified pairs a raw signal with its normalized key, extracted version,
// and final verdict.
type Classified struct {
	Signal  model.RawSignal
	Key     string
	Version string
	Verdict model.Verdict
}

// group accumulates everything merged under one normalized key.
type group struct {
	names      []string // original spellings, first-seen order
	version    string
	sources    []string
	sourceSeen map[string]bool
	verdict    model.Verdict // highest confidence so far, ties keep first seen
}

// Collapse groups classified signals by normalized key and produces exactly
// one TechnologyEntry per distinct key, in first-occurrence order. Sources are
// unioned, confidence is the max across the group, and category placement
// follows the max-confidence verdict.
func Collapse(items []Classified) []model.TechnologyEntry {
	if len(items) == 0 {
		return nil
	}

	var order []string
	groups := make(map[string]*group)

	for _, it := range items {
		g, exists := groups[it.Key]
		if !exists {
			g = &group{sourceSeen: make(map[string]bool)}
			groups[it.Key] = g
			order = append(order, it.Key)
		}

		g.names = append(g.names, it.Signal.Name)
		if g.version == "" {
			g.version = it.Version
		}
		if src := it.Signal.Source; src != "" && !g.sourceSeen[src] {
			g.sourceSeen[src] = true
			g.sources = append(g.sources, src)
		}
		if !exists || it.Verdict.Confidence > g.verdict.Confidence {
			g.verdict = it.Verdict
		}
	}

	entries := make([]model.TechnologyEntry, 0, len(order))
	for _, key := range order {
		g := groups[key]
		entries = append(entries, model.TechnologyEntry{
			Name:        canonicalName(key, g.names, g.verdict),
			Version:     g.version,
			Sources:     g.sources,
			Confidence:  g.verdict.Confidence,
			Metadata:    g.verdict.Metadata,
			Key:         key,
			Category:    g.verdict.Category,
			Subcategory: g.verdict.Subcategory,
		})
	}
	return entries
}

// Merge combines entry lists produced by independent chunks. The same key can
// surface in several chunks, so the same union/max rules apply again.
func Merge(entries []model.TechnologyEntry) []model.TechnologyEntry {
	if len(entries) == 0 {
		return nil
	}

	var order []string
	merged := make(map[string]*model.TechnologyEntry)

	for _, e := range entries {
		prev, exists := merged[e.Key]
		if !exists {
			cp := e
			merged[e.Key] = &cp
			order = append(order, e.Key)
			continue
		}

		prev.Sources = unionSources(prev.Sources, e.Sources)
		if prev.Version == "" {
			prev.Version = e.Version
		}
		if e.Confidence > prev.Confidence {
			prev.Confidence = e.Confidence
			prev.Category = e.Category
			prev.Subcategory = e.Subcategory
			prev.Metadata = e.Metadata
			prev.Name = e.Name
		} else if strings.IndexFunc(prev.Name, unicode.IsUpper) < 0 &&
			strings.IndexFunc(e.Name, unicode.IsUpper) >= 0 {
			// Keep the more complete-looking spelling, as Collapse would have.
			prev.Name = e.Name
		}
	}

	out := make([]model.TechnologyEntry, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

// canonicalName picks the most complete-looking spelling for a merged entry:
// the winning rule's display name when it has one, else the first original
// spelling carrying an upper-case letter, else the first spelling seen.
func canonicalName(key string, names []string, v model.Verdict) string {
	if dn := v.Metadata["display_name"]; dn != "" {
		return dn
	}
	for _, n := range names {
		if base := baseName(n); strings.IndexFunc(base, unicode.IsUpper) >= 0 {
			return base
		}
	}
	if len(names) > 0 {
		if base := baseName(names[0]); base != "" {
			return base
		}
	}
	return key
}

// baseName trims whitespace and any version suffix from an original spelling
// without case-folding it.
func baseName(name string) string {
	base := strings.TrimSpace(name)
	if i := strings.LastIndex(base, "@"); i > 0 {
		base = base[:i]
	}
	return base
}

func unionSources(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			a = append(a, s)
		}
	}
	return a
}
