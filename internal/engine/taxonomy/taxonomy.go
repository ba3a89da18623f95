// Package taxonomy assembles deduplicated technology entries into the final
// categorized structure. The skeleton is built eagerly from the rule store's
// display metadata before any entry is placed, so every category and
// subcategory is present in the output no matter the input.
package taxonomy

import (
	"sort"
	"strings"

	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/model"
)

// Builder constructs CategorizedTaxonomy values from one rule store's
// category definitions.
type Builder struct {
	store *rulestore.Store
}

func New(store *rulestore.Store) *Builder {
	return &Builder{store: store}
}

// Build places entries into the full taxonomy skeleton, sorts each bucket by
// confidence descending then name ascending (case-insensitive), and computes
// counts. Entries whose placement is missing from the skeleton are routed to
// others/miscellaneous rather than dropped.
func (b *Builder) Build(entries []model.TechnologyEntry, meta model.ProcessingMetadata) *model.CategorizedTaxonomy {
	tax := b.Skeleton()
	tax.Processing = meta

	for _, e := range entries {
		bucket := findBucket(tax, e.Category, e.Subcategory)
		if bucket == nil {
			bucket = findBucket(tax, "others", "miscellaneous")
		}
		bucket.Technologies = append(bucket.Technologies, e)
	}

	total := 0
	for _, name := range model.CategoryOrder {
		cat := tax.Categories[name]
		count := 0
		for _, sub := range cat.Subcategories {
			sortEntries(sub.Technologies)
			count += len(sub.Technologies)
			if len(sub.Technologies) > 0 {
				delete(sub.LayoutHints, "empty_state_message")
				if len(sub.LayoutHints) == 0 {
					sub.LayoutHints = nil
				}
			}
		}
		cat.TotalCount = count
		if count > 0 {
			delete(cat.LayoutHints, "empty_state_message")
			if len(cat.LayoutHints) == 0 {
				cat.LayoutHints = nil
			}
		}
		total += count
	}
	tax.TotalTechnologies = total
	return tax
}

// Skeleton returns the complete empty taxonomy: all five categories, all
// defined subcategories, everything visible, with empty-state hints attached.
func (b *Builder) Skeleton() *model.CategorizedTaxonomy {
	tax := &model.CategorizedTaxonomy{
		Categories: make(map[string]*model.CategoryBucket, len(model.CategoryOrder)),
		Layout:     model.LayoutConfig{CategoryOrder: append([]string(nil), model.CategoryOrder...)},
	}

	for _, def := range b.store.Categories() {
		cat := &model.CategoryBucket{
			Metadata:      def.Meta,
			Subcategories: make(map[string]*model.SubcategoryBucket, len(def.Subcategories)),
			Visible:       true,
			LayoutHints:   map[string]string{"empty_state_message": def.EmptyMessage},
		}
		for i, sub := range def.Subcategories {
			cat.Subcategories[sub.Name] = &model.SubcategoryBucket{
				DisplayName:  sub.DisplayName,
				Icon:         sub.Icon,
				Technologies: []model.TechnologyEntry{},
				Visible:      true,
				LayoutHints:  map[string]string{"empty_state_message": "No " + strings.ToLower(sub.DisplayName) + " detected"},
				Order:        i,
			}
		}
		tax.Categories[def.Name] = cat
	}
	return tax
}

func findBucket(tax *model.CategorizedTaxonomy, category, subcategory string) *model.SubcategoryBucket {
	cat, ok := tax.Categories[category]
	if !ok {
		return nil
	}
	return cat.Subcategories[subcategory]
}

func sortEntries(entries []model.TechnologyEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Confidence != entries[j].Confidence {
			return entries[i].Confidence > entries[j].Confidence
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
