package stacklens

import "github.com/crimson-sun/stacklens/internal/model"

// Signal is one raw detected technology indicator.
type Signal struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Source  string `json:"source"`
}

// Technology is one deduplicated technology in the taxonomy.
type Technology struct {
	Name       string            `json:"name"`
	Version    string            `json:"version,omitempty"`
	Sources    []string          `json:"sources"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Subcategory is one semantic bucket inside a category. Always present for
// every defined subcategory, even when empty.
type Subcategory struct {
	DisplayName  string            `json:"display_name"`
	Icon         string            `json:"icon,omitempty"`
	Technologies []Technology      `json:"technologies"`
	Visible      bool              `json:"visible"`
	LayoutHints  map[string]string `json:"layout_hints,omitempty"`
}

// CategoryMeta is presentation metadata for a category.
type CategoryMeta struct {
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Category is one of the five top-level taxonomy domains.
type Category struct {
	Metadata      CategoryMeta           `json:"metadata"`
	Subcategories map[string]Subcategory `json:"subcategories"`
	TotalCount    int                    `json:"total_count"`
	Visible       bool                   `json:"visible"`
	LayoutHints   map[string]string      `json:"layout_hints,omitempty"`
}

// Processing describes how a categorization run went. FallbackMode means
// categorization was unavailable and the structure is an empty skeleton.
type Processing struct {
	ElapsedMs    int64 `json:"elapsed_ms"`
	RulesApplied int   `json:"rules_applied"`
	FallbackMode bool  `json:"fallback_mode"`
	SkippedCount int   `json:"skipped_count"`
}

// Layout carries rendering hints that apply to the whole taxonomy.
type Layout struct {
	CategoryOrder []string `json:"category_order"`
}

// Taxonomy is the complete categorization result. This is the stable public
// type; internal representations may evolve independently without breaking
// consumers.
type Taxonomy struct {
	Categories        map[string]Category `json:"categories"`
	TotalTechnologies int                 `json:"total_technologies"`
	Processing        Processing          `json:"processing_metadata"`
	Layout            Layout              `json:"layout_config"`
}

// taxonomyFromModel converts the internal result to the public type.
func taxonomyFromModel(m *model.CategorizedTaxonomy) *Taxonomy {
	t := &Taxonomy{
		Categories:        make(map[string]Category, len(m.Categories)),
		TotalTechnologies: m.TotalTechnologies,
		Processing: Processing{
			ElapsedMs:    m.Processing.ElapsedMs,
			RulesApplied: m.Processing.RulesApplied,
			FallbackMode: m.Processing.FallbackMode,
			SkippedCount: m.Processing.SkippedCount,
		},
		Layout: Layout{CategoryOrder: m.Layout.CategoryOrder},
	}
	for name, cat := range m.Categories {
		subs := make(map[string]Subcategory, len(cat.Subcategories))
		for subName, sub := range cat.Subcategories {
			techs := make([]Technology, 0, len(sub.Technologies))
			for _, e := range sub.Technologies {
				techs = append(techs, Technology{
					Name:       e.Name,
					Version:    e.Version,
					Sources:    e.Sources,
					Confidence: e.Confidence,
					Metadata:   e.Metadata,
				})
			}
			subs[subName] = Subcategory{
				DisplayName:  sub.DisplayName,
				Icon:         sub.Icon,
				Technologies: techs,
				Visible:      sub.Visible,
				LayoutHints:  sub.LayoutHints,
			}
		}
		t.Categories[name] = Category{
			Metadata: CategoryMeta{
				DisplayName: cat.Metadata.DisplayName,
				Icon:        cat.Metadata.Icon,
				Description: cat.Metadata.Description,
				Color:       cat.Metadata.Color,
			},
			Subcategories: subs,
			TotalCount:    cat.TotalCount,
			Visible:       cat.Visible,
			LayoutHints:   cat.LayoutHints,
		}
	}
	return t
}
