package model

// The five main categories, in display order. Rule configuration must define
// exactly these, so the output shape never depends on rule content.
var CategoryOrder = []string{"backend", "frontend", "databases", "devops", "others"}

// DisplayMeta is presentation metadata for a category.
type DisplayMeta struct {
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// SubcategoryBucket holds the technologies placed under one subcategory.
// A bucket is always present for every defined subcategory, even when empty.
type SubcategoryBucket struct {
	DisplayName  string            `json:"display_name"`
	Icon         string            `json:"icon,omitempty"`
	Technologies []TechnologyEntry `json:"technologies"`
	Visible      bool              `json:"visible"`
	LayoutHints  map[string]string `json:"layout_hints,omitempty"`

	Order int `json:"-"`
}

// CategoryBucket is one of the five top-level domains of the taxonomy.
type CategoryBucket struct {
	Metadata      DisplayMeta                   `json:"metadata"`
	Subcategories map[string]*SubcategoryBucket `json:"subcategories"`
	TotalCount    int                           `json:"total_count"`
	Visible       bool                          `json:"visible"`
	LayoutHints   map[string]string             `json:"layout_hints,omitempty"`
}

// ProcessingMetadata describes how a categorization run went.
type ProcessingMetadata struct {
	ElapsedMs    int64 `json:"elapsed_ms"`
	RulesApplied int   `json:"rules_applied"`
	FallbackMode bool  `json:"fallback_mode"`
	SkippedCount int   `json:"skipped_count"`
}

// LayoutConfig carries rendering hints that apply to the whole taxonomy.
type LayoutConfig struct {
	CategoryOrder []string `json:"category_order"`
}

// CategorizedTaxonomy is the sole output artifact of the engine: complete
// (all five categories with their full subcategory sets, always), deduplicated,
// and immutable once returned.
type CategorizedTaxonomy struct {
	Categories        map[string]*CategoryBucket `json:"categories"`
	TotalTechnologies int                        `json:"total_technologies"`
	Processing        ProcessingMetadata         `json:"processing_metadata"`
	Layout            LayoutConfig               `json:"layout_config"`
}
