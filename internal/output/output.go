// Package output defines destinations for categorized taxonomies.
package output

import (
	"context"

	"github.com/crimson-sun/stacklens/internal/model"
)

// Output defines the interface for taxonomy destinations.
type Output interface {
	Write(ctx context.Context, tax *model.CategorizedTaxonomy) error
	Close() error
}
