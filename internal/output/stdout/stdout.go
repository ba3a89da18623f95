package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/stacklens/internal/model"
)

// Output writes the taxonomy as a single JSON document to stdout.
type Output struct {
	w      io.Writer
	pretty bool
}

// New creates a stdout Output with optional pretty-printed JSON.
func New(pretty bool) *Output {
	return &Output{w: os.Stdout, pretty: pretty}
}

func (o *Output) Write(_ context.Context, tax *model.CategorizedTaxonomy) error {
	enc := json.NewEncoder(o.w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(tax); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
