package source

import (
	"context"
	"fmt"
	"os"

	"github.com/crimson-sun/stacklens/internal/model"
)

func init() {
	Register("file", func(cfg Config) (Source, error) {
		if cfg.Path == "" {
			return nil, fmt.Errorf("file source: path required")
		}
		return &fileSource{path: cfg.Path}, nil
	})
}

// fileSource reads a signal list from a JSON or NDJSON file.
type fileSource struct {
	path string
}

func (s *fileSource) Read(ctx context.Context) ([]model.RawSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	defer f.Close()
	return decodeSignals(f)
}
