package source

import (
	"context"
	"os"

	"github.com/crimson-sun/stacklens/internal/model"
)

func init() {
	Register("stdin", func(Config) (Source, error) {
		return &stdinSource{}, nil
	})
}

// stdinSource reads one signal list from standard input.
type stdinSource struct{}

func (s *stdinSource) Read(ctx context.Context) ([]model.RawSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeSignals(os.Stdin)
}
