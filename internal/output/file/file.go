package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/stacklens/internal/model"
)

const defaultBufSize = 64 * 1024 // 64KB

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithPretty enables indented JSON.
func WithPretty(pretty bool) Option {
	return func(o *Output) { o.pretty = pretty }
}

// Output writes the taxonomy as a JSON document to a file, truncating any
// previous run's result.
type Output struct {
	mu      sync.Mutex
	path    string
	bufSize int
	pretty  bool
}

// New creates a file output writing to the given path.
func New(path string, opts ...Option) (*Output, error) {
	if path == "" {
		return nil, fmt.Errorf("file output: path required")
	}
	o := &Output{path: path, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Write JSON-encodes the taxonomy and replaces the file's contents.
func (o *Output) Write(_ context.Context, tax *model.CategorizedTaxonomy) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}

	w := bufio.NewWriterSize(f, o.bufSize)
	enc := json.NewEncoder(w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(tax); err != nil {
		f.Close()
		return fmt.Errorf("file output: encode: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("file output: close: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
