// Package pipeline wires a signal source, the categorization engine, and an
// output destination into a one-shot run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/crimson-sun/stacklens/internal/engine"
	"github.com/crimson-sun/stacklens/internal/output"
	"github.com/crimson-sun/stacklens/internal/source"
)

// Pipeline connects a source, engine, and output.
type Pipeline struct {
	source source.Source
	engine *engine.Engine
	output output.Output
}

// New creates a Pipeline from the given components.
func New(src source.Source, eng *engine.Engine, out output.Output) *Pipeline {
	return &Pipeline{
		source: src,
		engine: eng,
		output: out,
	}
}

// Run reads one signal list, categorizes it, and writes the taxonomy.
// Categorization itself never fails; only reading and writing can.
func (p *Pipeline) Run(ctx context.Context) error {
	signals, err := p.source.Read(ctx)
	if err != nil {
		return fmt.Errorf("pipeline read: %w", err)
	}

	tax := p.engine.Categorize(signals)

	if err := p.output.Write(ctx, tax); err != nil {
		return fmt.Errorf("pipeline output: %w", err)
	}
	return nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
