package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/crimson-sun/stacklens/internal/config"
	"github.com/crimson-sun/stacklens/internal/engine"
	"github.com/crimson-sun/stacklens/internal/engine/rulestore"
	"github.com/crimson-sun/stacklens/internal/logging"
	"github.com/crimson-sun/stacklens/internal/output"
	fileout "github.com/crimson-sun/stacklens/internal/output/file"
	"github.com/crimson-sun/stacklens/internal/output/multi"
	"github.com/crimson-sun/stacklens/internal/output/stdout"
	"github.com/crimson-sun/stacklens/internal/pipeline"
	"github.com/crimson-sun/stacklens/internal/source"
)

func main() {
	// Local env files are optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// The taxonomy goes to stdout, so logs must not.
	logging.Init(true, logging.ParseLevel(cfg.Log.Level))

	// A broken rule file must not leave callers without a result: the engine
	// serves the fallback skeleton until the rules are fixed.
	store, err := loadRules(cfg.Engine.RulesPath)
	if err != nil {
		slog.Error("rule load failed, running in fallback mode", "error", err)
	}

	eng := engine.New(store,
		engine.WithBatchSize(cfg.Engine.BatchSize),
		engine.WithCacheSize(cfg.Engine.CacheSize),
	)

	ctor, err := source.Get(cfg.Source.Kind)
	if err != nil {
		slog.Error("unknown signal source", "source", cfg.Source.Kind, "known", source.Names())
		os.Exit(1)
	}
	src, err := ctor(source.Config{Path: cfg.Source.Path})
	if err != nil {
		slog.Error("source setup failed", "error", err)
		os.Exit(1)
	}

	out, err := buildOutput(cfg.Output)
	if err != nil {
		slog.Error("output setup failed", "error", err)
		os.Exit(1)
	}

	p := pipeline.New(src, eng, out)
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func loadRules(path string) (*rulestore.Store, error) {
	if path != "" {
		return rulestore.LoadFile(path)
	}
	return rulestore.Load()
}

func buildOutput(cfg config.OutputConfig) (output.Output, error) {
	std := stdout.New(cfg.Pretty)
	if cfg.Path == "" {
		return std, nil
	}
	f, err := fileout.New(cfg.Path, fileout.WithPretty(cfg.Pretty))
	if err != nil {
		return nil, err
	}
	return multi.New(std, f), nil
}
