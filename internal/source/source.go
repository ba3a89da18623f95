// Package source provides readers for raw signal lists produced by an
// external project scanner. Sources are registered by name so the CLI can
// select one from configuration.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/crimson-sun/stacklens/internal/model"
)

// Source reads one complete signal list.
type Source interface {
	Read(ctx context.Context) ([]model.RawSignal, error)
}

// Config holds source-specific settings.
type Config struct {
	Path string
}

// Constructor creates a Source from its config.
type Constructor func(cfg Config) (Source, error)

var registry = map[string]Constructor{}

// Register adds a source constructor under the given name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the source constructor for the given name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown signal source: %s", name)
	}
	return ctor, nil
}

// Names returns the names of all registered sources.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// decodeSignals reads a signal list as either a JSON array or NDJSON, one
// signal object per line.
func decodeSignals(r io.Reader) ([]model.RawSignal, error) {
	br := bufio.NewReader(r)

	first, err := firstByte(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}

	if first == '[' {
		var signals []model.RawSignal
		if err := json.NewDecoder(br).Decode(&signals); err != nil {
			return nil, fmt.Errorf("decode signal array: %w", err)
		}
		return signals, nil
	}

	var signals []model.RawSignal
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var s model.RawSignal
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("decode signal line: %w", err)
		}
		signals = append(signals, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}
	return signals, nil
}

// firstByte peeks past leading whitespace without consuming the reader.
func firstByte(br *bufio.Reader) (byte, error) {
	for n := 1; ; n++ {
		peeked, err := br.Peek(n)
		if err != nil {
			return 0, err
		}
		b := peeked[n-1]
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return b, nil
		}
	}
}
