package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STACKLENS_CONFIG", "STACKLENS_SOURCE", "STACKLENS_INPUT",
		"STACKLENS_RULES", "STACKLENS_BATCH_SIZE", "STACKLENS_CACHE_SIZE",
		"STACKLENS_PRETTY", "STACKLENS_OUTPUT_FILE", "STACKLENS_LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != "stdin" {
		t.Fatalf("expected default source 'stdin', got %q", cfg.Source.Kind)
	}
	if cfg.Engine.BatchSize != 100 {
		t.Fatalf("expected default BatchSize=100, got %d", cfg.Engine.BatchSize)
	}
	if cfg.Engine.CacheSize != 1024 {
		t.Fatalf("expected default CacheSize=1024, got %d", cfg.Engine.CacheSize)
	}
	if cfg.Engine.RulesPath != "" {
		t.Fatalf("expected empty RulesPath (embedded rules), got %q", cfg.Engine.RulesPath)
	}
	if cfg.Output.Pretty {
		t.Fatal("expected default Pretty=false")
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level 'info', got %q", cfg.Log.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("STACKLENS_SOURCE", "file")
	os.Setenv("STACKLENS_INPUT", "/tmp/signals.json")
	os.Setenv("STACKLENS_BATCH_SIZE", "250")
	os.Setenv("STACKLENS_PRETTY", "true")
	os.Setenv("STACKLENS_LOG_LEVEL", "debug")
	t.Cleanup(func() { clearEnv(t) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != "file" || cfg.Source.Path != "/tmp/signals.json" {
		t.Fatalf("unexpected source config: %+v", cfg.Source)
	}
	if cfg.Engine.BatchSize != 250 {
		t.Fatalf("expected BatchSize=250, got %d", cfg.Engine.BatchSize)
	}
	if !cfg.Output.Pretty {
		t.Fatal("expected Pretty=true")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected log level 'debug', got %q", cfg.Log.Level)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "stacklens.yaml")
	data := `
source:
  kind: file
  path: signals.ndjson
engine:
  batch_size: 50
output:
  pretty: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Setenv("STACKLENS_CONFIG", path)
	t.Cleanup(func() { clearEnv(t) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != "file" || cfg.Source.Path != "signals.ndjson" {
		t.Fatalf("unexpected source config: %+v", cfg.Source)
	}
	if cfg.Engine.BatchSize != 50 {
		t.Fatalf("expected BatchSize=50 from file, got %d", cfg.Engine.BatchSize)
	}
	if !cfg.Output.Pretty {
		t.Fatal("expected Pretty=true from file")
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "stacklens.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  batch_size: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Setenv("STACKLENS_CONFIG", path)
	os.Setenv("STACKLENS_BATCH_SIZE", "75")
	t.Cleanup(func() { clearEnv(t) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.BatchSize != 75 {
		t.Fatalf("expected env override BatchSize=75, got %d", cfg.Engine.BatchSize)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	os.Setenv("STACKLENS_CONFIG", "/nonexistent/stacklens.yaml")
	t.Cleanup(func() { clearEnv(t) })

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "stacklens.yaml")
	if err := os.WriteFile(path, []byte("source: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Setenv("STACKLENS_CONFIG", path)
	t.Cleanup(func() { clearEnv(t) })

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		set      bool
		fallback int
		want     int
	}{
		{"empty uses fallback", "", false, 100, 100},
		{"valid int", "500", true, 100, 500},
		{"invalid falls back", "abc", true, 100, 100},
		{"negative", "-1", true, 100, -1},
	}

	const key = "STACKLENS_TEST_GETENVINT"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}
			if got := getenvInt(key, tt.fallback); got != tt.want {
				t.Errorf("getenvInt(%q, %d) = %d, want %d", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetenvBool(t *testing.T) {
	const key = "STACKLENS_TEST_GETENVBOOL"
	os.Setenv(key, "not-a-bool")
	defer os.Unsetenv(key)
	if getenvBool(key, true) != true {
		t.Fatal("expected fallback for unparseable bool")
	}
	os.Setenv(key, "1")
	if !getenvBool(key, false) {
		t.Fatal("expected true for '1'")
	}
}
