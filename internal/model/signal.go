package model

// RawSignal is a single detected technology indicator produced by an external
// scanner and consumed once by the engine.
type RawSignal struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	// Source records provenance, e.g. "manifest:requirements.txt",
	// "file-extension:.py", "config-file:docker-compose.yml".
	Source string `json:"source"`
}

// MatchKind identifies which classifier tier produced a verdict.
type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchKeyword MatchKind = "keyword"
	MatchHint    MatchKind = "hint"
	MatchRegex   MatchKind = "regex"
	MatchNone    MatchKind = "none"
)

// Verdict is the classifier's proposed placement for one normalized signal.
type Verdict struct {
	Key         string
	Category    string
	Subcategory string
	Confidence  float64
	Metadata    map[string]string
	Match       MatchKind
}
