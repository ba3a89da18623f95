package stacklens

type options struct {
	rulesPath string
	rulesData []byte
	batchSize int
	cacheSize int
}

// Option configures a Categorizer.
type Option func(*options)

// WithRulesFile loads rule tables from an external YAML file instead of the
// shipped defaults. Reloading rules means constructing a new Categorizer.
func WithRulesFile(path string) Option {
	return func(o *options) {
		o.rulesPath = path
	}
}

// WithRules loads rule tables from raw YAML. Takes precedence over
// WithRulesFile.
func WithRules(data []byte) Option {
	return func(o *options) {
		o.rulesData = data
	}
}

// WithBatchSize sets the chunk size for batched processing of large signal
// lists. Batching never changes the result. Default: 100.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithCacheSize bounds the verdict cache shared across runs. Zero disables
// caching. Default: 1024.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

func defaultOptions() options {
	return options{
		batchSize: 100,
		cacheSize: 1024,
	}
}
