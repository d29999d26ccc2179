package analytics

// ============================================================================
// OPTIONS — functional options shared by the analytics modules
// ============================================================================

// Option configures module behavior.
type Option func(*options)

type options struct {
	Workers      int // partition fan-out width
	ScoreBuckets int // ntile buckets for RFM scoring
	MinSupport   int // minimum distinct orders for a basket pair
	MaxLineItems int // distinct products per order before basket skips it
}

func defaultOptions() *options {
	return &options{
		Workers:      4,
		ScoreBuckets: 5,
		MinSupport:   3,
		MaxLineItems: 200,
	}
}

func applyOptions(opts []Option) *options {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithWorkers sets how many partitions are processed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.Workers = n
		}
	}
}

// WithScoreBuckets overrides the RFM ntile bucket count (default 5).
func WithScoreBuckets(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.ScoreBuckets = n
		}
	}
}

// WithMinSupport sets the minimum distinct-order count for a product pair
// to appear in basket output (default 3).
func WithMinSupport(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.MinSupport = n
		}
	}
}

// WithMaxLineItems caps the distinct products per order considered for
// basket analysis; orders above the cap are skipped and counted, bounding
// the O(k²) pair enumeration.
func WithMaxLineItems(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.MaxLineItems = n
		}
	}
}
