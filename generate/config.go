// Package generate produces strings from a jsgf.Grammar: exhaustive
// deterministic expansion and weighted random sampling. Both engines hold
// the grammar read-only; all mutable derivation state is created fresh for
// each top-level call.
package generate

// DefaultMaxDepth bounds how many times a single rule may appear on the
// derivation stack before generation fails instead of recursing further.
const DefaultMaxDepth = 50

// Config carries generator settings. The zero value selects defaults.
type Config struct {
	// MaxDepth is the per-rule recursion depth bound. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Limit caps the number of strings a deterministic expansion returns.
	// Zero means unlimited.
	Limit int

	// Seed seeds the sampler's random source. Zero selects a time-based
	// seed, so runs are only reproducible when Seed is set.
	Seed int64
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}
