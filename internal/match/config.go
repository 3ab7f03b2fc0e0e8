// Package match reconciles free-form category candidates against the
// catalog and assembles the ranked suggestion list for one transaction.
package match

// MaxSelectable is the largest suggestion set a single key can choose from:
// 1 to 9, then 0 for the tenth.
const MaxSelectable = 10

// Config holds matching parameters. Zero values are replaced by the
// defaults from DefaultConfig.
type Config struct {
	// FuzzyThreshold is the minimum similarity a fuzzy match must reach.
	FuzzyThreshold float64
	// NoiseFloor is the similarity at or below which a score is reported as zero.
	NoiseFloor float64
	// MinPartialLength is the shortest input, in runes, that may be matched
	// against a substring of the other side.
	MinPartialLength int
	// MaxSuggestions caps the suggestion set. Values above MaxSelectable
	// are lowered to it.
	MaxSuggestions int
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:   0.8,
		NoiseFloor:       0.5,
		MinPartialLength: 4,
		MaxSuggestions:   5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FuzzyThreshold <= 0 {
		c.FuzzyThreshold = d.FuzzyThreshold
	}
	if c.NoiseFloor <= 0 {
		c.NoiseFloor = d.NoiseFloor
	}
	if c.MinPartialLength <= 0 {
		c.MinPartialLength = d.MinPartialLength
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = d.MaxSuggestions
	}
	c.MaxSuggestions = min(c.MaxSuggestions, MaxSelectable)
	return c
}

// Scorer returns the similarity function configured by c.
func (c Config) Scorer() Scorer {
	c = c.withDefaults()
	return Scorer{NoiseFloor: c.NoiseFloor, MinPartialLength: c.MinPartialLength}
}
