package decoder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the decode-time constants. It is constructed once and passed
// into the Manager; the core never consults ambient global state.
type Config struct {
	// PopLimit bounds the number of hyperedges cube pruning pops per node.
	PopLimit int `yaml:"pop_limit"`
	// RuleLimit caps the rule list of each bundle. 0 means unlimited.
	RuleLimit int `yaml:"rule_limit"`
	// StackLimit caps each node's vertex stack. 0 means unbounded.
	StackLimit int `yaml:"stack_limit"`
	// NBestSize is the number of derivations extracted per sentence.
	NBestSize int `yaml:"nbest_size"`
	// DistinctNBest keeps only the first derivation per surface string.
	DistinctNBest bool `yaml:"distinct_nbest"`
	// NBestFactor scales the oversample used in distinct mode. 0 picks a
	// large default. The magnitude is a tunable heuristic, nothing more.
	NBestFactor int `yaml:"nbest_factor"`
	// IncludeAlignment adds word alignments to n-best output.
	IncludeAlignment bool `yaml:"include_alignment"`
	// IncludeTree adds the target parse tree to n-best output.
	IncludeTree bool `yaml:"include_tree"`
	// GlueScore is the fixed score of synthesized glue rules.
	GlueScore float64 `yaml:"glue_score"`
}

// DefaultConfig returns the standard decoding settings.
func DefaultConfig() Config {
	return Config{
		PopLimit:   1000,
		RuleLimit:  50,
		StackLimit: 100,
		NBestSize:  1,
		GlueScore:  -10.0,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decoder: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the search cannot run with.
func (c Config) Validate() error {
	if c.PopLimit < 1 {
		return fmt.Errorf("decoder: pop_limit must be at least 1, got %d", c.PopLimit)
	}
	if c.RuleLimit < 0 || c.StackLimit < 0 || c.NBestSize < 0 || c.NBestFactor < 0 {
		return fmt.Errorf("decoder: limits must not be negative")
	}
	return nil
}
