package decoder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1000, cfg.PopLimit)
	assert.Equal(t, 50, cfg.RuleLimit)
	assert.Equal(t, 100, cfg.StackLimit)
	assert.Equal(t, 1, cfg.NBestSize)
	assert.Equal(t, -10.0, cfg.GlueScore)
	assert.False(t, cfg.DistinctNBest)
	require.NoError(t, cfg.Validate())
}

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "pop_limit: 10\nglue_score: -5\ndistinct_nbest: true\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.PopLimit)
	assert.Equal(t, -5.0, cfg.GlueScore)
	assert.True(t, cfg.DistinctNBest)
	// Unset keys keep their defaults.
	assert.Equal(t, 50, cfg.RuleLimit)
	assert.Equal(t, 100, cfg.StackLimit)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "pop_limit: [\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	path := writeConfig(t, "pop_limit: 0\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero pop limit", func(c *Config) { c.PopLimit = 0 }, false},
		{"negative rule limit", func(c *Config) { c.RuleLimit = -1 }, false},
		{"negative stack limit", func(c *Config) { c.StackLimit = -1 }, false},
		{"negative nbest", func(c *Config) { c.NBestSize = -1 }, false},
		{"unbounded stack", func(c *Config) { c.StackLimit = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
