package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-tgraph/tgraph"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "tgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
journal: /tmp/graph
generator:
  model: random
  vertices: 50
query:
  window: [10, "1970-01-01 00:00:01"]
  layers: [a, b]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/graph", cfg.Journal)
	assert.Equal(t, ModelRandom, cfg.Generator.Model)
	assert.Equal(t, 50, cfg.Generator.Vertices)
	assert.Equal(t, 5, cfg.Generator.EdgesPerStep)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"a", "b"}, cfg.Query.Layers)

	start, end, ok, err := cfg.Query.Bounds()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(10), start)
	assert.Equal(t, int64(1000), end)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "generator:\n  vertexes: 10\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"model", func(c *Config) { c.Generator.Model = "smallworld" }},
		{"vertices", func(c *Config) { c.Generator.Vertices = -1 }},
		{"edges per step", func(c *Config) { c.Generator.EdgesPerStep = -2 }},
		{"window arity", func(c *Config) { c.Query.Window = []string{"1"} }},
		{"window order", func(c *Config) { c.Query.Window = []string{"9", "3"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Query.Window = []string{"1", "yesterday"}
	assert.ErrorIs(t, cfg.Validate(), tgraph.ErrParseTime)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseList(" a, ,b,"))
	assert.Nil(t, ParseList(""))
}
