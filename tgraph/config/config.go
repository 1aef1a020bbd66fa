// Package config holds the settings of the tgraph command, loaded from YAML
// on top of defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wbrown/janus-tgraph/tgraph"
)

// Generator models.
const (
	ModelPreferential = "pa"
	ModelRandom       = "random"
)

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Journal   string          `yaml:"journal"`
	Metrics   string          `yaml:"metrics"`
	Generator GeneratorConfig `yaml:"generator"`
	Query     QueryConfig     `yaml:"query"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

type GeneratorConfig struct {
	Model        string `yaml:"model"`
	Vertices     int    `yaml:"vertices"`
	EdgesPerStep int    `yaml:"edges_per_step"`
	Seed         int64  `yaml:"seed"`
}

// QueryConfig selects the view summarized after loading. Window entries are
// epoch milliseconds or time strings; an empty window is unbounded.
type QueryConfig struct {
	Window     []string `yaml:"window"`
	Layers     []string `yaml:"layers"`
	Persistent bool     `yaml:"persistent"`
}

// DefaultConfig returns a configuration that generates a small
// preferential-attachment graph in memory.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Generator: GeneratorConfig{
			Model:        ModelPreferential,
			Vertices:     1000,
			EdgesPerStep: 5,
			Seed:         1,
		},
	}
}

// Load reads the YAML file at path over DefaultConfig. Unknown keys are an
// error. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if !logLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}
	if c.Generator.Model != ModelPreferential && c.Generator.Model != ModelRandom {
		errs = append(errs, fmt.Errorf("generator.model: must be %s or %s, got %q",
			ModelPreferential, ModelRandom, c.Generator.Model))
	}
	if c.Generator.Vertices < 0 {
		errs = append(errs, fmt.Errorf("generator.vertices: must not be negative"))
	}
	if c.Generator.EdgesPerStep < 0 {
		errs = append(errs, fmt.Errorf("generator.edges_per_step: must not be negative"))
	}
	if _, _, _, err := c.Query.Bounds(); err != nil {
		errs = append(errs, fmt.Errorf("query.window: %w", err))
	}
	return errors.Join(errs...)
}

// Bounds resolves the query window. ok is false when no window is set.
func (q QueryConfig) Bounds() (start, end int64, ok bool, err error) {
	switch len(q.Window) {
	case 0:
		return 0, 0, false, nil
	case 2:
	default:
		return 0, 0, false, fmt.Errorf("want start and end, got %d values", len(q.Window))
	}
	if start, err = parseBound(q.Window[0]); err != nil {
		return 0, 0, false, err
	}
	if end, err = parseBound(q.Window[1]); err != nil {
		return 0, 0, false, err
	}
	if start > end {
		return 0, 0, false, fmt.Errorf("start %d after end %d", start, end)
	}
	return start, end, true, nil
}

func parseBound(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if t, err := strconv.ParseInt(s, 10, 64); err == nil {
		return t, nil
	}
	return tgraph.TryIntoTime(s)
}

// ParseList splits a comma separated flag value, dropping empty items.
func ParseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
