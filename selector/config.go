package selector

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// Config is the file representation of engine options, e.g.
//
//	cache_size: 100
//	native: false
//	buggy_patterns:
//	  - ':nth-child\('
//	trace_level: debug
type Config struct {
	CacheSize     int      `yaml:"cache_size"`
	DocumentCache int      `yaml:"document_cache_size"`
	Native        *bool    `yaml:"native"`
	BuggyPatterns []string `yaml:"buggy_patterns"`
	TraceLevel    string   `yaml:"trace_level"` // debug | info | error
}

// LoadConfig reads a YAML configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("cannot read selector configuration: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML configuration from a file.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Options converts a configuration to engine options. Zero values select
// the defaults.
func (c *Config) Options() []Option {
	var opts []Option
	if c.CacheSize > 0 {
		opts = append(opts, WithCacheSize(c.CacheSize))
	}
	if c.DocumentCache > 0 {
		opts = append(opts, WithDocumentCacheSize(c.DocumentCache))
	}
	if c.Native != nil {
		opts = append(opts, WithNativeQueries(*c.Native))
	}
	if len(c.BuggyPatterns) > 0 {
		opts = append(opts, WithBuggyPatterns(c.BuggyPatterns...))
	}
	return opts
}

// Level returns the configured trace level. The default is tracing.LevelError.
func (c *Config) Level() (tracing.TraceLevel, error) {
	switch strings.ToLower(c.TraceLevel) {
	case "", "error":
		return tracing.LevelError, nil
	case "info":
		return tracing.LevelInfo, nil
	case "debug":
		return tracing.LevelDebug, nil
	}
	return tracing.LevelError, fmt.Errorf("unknown trace level %q", c.TraceLevel)
}
