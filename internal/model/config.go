package model

import "time"

// Config holds all tweetlens settings. Field names double as the keys of
// ~/.tweetlens/config.yaml and the TWEETLENS_* environment variables.
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
}

// InputConfig controls how tweet collections are read
type InputConfig struct {
	Format       string `yaml:"format" mapstructure:"format"`               // "" = by extension; json, jsonl, yaml, sqlite
	UnescapeHTML bool   `yaml:"unescape_html" mapstructure:"unescape_html"` // Decode &amp; and friends in tweet text
	Validate     bool   `yaml:"validate" mapstructure:"validate"`           // Reject malformed records
}

// CacheConfig controls the decoded-collection cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch evaluation
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 disables throttling
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json, md
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level   string `yaml:"level" mapstructure:"level"`     // debug, info, warn, error
	Handler string `yaml:"handler" mapstructure:"handler"` // text, json
	File    string `yaml:"file" mapstructure:"file"`       // Rotated log file; empty logs to stderr
}

// MetricsConfig controls the Prometheus textfile dump
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			UnescapeHTML: true,
			Validate:     true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 10 * time.Minute,
			DiskDir:   defaultCacheDir(),
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:   4,
			BurstSize: 5,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level:   "info",
			Handler: "text",
		},
	}
}
