package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds per-stage timeouts and run settings.
// Timeouts bound a single adapter call; a retried stage may take twice as long.
type Config struct {
	ExtractTimeout    string `toml:"extract_timeout"`
	ClassifyTimeout   string `toml:"classify_timeout"`
	MatchTimeout      string `toml:"match_timeout"`
	LookupTimeout     string `toml:"lookup_timeout"`
	GenerateTimeout   string `toml:"generate_timeout"`
	MatchTopK         int    `toml:"match_top_k"`
	HeartbeatInterval string `toml:"heartbeat_interval"`
	DisableCompare    *bool  `toml:"disable_compare"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ExtractTimeout    string
	ClassifyTimeout   string
	MatchTimeout      string
	LookupTimeout     string
	GenerateTimeout   string
	MatchTopK         string
	HeartbeatInterval string
	DisableCompare    string
}

// Timeouts holds the parsed per-stage timeouts.
type Timeouts struct {
	Extract  time.Duration
	Classify time.Duration
	Match    time.Duration
	Lookup   time.Duration
	Generate time.Duration
}

// Timeouts returns the parsed stage timeouts.
func (c *Config) Timeouts() Timeouts {
	return Timeouts{
		Extract:  parseDuration(c.ExtractTimeout),
		Classify: parseDuration(c.ClassifyTimeout),
		Match:    parseDuration(c.MatchTimeout),
		Lookup:   parseDuration(c.LookupTimeout),
		Generate: parseDuration(c.GenerateTimeout),
	}
}

// CompareDisabled reports whether baseline comparison is switched off.
func (c *Config) CompareDisabled() bool {
	return c.DisableCompare != nil && *c.DisableCompare
}

// HeartbeatDuration returns HeartbeatInterval as a time.Duration.
func (c *Config) HeartbeatDuration() time.Duration {
	return parseDuration(c.HeartbeatInterval)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. DisableCompare applies only
// when the overlay sets it.
func (c *Config) Merge(overlay *Config) {
	if overlay.ExtractTimeout != "" {
		c.ExtractTimeout = overlay.ExtractTimeout
	}
	if overlay.ClassifyTimeout != "" {
		c.ClassifyTimeout = overlay.ClassifyTimeout
	}
	if overlay.MatchTimeout != "" {
		c.MatchTimeout = overlay.MatchTimeout
	}
	if overlay.LookupTimeout != "" {
		c.LookupTimeout = overlay.LookupTimeout
	}
	if overlay.GenerateTimeout != "" {
		c.GenerateTimeout = overlay.GenerateTimeout
	}
	if overlay.MatchTopK != 0 {
		c.MatchTopK = overlay.MatchTopK
	}
	if overlay.HeartbeatInterval != "" {
		c.HeartbeatInterval = overlay.HeartbeatInterval
	}
	if overlay.DisableCompare != nil {
		c.DisableCompare = overlay.DisableCompare
	}
}

func (c *Config) loadDefaults() {
	if c.ExtractTimeout == "" {
		c.ExtractTimeout = "120s"
	}
	if c.ClassifyTimeout == "" {
		c.ClassifyTimeout = "30s"
	}
	if c.MatchTimeout == "" {
		c.MatchTimeout = "5s"
	}
	if c.LookupTimeout == "" {
		c.LookupTimeout = "5s"
	}
	if c.GenerateTimeout == "" {
		c.GenerateTimeout = "120s"
	}
	if c.MatchTopK <= 0 {
		c.MatchTopK = 5
	}
	if c.HeartbeatInterval == "" {
		c.HeartbeatInterval = "15s"
	}
}

func (c *Config) loadEnv(env *Env) {
	stringEnv(env.ExtractTimeout, &c.ExtractTimeout)
	stringEnv(env.ClassifyTimeout, &c.ClassifyTimeout)
	stringEnv(env.MatchTimeout, &c.MatchTimeout)
	stringEnv(env.LookupTimeout, &c.LookupTimeout)
	stringEnv(env.GenerateTimeout, &c.GenerateTimeout)
	stringEnv(env.HeartbeatInterval, &c.HeartbeatInterval)

	if env.MatchTopK != "" {
		if n, err := strconv.Atoi(os.Getenv(env.MatchTopK)); err == nil {
			c.MatchTopK = n
		}
	}
	if env.DisableCompare != "" {
		if b, err := strconv.ParseBool(os.Getenv(env.DisableCompare)); err == nil {
			c.DisableCompare = &b
		}
	}
}

func (c *Config) validate() error {
	durations := []struct {
		name  string
		value string
	}{
		{"extract_timeout", c.ExtractTimeout},
		{"classify_timeout", c.ClassifyTimeout},
		{"match_timeout", c.MatchTimeout},
		{"lookup_timeout", c.LookupTimeout},
		{"generate_timeout", c.GenerateTimeout},
		{"heartbeat_interval", c.HeartbeatInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}
	if c.MatchTopK < 1 {
		return fmt.Errorf("match_top_k must be positive")
	}
	return nil
}

func stringEnv(key string, dst *string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
