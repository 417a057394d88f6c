package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds redis connection settings for the lookup cache.
type Config struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	TTL      string `toml:"ttl"`
	Timeout  string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled  string
	Addr     string
	Password string
	DB       string
	Prefix   string
	TTL      string
	Timeout  string
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "tolerance"
	}
	if c.TTL == "" {
		c.TTL = "1h"
	}
	if c.Timeout == "" {
		c.Timeout = "250ms"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.Enabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := getenv(env.Addr); v != "" {
		c.Addr = v
	}
	if v := getenv(env.Password); v != "" {
		c.Password = v
	}
	if v := getenv(env.DB); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DB = n
		}
	}
	if v := getenv(env.Prefix); v != "" {
		c.Prefix = v
	}
	if v := getenv(env.TTL); v != "" {
		c.TTL = v
	}
	if v := getenv(env.Timeout); v != "" {
		c.Timeout = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.TTL); err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.DB < 0 {
		return fmt.Errorf("db must be non-negative")
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
