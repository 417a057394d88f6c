// Package config loads the service configuration from TOML files and
// TOLERANCE_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/tolerance/internal/pipeline"
	"github.com/JaimeStill/tolerance/pkg/cache"
	"github.com/JaimeStill/tolerance/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvToleranceEnv             = "TOLERANCE_ENV"
	EnvToleranceShutdownTimeout = "TOLERANCE_SHUTDOWN_TIMEOUT"
	EnvToleranceVersion         = "TOLERANCE_VERSION"
)

var knowledgeEnv = &database.Env{
	Driver:          "TOLERANCE_KNOWLEDGE_DRIVER",
	Path:            "TOLERANCE_KNOWLEDGE_PATH",
	ReadOnly:        "TOLERANCE_KNOWLEDGE_READ_ONLY",
	Host:            "TOLERANCE_KNOWLEDGE_HOST",
	Port:            "TOLERANCE_KNOWLEDGE_PORT",
	Name:            "TOLERANCE_KNOWLEDGE_NAME",
	User:            "TOLERANCE_KNOWLEDGE_USER",
	Password:        "TOLERANCE_KNOWLEDGE_PASSWORD",
	SSLMode:         "TOLERANCE_KNOWLEDGE_SSL_MODE",
	MaxOpenConns:    "TOLERANCE_KNOWLEDGE_MAX_OPEN_CONNS",
	MaxIdleConns:    "TOLERANCE_KNOWLEDGE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TOLERANCE_KNOWLEDGE_CONN_MAX_LIFETIME",
	ConnTimeout:     "TOLERANCE_KNOWLEDGE_CONN_TIMEOUT",
}

var cacheEnv = &cache.Env{
	Enabled:  "TOLERANCE_CACHE_ENABLED",
	Addr:     "TOLERANCE_CACHE_ADDR",
	Password: "TOLERANCE_CACHE_PASSWORD",
	DB:       "TOLERANCE_CACHE_DB",
	Prefix:   "TOLERANCE_CACHE_PREFIX",
	TTL:      "TOLERANCE_CACHE_TTL",
	Timeout:  "TOLERANCE_CACHE_TIMEOUT",
}

var pipelineEnv = &pipeline.Env{
	ExtractTimeout:    "TOLERANCE_PIPELINE_EXTRACT_TIMEOUT",
	ClassifyTimeout:   "TOLERANCE_PIPELINE_CLASSIFY_TIMEOUT",
	MatchTimeout:      "TOLERANCE_PIPELINE_MATCH_TIMEOUT",
	LookupTimeout:     "TOLERANCE_PIPELINE_LOOKUP_TIMEOUT",
	GenerateTimeout:   "TOLERANCE_PIPELINE_GENERATE_TIMEOUT",
	MatchTopK:         "TOLERANCE_PIPELINE_MATCH_TOP_K",
	HeartbeatInterval: "TOLERANCE_PIPELINE_HEARTBEAT_INTERVAL",
	DisableCompare:    "TOLERANCE_PIPELINE_DISABLE_COMPARE",
}

// Config is the root configuration for the Tolerance service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Knowledge       database.Config `toml:"knowledge"`
	Cache           cache.Config    `toml:"cache"`
	Agents          AgentsConfig    `toml:"agents"`
	Pipeline        pipeline.Config `toml:"pipeline"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the TOLERANCE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvToleranceEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Knowledge.Merge(&overlay.Knowledge)
	c.Cache.Merge(&overlay.Cache)
	c.Agents.Merge(&overlay.Agents)
	c.Pipeline.Merge(&overlay.Pipeline)
}

// Finalize applies defaults, environment overrides, and validation to every
// section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Knowledge.Finalize(knowledgeEnv); err != nil {
		return fmt.Errorf("knowledge: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Agents.Finalize(); err != nil {
		return fmt.Errorf("agents: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvToleranceShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvToleranceVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvToleranceEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
