package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/tolerance/pkg/formatting"
	"github.com/JaimeStill/tolerance/pkg/middleware"
	"github.com/JaimeStill/tolerance/pkg/pagination"
)

const defaultMaxRequestSize = 20 * 1024 * 1024

var corsEnv = &middleware.CORSEnv{
	Enabled:          "TOLERANCE_CORS_ENABLED",
	Origins:          "TOLERANCE_CORS_ORIGINS",
	AllowedMethods:   "TOLERANCE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "TOLERANCE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "TOLERANCE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "TOLERANCE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "TOLERANCE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "TOLERANCE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
}

// MaxRequestSizeBytes bounds an analysis request body, which carries the
// drawing image inline as base64.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return defaultMaxRequestSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "20MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("TOLERANCE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("TOLERANCE_API_MAX_REQUEST_SIZE"); v != "" {
		c.MaxRequestSize = v
	}
}
