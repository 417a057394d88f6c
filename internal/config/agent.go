package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Agent roles. Each role has its own [agents.<role>] section and
// TOLERANCE_<ROLE>_* environment overrides.
const (
	RoleExtractor  = "extractor"
	RoleClassifier = "classifier"
	RoleBaseline   = "baseline"
	RoleGenerator  = "generator"
)

// AgentConfig describes the model backend serving one pipeline role.
type AgentConfig struct {
	Name     string         `toml:"name"`
	Provider string         `toml:"provider"`
	BaseURL  string         `toml:"base_url"`
	Model    string         `toml:"model"`
	Options  map[string]any `toml:"options"`

	resolved gaconfig.AgentConfig
}

// Agent returns the finalized go-agents configuration.
func (c *AgentConfig) Agent() gaconfig.AgentConfig {
	return c.resolved
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if len(overlay.Options) > 0 {
		if c.Options == nil {
			c.Options = make(map[string]any, len(overlay.Options))
		}
		maps.Copy(c.Options, overlay.Options)
	}
}

// Finalize resolves the section into a go-agents AgentConfig for role.
func (c *AgentConfig) Finalize(role string) error {
	ga := gaconfig.AgentConfig{Name: c.Name}
	if ga.Name == "" {
		ga.Name = "tolerance-" + role
	}
	if c.Provider != "" || c.BaseURL != "" || len(c.Options) > 0 {
		ga.Provider = &gaconfig.ProviderConfig{
			Name:    c.Provider,
			BaseURL: c.BaseURL,
			Options: maps.Clone(c.Options),
		}
	}
	if c.Model != "" {
		ga.Model = &gaconfig.ModelConfig{Name: c.Model}
	}

	if err := FinalizeAgent(&ga, agentEnv(role)); err != nil {
		return err
	}

	c.resolved = ga
	return nil
}

// AgentsConfig holds one backend per pipeline role. An unset baseline
// section inherits the classifier's settings.
type AgentsConfig struct {
	Extractor  AgentConfig `toml:"extractor"`
	Classifier AgentConfig `toml:"classifier"`
	Baseline   AgentConfig `toml:"baseline"`
	Generator  AgentConfig `toml:"generator"`
}

// Merge overwrites non-zero fields from overlay for every role.
func (c *AgentsConfig) Merge(overlay *AgentsConfig) {
	c.Extractor.Merge(&overlay.Extractor)
	c.Classifier.Merge(&overlay.Classifier)
	c.Baseline.Merge(&overlay.Baseline)
	c.Generator.Merge(&overlay.Generator)
}

// Finalize resolves every role.
func (c *AgentsConfig) Finalize() error {
	baseline := AgentConfig{Options: maps.Clone(c.Classifier.Options)}
	baseline.Merge(&c.Classifier)
	baseline.Name = ""
	baseline.Merge(&c.Baseline)
	c.Baseline = baseline

	roles := []struct {
		role string
		cfg  *AgentConfig
	}{
		{RoleExtractor, &c.Extractor},
		{RoleClassifier, &c.Classifier},
		{RoleBaseline, &c.Baseline},
		{RoleGenerator, &c.Generator},
	}
	for _, r := range roles {
		if err := r.cfg.Finalize(r.role); err != nil {
			return fmt.Errorf("%s: %w", r.role, err)
		}
	}
	return nil
}

// AgentEnv maps agent fields to environment variable names.
type AgentEnv struct {
	ProviderName string
	BaseURL      string
	Token        string
	Deployment   string
	APIVersion   string
	AuthType     string
	ModelName    string
}

func agentEnv(role string) *AgentEnv {
	prefix := "TOLERANCE_" + strings.ToUpper(role) + "_"
	return &AgentEnv{
		ProviderName: prefix + "PROVIDER_NAME",
		BaseURL:      prefix + "BASE_URL",
		Token:        prefix + "TOKEN",
		Deployment:   prefix + "DEPLOYMENT",
		APIVersion:   prefix + "API_VERSION",
		AuthType:     prefix + "AUTH_TYPE",
		ModelName:    prefix + "MODEL_NAME",
	}
}

// FinalizeAgent applies the three-phase finalize pattern to a go-agents AgentConfig:
// defaults from go-agents DefaultAgentConfig, environment variable overrides, and validation.
func FinalizeAgent(c *gaconfig.AgentConfig, env *AgentEnv) error {
	loadAgentDefaults(c)
	if env != nil {
		loadAgentEnv(c, env)
	}
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig, env *AgentEnv) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(env.ProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(env.ModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(env.Token, "token")
	setOption(env.Deployment, "deployment")
	setOption(env.APIVersion, "api_version")
	setOption(env.AuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
