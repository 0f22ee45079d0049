package llmmanager

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llms"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Providers specifies the list of providers to use
	Providers []*ProviderConfig `json:"providers" yaml:"providers" validate:"required,dive"`
	// DefaultProvider specifies the default provider to use
	DefaultProvider string `json:"default_provider,omitempty" yaml:"default_provider,omitempty"`
}

// ProviderConfig describes one selectable provider and its model configuration.
type ProviderConfig struct {
	// Name is the registry key the provider is selected by. Must be unique.
	Name string `json:"name" yaml:"name" validate:"required"`
	// Type specifies the backend:
	// OPENAI|AZURE|ANTHROPIC|GOOGLEAI|BEDROCK
	Type llms.ProviderType `json:"type" yaml:"type" validate:"required"`
	// Token is the API key for the backend, not used by BEDROCK.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	// BaseURL overrides the backend endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIVersion is required for AZURE.
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	// Region is the AWS region for BEDROCK.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Model and sampling configuration passed on each call.
	Model       string   `json:"model" yaml:"model" validate:"required"`
	Temperature float64  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	TopP        float64  `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	StopWords   []string `json:"stop_words,omitempty" yaml:"stop_words,omitempty"`
}

// ModelConfig returns the per-call generation config for the provider.
func (c *ProviderConfig) ModelConfig() *llms.Config {
	return &llms.Config{
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		TopP:        c.TopP,
		StopWords:   append([]string(nil), c.StopWords...),
	}
}

// Provider returns the config for the named provider, or nil if not found.
func (c *Config) Provider(name string) *ProviderConfig {
	for _, p := range c.Providers {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and name uniqueness.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if seen[p.Name] {
			return errors.Errorf("duplicate provider name: %q", p.Name)
		}
		seen[p.Name] = true
	}
	if c.DefaultProvider != "" && c.Provider(c.DefaultProvider) == nil {
		return errors.Errorf("default provider not configured: %q", c.DefaultProvider)
	}
	return nil
}
