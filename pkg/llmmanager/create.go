package llmmanager

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llms"
	"github.com/effective-security/llmbench/pkg/llms/anthropic"
	"github.com/effective-security/llmbench/pkg/llms/bedrock"
	"github.com/effective-security/llmbench/pkg/llms/googleai"
	"github.com/effective-security/llmbench/pkg/llms/openai"
)

// NewProvider is a wrapper for CreateProvider to allow for overriding the
// default implementation.
var NewProvider = CreateProvider

// CreateProvider constructs a backend adapter for the given provider config.
// The set of supported backends is closed; unknown types are rejected.
func CreateProvider(cfg *ProviderConfig) (llms.Provider, error) {
	provType := llms.ProviderType(strings.ToUpper(string(cfg.Type)))
	switch provType {
	case llms.ProviderOpenAI, "OPEN_AI":
		return newOpenAI(cfg)
	case llms.ProviderAzure, "AZURE_AD":
		return newAzure(cfg, provType)
	case llms.ProviderAnthropic:
		return newAnthropic(cfg)
	case llms.ProviderGoogleAI:
		return newGoogleAI(cfg)
	case llms.ProviderBedrock:
		return newBedrock(cfg)
	}
	return nil, errors.Errorf("unsupported provider type: %s", cfg.Type)
}

func newOpenAI(cfg *ProviderConfig) (llms.Provider, error) {
	opts := []openai.Option{
		openai.WithAPIType(openai.APITypeOpenAI),
		openai.WithModel(cfg.Model),
	}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return openai.New(opts...)
}

func newAzure(cfg *ProviderConfig, provType llms.ProviderType) (llms.Provider, error) {
	opts := []openai.Option{
		openai.WithAPIVersion(cfg.APIVersion),
		openai.WithModel(cfg.Model),
	}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if provType == "AZURE_AD" {
		opts = append(opts, openai.WithAPIType(openai.APITypeAzureAD))
	} else {
		opts = append(opts, openai.WithAPIType(openai.APITypeAzure))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return openai.New(opts...)
}

func newAnthropic(cfg *ProviderConfig) (llms.Provider, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(cfg.Model),
	}
	if cfg.Token != "" {
		opts = append(opts, anthropic.WithToken(cfg.Token))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return anthropic.New(opts...)
}

func newGoogleAI(cfg *ProviderConfig) (llms.Provider, error) {
	opts := []googleai.Option{
		googleai.WithDefaultModel(cfg.Model),
	}
	if cfg.Token != "" {
		opts = append(opts, googleai.WithAPIKey(cfg.Token))
	}
	return googleai.New(context.Background(), opts...)
}

func newBedrock(cfg *ProviderConfig) (llms.Provider, error) {
	opts := []bedrock.Option{
		bedrock.WithModel(cfg.Model),
	}
	if cfg.Region != "" {
		opts = append(opts, bedrock.WithRegion(cfg.Region))
	}
	return bedrock.New(opts...)
}
