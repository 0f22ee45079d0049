package openai

import (
	"context"
	"iter"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llms"
	"github.com/effective-security/llmbench/pkg/llms/openai/internal/openaiclient"
)

var (
	ErrEmptyResponse = errors.New("openai: no response")
	ErrMissingToken  = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
)

// LLM is an OpenAI-compatible chat provider.
type LLM struct {
	client  *openaiclient.Client
	options *Options
}

var _ llms.Provider = (*LLM)(nil)

// New creates a new OpenAI provider.
//
// Works with any OpenAI-compatible chat completions endpoint, including Azure
// OpenAI deployments when APITypeAzure or APITypeAzureAD is set.
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Token:        os.Getenv(TokenEnvVarName),
		BaseURL:      os.Getenv(BaseURLEnvVarName),
		Organization: os.Getenv(OrganizationEnvVarName),
		APIType:      APITypeOpenAI,
	}

	for _, opt := range opts {
		opt(options)
	}

	if len(options.Token) == 0 {
		return nil, ErrMissingToken
	}
	if options.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	client, err := openaiclient.New(options.APIType, options.Model, options.Token,
		options.BaseURL, options.Organization, options.APIVersion, options.HTTPClient)
	if err != nil {
		return nil, errors.Wrap(err, "openai: failed to create client")
	}
	return &LLM{
		client:  client,
		options: options,
	}, nil
}

// GetName implements the Provider interface.
func (o *LLM) GetName() string {
	return o.options.Model
}

// GetProviderType implements the Provider interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	if openaiclient.IsAzure(o.options.APIType) {
		return llms.ProviderAzure
	}
	return llms.ProviderOpenAI
}

// GenerateResponse implements the Provider interface.
func (o *LLM) GenerateResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) (string, error) {
	resp, err := o.client.CreateChat(ctx, o.chatRequest(systemPrompt, userPrompt, cfg))
	if err != nil {
		return "", errors.Wrap(err, "openai: failed to create chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamResponse implements the Provider interface.
func (o *LLM) StreamResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) iter.Seq2[string, error] {
	return o.client.StreamChat(ctx, o.chatRequest(systemPrompt, userPrompt, cfg))
}

func (o *LLM) chatRequest(systemPrompt, userPrompt string, cfg *llms.Config) *openaiclient.ChatRequest {
	cfg = cfg.Clone()
	req := &openaiclient.ChatRequest{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopP:        cfg.TopP,
		Stop:        cfg.StopWords,
	}
	if systemPrompt != "" {
		req.Messages = append(req.Messages, openaiclient.ChatMessage{
			Role:    openaiclient.RoleSystem,
			Content: systemPrompt,
		})
	}
	req.Messages = append(req.Messages, openaiclient.ChatMessage{
		Role:    openaiclient.RoleUser,
		Content: userPrompt,
	})
	return req
}
