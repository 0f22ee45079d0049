// Package googleai implements a provider for Google AI LLMs.
// See https://ai.google.dev/ for more details.
package googleai

import (
	"context"
	"iter"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llms"
	"google.golang.org/genai"
)

var (
	ErrMissingAPIKey       = errors.New("googleai: missing API key, set it in the GOOGLE_API_KEY environment variable")
	ErrNoContentInResponse = errors.New("googleai: no content in generation response")
)

const (
	RoleUser = "user"
)

// GoogleAI is a Google AI API provider.
type GoogleAI struct {
	client *genai.Client
	opts   Options
}

var _ llms.Provider = (*GoogleAI)(nil)

// New creates a new GoogleAI client.
func New(ctx context.Context, opts ...Option) (*GoogleAI, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}
	clientOptions.EnsureAuthPresent()

	if clientOptions.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	gi := &GoogleAI{
		opts: clientOptions,
	}

	cfg := &genai.ClientConfig{
		APIKey:     clientOptions.APIKey,
		HTTPClient: clientOptions.HTTPClient,
		Backend:    genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return gi, errors.Wrap(err, "googleai: failed to create client")
	}
	gi.client = client

	return gi, nil
}

// GetName implements the Provider interface.
func (g *GoogleAI) GetName() string {
	return g.opts.DefaultModel
}

// GetProviderType implements the Provider interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateResponse implements the Provider interface.
func (g *GoogleAI) GenerateResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) (string, error) {
	model, contents, callCfg := g.prepareCall(systemPrompt, userPrompt, cfg)

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, callCfg)
	if err != nil {
		return "", errors.Wrap(err, "googleai: failed to generate content")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoContentInResponse
	}

	buf := strings.Builder{}
	for _, part := range resp.Candidates[0].Content.Parts {
		buf.WriteString(part.Text)
	}
	return buf.String(), nil
}

// StreamResponse implements the Provider interface.
func (g *GoogleAI) StreamResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) iter.Seq2[string, error] {
	model, contents, callCfg := g.prepareCall(systemPrompt, userPrompt, cfg)

	return func(yield func(string, error) bool) {
		for resp, err := range g.client.Models.GenerateContentStream(ctx, model, contents, callCfg) {
			if err != nil {
				yield("", errors.Wrap(err, "googleai: streaming error"))
				return
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				continue
			}
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text != "" && !yield(part.Text, nil) {
					return
				}
			}
		}
	}
}

func (g *GoogleAI) prepareCall(systemPrompt, userPrompt string, cfg *llms.Config) (string, []*genai.Content, *genai.GenerateContentConfig) {
	cfg = cfg.Clone()

	model := cfg.Model
	if model == "" {
		model = g.opts.DefaultModel
	}

	callCfg := &genai.GenerateContentConfig{
		StopSequences: cfg.StopWords,
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategoryHarassment,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategorySexuallyExplicit,
				Threshold: g.opts.HarmThreshold,
			},
		},
	}
	if cfg.MaxTokens > 0 {
		callCfg.MaxOutputTokens = int32(cfg.MaxTokens)
	}
	if cfg.Temperature > 0 {
		callCfg.Temperature = genai.Ptr(float32(cfg.Temperature))
	}
	if cfg.TopP > 0 {
		callCfg.TopP = genai.Ptr(float32(cfg.TopP))
	}
	if systemPrompt != "" {
		callCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	contents := []*genai.Content{
		{
			Role:  RoleUser,
			Parts: []*genai.Part{{Text: userPrompt}},
		},
	}

	return model, contents, callCfg
}
