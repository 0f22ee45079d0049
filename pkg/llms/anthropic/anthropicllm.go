package anthropic

import (
	"context"
	"iter"
	"net/http"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llms"
)

var (
	ErrEmptyResponse      = errors.New("anthropic: no response")
	ErrMissingToken       = errors.New("anthropic: missing API key, set it in the ANTHROPIC_API_KEY environment variable")
	ErrInvalidContentType = errors.New("anthropic: invalid content type")
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultMaxTokens = 4096
)

// LLM is an Anthropic chat provider backed by the official Anthropic SDK.
type LLM struct {
	Client  *anthropic.Client
	Options *Options
}

var _ llms.Provider = (*LLM)(nil)

// New creates a new Anthropic provider.
//
// If no token is provided via options, it is read from the
// ANTHROPIC_API_KEY environment variable.
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Token:      os.Getenv(TokenEnvVarName),
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(options)
	}

	if len(options.Token) == 0 {
		return nil, ErrMissingToken
	}
	if options.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	c, err := newClient(options)
	if err != nil {
		return nil, errors.Wrap(err, "anthropic: failed to create client")
	}
	return &LLM{
		Client:  c,
		Options: options,
	}, nil
}

func newClient(options *Options) (*anthropic.Client, error) {
	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithMaxRetries(2),
		option.WithRequestTimeout(5 * time.Minute),
	}

	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}

	if options.HTTPClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.HTTPClient))
	}

	if options.AnthropicBetaHeader != "" {
		sdkOpts = append(sdkOpts, option.WithHeader("anthropic-beta", options.AnthropicBetaHeader))
	}

	client := anthropic.NewClient(sdkOpts...)

	return &client, nil
}

// GetName implements the Provider interface.
func (o *LLM) GetName() string {
	return o.Options.Model
}

// GetProviderType implements the Provider interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderAnthropic
}

// GenerateResponse implements the Provider interface.
func (o *LLM) GenerateResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) (string, error) {
	result, err := o.Client.Messages.New(ctx, o.messageParams(systemPrompt, userPrompt, cfg))
	if err != nil {
		return "", errors.Wrap(err, "anthropic: failed to create message")
	}
	if len(result.Content) == 0 {
		return "", ErrEmptyResponse
	}

	var text string
	for _, contentBlock := range result.Content {
		switch content := contentBlock.AsAny().(type) {
		case anthropic.TextBlock:
			text += content.Text
		default:
			return "", errors.WithMessagef(ErrInvalidContentType, "anthropic: %T", content)
		}
	}
	return text, nil
}

// StreamResponse implements the Provider interface.
func (o *LLM) StreamResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) iter.Seq2[string, error] {
	params := o.messageParams(systemPrompt, userPrompt, cfg)
	return func(yield func(string, error) bool) {
		stream := o.Client.Messages.NewStreaming(ctx, params)
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			event := stream.Current()
			switch evt := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch delta := evt.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if delta.Text != "" && !yield(delta.Text, nil) {
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", errors.Wrap(err, "anthropic: streaming error"))
		}
	}
}

func (o *LLM) messageParams(systemPrompt, userPrompt string, cfg *llms.Config) anthropic.MessageNewParams {
	cfg = cfg.Clone()

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: systemPrompt,
			},
		}
	}

	if cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(cfg.Temperature)
	}
	if cfg.TopP > 0 {
		params.TopP = anthropic.Float(cfg.TopP)
	}
	if len(cfg.StopWords) > 0 {
		params.StopSequences = cfg.StopWords
	}

	return params
}
