// Package bedrock implements a provider for Anthropic models served through
// AWS Bedrock.
package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llms"
)

// AnthropicLatestVersion is the required anthropic_version value for the
// Bedrock messages API.
const AnthropicLatestVersion = "bedrock-2023-05-31"

const defaultMaxTokens = 2048

var ErrEmptyResponse = errors.New("bedrock: no response")

// LLM is a Bedrock provider for Anthropic model families.
type LLM struct {
	modelID string
	client  *bedrockruntime.Client
}

var _ llms.Provider = (*LLM)(nil)

// New creates a new Bedrock provider. When no client is supplied, one is
// created from the default AWS config chain.
func New(opts ...Option) (*LLM, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.modelID == "" {
		return nil, errors.New("bedrock: model is required")
	}
	if !strings.Contains(o.modelID, "anthropic.") {
		return nil, errors.Errorf("bedrock: unsupported model family: %s", o.modelID)
	}

	if o.client == nil {
		var cfgOpts []func(*awsconfig.LoadOptions) error
		if o.region != "" {
			cfgOpts = append(cfgOpts, awsconfig.WithRegion(o.region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(context.Background(), cfgOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "bedrock: failed to load AWS config")
		}
		o.client = bedrockruntime.NewFromConfig(cfg)
	}

	return &LLM{
		modelID: o.modelID,
		client:  o.client,
	}, nil
}

// GetName implements the Provider interface.
func (l *LLM) GetName() string {
	return l.modelID
}

// GetProviderType implements the Provider interface.
func (l *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderBedrock
}

// GenerateResponse implements the Provider interface.
func (l *LLM) GenerateResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) (string, error) {
	body, modelID, err := l.buildInput(systemPrompt, userPrompt, cfg)
	if err != nil {
		return "", err
	}

	resp, err := l.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Accept:      aws.String("*/*"),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrap(err, "bedrock: failed to invoke model")
	}

	var output invokeOutput
	if err := json.Unmarshal(resp.Body, &output); err != nil {
		return "", errors.Wrap(err, "bedrock: failed to decode response")
	}
	if len(output.Content) == 0 {
		return "", ErrEmptyResponse
	}

	var text string
	for _, c := range output.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	return text, nil
}

// StreamResponse implements the Provider interface.
func (l *LLM) StreamResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *llms.Config) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		body, modelID, err := l.buildInput(systemPrompt, userPrompt, cfg)
		if err != nil {
			yield("", err)
			return
		}

		output, err := l.client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
			ModelId:     aws.String(modelID),
			Accept:      aws.String("*/*"),
			ContentType: aws.String("application/json"),
			Body:        body,
		})
		if err != nil {
			yield("", errors.Wrap(err, "bedrock: failed to invoke model"))
			return
		}
		stream := output.GetStream()
		if stream == nil {
			yield("", errors.New("bedrock: no stream"))
			return
		}
		defer func() { _ = stream.Close() }()

		for e := range stream.Events() {
			v, ok := e.(*types.ResponseStreamMemberChunk)
			if !ok {
				continue
			}
			var chunk streamChunk
			if err := json.NewDecoder(bytes.NewReader(v.Value.Bytes)).Decode(&chunk); err != nil {
				yield("", errors.Wrap(err, "bedrock: failed to decode stream chunk"))
				return
			}
			if chunk.Type == "content_block_delta" && chunk.Delta.Text != "" {
				if !yield(chunk.Delta.Text, nil) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", errors.Wrap(err, "bedrock: streaming error"))
		}
	}
}

func (l *LLM) buildInput(systemPrompt, userPrompt string, cfg *llms.Config) ([]byte, string, error) {
	cfg = cfg.Clone()

	modelID := cfg.Model
	if modelID == "" {
		modelID = l.modelID
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	input := invokeInput{
		AnthropicVersion: AnthropicLatestVersion,
		MaxTokens:        maxTokens,
		System:           systemPrompt,
		Temperature:      cfg.Temperature,
		TopP:             cfg.TopP,
		StopSequences:    cfg.StopWords,
		Messages: []inputMessage{
			{
				Role: "user",
				Content: []contentBlock{
					{Type: "text", Text: userPrompt},
				},
			},
		},
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, "", errors.Wrap(err, "bedrock: failed to marshal input")
	}
	return body, modelID, nil
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type inputMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type invokeInput struct {
	AnthropicVersion string         `json:"anthropic_version"`
	MaxTokens        int            `json:"max_tokens"`
	System           string         `json:"system,omitempty"`
	Messages         []inputMessage `json:"messages"`
	Temperature      float64        `json:"temperature,omitempty"`
	TopP             float64        `json:"top_p,omitempty"`
	StopSequences    []string       `json:"stop_sequences,omitempty"`
}

type invokeOutput struct {
	Type       string         `json:"type"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type streamChunk struct {
	Type  string `json:"type"`
	Delta struct {
		Type       string `json:"type"`
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
}
