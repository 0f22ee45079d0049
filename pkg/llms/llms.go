package llms

import (
	"context"
	"iter"
)

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderAnthropic is the type of provider.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderAzure is the type of provider.
	ProviderAzure ProviderType = "AZURE"
	// ProviderBedrock is the type of provider.
	ProviderBedrock ProviderType = "BEDROCK"
	// ProviderGoogleAI is the type of provider.
	ProviderGoogleAI ProviderType = "GOOGLEAI"
	// ProviderOpenAI is the type of provider.
	ProviderOpenAI ProviderType = "OPENAI"
)

//go:generate mockgen -source=llms.go -destination=../../mocks/mockllms/llms_mock.gen.go -package mockllms

// Provider is the interface backend adapters implement.
// All generation work is delegated to the backend; implementations add no
// retries, caching or transformation of the response.
type Provider interface {
	// GetName returns the configured model name.
	GetName() string
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GenerateResponse sends the system and user prompts to the backend and
	// returns the complete response text unmodified.
	GenerateResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *Config) (string, error)
	// StreamResponse returns a finite, non-restartable sequence of response
	// chunks. Chunks are produced lazily, one at a time, in the order the
	// backend emits them. A backend failure is yielded as the error element
	// and terminates the sequence.
	StreamResponse(ctx context.Context, systemPrompt, userPrompt string, cfg *Config) iter.Seq2[string, error]
}
