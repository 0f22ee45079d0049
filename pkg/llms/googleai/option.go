package googleai

import (
	"net/http"
	"os"

	"google.golang.org/genai"
)

// Options is a set of options for the GoogleAI client.
type Options struct {
	DefaultModel  string
	APIKey        string
	HarmThreshold genai.HarmBlockThreshold
	HTTPClient    *http.Client
}

func DefaultOptions() Options {
	return Options{
		DefaultModel:  "gemini-2.5-pro",
		HarmThreshold: genai.HarmBlockThresholdBlockOnlyHigh,
	}
}

// EnsureAuthPresent attempts to ensure that the client has authentication
// information. If it does not, it will attempt to use the GOOGLE_API_KEY
// environment variable.
func (o *Options) EnsureAuthPresent() {
	if o.APIKey == "" {
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			WithAPIKey(key)(o)
		}
	}
}

type Option func(*Options)

// WithAPIKey passes the API KEY (token) to the client.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithHTTPClient append a ClientOption that uses the provided HTTP client to
// make requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

// WithDefaultModel passes a default content model name to the client. This
// model name is used if not explicitly provided in specific client invocations.
func WithDefaultModel(defaultModel string) Option {
	return func(opts *Options) {
		opts.DefaultModel = defaultModel
	}
}

// WithHarmThreshold sets the safety block threshold applied to all calls.
func WithHarmThreshold(threshold genai.HarmBlockThreshold) Option {
	return func(opts *Options) {
		opts.HarmThreshold = threshold
	}
}
