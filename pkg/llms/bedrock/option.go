package bedrock

import (
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type options struct {
	modelID string
	region  string
	client  *bedrockruntime.Client
}

type Option func(*options)

// WithModel allows setting a custom model ID,
// e.g. "anthropic.claude-3-5-sonnet-20241022-v2:0".
func WithModel(modelID string) Option {
	return func(opts *options) {
		opts.modelID = modelID
	}
}

// WithRegion sets the AWS region used when the default AWS config is loaded.
func WithRegion(region string) Option {
	return func(opts *options) {
		opts.region = region
	}
}

// WithClient allows setting a custom bedrockruntime.Client,
// otherwise a client is created from the default AWS config.
func WithClient(client *bedrockruntime.Client) Option {
	return func(opts *options) {
		opts.client = client
	}
}
