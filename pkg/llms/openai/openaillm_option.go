package openai

import (
	"github.com/effective-security/llmbench/pkg/llms/openai/internal/openaiclient"
)

const (
	TokenEnvVarName        = "OPENAI_API_KEY" //nolint:gosec
	BaseURLEnvVarName      = "OPENAI_BASE_URL"
	OrganizationEnvVarName = "OPENAI_ORGANIZATION"
)

// APIType is the type of OpenAI-compatible API endpoint to use.
type APIType = openaiclient.ProviderType

const (
	APITypeOpenAI  APIType = openaiclient.ProviderOpenAI
	APITypeAzure   APIType = openaiclient.ProviderAzure
	APITypeAzureAD APIType = openaiclient.ProviderAzureAD
)

type Options struct {
	Token        string
	Model        string
	BaseURL      string
	Organization string
	APIType      APIType
	HTTPClient   openaiclient.Doer

	// required when APIType is APITypeAzure or APITypeAzureAD
	APIVersion string
}

type Option func(*Options)

// WithToken passes the OpenAI API token to the client. If not set, the token
// is read from the OPENAI_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel passes the OpenAI model to the client.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL passes the OpenAI base URL to the client.
// If not set, the default base URL is used.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client.
func WithOrganization(organization string) Option {
	return func(opts *Options) {
		opts.Organization = organization
	}
}

// WithAPIType passes the API type to the client.
// If not set, the default value is APITypeOpenAI.
func WithAPIType(apiType APIType) Option {
	return func(opts *Options) {
		opts.APIType = apiType
	}
}

// WithAPIVersion passes the API version to the client, required for Azure.
func WithAPIVersion(apiVersion string) Option {
	return func(opts *Options) {
		opts.APIVersion = apiVersion
	}
}

// WithHTTPClient allows setting a custom HTTP client.
// If not set, the default value is http.DefaultClient.
func WithHTTPClient(client openaiclient.Doer) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}
