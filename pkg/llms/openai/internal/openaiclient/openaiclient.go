package openaiclient

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultChatModel = "gpt-5-mini"
)

// ErrEmptyResponse is returned when the OpenAI API returns an empty response.
var ErrEmptyResponse = errors.New("empty response")

type ProviderType string

const (
	ProviderOpenAI  ProviderType = "OPENAI"
	ProviderAzure   ProviderType = "AZURE"
	ProviderAzureAD ProviderType = "AZURE_AD"
)

// Client is a client for the OpenAI chat completions API.
type Client struct {
	Model    string
	Provider ProviderType

	token        string
	baseURL      string
	organization string
	httpClient   Doer

	// required when Provider is ProviderAzure or ProviderAzureAD
	apiVersion string
}

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns a new OpenAI client.
func New(provider ProviderType, model string, token string, baseURL string, organization string,
	apiVersion string, httpClient Doer,
) (*Client, error) {
	c := &Client{
		Model:        model,
		token:        token,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		organization: organization,
		Provider:     provider,
		apiVersion:   apiVersion,
		httpClient:   httpClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}

	return c, nil
}

func IsAzure(apiType ProviderType) bool {
	return apiType == ProviderAzure || apiType == ProviderAzureAD
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.Provider == ProviderOpenAI || c.Provider == ProviderAzureAD || c.Provider == "OPEN_AI" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set("api-key", c.token)
	}
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
}

func (c *Client) buildURL(suffix string, model string) string {
	if IsAzure(c.Provider) {
		return c.buildAzureURL(suffix, model)
	}

	// open ai implement:
	return fmt.Sprintf("%s%s", c.baseURL, suffix)
}

func (c *Client) buildAzureURL(suffix string, model string) string {
	baseURL := strings.TrimRight(c.baseURL, "/")

	// azure example url:
	// /openai/deployments/{model}/chat/completions?api-version={api_version}
	return fmt.Sprintf("%s/openai/deployments/%s%s?api-version=%s",
		baseURL, model, suffix, c.apiVersion,
	)
}

type errorMessage struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
