// Package llmmanager provides configuration and a manager for selecting among
// LLM backend providers and forwarding generation and streaming requests to
// the active one.
package llmmanager
