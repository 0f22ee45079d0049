// Package llms defines the capability interface implemented by LLM backend
// adapters, and the generation configuration shared by all providers.
package llms
