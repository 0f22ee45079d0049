package llms

// Config is the per-call generation configuration passed to a provider.
// Not all providers support all options.
type Config struct {
	// Model is the model to use.
	Model string `json:"model" yaml:"model"`
	// Temperature is the temperature for sampling, between 0 and 1.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// TopP is the cumulative probability for top-p sampling.
	TopP float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	// StopWords is a list of words to stop on.
	StopWords []string `json:"stop_words,omitempty" yaml:"stop_words,omitempty"`
}

// Clone returns a copy of the config, safe to modify by the caller.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	ret := *c
	if c.StopWords != nil {
		ret.StopWords = append([]string(nil), c.StopWords...)
	}
	return &ret
}
