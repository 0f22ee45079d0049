package llmmanager

import (
	"context"
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llms"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/llmbench", "llmmanager")

// DefaultSystemPrompt is used when the caller does not supply one.
const DefaultSystemPrompt = "You are a helpful assistant."

// Manager selects one of the configured providers and forwards generation
// requests to it. The manager exclusively owns the active provider instance;
// switching replaces it wholesale.
//
// The manager does not support concurrent callers.
type Manager struct {
	cfg      *Config
	current  string
	provider llms.Provider
}

// New constructs a manager with the named provider active. The name must be
// present in the configuration; an unknown name fails before any provider is
// instantiated. An empty name selects the configured default provider.
func New(cfg *Config, providerName string) (*Manager, error) {
	if providerName == "" {
		providerName = cfg.DefaultProvider
	}
	m := &Manager{cfg: cfg}
	if err := m.SwitchProvider(providerName); err != nil {
		return nil, err
	}
	return m, nil
}

// Load constructs a manager from a config file location.
func Load(location string, providerName string) (*Manager, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg, providerName)
}

// SwitchProvider validates the name and replaces the active provider with a
// freshly constructed instance. The swap is atomic: on any failure the
// previously active provider remains selected and usable.
func (m *Manager) SwitchProvider(name string) error {
	pc := m.cfg.Provider(name)
	if pc == nil {
		return errors.Errorf("unknown provider: %q", name)
	}

	p, err := NewProvider(pc)
	if err != nil {
		return errors.WithMessagef(err, "failed to initialize provider %q", name)
	}

	m.provider = p
	m.current = name

	logger.KV(xlog.DEBUG,
		"status", "provider_selected",
		"provider", name,
		"type", pc.Type,
		"model", pc.Model)
	return nil
}

// CurrentProvider returns the name of the active provider.
func (m *Manager) CurrentProvider() string {
	return m.current
}

// ModelConfig returns the model configuration of the active provider.
func (m *Manager) ModelConfig() (*llms.Config, error) {
	pc := m.cfg.Provider(m.current)
	if pc == nil {
		return nil, errors.Errorf("no model configuration for provider: %q", m.current)
	}
	return pc.ModelConfig(), nil
}

// GenerateResponse forwards the prompt to the active provider with the
// default system prompt and returns the response unmodified.
func (m *Manager) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return m.GenerateResponseWithSystem(ctx, DefaultSystemPrompt, prompt)
}

// GenerateResponseWithSystem forwards the prompt pair together with the
// active provider's model configuration. Provider failures propagate to the
// caller; no retries or timeouts are added at this layer.
func (m *Manager) GenerateResponseWithSystem(ctx context.Context, systemPrompt, prompt string) (string, error) {
	cfg, err := m.ModelConfig()
	if err != nil {
		return "", err
	}
	return m.provider.GenerateResponse(ctx, systemPrompt, prompt, cfg)
}

// StreamResponse forwards the prompt with the default system prompt and
// re-exposes the provider's chunk sequence unchanged.
func (m *Manager) StreamResponse(ctx context.Context, prompt string) (iter.Seq2[string, error], error) {
	return m.StreamResponseWithSystem(ctx, DefaultSystemPrompt, prompt)
}

// StreamResponseWithSystem returns the provider's lazy chunk sequence.
// Chunks are pulled one at a time in provider order; no buffering or
// reordering happens here.
func (m *Manager) StreamResponseWithSystem(ctx context.Context, systemPrompt, prompt string) (iter.Seq2[string, error], error) {
	cfg, err := m.ModelConfig()
	if err != nil {
		return nil, err
	}
	return m.provider.StreamResponse(ctx, systemPrompt, prompt, cfg), nil
}
