package llmmanager_test

import (
	"context"
	"fmt"
	"iter"
	"testing"

	"github.com/effective-security/llmbench/mocks/mockllms"
	"github.com/effective-security/llmbench/pkg/llmmanager"
	"github.com/effective-security/llmbench/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeProvider struct {
	name     string
	provType llms.ProviderType
	response string
	chunks   []string
	err      error

	lastSystem string
	lastPrompt string
	lastCfg    *llms.Config
}

func (f *fakeProvider) GetName() string                    { return f.name }
func (f *fakeProvider) GetProviderType() llms.ProviderType { return f.provType }

func (f *fakeProvider) GenerateResponse(_ context.Context, systemPrompt, userPrompt string, cfg *llms.Config) (string, error) {
	f.lastSystem = systemPrompt
	f.lastPrompt = userPrompt
	f.lastCfg = cfg
	return f.response, f.err
}

func (f *fakeProvider) StreamResponse(_ context.Context, systemPrompt, userPrompt string, cfg *llms.Config) iter.Seq2[string, error] {
	f.lastSystem = systemPrompt
	f.lastPrompt = userPrompt
	f.lastCfg = cfg
	return func(yield func(string, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

func Test_LoadConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fakekey")
	t.Setenv("AZURE_OPENAI_API_KEY", "fakekey")
	t.Setenv("ANTHROPIC_API_KEY", "fakekey")
	t.Setenv("GOOGLEAI_TOKEN", "fakekey")

	cfg, err := llmmanager.LoadConfig("testdata/llm.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 5)
	assert.Equal(t, "OPEN_AI", cfg.DefaultProvider)

	pc := cfg.Provider("ANTHROPIC")
	require.NotNil(t, pc)
	assert.Equal(t, llms.ProviderAnthropic, pc.Type)
	assert.Equal(t, "claude-sonnet-4-20250514", pc.Model)
	assert.Equal(t, "fakekey", pc.Token)

	mc := pc.ModelConfig()
	require.NotNil(t, mc)
	assert.Equal(t, "claude-sonnet-4-20250514", mc.Model)
	assert.Equal(t, 4096, mc.MaxTokens)
	assert.Equal(t, []string{"STOP"}, mc.StopWords)

	assert.Nil(t, cfg.Provider("non-existent"))

	_, err = llmmanager.LoadConfig("testdata/non-existent.yaml")
	require.Error(t, err)

	// empty location returns an empty config
	cfg, err = llmmanager.LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Providers)
}

func Test_ConfigValidate(t *testing.T) {
	cfg := &llmmanager.Config{
		Providers: []*llmmanager.ProviderConfig{
			{Name: "A", Type: llms.ProviderOpenAI, Model: "gpt-5-mini"},
			{Name: "A", Type: llms.ProviderAnthropic, Model: "claude-sonnet-4-20250514"},
		},
	}
	err := cfg.Validate()
	assert.EqualError(t, err, `duplicate provider name: "A"`)

	cfg = &llmmanager.Config{
		DefaultProvider: "missing",
		Providers: []*llmmanager.ProviderConfig{
			{Name: "A", Type: llms.ProviderOpenAI, Model: "gpt-5-mini"},
		},
	}
	err = cfg.Validate()
	assert.EqualError(t, err, `default provider not configured: "missing"`)

	cfg = &llmmanager.Config{
		Providers: []*llmmanager.ProviderConfig{
			{Name: "A", Type: llms.ProviderOpenAI},
		},
	}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func Test_Manager(t *testing.T) {
	cfg := &llmmanager.Config{
		DefaultProvider: "fast",
		Providers: []*llmmanager.ProviderConfig{
			{Name: "fast", Type: llms.ProviderOpenAI, Model: "gpt-5-mini", Temperature: 0.1},
			{Name: "smart", Type: llms.ProviderAnthropic, Model: "claude-sonnet-4-20250514", MaxTokens: 4096},
		},
	}
	require.NoError(t, cfg.Validate())

	llmmanager.NewProvider = func(pc *llmmanager.ProviderConfig) (llms.Provider, error) {
		return &fakeProvider{
			name:     pc.Model,
			provType: pc.Type,
			response: "response from " + pc.Name,
			chunks:   []string{"chunk1 ", "chunk2 ", "chunk3"},
		}, nil
	}
	defer func() {
		llmmanager.NewProvider = llmmanager.CreateProvider
	}()

	// empty name selects the default provider
	m, err := llmmanager.New(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "fast", m.CurrentProvider())

	ctx := context.Background()
	res, err := m.GenerateResponse(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "response from fast", res)

	mc, err := m.ModelConfig()
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", mc.Model)
	assert.Equal(t, 0.1, mc.Temperature)

	err = m.SwitchProvider("smart")
	require.NoError(t, err)
	assert.Equal(t, "smart", m.CurrentProvider())

	mc, err = m.ModelConfig()
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", mc.Model)
	assert.Equal(t, 4096, mc.MaxTokens)

	res, err = m.GenerateResponseWithSystem(ctx, "You are terse.", "hello")
	require.NoError(t, err)
	assert.Equal(t, "response from smart", res)

	err = m.SwitchProvider("non-existent")
	assert.EqualError(t, err, `unknown provider: "non-existent"`)
	// failed switch leaves the previous provider active
	assert.Equal(t, "smart", m.CurrentProvider())
	res, err = m.GenerateResponse(ctx, "still works")
	require.NoError(t, err)
	assert.Equal(t, "response from smart", res)

	// streaming preserves chunk order
	seq, err := m.StreamResponse(ctx, "stream it")
	require.NoError(t, err)
	var got []string
	for chunk, err := range seq {
		require.NoError(t, err)
		got = append(got, chunk)
	}
	assert.Equal(t, []string{"chunk1 ", "chunk2 ", "chunk3"}, got)
}

func Test_Manager_SwitchFailure(t *testing.T) {
	cfg := &llmmanager.Config{
		Providers: []*llmmanager.ProviderConfig{
			{Name: "good", Type: llms.ProviderOpenAI, Model: "gpt-5-mini"},
			{Name: "broken", Type: llms.ProviderAnthropic, Model: "claude-sonnet-4-20250514"},
		},
	}

	llmmanager.NewProvider = func(pc *llmmanager.ProviderConfig) (llms.Provider, error) {
		if pc.Name == "broken" {
			return nil, fmt.Errorf("boom")
		}
		return &fakeProvider{name: pc.Model, provType: pc.Type, response: "ok"}, nil
	}
	defer func() {
		llmmanager.NewProvider = llmmanager.CreateProvider
	}()

	m, err := llmmanager.New(cfg, "good")
	require.NoError(t, err)

	err = m.SwitchProvider("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to initialize provider "broken"`)

	// previous provider is untouched
	assert.Equal(t, "good", m.CurrentProvider())
	res, err := m.GenerateResponse(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func Test_Manager_NewUnknown(t *testing.T) {
	cfg := &llmmanager.Config{
		Providers: []*llmmanager.ProviderConfig{
			{Name: "good", Type: llms.ProviderOpenAI, Model: "gpt-5-mini"},
		},
	}

	called := false
	llmmanager.NewProvider = func(pc *llmmanager.ProviderConfig) (llms.Provider, error) {
		called = true
		return &fakeProvider{}, nil
	}
	defer func() {
		llmmanager.NewProvider = llmmanager.CreateProvider
	}()

	// unknown name fails before any provider is constructed
	_, err := llmmanager.New(cfg, "nope")
	assert.EqualError(t, err, `unknown provider: "nope"`)
	assert.False(t, called)
}

func Test_Manager_MockProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &llmmanager.Config{
		Providers: []*llmmanager.ProviderConfig{
			{Name: "mock", Type: llms.ProviderAnthropic, Model: "claude-sonnet-4-20250514", Temperature: 0.3},
		},
	}

	mockLLM := mockllms.NewMockProvider(ctrl)
	llmmanager.NewProvider = func(pc *llmmanager.ProviderConfig) (llms.Provider, error) {
		return mockLLM, nil
	}
	defer func() {
		llmmanager.NewProvider = llmmanager.CreateProvider
	}()

	m, err := llmmanager.New(cfg, "mock")
	require.NoError(t, err)

	ctx := context.Background()
	mockLLM.EXPECT().
		GenerateResponse(gomock.Any(), llmmanager.DefaultSystemPrompt, "hello", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, cfg *llms.Config) (string, error) {
			assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model)
			assert.Equal(t, 0.3, cfg.Temperature)
			return "mocked", nil
		})

	res, err := m.GenerateResponse(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "mocked", res)

	var seq iter.Seq2[string, error] = func(yield func(string, error) bool) {
		yield("chunk", nil)
	}
	mockLLM.EXPECT().
		StreamResponse(gomock.Any(), llmmanager.DefaultSystemPrompt, "hello", gomock.Any()).
		Return(seq)

	got, err := m.StreamResponse(ctx, "hello")
	require.NoError(t, err)
	var chunks []string
	for chunk, err := range got {
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, []string{"chunk"}, chunks)
}

func Test_Load(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fakekey")
	t.Setenv("AZURE_OPENAI_API_KEY", "fakekey")
	t.Setenv("ANTHROPIC_API_KEY", "fakekey")
	t.Setenv("GOOGLEAI_TOKEN", "fakekey")

	llmmanager.NewProvider = func(pc *llmmanager.ProviderConfig) (llms.Provider, error) {
		return &fakeProvider{name: pc.Model, provType: pc.Type}, nil
	}
	defer func() {
		llmmanager.NewProvider = llmmanager.CreateProvider
	}()

	m, err := llmmanager.Load("testdata/llm.yaml", "ANTHROPIC")
	require.NoError(t, err)
	assert.Equal(t, "ANTHROPIC", m.CurrentProvider())

	_, err = llmmanager.Load("testdata/non-existent.yaml", "")
	require.Error(t, err)
}

func Test_CreateProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := llmmanager.CreateProvider(&llmmanager.ProviderConfig{
		Name:  "bad",
		Type:  "WATSON",
		Model: "jeopardy",
	})
	assert.EqualError(t, err, "unsupported provider type: WATSON")

	// openai requires a token
	_, err = llmmanager.CreateProvider(&llmmanager.ProviderConfig{
		Name:  "openai",
		Type:  llms.ProviderOpenAI,
		Model: "gpt-5-mini",
	})
	require.Error(t, err)

	// bedrock rejects unsupported model families
	_, err = llmmanager.CreateProvider(&llmmanager.ProviderConfig{
		Name:   "bedrock",
		Type:   llms.ProviderBedrock,
		Region: "us-west-2",
		Model:  "amazon.titan-text-express-v1",
	})
	require.Error(t, err)
}
