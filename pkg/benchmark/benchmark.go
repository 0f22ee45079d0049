package benchmark

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/llmmanager"
	"github.com/effective-security/llmbench/pkg/llms"
	"github.com/effective-security/llmbench/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/llmbench", "benchmark")

// TimeNowFn is the clock used for timing provider calls.
var TimeNowFn = time.Now

// Generator is the subset of the manager the benchmark runner drives.
type Generator interface {
	CurrentProvider() string
	SwitchProvider(name string) error
	ModelConfig() (*llms.Config, error)
	GenerateResponseWithSystem(ctx context.Context, systemPrompt, prompt string) (string, error)
}

var _ Generator = (*llmmanager.Manager)(nil)

// Test is the measurement of a single prompt.
type Test struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
	// Seconds is the elapsed wall-clock time of the provider call.
	Seconds float64 `json:"time"`
	// Characters is the response length in Unicode code points.
	Characters int `json:"characters"`
}

// Result is a benchmark of one provider over an ordered prompt set.
// With zero prompts the Tests list is empty and both averages are 0.
type Result struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Tests    []Test `json:"tests"`
	// AverageSeconds is the arithmetic mean of per-prompt call times.
	AverageSeconds float64 `json:"average_time"`
	// AverageCharacters is the arithmetic mean of response lengths.
	AverageCharacters float64 `json:"average_characters"`
}

// Summary identifies the fastest provider of a comparison.
type Summary struct {
	FastestProvider string  `json:"fastest_provider"`
	AverageSeconds  float64 `json:"average_time"`
}

// Comparison holds per-provider benchmark results keyed by provider name.
type Comparison struct {
	Providers map[string]*Result `json:"providers"`
	Summary   Summary            `json:"summary"`
}

// Runner benchmarks providers through a manager. Prompts are processed
// strictly sequentially; total run time is the sum of the individual call
// times.
type Runner struct {
	gen          Generator
	systemPrompt string
}

type RunnerOption func(*Runner)

// WithSystemPrompt overrides the system prompt used for benchmarked calls.
func WithSystemPrompt(systemPrompt string) RunnerOption {
	return func(r *Runner) {
		r.systemPrompt = systemPrompt
	}
}

// NewRunner creates a benchmark runner over the given manager.
func NewRunner(gen Generator, opts ...RunnerOption) *Runner {
	r := &Runner{
		gen:          gen,
		systemPrompt: llmmanager.DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run benchmarks the active provider over the given prompts. Each prompt is
// timed with one synchronous generate call; the first provider failure aborts
// the run and propagates to the caller.
func (r *Runner) Run(ctx context.Context, prompts []string) (*Result, error) {
	provider := r.gen.CurrentProvider()

	model := ""
	if cfg, err := r.gen.ModelConfig(); err == nil {
		model = cfg.Model
	}

	started := TimeNowFn()
	res := &Result{
		Provider: provider,
		Model:    model,
		Tests:    make([]Test, 0, len(prompts)),
	}

	var totalSeconds, totalChars float64
	for _, prompt := range prompts {
		callStarted := TimeNowFn()
		response, err := r.gen.GenerateResponseWithSystem(ctx, r.systemPrompt, prompt)
		if err != nil {
			metricskey.StatsBenchmarkRunsFailed.IncrCounter(1, provider)
			return nil, errors.WithMessagef(err, "benchmark failed for provider %q", provider)
		}
		elapsed := TimeNowFn().Sub(callStarted)
		chars := utf8.RuneCountInString(response)

		metricskey.PerfProviderCall.MeasureSince(callStarted, provider, model)
		metricskey.StatsBenchmarkPrompts.IncrCounter(1, provider, model)
		metricskey.StatsBenchmarkResponseChars.IncrCounter(float64(chars), provider, model)

		res.Tests = append(res.Tests, Test{
			Prompt:     prompt,
			Response:   response,
			Seconds:    elapsed.Seconds(),
			Characters: chars,
		})
		totalSeconds += elapsed.Seconds()
		totalChars += float64(chars)
	}

	if n := len(res.Tests); n > 0 {
		res.AverageSeconds = totalSeconds / float64(n)
		res.AverageCharacters = totalChars / float64(n)
	}

	metricskey.StatsBenchmarkRunsSucceeded.IncrCounter(1, provider)
	metricskey.PerfBenchmarkRun.MeasureSince(started, provider)

	logger.KV(xlog.DEBUG,
		"status", "benchmark_completed",
		"provider", provider,
		"prompts", len(prompts),
		"average_time", res.AverageSeconds)
	return res, nil
}

// Compare benchmarks each named provider in order over the same prompts and
// ranks them by average call time. Ties are broken by first occurrence in the
// input order. The manager is left on the last compared provider.
func (r *Runner) Compare(ctx context.Context, providerNames []string, prompts []string) (*Comparison, error) {
	cmp := &Comparison{
		Providers: make(map[string]*Result, len(providerNames)),
	}

	for _, name := range providerNames {
		if err := r.gen.SwitchProvider(name); err != nil {
			return nil, err
		}
		res, err := r.Run(ctx, prompts)
		if err != nil {
			return nil, err
		}
		cmp.Providers[name] = res

		if cmp.Summary.FastestProvider == "" || res.AverageSeconds < cmp.Summary.AverageSeconds {
			cmp.Summary = Summary{
				FastestProvider: name,
				AverageSeconds:  res.AverageSeconds,
			}
		}
	}

	return cmp, nil
}
