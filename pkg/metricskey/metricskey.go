package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsBenchmarkRunsSucceeded is a counter metric for completed benchmark runs
	StatsBenchmarkRunsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_benchmark_runs_succeeded",
		Help:         "stats_benchmark_runs_succeeded provides total benchmark runs succeeded",
		RequiredTags: []string{"provider"},
	}

	StatsBenchmarkRunsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_benchmark_runs_failed",
		Help:         "stats_benchmark_runs_failed provides total benchmark runs failed",
		RequiredTags: []string{"provider"},
	}

	StatsBenchmarkPrompts = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_benchmark_prompts",
		Help:         "stats_benchmark_prompts provides total prompts measured",
		RequiredTags: []string{"provider", "model"},
	}

	StatsBenchmarkResponseChars = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_benchmark_response_chars",
		Help:         "stats_benchmark_response_chars provides total response characters received",
		RequiredTags: []string{"provider", "model"},
	}
)

// Perf
var (
	PerfProviderCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_provider_call",
		Help:         "perf_provider_call provides duration of a single provider call",
		RequiredTags: []string{"provider", "model"},
	}

	PerfBenchmarkRun = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_benchmark_run",
		Help:         "perf_benchmark_run provides duration of a benchmark run",
		RequiredTags: []string{"provider"},
	}
)

// Metrics returns all metrics defined in this package.
var Metrics = []*metrics.Describe{
	&PerfBenchmarkRun,
	&PerfProviderCall,
	&StatsBenchmarkPrompts,
	&StatsBenchmarkResponseChars,
	&StatsBenchmarkRunsFailed,
	&StatsBenchmarkRunsSucceeded,
}
