// Package history stores benchmark results for later inspection, in memory or
// in Redis.
package history

import (
	"context"

	"github.com/effective-security/llmbench/pkg/benchmark"
)

// Store keeps benchmark results per provider, in the order they were added.
type Store interface {
	Results(ctx context.Context, provider string) []*benchmark.Result
	Add(ctx context.Context, res *benchmark.Result) error
	Reset(ctx context.Context, provider string) error
}
