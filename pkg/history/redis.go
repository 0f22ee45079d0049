package history

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/llmbench/pkg/benchmark"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/llmbench", "history")

// The redis store implements the Store interface using Redis as the backend.
// Results are JSON-marshalled into a list per provider. The keys namespace is
// organized as follows:
// - `/<prefix>/benchstore/<provider>/results` for storing benchmark results

type redisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) getRedisResultsKey(provider string) string {
	return path.Join(m.prefix, "benchstore", provider, "results")
}

func (m *redisStore) Results(ctx context.Context, provider string) []*benchmark.Result {
	key := m.getRedisResultsKey(provider)
	// Get all results in the list
	data, err := m.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "GetRedisResults", "err", err.Error())
		return nil
	}

	var results []*benchmark.Result
	for _, item := range data {
		var res benchmark.Result
		if err := json.Unmarshal([]byte(item), &res); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal result", "err", err.Error())
			continue
		}
		results = append(results, &res)
	}
	return results
}

func (m *redisStore) Add(ctx context.Context, res *benchmark.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "failed to marshal result")
	}

	key := m.getRedisResultsKey(res.Provider)
	if err := m.client.RPush(ctx, key, data).Err(); err != nil {
		return errors.Wrap(err, "failed to store result")
	}
	return nil
}

func (m *redisStore) Reset(ctx context.Context, provider string) error {
	key := m.getRedisResultsKey(provider)
	if err := m.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "failed to reset results")
	}
	return nil
}
