package history

import (
	"context"
	"sync"

	"github.com/effective-security/llmbench/pkg/benchmark"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string][]*benchmark.Result
}

func NewMemoryStore() Store {
	return &inMemory{}
}

func (m *inMemory) Results(_ context.Context, provider string) []*benchmark.Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.storage == nil {
		return nil
	}
	return m.storage[provider]
}

func (m *inMemory) Add(_ context.Context, res *benchmark.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string][]*benchmark.Result)
	}
	m.storage[res.Provider] = append(m.storage[res.Provider], res)
	return nil
}

func (m *inMemory) Reset(_ context.Context, provider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, provider)
	}
	return nil
}
