package repository

import (
	"context"
	"sync"
)

// MemoryStateRepository keeps entity values in process memory.
// Values are lost when the process exits.
type MemoryStateRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStateRepository creates an empty in-memory repository
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key
func (r *MemoryStateRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

// Set replaces the value stored under key
func (r *MemoryStateRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

// Delete removes key
func (r *MemoryStateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

// SetMany writes every value under a single lock
func (r *MemoryStateRepository) SetMany(_ context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

// Close is a no-op
func (r *MemoryStateRepository) Close() error {
	return nil
}
