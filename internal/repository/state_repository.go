// Package repository provides the persistence media for the user-state entities.
// Every medium stores opaque strings under a small fixed set of keys; the
// service layer owns serialization.
package repository

import (
	"context"
)

// StateRepository defines methods for reading and writing raw entity values.
type StateRepository interface {
	// Get returns the value stored under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// SetMany writes all values or none of them.
	SetMany(ctx context.Context, values map[string]string) error

	// Close releases the medium.
	Close() error
}

// Watcher is implemented by media that can report modifications made by
// another process.
type Watcher interface {
	// Watch calls onChange after the underlying medium changed. The returned
	// function stops watching and waits for the watch goroutine to exit.
	Watch(ctx context.Context, onChange func()) (stop func(), err error)
}

// HealthChecker is implemented by media backed by a network service.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
