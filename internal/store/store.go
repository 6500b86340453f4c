// Package store persists fetched UF values so repeat lookups can be
// answered without touching the upstream API.
package store

import (
	"context"
	"time"
)

// Entry is a single cached UF value.
type Entry struct {
	Date      string    `json:"date"`
	Value     float64   `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store defines the persistence interface for cached UF values.
type Store interface {
	// Get returns the entry for an ISO date, or (nil, nil) when the date
	// has never been cached.
	Get(ctx context.Context, date string) (*Entry, error)

	// Put inserts or replaces the entry for its date.
	Put(ctx context.Context, e Entry) error

	// PutBatch inserts or replaces many entries at once.
	PutBatch(ctx context.Context, entries []Entry) error

	// All returns every cached entry in ascending date order.
	All(ctx context.Context) ([]Entry, error)

	// Count reports how many dates are cached.
	Count(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
