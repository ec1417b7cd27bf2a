package profile

import "context"

// Store persists profile overrides. Implementations return
// sentinel.ErrNotFound for absent records and wrap driver failures so the
// service can classify them as recoverable.
type Store interface {
	// Get returns the override for a principal, or sentinel.ErrNotFound.
	Get(ctx context.Context, principal string) (*Override, error)
	// Upsert creates or updates the record. An empty DisplayName or AvatarURL
	// input keeps the previously stored value; applying the same input twice
	// yields the same stored state.
	Upsert(ctx context.Context, override Override) error
}
