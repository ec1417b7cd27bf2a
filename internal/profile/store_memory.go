package profile

import (
	"context"
	"sync"

	"veriportal/pkg/platform/sentinel"
)

// InMemoryStore keeps overrides in a map for local development and tests. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu        sync.RWMutex
	overrides map[string]Override
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{overrides: make(map[string]Override)}
}

func (s *InMemoryStore) Get(_ context.Context, principal string) (*Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if override, ok := s.overrides[principal]; ok {
		copied := override
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Upsert(_ context.Context, override Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.overrides[override.Principal]
	stored.Principal = override.Principal
	if override.DisplayName != "" {
		stored.DisplayName = override.DisplayName
	}
	if override.AvatarURL != "" {
		stored.AvatarURL = override.AvatarURL
	}
	stored.UpdatedAt = override.UpdatedAt
	s.overrides[override.Principal] = stored
	return nil
}
