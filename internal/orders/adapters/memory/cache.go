package memory

import (
	"context"
	"sync"

	"github.com/dejobratic/catalog/internal/orders/domain"
)

// ProfileCache keeps rendered profile lists in process memory.
type ProfileCache struct {
	mu          sync.RWMutex
	entries     map[string][]domain.OrderProfile
	generations map[string]uint64
}

func NewProfileCache() *ProfileCache {
	return &ProfileCache{
		entries:     make(map[string][]domain.OrderProfile),
		generations: make(map[string]uint64),
	}
}

func (c *ProfileCache) Get(_ context.Context, key string) ([]domain.OrderProfile, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	profiles, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]domain.OrderProfile, len(profiles))
	copy(out, profiles)
	return out, true, nil
}

func (c *ProfileCache) Generation(_ context.Context, key string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[key], nil
}

// Set stores profiles when key is still at generation.
func (c *ProfileCache) Set(_ context.Context, key string, generation uint64, profiles []domain.OrderProfile) (bool, error) {
	stored := make([]domain.OrderProfile, len(profiles))
	copy(stored, profiles)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != generation {
		return false, nil
	}
	c.entries[key] = stored
	return true, nil
}

func (c *ProfileCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.generations[key]++
	return nil
}
