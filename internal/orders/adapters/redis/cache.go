// Package redis stores rendered order profile lists in Redis so that every
// API instance shares the same all-orders cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dejobratic/catalog/internal/orders/domain"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "catalog"
	defaultTTL    = 5 * time.Minute
)

// getter is satisfied by both the client and a watched transaction.
type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

// ProfileCache keeps profile lists as JSON values under prefix:key.
type ProfileCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

type Option func(*ProfileCache)

func WithPrefix(prefix string) Option {
	return func(c *ProfileCache) {
		c.prefix = prefix
	}
}

// WithTTL sets the expiry of stored lists. Zero keeps them until removed.
func WithTTL(ttl time.Duration) Option {
	return func(c *ProfileCache) {
		c.ttl = ttl
	}
}

func NewProfileCache(client *goredis.Client, opts ...Option) *ProfileCache {
	c := &ProfileCache{
		client: client,
		prefix: defaultPrefix,
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient connects to addr and verifies the server answers.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *ProfileCache) Get(ctx context.Context, key string) ([]domain.OrderProfile, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	var profiles []domain.OrderProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return profiles, true, nil
}

func (c *ProfileCache) Generation(ctx context.Context, key string) (uint64, error) {
	gen, err := c.generation(ctx, c.client, key)
	if err != nil {
		return 0, fmt.Errorf("read generation of %s: %w", key, err)
	}
	return gen, nil
}

// Set stores profiles when key is still at generation. The generation key is
// watched, so a Remove racing with the write aborts it.
func (c *ProfileCache) Set(ctx context.Context, key string, generation uint64, profiles []domain.OrderProfile) (bool, error) {
	if profiles == nil {
		profiles = []domain.OrderProfile{}
	}
	raw, err := json.Marshal(profiles)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", key, err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := c.generation(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, c.key(key), raw, c.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, c.generationKey(key))

	if errors.Is(err, goredis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	return stored, nil
}

// Remove deletes the entry and advances its generation in one transaction.
func (c *ProfileCache) Remove(ctx context.Context, key string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, c.key(key))
		pipe.Incr(ctx, c.generationKey(key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (c *ProfileCache) generation(ctx context.Context, cmd getter, key string) (uint64, error) {
	gen, err := cmd.Get(ctx, c.generationKey(key)).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Ping reports whether the backing server is reachable.
func (c *ProfileCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ProfileCache) generationKey(key string) string {
	return c.key(key) + ":generation"
}

func (c *ProfileCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
