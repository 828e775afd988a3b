// Package rediscache wraps a PolicyStore with a Redis read-through cache.
// Retention policies change rarely but are consulted on every audit write,
// so a short TTL takes the hot path off Postgres.
//
// The cache fails open: any Redis error falls through to the inner store and
// is logged at debug level, never surfaced.
package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"clinicore/internal/audit"
	"clinicore/pkg/domain"
)

// DefaultTTL bounds how stale a cached policy can be.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "clinicore:retention:"

// PolicyStore decorates an audit.PolicyStore with caching.
type PolicyStore struct {
	inner  audit.PolicyStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps inner with a Redis cache. A zero ttl uses DefaultTTL.
func New(inner audit.PolicyStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *PolicyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PolicyStore{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "audit.policycache"),
	}
}

func (s *PolicyStore) FindActive(ctx context.Context, category domain.DataCategory) (*audit.RetentionPolicy, error) {
	key := keyPrefix + string(category)

	if data, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var policy audit.RetentionPolicy
		if err := json.Unmarshal(data, &policy); err == nil {
			return &policy, nil
		}
		// Corrupt cache entry; drop it and fall through.
		s.client.Del(ctx, key)
	} else if err != redis.Nil {
		s.logger.DebugContext(ctx, "policy cache read failed", "category", category, "error", err)
	}

	policy, err := s.inner.FindActive(ctx, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(policy); err == nil {
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.DebugContext(ctx, "policy cache write failed", "category", category, "error", err)
		}
	}
	return policy, nil
}

func (s *PolicyStore) Insert(ctx context.Context, policy *audit.RetentionPolicy) error {
	if err := s.inner.Insert(ctx, policy); err != nil {
		return err
	}
	// Invalidate so the next resolve sees the new policy immediately.
	if err := s.client.Del(ctx, keyPrefix+string(policy.Category)).Err(); err != nil {
		s.logger.DebugContext(ctx, "policy cache invalidation failed", "category", policy.Category, "error", err)
	}
	return nil
}

func (s *PolicyStore) Exists(ctx context.Context, category domain.DataCategory) (bool, error) {
	return s.inner.Exists(ctx, category)
}
