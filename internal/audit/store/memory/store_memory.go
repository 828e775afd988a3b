// Package memory provides mutex-guarded in-memory implementations of the
// audit stores. They back unit tests and the database-less dev mode, and
// intentionally favor clarity over performance.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinicore/internal/audit"
	"clinicore/pkg/domain"
	"clinicore/pkg/platform/sentinel"
)

// Store holds audit entries in insertion order.
type Store struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

// NewStore creates an empty in-memory audit store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) ListByEntity(_ context.Context, entityType domain.DataCategory, entityID string, limit int) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []audit.Entry
	for _, e := range s.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []audit.Entry
	var deleted int64
	for _, e := range s.entries {
		if e.ExpiresAt != nil && e.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

// Len reports the number of stored entries. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// All returns a copy of every stored entry. Test helper.
func (s *Store) All() []audit.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Entry{}, s.entries...)
}

// PolicyStore holds retention policies keyed by category. The one-active-
// policy-per-category rule is enforced on insert, mirroring the partial
// unique index in the Postgres store.
type PolicyStore struct {
	mu       sync.RWMutex
	policies map[domain.DataCategory][]*audit.RetentionPolicy
}

// NewPolicyStore creates an empty in-memory policy store.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{policies: make(map[domain.DataCategory][]*audit.RetentionPolicy)}
}

func (s *PolicyStore) FindActive(_ context.Context, category domain.DataCategory) (*audit.RetentionPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.policies[category] {
		if p.Active {
			copied := *p
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *PolicyStore) Insert(_ context.Context, policy *audit.RetentionPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if policy.Active {
		for _, p := range s.policies[policy.Category] {
			if p.Active {
				return sentinel.ErrConflict
			}
		}
	}
	copied := *policy
	s.policies[policy.Category] = append(s.policies[policy.Category], &copied)
	return nil
}

func (s *PolicyStore) Exists(_ context.Context, category domain.DataCategory) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.policies[category]) > 0, nil
}
