package audit

import (
	"context"
	"sync"
	"time"

	"clinicore/pkg/domain"
	"clinicore/pkg/platform/sentinel"
)

// stubStore is a controllable Store for exercising the engine's failure
// paths without a real backend.
type stubStore struct {
	mu      sync.Mutex
	entries []Entry

	appendErr error
	listErr   error
	listOut   []Entry
	lastLimit int
	deleteN   int64
	deleteErr error
}

func (s *stubStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubStore) ListByEntity(_ context.Context, _ domain.DataCategory, _ string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listOut, nil
}

func (s *stubStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	return s.deleteN, nil
}

func (s *stubStore) stored() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry{}, s.entries...)
}

// stubPolicyStore keeps policies in a map and supports injected failures.
type stubPolicyStore struct {
	mu       sync.Mutex
	policies map[domain.DataCategory]*RetentionPolicy

	findErr   error
	insertErr error
	existsErr error
}

func newStubPolicyStore() *stubPolicyStore {
	return &stubPolicyStore{policies: make(map[domain.DataCategory]*RetentionPolicy)}
}

func (s *stubPolicyStore) FindActive(_ context.Context, category domain.DataCategory) (*RetentionPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.policies[category]
	if !ok || !p.Active {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubPolicyStore) Insert(_ context.Context, policy *RetentionPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	copied := *policy
	s.policies[policy.Category] = &copied
	return nil
}

func (s *stubPolicyStore) Exists(_ context.Context, category domain.DataCategory) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.policies[category]
	return ok, nil
}
