package calllog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinicore/internal/audit"
	"clinicore/pkg/domain"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/platform/middleware/metadata"
)

// Store persists call records.
type Store interface {
	Save(ctx context.Context, rec *CallRecord) error
	ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]CallRecord, error)
}

// Service saves completed calls and records CALL_COMPLETED for each.
type Service struct {
	store   Store
	auditor *audit.Recorder
	logger  *slog.Logger
}

// NewService constructs the call log service.
func NewService(store Store, auditor *audit.Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		auditor: auditor,
		logger:  logger.With("component", "calllog"),
	}
}

// CompleteRequest carries the metadata of a finished call.
type CompleteRequest struct {
	TenantID        domain.TenantID
	CallerNumber    string
	DurationSeconds int
	Outcome         string
	CompletedAt     time.Time
}

// Complete stores a finished call and audits it. The telephony layer is the
// actor here, so entries are attributed to the system identity.
func (s *Service) Complete(ctx context.Context, req CompleteRequest) (*CallRecord, error) {
	if req.TenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant is required")
	}
	if req.DurationSeconds < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "duration cannot be negative")
	}
	if req.CompletedAt.IsZero() {
		req.CompletedAt = time.Now()
	}

	rec := &CallRecord{
		ID:              uuid.New(),
		TenantID:        req.TenantID,
		CallerNumber:    req.CallerNumber,
		DurationSeconds: req.DurationSeconds,
		Outcome:         req.Outcome,
		CompletedAt:     req.CompletedAt,
		CreatedAt:       time.Now(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to save call record")
	}

	tenantID := rec.TenantID
	s.auditor.Record(ctx, audit.ActionDescriptor{
		ActorID:    audit.SystemActor,
		TenantID:   &tenantID,
		Action:     audit.ActionCallCompleted,
		EntityType: domain.CategoryCallRecord,
		EntityID:   rec.ID.String(),
		Detail: audit.CallDetail{
			CallerNumber:    rec.CallerNumber,
			DurationSeconds: rec.DurationSeconds,
		},
		IPAddress: metadata.ClientIP(ctx),
		UserAgent: metadata.UserAgent(ctx),
	})
	return rec, nil
}

// InMemoryStore keeps call records per tenant. Used by tests and dev mode.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.TenantID][]CallRecord
}

// NewInMemoryStore creates an empty call record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.TenantID][]CallRecord)}
}

func (s *InMemoryStore) Save(_ context.Context, rec *CallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.TenantID] = append(s.records[rec.TenantID], *rec)
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID domain.TenantID) ([]CallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CallRecord{}, s.records[tenantID]...), nil
}
