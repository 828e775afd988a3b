package audit

import (
	"context"
	"log/slog"
	"time"

	"clinicore/pkg/domain"
)

// Sweeper deletes expired audit entries and records its own runs through the
// Recorder, so every cleanup, successful or not, leaves a trace in the
// trail it maintains.
type Sweeper struct {
	store    Store
	recorder *Recorder
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperClock overrides the time source for tests.
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithSweeperMetrics sets the metrics collector.
func WithSweeperMetrics(m *Metrics) SweeperOption {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

// WithSweeperLogger sets the logger.
func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger.With("component", "audit.sweeper")
	}
}

// NewSweeper constructs the retention sweeper.
func NewSweeper(store Store, recorder *Recorder, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:    store,
		recorder: recorder,
		logger:   slog.Default().With("component", "audit.sweeper"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CleanupExpired deletes every entry whose expiry is strictly before now and
// returns the number removed. Entries with no expiry always survive.
//
// The run is self-logged either way: success records the deleted count,
// failure records the error and the function returns 0 instead of raising.
// A broken sweep must not take down whatever scheduled it. Running twice in
// a row is a no-op; the deletion predicate makes concurrent runs harmless.
func (s *Sweeper) CleanupExpired(ctx context.Context) int64 {
	now := s.now()

	deleted, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		s.metrics.IncSweepFailures()
		s.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
		s.recorder.Record(ctx, ActionDescriptor{
			ActorID:      SystemActor,
			Action:       ActionCleanupExpiredLogs,
			EntityType:   domain.CategoryAuditLog,
			Failed:       true,
			ErrorMessage: err.Error(),
		})
		return 0
	}

	s.metrics.AddSweepDeleted(deleted)
	s.logger.InfoContext(ctx, "retention sweep completed", "deleted", deleted)
	s.recorder.Record(ctx, ActionDescriptor{
		ActorID:    SystemActor,
		Action:     ActionCleanupExpiredLogs,
		EntityType: domain.CategoryAuditLog,
		Detail:     CleanupDetail{Deleted: deleted},
	})
	return deleted
}
