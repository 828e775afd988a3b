package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder is the write path of the audit engine.
//
// Record never propagates a failure to its caller: a booking must not fail
// because compliance logging failed. Serialization problems drop the detail
// payload, retention resolution problems drop the expiry, and persistence
// problems drop the entry itself. Each is logged and counted, none is
// raised.
type Recorder struct {
	store    Store
	resolver *Resolver
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger used for internal failure reporting.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger.With("component", "audit.recorder")
	}
}

// WithRecorderMetrics sets the metrics collector.
func WithRecorderMetrics(m *Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// WithRecorderClock overrides the time source. Tests use this to make expiry
// arithmetic deterministic.
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// NewRecorder constructs the audit write path.
func NewRecorder(store Store, resolver *Resolver, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:    store,
		resolver: resolver,
		logger:   slog.Default().With("component", "audit.recorder"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record persists an audit entry for the described action. It always returns
// normally; inspect logs and metrics for failures, never the call site.
func (r *Recorder) Record(ctx context.Context, d ActionDescriptor) {
	if err := r.record(ctx, d); err != nil {
		r.metrics.IncPersistFailures()
		r.logger.ErrorContext(ctx, "audit entry lost",
			"action", NormalizeAction(d.Action),
			"entity_type", d.EntityType,
			"entity_id", d.EntityID,
			"error", err,
		)
	}
}

// record is the fallible core of Record. Keeping it separate lets tests
// assert on the failure path directly instead of scraping logs.
func (r *Recorder) record(ctx context.Context, d ActionDescriptor) error {
	now := r.now()

	entry := Entry{
		ID:           uuid.New(),
		TenantID:     d.TenantID,
		ActorID:      d.ActorID,
		Action:       NormalizeAction(d.Action),
		EntityType:   d.EntityType,
		EntityID:     d.EntityID,
		IPAddress:    d.IPAddress,
		UserAgent:    d.UserAgent,
		Success:      !d.Failed,
		ErrorMessage: d.ErrorMessage,
		CreatedAt:    now,
	}

	if d.Detail != nil {
		detail, err := json.Marshal(d.Detail)
		if err != nil {
			// An unserializable payload costs the detail, not the entry.
			r.metrics.IncSerializationFailures()
			r.logger.WarnContext(ctx, "audit detail dropped, serialization failed",
				"action", entry.Action,
				"error", err,
			)
		} else {
			entry.Detail = detail
		}
	}

	days, err := r.resolver.Resolve(ctx, d.EntityType)
	if err != nil {
		// Null expiry means "retain until an operator decides", which is the
		// safe degradation for regulated data. Resolve already logged why.
		entry.ExpiresAt = nil
	} else {
		expires := now.AddDate(0, 0, days)
		entry.ExpiresAt = &expires
	}

	if err := r.store.Append(ctx, entry); err != nil {
		return err
	}
	r.metrics.IncRecorded()
	return nil
}
