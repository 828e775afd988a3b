package audit

import (
	"context"
	"log/slog"

	"clinicore/pkg/domain"
)

// DefaultTrailLimit caps trail reads that don't specify their own limit.
const DefaultTrailLimit = 100

// Reader is the read path of the audit engine. Storage failures degrade to
// "no history shown" instead of surfacing to the compliance view.
type Reader struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
}

// NewReader constructs the audit read path.
func NewReader(store Store, logger *slog.Logger, metrics *Metrics) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		store:   store,
		logger:  logger.With("component", "audit.reader"),
		metrics: metrics,
	}
}

// Trail returns the chronological history for one entity, oldest first,
// capped at limit (DefaultTrailLimit when limit is not positive). The result
// is empty, never nil, and storage failures yield an empty trail.
func (r *Reader) Trail(ctx context.Context, entityType domain.DataCategory, entityID string, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultTrailLimit
	}

	entries, err := r.store.ListByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		r.metrics.IncTrailReadFailures()
		r.logger.ErrorContext(ctx, "audit trail read failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
		return []Entry{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}
