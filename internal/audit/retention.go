package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clinicore/pkg/domain"
	"clinicore/pkg/platform/sentinel"
)

// FallbackRetentionDays applies when no active policy covers a category.
// Seven years is the default for regulated health data, and erring long is
// the safe direction for compliance.
const FallbackRetentionDays = 2555

// Resolver answers "how long must this category be kept". It is fail-safe:
// a missing policy degrades to the fallback, but a broken store surfaces an
// error so the caller can decide to omit the expiry entirely.
type Resolver struct {
	policies PolicyStore
	logger   *slog.Logger
	metrics  *Metrics
}

// NewResolver constructs a retention resolver.
func NewResolver(policies PolicyStore, logger *slog.Logger, metrics *Metrics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		policies: policies,
		logger:   logger.With("component", "audit.retention"),
		metrics:  metrics,
	}
}

// Resolve returns the retention period in days for a data category.
//
// No active policy: returns FallbackRetentionDays (never zero or negative).
// Store failure or malformed policy: returns an error; callers store a null
// expiry rather than guessing, and the entry is retained until resolved.
func (r *Resolver) Resolve(ctx context.Context, category domain.DataCategory) (int, error) {
	policy, err := r.policies.FindActive(ctx, category)
	if errors.Is(err, sentinel.ErrNotFound) {
		r.logger.DebugContext(ctx, "no active retention policy, using fallback",
			"category", category,
			"fallback_days", FallbackRetentionDays,
		)
		return FallbackRetentionDays, nil
	}
	if err != nil {
		r.metrics.IncPolicyLookupFailures()
		r.logger.ErrorContext(ctx, "retention policy lookup failed",
			"category", category,
			"error", err,
		)
		return 0, fmt.Errorf("resolve retention for %s: %w", category, err)
	}
	if policy.Days <= 0 {
		r.metrics.IncPolicyLookupFailures()
		r.logger.ErrorContext(ctx, "retention policy has non-positive period",
			"category", category,
			"policy_id", policy.ID,
			"days", policy.Days,
		)
		return 0, fmt.Errorf("retention policy for %s has invalid period %d", category, policy.Days)
	}
	return policy.Days, nil
}
