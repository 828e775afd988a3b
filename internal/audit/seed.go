package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clinicore/pkg/domain"
	"clinicore/pkg/platform/sentinel"
)

// defaultPolicies is the fixed seed set. Periods are whole days; the legal
// basis tags name the regime that mandates each period.
var defaultPolicies = []RetentionPolicy{
	{
		Category:    domain.CategoryCallRecord,
		Days:        2555,
		Description: "Recordings and metadata of patient calls",
		LegalBasis:  "health-data regime",
	},
	{
		Category:    domain.CategoryAppointment,
		Days:        2555,
		Description: "Appointment and booking records",
		LegalBasis:  "health-data regime",
	},
	{
		Category:    domain.CategoryAuditLog,
		Days:        2190,
		Description: "The audit trail itself",
		LegalBasis:  "health-data regime",
	},
	{
		Category:    domain.CategoryAccount,
		Days:        1095,
		Description: "Account and profile records",
		LegalBasis:  "privacy regime",
	},
	{
		Category:    domain.CategoryConsent,
		Days:        2190,
		Description: "Patient consent records",
		LegalBasis:  "privacy regime",
	},
}

// SeedDefaultPolicies inserts the default retention policy for every category
// not already present in the store. It is idempotent and safe to call on
// every process start; existing rows are never updated.
func SeedDefaultPolicies(ctx context.Context, store PolicyStore, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, p := range defaultPolicies {
		exists, err := store.Exists(ctx, p.Category)
		if err != nil {
			return fmt.Errorf("check retention policy %s: %w", p.Category, err)
		}
		if exists {
			continue
		}

		policy := p
		policy.ID = uuid.New()
		policy.Active = true
		policy.CreatedAt = time.Now()
		if err := store.Insert(ctx, &policy); err != nil {
			// Another instance may have seeded between the existence check
			// and the insert; the unique constraint makes that harmless.
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed retention policy %s: %w", p.Category, err)
		}
		logger.InfoContext(ctx, "seeded retention policy",
			"category", policy.Category,
			"days", policy.Days,
			"legal_basis", policy.LegalBasis,
		)
	}
	return nil
}
