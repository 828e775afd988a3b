// Package calllog ingests completed-call records from the telephony layer
// and records them in the audit trail.
package calllog

import (
	"time"

	"github.com/google/uuid"

	"clinicore/pkg/domain"
)

// CallRecord is the metadata of one completed call. Recordings and
// transcripts live with the telephony stack; this is what retention applies
// to on our side.
type CallRecord struct {
	ID       uuid.UUID
	TenantID domain.TenantID

	CallerNumber    string
	DurationSeconds int
	Outcome         string

	CompletedAt time.Time
	CreatedAt   time.Time
}
