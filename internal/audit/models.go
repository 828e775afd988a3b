// Package audit implements the compliance logging and data-retention engine.
//
// The engine is deliberately invisible infrastructure: recording is always
// best-effort and never fails the business operation that triggered it, reads
// degrade to empty history, and the sweeper logs its own runs through the
// same recorder it cleans up after.
package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicore/pkg/domain"
)

// SystemActor is the synthetic identity automated jobs record under.
const SystemActor = "system"

// Canonical action names. Actions are compared case-insensitively, so
// everything is normalized to this uppercase form before persisting.
const (
	ActionAppointmentBooked    = "APPOINTMENT_BOOKED"
	ActionAppointmentCancelled = "APPOINTMENT_CANCELLED"
	ActionCallCompleted        = "CALL_COMPLETED"
	ActionSettingsChanged      = "SETTINGS_CHANGED"
	ActionCleanupExpiredLogs   = "CLEANUP_EXPIRED_LOGS"
)

// NormalizeAction converts an action name to its canonical comparable form.
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}

// Entry is one immutable record of an action taken in the system. Once
// written it is never mutated: the sweeper deletes expired rows, everything
// else only reads.
type Entry struct {
	ID       uuid.UUID
	TenantID *domain.TenantID

	ActorID string
	Action  string

	EntityType domain.DataCategory
	EntityID   string

	// Detail is the serialized structured payload, nil when the descriptor
	// carried none or serialization failed.
	Detail []byte

	IPAddress string
	UserAgent string

	Success      bool
	ErrorMessage string

	CreatedAt time.Time

	// ExpiresAt is nil when retention could not be resolved at write time;
	// such rows are retained indefinitely until an operator intervenes.
	ExpiresAt *time.Time
}

// ActionDescriptor is what business callers hand to the Recorder. Outcome
// defaults to success; set Failed for operations that did not complete.
type ActionDescriptor struct {
	ActorID    string
	TenantID   *domain.TenantID
	Action     string
	EntityType domain.DataCategory
	EntityID   string

	// Detail may be any JSON-serializable value; prefer the typed detail
	// shapes below for known actions.
	Detail any

	IPAddress string
	UserAgent string

	Failed       bool
	ErrorMessage string
}

// RetentionPolicy is one retention rule for a data category. Only active
// policies are consulted; deactivated ones stay in the table for history.
type RetentionPolicy struct {
	ID          uuid.UUID
	Category    domain.DataCategory
	Days        int
	Description string
	LegalBasis  string
	Active      bool
	CreatedAt   time.Time
}

// Typed detail payloads for known actions. Unanticipated actions can still
// pass arbitrary values; these keep the common cases structured.

// CleanupDetail records the outcome of a retention sweep.
type CleanupDetail struct {
	Deleted int64 `json:"deleted"`
}

// BookingDetail records what changed about an appointment.
type BookingDetail struct {
	PatientName string    `json:"patient_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// CallDetail records the shape of a completed call.
type CallDetail struct {
	CallerNumber    string `json:"caller_number"`
	DurationSeconds int    `json:"duration_seconds"`
}
