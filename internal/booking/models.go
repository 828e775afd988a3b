// Package booking manages appointments. It is a thin business surface whose
// main compliance duty is feeding the audit recorder on every mutation.
package booking

import (
	"time"

	"github.com/google/uuid"

	"clinicore/pkg/domain"
)

// Status tracks the appointment lifecycle.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Appointment is one booked slot at a clinic.
type Appointment struct {
	ID       uuid.UUID
	TenantID domain.TenantID

	PatientName  string
	PatientPhone string
	PatientEmail string

	ScheduledAt time.Time
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
