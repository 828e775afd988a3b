package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clinicore/internal/audit"
	"clinicore/pkg/domain"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/platform/middleware/metadata"
	"clinicore/pkg/platform/sentinel"
)

// Store persists appointments.
type Store interface {
	Save(ctx context.Context, appt *Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
}

// Service persists appointment changes and records each one in the audit
// trail. Audit recording is best-effort: the booking succeeds even when the
// recorder's storage is down.
type Service struct {
	store   Store
	auditor *audit.Recorder
	logger  *slog.Logger
}

// NewService constructs the booking service.
func NewService(store Store, auditor *audit.Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		auditor: auditor,
		logger:  logger.With("component", "booking"),
	}
}

// BookRequest carries a validated booking intent.
type BookRequest struct {
	TenantID     domain.TenantID
	ActorID      string
	PatientName  string
	PatientPhone string
	PatientEmail string
	ScheduledAt  time.Time
}

// Book creates an appointment and records APPOINTMENT_BOOKED.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if req.TenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant is required")
	}
	if req.PatientName == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "patient name is required")
	}
	if req.ScheduledAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "scheduled time is required")
	}

	now := time.Now()
	appt := &Appointment{
		ID:           uuid.New(),
		TenantID:     req.TenantID,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		PatientEmail: req.PatientEmail,
		ScheduledAt:  req.ScheduledAt,
		Status:       StatusScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to save appointment")
	}

	s.auditor.Record(ctx, s.descriptor(ctx, req.ActorID, audit.ActionAppointmentBooked, appt, audit.BookingDetail{
		PatientName: appt.PatientName,
		ScheduledAt: appt.ScheduledAt,
	}))
	return appt, nil
}

// Cancel marks an appointment cancelled and records APPOINTMENT_CANCELLED.
func (s *Service) Cancel(ctx context.Context, tenantID domain.TenantID, actorID string, id uuid.UUID) (*Appointment, error) {
	appt, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "appointment not found")
	}
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load appointment")
	}
	if appt.TenantID != tenantID {
		// Cross-tenant probes read as absent, not forbidden.
		return nil, dErrors.New(dErrors.CodeNotFound, "appointment not found")
	}
	if appt.Status == StatusCancelled {
		return nil, dErrors.New(dErrors.CodeConflict, "appointment already cancelled")
	}

	appt.Status = StatusCancelled
	appt.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to save appointment")
	}

	s.auditor.Record(ctx, s.descriptor(ctx, actorID, audit.ActionAppointmentCancelled, appt, audit.BookingDetail{
		PatientName: appt.PatientName,
		ScheduledAt: appt.ScheduledAt,
	}))
	return appt, nil
}

func (s *Service) descriptor(ctx context.Context, actorID, action string, appt *Appointment, detail any) audit.ActionDescriptor {
	tenantID := appt.TenantID
	if actorID == "" {
		actorID = audit.SystemActor
	}
	return audit.ActionDescriptor{
		ActorID:    actorID,
		TenantID:   &tenantID,
		Action:     action,
		EntityType: domain.CategoryAppointment,
		EntityID:   appt.ID.String(),
		Detail:     detail,
		IPAddress:  metadata.ClientIP(ctx),
		UserAgent:  metadata.UserAgent(ctx),
	}
}
