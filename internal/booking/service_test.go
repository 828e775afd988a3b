package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clinicore/internal/audit"
	auditmemory "clinicore/internal/audit/store/memory"
	"clinicore/pkg/domain"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/platform/middleware/metadata"
)

type BookingServiceSuite struct {
	suite.Suite
	ctx        context.Context
	auditStore *auditmemory.Store
	service    *Service
	tenantID   domain.TenantID
}

func TestBookingServiceSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceSuite))
}

func (s *BookingServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.auditStore = auditmemory.NewStore()
	resolver := audit.NewResolver(auditmemory.NewPolicyStore(), nil, nil)
	recorder := audit.NewRecorder(s.auditStore, resolver)
	s.service = NewService(NewInMemoryStore(), recorder, nil)
	s.tenantID = domain.TenantID(uuid.New())
}

func (s *BookingServiceSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *BookingServiceSuite) bookRequest() BookRequest {
	return BookRequest{
		TenantID:     s.tenantID,
		ActorID:      "staff-1",
		PatientName:  "Jane Smith",
		PatientPhone: "+447700900123",
		PatientEmail: "jane@x.com",
		ScheduledAt:  time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC),
	}
}

func (s *BookingServiceSuite) TestBook() {
	s.Run("creates the appointment and records the booking", func() {
		appt, err := s.service.Book(s.ctx, s.bookRequest())
		s.Require().NoError(err)
		s.Equal(StatusScheduled, appt.Status)
		s.Equal(s.tenantID, appt.TenantID)

		entries := s.auditStore.All()
		s.Require().Len(entries, 1)
		s.Equal(audit.ActionAppointmentBooked, entries[0].Action)
		s.Equal(domain.CategoryAppointment, entries[0].EntityType)
		s.Equal(appt.ID.String(), entries[0].EntityID)
		s.Equal("staff-1", entries[0].ActorID)
		s.Require().NotNil(entries[0].TenantID)
		s.Equal(s.tenantID, *entries[0].TenantID)
	})

	s.Run("stamps client metadata from the context", func() {
		ctx := metadata.WithClientMetadata(s.ctx, "203.0.113.9", "Mozilla/5.0")

		_, err := s.service.Book(ctx, s.bookRequest())
		s.Require().NoError(err)

		entries := s.auditStore.All()
		s.Require().NotEmpty(entries)
		last := entries[len(entries)-1]
		s.Equal("203.0.113.9", last.IPAddress)
		s.Equal("Mozilla/5.0", last.UserAgent)
	})

	s.Run("attributes anonymous bookings to the system actor", func() {
		req := s.bookRequest()
		req.ActorID = ""

		_, err := s.service.Book(s.ctx, req)
		s.Require().NoError(err)

		entries := s.auditStore.All()
		s.Require().NotEmpty(entries)
		s.Equal(audit.SystemActor, entries[len(entries)-1].ActorID)
	})

	s.Run("rejects incomplete requests", func() {
		req := s.bookRequest()
		req.PatientName = ""
		_, err := s.service.Book(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

		req = s.bookRequest()
		req.TenantID = domain.TenantID(uuid.Nil)
		_, err = s.service.Book(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

		req = s.bookRequest()
		req.ScheduledAt = time.Time{}
		_, err = s.service.Book(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

		s.Empty(s.auditStore.All(), "rejected bookings leave no audit entries")
	})
}

func (s *BookingServiceSuite) TestCancel() {
	s.Run("cancels and records the cancellation", func() {
		appt, err := s.service.Book(s.ctx, s.bookRequest())
		s.Require().NoError(err)

		cancelled, err := s.service.Cancel(s.ctx, s.tenantID, "staff-2", appt.ID)
		s.Require().NoError(err)
		s.Equal(StatusCancelled, cancelled.Status)

		entries := s.auditStore.All()
		s.Require().Len(entries, 2)
		s.Equal(audit.ActionAppointmentCancelled, entries[1].Action)
		s.Equal("staff-2", entries[1].ActorID)
	})

	s.Run("unknown appointment is not found", func() {
		_, err := s.service.Cancel(s.ctx, s.tenantID, "staff-1", uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("cross-tenant access reads as not found", func() {
		appt, err := s.service.Book(s.ctx, s.bookRequest())
		s.Require().NoError(err)

		otherTenant := domain.TenantID(uuid.New())
		_, err = s.service.Cancel(s.ctx, otherTenant, "staff-1", appt.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("double cancellation conflicts", func() {
		appt, err := s.service.Book(s.ctx, s.bookRequest())
		s.Require().NoError(err)

		_, err = s.service.Cancel(s.ctx, s.tenantID, "staff-1", appt.ID)
		s.Require().NoError(err)

		_, err = s.service.Cancel(s.ctx, s.tenantID, "staff-1", appt.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}
