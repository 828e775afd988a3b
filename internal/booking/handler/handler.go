package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clinicore/internal/booking"
	"clinicore/pkg/domain"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/platform/httputil"
)

// Handler wires appointment endpoints to the booking service.
type Handler struct {
	service *booking.Service
	logger  *slog.Logger
}

// New constructs a booking handler.
func New(service *booking.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger.With("component", "booking.handler")}
}

// Register mounts booking endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/appointments", h.HandleBook)
	r.Delete("/appointments/{id}", h.HandleCancel)
}

type bookRequest struct {
	TenantID     string    `json:"tenant_id"`
	ActorID      string    `json:"actor_id"`
	PatientName  string    `json:"patient_name"`
	PatientPhone string    `json:"patient_phone"`
	PatientEmail string    `json:"patient_email"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

type appointmentResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	PatientName string    `json:"patient_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
}

// HandleBook handles POST /appointments.
func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.Decode[bookRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tenantID, err := domain.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	appt, err := h.service.Book(ctx, booking.BookRequest{
		TenantID:     tenantID,
		ActorID:      req.ActorID,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		PatientEmail: req.PatientEmail,
		ScheduledAt:  req.ScheduledAt,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(appt))
}

// HandleCancel handles DELETE /appointments/{id}. Tenant and actor arrive as
// query parameters until the auth layer lands.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "appointment id must be a valid UUID"))
		return
	}
	tenantID, err := domain.ParseTenantID(r.URL.Query().Get("tenant_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	appt, err := h.service.Cancel(ctx, tenantID, r.URL.Query().Get("actor_id"), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(appt))
}

func toResponse(appt *booking.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:          appt.ID.String(),
		TenantID:    appt.TenantID.String(),
		PatientName: appt.PatientName,
		ScheduledAt: appt.ScheduledAt,
		Status:      string(appt.Status),
	}
}
