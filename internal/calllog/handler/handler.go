package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clinicore/internal/calllog"
	"clinicore/pkg/domain"
	"clinicore/pkg/platform/httputil"
)

// Handler accepts completed-call notifications from the telephony stack.
type Handler struct {
	service *calllog.Service
	logger  *slog.Logger
}

// New constructs a call log handler.
func New(service *calllog.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger.With("component", "calllog.handler")}
}

// Register mounts call log endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/calls", h.HandleComplete)
}

type completeRequest struct {
	TenantID        string    `json:"tenant_id"`
	CallerNumber    string    `json:"caller_number"`
	DurationSeconds int       `json:"duration_seconds"`
	Outcome         string    `json:"outcome"`
	CompletedAt     time.Time `json:"completed_at"`
}

type callResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// HandleComplete handles POST /calls.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.Decode[completeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tenantID, err := domain.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.Complete(ctx, calllog.CompleteRequest{
		TenantID:        tenantID,
		CallerNumber:    req.CallerNumber,
		DurationSeconds: req.DurationSeconds,
		Outcome:         req.Outcome,
		CompletedAt:     req.CompletedAt,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, callResponse{
		ID:          rec.ID.String(),
		TenantID:    rec.TenantID.String(),
		CompletedAt: rec.CompletedAt,
	})
}
