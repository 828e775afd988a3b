// Package handler exposes the compliance surface over HTTP: trail reads for
// reporting views and a manual cleanup trigger for operators.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"clinicore/internal/audit"
	"clinicore/pkg/domain"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/platform/httputil"
	"clinicore/pkg/platform/useragent"
)

// piiDetailFields extends the default PII set with the detail keys our
// structured payloads use.
var piiDetailFields = append([]string{"patient_name", "caller_number"}, audit.DefaultPIIFields...)

// Handler wires audit endpoints to the engine's read path and sweeper.
type Handler struct {
	reader  *audit.Reader
	sweeper *audit.Sweeper
	logger  *slog.Logger
}

// New constructs the audit handler.
func New(reader *audit.Reader, sweeper *audit.Sweeper, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		reader:  reader,
		sweeper: sweeper,
		logger:  logger.With("component", "audit.handler"),
	}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/trail", h.HandleTrail)
	r.Post("/audit/cleanup", h.HandleCleanup)
}

type entryResponse struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenant_id,omitempty"`
	ActorID      string          `json:"actor_id"`
	Action       string          `json:"action"`
	EntityType   string          `json:"entity_type"`
	EntityID     string          `json:"entity_id,omitempty"`
	Detail       json.RawMessage `json:"detail,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	Device       string          `json:"device,omitempty"`
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
}

type trailResponse struct {
	Entries []entryResponse `json:"entries"`
}

// HandleTrail handles GET /audit/trail. Query parameters: entity_type,
// entity_id, optional limit, optional redacted=true for PII-safe exports.
func (h *Handler) HandleTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityType, err := domain.ParseDataCategory(r.URL.Query().Get("entity_type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entityID := r.URL.Query().Get("entity_id")
	if entityID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "entity_id is required"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
	}
	redacted := r.URL.Query().Get("redacted") == "true"

	entries := h.reader.Trail(ctx, entityType, entityID, limit)

	resp := trailResponse{Entries: make([]entryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, h.toResponse(e, redacted))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type cleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleCleanup handles POST /audit/cleanup, triggering an immediate sweep.
// The sweep never fails the request; a broken sweep reports zero deletions
// and leaves its trace in the trail.
func (h *Handler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	deleted := h.sweeper.CleanupExpired(r.Context())
	httputil.WriteJSON(w, http.StatusOK, cleanupResponse{Deleted: deleted})
}

func (h *Handler) toResponse(e audit.Entry, redacted bool) entryResponse {
	resp := entryResponse{
		ID:           e.ID.String(),
		ActorID:      e.ActorID,
		Action:       e.Action,
		EntityType:   e.EntityType.String(),
		EntityID:     e.EntityID,
		Detail:       e.Detail,
		IPAddress:    e.IPAddress,
		Success:      e.Success,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
		ExpiresAt:    e.ExpiresAt,
	}
	if e.TenantID != nil {
		resp.TenantID = e.TenantID.String()
	}
	if e.UserAgent != "" {
		resp.Device = useragent.DisplayName(e.UserAgent)
	}
	if redacted {
		resp.Detail = redactDetail(e.Detail)
		resp.IPAddress = ""
	}
	return resp
}

// redactDetail applies the view-time PII transform to a serialized detail
// payload. Payloads that aren't JSON objects pass through unchanged, same as
// the engine's Redact contract.
func redactDetail(detail []byte) json.RawMessage {
	if len(detail) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(detail, &m); err != nil {
		return detail
	}
	out, err := json.Marshal(audit.Redact(m, piiDetailFields...))
	if err != nil {
		return detail
	}
	return out
}

