package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"clinicore/internal/audit"
	"clinicore/internal/audit/store/memory"
	"clinicore/pkg/domain"
)

type HandlerSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	recorder *audit.Recorder
	router   chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	resolver := audit.NewResolver(memory.NewPolicyStore(), nil, nil)
	s.recorder = audit.NewRecorder(s.store, resolver)
	reader := audit.NewReader(s.store, nil, nil)
	sweeper := audit.NewSweeper(s.store, s.recorder)

	s.router = chi.NewRouter()
	New(reader, sweeper, nil).Register(s.router)
}

func (s *HandlerSuite) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) recordCall(entityID, callerNumber string) {
	s.recorder.Record(s.ctx, audit.ActionDescriptor{
		ActorID:    "user-1",
		Action:     audit.ActionCallCompleted,
		EntityType: domain.CategoryCallRecord,
		EntityID:   entityID,
		Detail:     audit.CallDetail{CallerNumber: callerNumber, DurationSeconds: 40},
		IPAddress:  "203.0.113.9",
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	})
}

func (s *HandlerSuite) TestTrail() {
	s.Run("returns the entity's history", func() {
		s.recordCall("call-1", "+447700900123")

		rec := s.get("/audit/trail?entity_type=call_record&entity_id=call-1")
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp struct {
			Entries []struct {
				Action    string          `json:"action"`
				EntityID  string          `json:"entity_id"`
				Detail    json.RawMessage `json:"detail"`
				IPAddress string          `json:"ip_address"`
				Device    string          `json:"device"`
			} `json:"entries"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().Len(resp.Entries, 1)
		s.Equal(audit.ActionCallCompleted, resp.Entries[0].Action)
		s.Equal("call-1", resp.Entries[0].EntityID)
		s.Equal("203.0.113.9", resp.Entries[0].IPAddress)
		s.Contains(resp.Entries[0].Device, "Windows")
	})

	s.Run("redacted view masks PII and hides the client IP", func() {
		s.recordCall("call-2", "+447700900123")

		rec := s.get("/audit/trail?entity_type=call_record&entity_id=call-2&redacted=true")
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp struct {
			Entries []struct {
				Detail    map[string]any `json:"detail"`
				IPAddress string         `json:"ip_address"`
			} `json:"entries"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().Len(resp.Entries, 1)
		s.Equal("+44770***", resp.Entries[0].Detail["caller_number"])
		s.Empty(resp.Entries[0].IPAddress)
	})

	s.Run("empty history responds with an empty list", func() {
		rec := s.get("/audit/trail?entity_type=appointment&entity_id=unknown")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"entries":[]}`, rec.Body.String())
	})

	s.Run("rejects an unknown entity type", func() {
		rec := s.get("/audit/trail?entity_type=bogus&entity_id=x")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("requires entity_id", func() {
		rec := s.get("/audit/trail?entity_type=call_record")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects a negative limit", func() {
		rec := s.get("/audit/trail?entity_type=call_record&entity_id=call-1&limit=-1")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestCleanup() {
	s.Run("reports the number of deleted entries", func() {
		past := time.Now().Add(-time.Hour)
		s.Require().NoError(s.store.Append(s.ctx, audit.Entry{
			EntityType: domain.CategoryCallRecord,
			EntityID:   "call-old",
			CreatedAt:  past.AddDate(0, 0, -30),
			ExpiresAt:  &past,
		}))

		req := httptest.NewRequest(http.MethodPost, "/audit/cleanup", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"deleted":1}`, rec.Body.String())
	})

	s.Run("sweep leaves its own trail entry", func() {
		req := httptest.NewRequest(http.MethodPost, "/audit/cleanup", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Require().Equal(http.StatusOK, rec.Code)

		found := false
		for _, e := range s.store.All() {
			if e.Action == audit.ActionCleanupExpiredLogs && e.ActorID == audit.SystemActor {
				found = true
			}
		}
		s.True(found)
	})
}
