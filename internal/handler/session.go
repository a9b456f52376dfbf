package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapnote/shopedit/internal/domain"
)

// GetSession handles GET /session. It returns the current editing session
// snapshot so a client can re-render after reconnect.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// StartEdit handles POST /session/edit. The body may carry the source shop;
// an absent or null shop starts the create path on the empty record.
func (s *Server) StartEdit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Shop *domain.Shop `json:"shop"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeBadRequest(w, "malformed request body")
			return
		}
	}

	s.machine.StartEdit(body.Shop)
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// UpdateField handles PATCH /session/fields/{field} with body {"value": ...}.
// The raw JSON value is converted to the field's type before dispatch; an
// unknown field or untypeable value is rejected, but a dispatch in the wrong
// machine state is simply absorbed (the snapshot shows nothing changed).
func (s *Server) UpdateField(w http.ResponseWriter, r *http.Request) {
	field := domain.Field(chi.URLParam(r, "field"))
	if !field.Valid() {
		writeBadRequest(w, "unknown field")
		return
	}

	var body struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	value, err := domain.ParseFieldValue(field, body.Value)
	if err != nil {
		writeValidation(w, err)
		return
	}

	s.machine.UpdateField(field, value)
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// TrackField handles POST /session/fields/{field}/track: the explicit
// force-dirty mark used by flows that bypass UpdateField's diffing.
func (s *Server) TrackField(w http.ResponseWriter, r *http.Request) {
	field := domain.Field(chi.URLParam(r, "field"))
	if !field.Valid() {
		writeBadRequest(w, "unknown field")
		return
	}

	s.machine.TrackField(field)
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// CompleteEditor handles POST /session/editor/complete.
func (s *Server) CompleteEditor(w http.ResponseWriter, r *http.Request) {
	s.machine.CompleteEditor()
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// BeginEditor handles POST /session/editor/reopen.
func (s *Server) BeginEditor(w http.ResponseWriter, r *http.Request) {
	s.machine.BeginEditor()
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// StartConfirm handles POST /session/confirm.
func (s *Server) StartConfirm(w http.ResponseWriter, r *http.Request) {
	s.machine.StartConfirm()
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// CancelEdit handles POST /session/cancel.
func (s *Server) CancelEdit(w http.ResponseWriter, r *http.Request) {
	s.machine.CancelEdit()
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// ConfirmAndSubmit handles POST /session/submit. Validation failures render
// as 422 with the session held in confirming; persistence failures render as
// 502 with the error retained on the session for operator-driven retry.
func (s *Server) ConfirmAndSubmit(w http.ResponseWriter, r *http.Request) {
	err := s.machine.ConfirmAndSubmit(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeValidation(w, err)
			return
		}
		s.log.Error("submit failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: errorDetail{Code: "submit_failed", Message: unwrapMessage(err)},
		})
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// SyncExternalShop handles POST /session/sync: an externally-selected record
// (map pin click or realtime update) refreshing the idle panel. A null shop
// clears the panel. Inert while an edit is in progress.
func (s *Server) SyncExternalShop(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Shop *domain.Shop `json:"shop"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeBadRequest(w, "malformed request body")
			return
		}
	}

	s.machine.SyncExternalShop(body.Shop)
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}
