package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapnote/shopedit/internal/compare"
	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/places"
)

// GetCompare handles GET /compare.
func (s *Server) GetCompare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.Snapshot())
}

// StageCompare handles POST /compare: stage a literal reference record
// against an optional target. A nil target compares against the live
// working copy.
func (s *Server) StageCompare(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reference  compare.Side  `json:"reference"`
		Target     *compare.Side `json:"target"`
		InsertMode bool          `json:"insertMode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	s.bridge.Stage(body.Reference, body.Target, body.InsertMode)
	writeJSON(w, http.StatusOK, s.bridge.Snapshot())
}

// StagePlaceCompare handles POST /compare/place: stage a raw place-detail
// search result as the reference, mapped through the thin places layer.
func (s *Server) StagePlaceCompare(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Place      places.Detail `json:"place"`
		InsertMode bool          `json:"insertMode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	label := body.Place.Name
	if label == "" {
		label = "search result"
	}
	s.bridge.Stage(compare.Side{Label: label, Data: places.ToShop(body.Place)}, nil, body.InsertMode)
	writeJSON(w, http.StatusOK, s.bridge.Snapshot())
}

// CopyField handles POST /compare/copy/{field}: copy one reference field
// into the editing session.
func (s *Server) CopyField(w http.ResponseWriter, r *http.Request) {
	field := domain.Field(chi.URLParam(r, "field"))
	if !field.Valid() {
		writeBadRequest(w, "unknown field")
		return
	}
	if !s.bridge.CopyField(field) {
		writeBadRequest(w, "no insertable comparison staged")
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// CopyAll handles POST /compare/copy-all: copy every non-empty reference
// field, then dismiss the comparison.
func (s *Server) CopyAll(w http.ResponseWriter, r *http.Request) {
	if !s.bridge.CopyAll() {
		writeBadRequest(w, "no insertable comparison staged")
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// DismissCompare handles DELETE /compare. Dismissing never mutates the
// editing session.
func (s *Server) DismissCompare(w http.ResponseWriter, r *http.Request) {
	s.bridge.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
