package handler

import (
	"encoding/json"
	"net/http"
)

// OpenImageOrder handles POST /session/images/order: build the ordering
// buffer from the working copy's current images.
func (s *Server) OpenImageOrder(w http.ResponseWriter, r *http.Request) {
	s.machine.OpenImageOrder()
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// MoveImage handles POST /session/images/order/move with {"from":i,"to":j}.
func (s *Server) MoveImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	s.machine.MoveImage(body.From, body.To)
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// RemoveImageAt handles POST /session/images/order/remove with {"index":i}.
func (s *Server) RemoveImageAt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	s.machine.RemoveImageAt(body.Index)
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// DropImageOntoMain handles POST /session/images/order/drop with {"from":i}:
// the special-cased drop onto the blank main slot.
func (s *Server) DropImageOntoMain(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From int `json:"from"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	s.machine.DropImageOntoMain(body.From)
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// CommitImageOrder handles POST /session/images/order/commit.
func (s *Server) CommitImageOrder(w http.ResponseWriter, r *http.Request) {
	s.machine.CommitImageOrder()
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}
