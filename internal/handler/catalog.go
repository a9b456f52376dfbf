package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/images"
)

// ListSectionShops handles GET /sections/{section}/shops. After the cache's
// retry policy is exhausted the client still gets a renderable (empty) list;
// the failure is logged server-side.
func (s *Server) ListSectionShops(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	shops, err := s.catalog.Get(r.Context(), section)
	if err != nil {
		s.log.Error("section listing failed, serving empty result", "section", section, "error", err)
		shops = []domain.Shop{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": shops})
}

// GetShop handles GET /shops/{id}.
func (s *Server) GetShop(w http.ResponseWriter, r *http.Request) {
	shop, err := s.shops.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "shop not found")
			return
		}
		s.log.Error("get shop failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

// DeleteShop handles DELETE /shops/{id}.
func (s *Server) DeleteShop(w http.ResponseWriter, r *http.Request) {
	err := s.shops.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "shop not found")
			return
		}
		s.log.Error("delete shop failed", "error", err)
		writeInternal(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PrecacheImages handles POST /images/precache with {"ids":[...],
// "batchSize":n}. Partial failures are part of the 200 response body, never
// an error status — the operation "succeeds" with whatever succeeded.
func (s *Server) PrecacheImages(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs       []string `json:"ids"`
		BatchSize int      `json:"batchSize"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	if body.BatchSize < 1 {
		body.BatchSize = 10
	}

	result := images.BatchPrecache(r.Context(), s.cacher, body.IDs, body.BatchSize, nil)
	writeJSON(w, http.StatusOK, result)
}
