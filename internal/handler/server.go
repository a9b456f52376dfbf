// Package handler implements the HTTP surface of the shop editor service.
// All handlers are methods on Server. Methods are split into concern-specific
// files (session.go, compare.go, catalog.go, ...) but all share the same
// Server struct so they can access its dependencies.
//
// The editing session and compare bridge are process-local single instances;
// the handlers only translate requests into machine/bridge operations and
// render snapshots back.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapnote/shopedit/internal/compare"
	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/editor"
	"github.com/mapnote/shopedit/internal/images"
	"github.com/mapnote/shopedit/spec"
)

// SectionCatalog defines the catalog operations the handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a stub without a database.
type SectionCatalog interface {
	Get(ctx context.Context, sectionName string) ([]domain.Shop, error)
}

// ShopStore defines the direct record operations the handler depends on
// (reads and deletes outside the editing session). *service.ShopService
// satisfies it.
type ShopStore interface {
	GetByID(ctx context.Context, id string) (domain.Shop, error)
	Delete(ctx context.Context, id string) error
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	machine *editor.Machine
	bridge  *compare.Bridge
	catalog SectionCatalog
	shops   ShopStore
	cacher  images.Cacher
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies. catalog, shops,
// and cacher may be nil in tests that do not exercise those routes.
func NewServer(machine *editor.Machine, bridge *compare.Bridge, catalog SectionCatalog, shops ShopStore, cacher images.Cacher, log *slog.Logger) *Server {
	return &Server{machine: machine, bridge: bridge, catalog: catalog, shops: shops, cacher: cacher, log: log}
}

// Routes returns the chi router for the whole API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Post("/edit", s.StartEdit)
		r.Post("/cancel", s.CancelEdit)
		r.Post("/confirm", s.StartConfirm)
		r.Post("/submit", s.ConfirmAndSubmit)
		r.Post("/sync", s.SyncExternalShop)
		r.Patch("/fields/{field}", s.UpdateField)
		r.Post("/fields/{field}/track", s.TrackField)
		r.Post("/editor/complete", s.CompleteEditor)
		r.Post("/editor/reopen", s.BeginEditor)
		r.Route("/images/order", func(r chi.Router) {
			r.Post("/", s.OpenImageOrder)
			r.Post("/move", s.MoveImage)
			r.Post("/remove", s.RemoveImageAt)
			r.Post("/drop", s.DropImageOntoMain)
			r.Post("/commit", s.CommitImageOrder)
		})
	})

	r.Route("/compare", func(r chi.Router) {
		r.Get("/", s.GetCompare)
		r.Post("/", s.StageCompare)
		r.Post("/place", s.StagePlaceCompare)
		r.Post("/copy/{field}", s.CopyField)
		r.Post("/copy-all", s.CopyAll)
		r.Delete("/", s.DismissCompare)
	})

	r.Get("/sections/{section}/shops", s.ListSectionShops)
	r.Get("/shops/{id}", s.GetShop)
	r.Delete("/shops/{id}", s.DeleteShop)
	r.Post("/images/precache", s.PrecacheImages)

	return r
}
