// Package main is the entry point for the shop editor API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mapnote/shopedit/internal/catalog"
	"github.com/mapnote/shopedit/internal/compare"
	"github.com/mapnote/shopedit/internal/config"
	"github.com/mapnote/shopedit/internal/editor"
	"github.com/mapnote/shopedit/internal/handler"
	"github.com/mapnote/shopedit/internal/images"
	"github.com/mapnote/shopedit/internal/imagestore"
	"github.com/mapnote/shopedit/internal/middleware"
	"github.com/mapnote/shopedit/internal/realtime"
	"github.com/mapnote/shopedit/internal/repo"
	"github.com/mapnote/shopedit/internal/service"
)

// maxBodySize bounds request bodies; the largest legal payload is a full
// shop record with a polygon path, far below 1 MiB.
const maxBodySize = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Collaborators ----------------------------------------------------
	store := imagestore.NewClient(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImageRatePerSecond)
	promoter := images.NewPromoter(store, logger, cfg.TempSection, cfg.AssetRoot)

	shops := repo.NewShopRepo(pool)
	shopService := service.NewShopService(shops, promoter, nil, cfg.OperatorID)
	sectionCache := catalog.New(shopService, logger)
	// Saves invalidate the section cache; wired after both exist.
	shopService.SetCatalog(sectionCache)

	// --- Editing engine ---------------------------------------------------
	machine := editor.NewMachine(shopService)
	machine.OnCancel(func() {
		logger.Debug("edit cancelled, drawing overlays discarded")
	})
	bridge := compare.NewBridge(machine)

	// --- Realtime sync ----------------------------------------------------
	// Change notifications refresh the idle panel and drop stale section
	// listings. SyncExternalShop ignores them while an edit is in progress.
	listenCtx, stopListening := context.WithCancel(context.Background())
	defer stopListening()
	listener := realtime.NewListener(pool, logger)
	go func() {
		err := listener.Subscribe(listenCtx, "", func(change realtime.Change) {
			sectionCache.Invalidate(change.SectionName)
			if change.Op == "DELETE" {
				machine.SyncExternalShopDeleted(change.ShopID)
				return
			}
			shop, err := shopService.GetByID(listenCtx, change.ShopID)
			if err != nil {
				logger.Warn("realtime refresh failed", "shop", change.ShopID, "error", err)
				return
			}
			machine.SyncExternalShop(&shop)
		})
		if err != nil {
			logger.Error("realtime listener stopped", "error", err)
		}
	}()

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodySize))

	server := handler.NewServer(machine, bridge, sectionCache, shopService, store, logger)
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
