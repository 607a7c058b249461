package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nilsimda/leaderboard/components"
	"github.com/nilsimda/leaderboard/config"
	"github.com/nilsimda/leaderboard/db"
	"github.com/nilsimda/leaderboard/models"
	"github.com/nilsimda/leaderboard/sheet"
	"github.com/nilsimda/leaderboard/standings"
)

var (
	//go:embed all:assets/*
	assets embed.FS
)

const previewRows = 5

type visibilityStore interface {
	standings.Visibility
	Toggle(ctx context.Context, round models.RoundID) (bool, error)
	All(ctx context.Context) (map[models.RoundID]bool, error)
}

func getIndex(svc *standings.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, first := svc.Tabs(r.Context())
		if first == "" {
			renderPage(w, r, logger, components.Placeholder())
			return
		}
		http.Redirect(w, r, "/leaderboard/"+string(first), http.StatusSeeOther)
	}
}

func getLeaderboard(svc *standings.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := models.ParseRound(chi.URLParam(r, "round"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		tabs, first := svc.Tabs(r.Context())
		if first == "" {
			renderPage(w, r, logger, components.Placeholder())
			return
		}

		table, err := svc.Standings(r.Context(), round)
		if err != nil {
			logger.Error("failed to build standings", "round", round, "error", err)
			http.Error(w, "failed to build standings", http.StatusInternalServerError)
			return
		}
		renderPage(w, r, logger, components.Leaderboard(tabs, table))
	}
}

func getStandingsJSON(svc *standings.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := models.ParseRound(chi.URLParam(r, "round"))
		if err != nil {
			http.Error(w, "unknown round", http.StatusNotFound)
			return
		}

		table, err := svc.Standings(r.Context(), round)
		if err != nil {
			logger.Error("failed to build standings", "round", round, "error", err)
			http.Error(w, "failed to build standings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(table)
	}
}

func getVisibilityJSON(store visibilityStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states, err := store.All(r.Context())
		if err != nil {
			logger.Error("failed to read visibility", "error", err)
			http.Error(w, "failed to read visibility", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(states)
	}
}

func getHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func getAdmin(svc *standings.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tabs, _ := svc.Tabs(r.Context())
		previews := svc.Previews(r.Context(), previewRows)
		renderPage(w, r, logger, components.Admin(tabs, previews))
	}
}

func postToggleVisibility(store visibilityStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := models.ParseRound(chi.URLParam(r, "round"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		if _, err := store.Toggle(r.Context(), round); err != nil {
			logger.Error("failed to toggle visibility", "round", round, "error", err)
			http.Error(w, "failed to toggle visibility", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

func renderPage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// requestLogger logs one line per request once the handler returns. Each
// request gets its own fetch cycle id, logged alongside the request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cycle := standings.NewCycle(r.Context())
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"cycle", cycle,
			)
		})
	}
}

func setupRoutes(cfg *config.Config, svc *standings.Service, store visibilityStore, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Handle("/assets/*", http.FileServer(http.FS(assets)))

	r.Get("/", getIndex(svc, logger))
	r.Get("/healthz", getHealthz)
	r.Get("/leaderboard/{round}", getLeaderboard(svc, logger))
	r.Get("/api/standings/{round}", getStandingsJSON(svc, logger))
	r.Get("/api/visibility", getVisibilityJSON(store, logger))

	if cfg.AdminEnabled() {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.BasicAuth("leaderboard admin", map[string]string{cfg.AdminUser: cfg.AdminPassword}))
			r.Get("/", getAdmin(svc, logger))
			r.Post("/visibility/{round}/toggle", postToggleVisibility(store, logger))
		})
	} else {
		logger.Warn("ADMIN_PASSWORD not set, admin routes disabled")
	}

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	store, err := db.NewVisibilityDB(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open visibility db", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := sheet.NewClient(cfg.SheetBaseURL, cfg.GIDs, cfg.FetchTimeout, logger)
	svc := standings.NewService(client, store, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRoutes(cfg, svc, store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting server...", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
