// Package server hosts the editor: the HTTP API the panels talk to, the
// websocket stream that mirrors engine state into the source panel, and
// the embedded editor page itself.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/halmert/pagemason/internal/db"
	"github.com/halmert/pagemason/internal/editor"
	"github.com/halmert/pagemason/internal/engine"
	"github.com/halmert/pagemason/internal/export"
	"github.com/halmert/pagemason/internal/project"
	"github.com/halmert/pagemason/internal/settings"
	"github.com/halmert/pagemason/internal/theme"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server wires the engine, controller and stores behind one router.
type Server struct {
	cfg        Config
	db         *db.DB
	dom        *engine.DOM
	ctrl       *editor.Controller
	settings   *settings.Store
	projects   *project.Store
	resolver   *theme.Resolver
	host       *theme.HostPreference
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given engine and stores.
func New(cfg Config, database *db.DB, dom *engine.DOM, ctrl *editor.Controller, store *settings.Store, projects *project.Store, resolver *theme.Resolver, host *theme.HostPreference) *Server {
	s := &Server{
		cfg:      cfg,
		db:       database,
		dom:      dom,
		ctrl:     ctrl,
		settings: store,
		projects: projects,
		resolver: resolver,
		host:     host,
	}

	// Theme changes saved through the settings API re-resolve live.
	store.OnThemeChange(resolver.SetChoice)

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
	r.Get("/api/components", s.handleComponents)
	r.Get("/api/theme", s.handleTheme)

	editor.RegisterRoutes(r, s.ctrl)
	export.RegisterRoutes(r, s.ExportInput)
	settings.RegisterRoutes(r, s.settings)
	project.RegisterRoutes(r, s.projects)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// ExportInput assembles the export input from the current document and
// settings.
func (s *Server) ExportInput() export.Input {
	src := s.ctrl.Source()
	vals := s.settings.Values()
	return export.Input{
		HTML:     src.HTML,
		CSS:      src.CSS,
		JS:       src.JS,
		Title:    vals.Head.PageTitle,
		HeadHTML: vals.Head.HeadHTML,
		BaseName: vals.Head.ExportBaseName,
	}
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dom.Components())
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"choice":   string(s.settings.Values().Theme),
		"resolved": string(s.resolver.Resolved()),
	})
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("pagemason editor listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
