// Package api exposes the detection, parsing, and archiving pipeline over
// HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/warrofua/mnemolog/internal/archive"
	"github.com/warrofua/mnemolog/internal/config"
	"github.com/warrofua/mnemolog/internal/events"
	"github.com/warrofua/mnemolog/internal/store"
)

type Server struct {
	router     *chi.Mux
	port       int
	controller *archive.Controller
	store      *store.Store
	events     *events.Client // nil when NATS is not configured
	settings   config.Settings
	logger     *slog.Logger

	metaMu      sync.Mutex
	pendingMeta map[uuid.UUID]archiveMeta
}

// archiveMeta carries the request fields a pending archive needs again once
// its privacy decision arrives.
type archiveMeta struct {
	title      string
	platform   string
	attr       attributionPayload
	convRef    *string
	visibility string
	showAuthor bool
}

func NewServer(port int, apiToken string, ctrl *archive.Controller, db *store.Store, ev *events.Client, settings config.Settings, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:      router,
		port:        port,
		controller:  ctrl,
		store:       db,
		events:      ev,
		settings:    settings,
		logger:      logger,
		pendingMeta: make(map[uuid.UUID]archiveMeta),
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/detect", s.detect)
		r.Post("/parse", s.parse)
		r.Post("/archive", s.archiveConversation)
		r.Post("/archive/{id}/decision", s.archiveDecision)
		r.Get("/conversations/{id}", s.getConversation)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BearerAuthMiddleware rejects requests without the configured token. An
// empty token disables auth (local development).
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}
