package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lionsys/fittrack/internal/coach"
	"github.com/lionsys/fittrack/internal/store"
)

type LogStore interface {
	Create(ctx context.Context, e store.LogEntry) (*store.LogEntry, error)
	List(ctx context.Context) ([]store.LogEntry, error)
	Delete(ctx context.Context, id string) error
}

type Gateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Pipeline interface {
	Chat(ctx context.Context, userText string, history []coach.Turn) (reply string, logged bool)
	LogFood(ctx context.Context, text string) (*store.LogEntry, error)
}

// Authenticator validates the credential pair presented at login. The
// static single-user pair is just one implementation.
type Authenticator interface {
	Authenticate(username, password string) bool
}

type Server struct {
	router   *chi.Mux
	port     int
	token    string
	auth     Authenticator
	logs     LogStore
	gateway  Gateway
	pipeline Pipeline
	logger   *slog.Logger
	now      func() time.Time
}

func NewServer(port int, token string, auth Authenticator, logs LogStore, gw Gateway, pipeline Pipeline, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		token:    token,
		auth:     auth,
		logs:     logs,
		gateway:  gw,
		pipeline: pipeline,
		logger:   logger,
		now:      time.Now,
	}

	router.Get("/health", s.health)

	// Every route is reachable both bare and under /api; the client has
	// used both prefixes across versions.
	s.mount(router)
	router.Route("/api", func(r chi.Router) {
		s.mount(r)
	})

	return s
}

func (s *Server) mount(r chi.Router) {
	r.Post("/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/logs", s.listLogs)
		r.Post("/logs", s.createLog)
		r.Delete("/logs/{id}", s.deleteLog)
		r.Post("/analyze-food", s.analyzeFood)
		r.Post("/chat", s.chat)
		r.Post("/log-food", s.logFood)
		r.Get("/stats/today", s.statsToday)
		r.Get("/stats/trend", s.statsTrend)
	})
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
