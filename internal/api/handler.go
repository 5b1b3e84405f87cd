// Package api exposes the inbound HTTP surface: task acceptance plus
// health and root informational endpoints.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
	"QuizSolver/internal/session"
	"QuizSolver/internal/usecase"
)

// quizRequest is the inbound task payload.
type quizRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// Handler accepts quiz tasks and launches solving sessions.
type Handler struct {
	email    string
	secret   string
	sessions *session.Manager
	loop     *usecase.Loop
	store    ports.ResultStore
	logger   *slog.Logger
}

// HandlerDeps wires the handler's collaborators.
type HandlerDeps struct {
	Email    string
	Secret   string
	Sessions *session.Manager
	Loop     *usecase.Loop
	Store    ports.ResultStore
	Logger   *slog.Logger
}

// NewHandler constructs the HTTP handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		email:    deps.Email,
		secret:   deps.Secret,
		sessions: deps.Sessions,
		loop:     deps.Loop,
		store:    deps.Store,
		logger:   deps.Logger,
	}
}

// Router assembles the chi router with global middleware and routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)
	r.Post("/quiz", h.handleQuiz)
	return r
}

// handleQuiz validates the task, records acceptance, and launches the
// solving loop in the background. The response returns immediately.
func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Secret) == "" || strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email, secret and url are required"})
		return
	}
	if req.Email != h.email || req.Secret != h.secret {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid credentials"})
		return
	}

	s := h.sessions.Open(req.Email, req.Secret, req.URL)

	if h.store != nil {
		rec := domain.SessionRecord{
			ID:        s.ID,
			Email:     s.Email,
			StartURL:  s.StartURL,
			StartedAt: s.StartedAt,
		}
		if err := h.store.SaveAccepted(r.Context(), rec); err != nil {
			h.logger.Error("persist accepted session", "session_id", s.ID, "error", err)
		}
	}

	// The loop outlives the request, so it runs on a detached context.
	go h.loop.Run(context.WithoutCancel(r.Context()), s)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "accepted",
		"message": "Quiz task received and processing started",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"time":            time.Now().UTC().Format(time.RFC3339),
		"active_sessions": h.sessions.Len(),
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "quiz solver",
		"usage":   "POST /quiz with {email, secret, url}",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
