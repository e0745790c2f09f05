// Package devserver is an in-memory implementation of the todo REST resource.
// It backs `todo serve-dev` and the transport tests; nothing is persisted.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
)

// DefaultPrefix matches the client's default base path.
const DefaultPrefix = "/api"

type Server struct {
	mu     sync.Mutex
	todos  []model.Todo // newest first
	failOn map[string]bool
	now    func() time.Time
	log    *slog.Logger
	router *mux.Router
}

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithTodos seeds the collection, newest first.
func WithTodos(todos ...model.Todo) Option {
	return func(s *Server) { s.todos = append([]model.Todo(nil), todos...) }
}

// New builds a server whose routes live under prefix ("" for the root).
func New(prefix string, opts ...Option) *Server {
	s := &Server{
		failOn: map[string]bool{},
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}

	r := mux.NewRouter()
	r.Use(s.accessLog)
	api := r.PathPrefix(strings.TrimSuffix(prefix, "/")).Subrouter()
	api.Methods(http.MethodGet).Path("/todos").HandlerFunc(s.list)
	api.Methods(http.MethodPost).Path("/todos").HandlerFunc(s.create)
	api.Methods(http.MethodPut).Path("/todos/{id}").HandlerFunc(s.update)
	api.Methods(http.MethodDelete).Path("/todos/{id}").HandlerFunc(s.remove)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Fail makes every request for op ("list", "create", "update", "delete")
// answer 500 until cleared with fail=false.
func (s *Server) Fail(op string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[op] = fail
}

// Todos returns a snapshot of the collection.
func (s *Server) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.log.Info("handled", "method", r.Method, "url", r.URL, "duration", m.Duration,
			"status", m.Code, "request_id", r.Header.Get("X-Request-ID"))
	})
}

func (s *Server) failing(w http.ResponseWriter, op string) bool {
	if s.failOn[op] {
		http.Error(w, "forced failure", http.StatusInternalServerError)
		return true
	}
	return false
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(w, "list") {
		return
	}
	writeJSON(w, http.StatusOK, append([]model.Todo{}, s.todos...))
}

type todoBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in todoBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(w, "create") {
		return
	}
	t := model.Todo{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(*in.Title),
		CreatedAt: s.now().UTC(),
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	s.todos = append([]model.Todo{t}, s.todos...)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var in todoBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		writeError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(w, "update") {
		return
	}
	i := s.index(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	t := s.todos[i]
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	s.todos[i] = t
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(w, "delete") {
		return
	}
	i := s.index(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted"})
}

func (s *Server) index(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write out", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
