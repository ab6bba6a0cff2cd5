// Package apitest provides an in-memory items API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/items/internal/model"
)

// Server mimics the remote items collection over real HTTP.
type Server struct {
	*httptest.Server

	mu    sync.Mutex
	items []model.Item
	fail  map[string]int // method -> status code to answer with
	calls map[string]int // "METHOD /path" -> count
	now   func() time.Time
}

// NewServer starts a server seeded with items. Close it when done.
func NewServer(seed ...model.Item) *Server {
	s := &Server{
		items: append([]model.Item(nil), seed...),
		fail:  map[string]int{},
		calls: map[string]int{},
		now:   time.Now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", s.list)
	mux.HandleFunc("POST /api/items", s.create)
	mux.HandleFunc("DELETE /api/items/{id}", s.remove)
	s.Server = httptest.NewServer(s.count(mux))
	return s
}

// BaseURL is what a client should be configured with.
func (s *Server) BaseURL() string { return s.URL + "/api" }

// Fail makes every request with method answer status until Recover.
func (s *Server) Fail(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = status
}

// Recover clears all injected failures.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = map[string]int{}
}

// Items returns the server-side collection.
func (s *Server) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Item(nil), s.items...)
}

// Calls returns how many requests hit "METHOD /path", e.g. "POST /api/items".
func (s *Server) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

// TotalCalls counts every request served.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method+" "+r.URL.Path]++
		status, failing := s.fail[r.Method]
		s.mu.Unlock()
		if failing {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	items := s.Items()
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}
	if strings.TrimSpace(d.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "name is required"})
		return
	}
	s.mu.Lock()
	it := model.Item{
		ID:          uuid.NewString(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	s.items = append(s.items, it)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Item not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
