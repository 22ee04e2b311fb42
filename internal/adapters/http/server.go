// Package http exposes a running engine over a small JSON API: tree and
// active-state inspection plus event dispatch by declared name.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hsmkit/hsm/pkg/domain"
)

// Engine defines the slice of the hsm core the server needs.
type Engine interface {
	Dispatch(ctx context.Context, msg *domain.Message) error
	Active() *domain.State
	States() []*domain.State
}

// Server serializes access to a single-threaded engine. The engine itself
// performs no locking; the mutex here is the external serialization the
// engine contract requires.
type Server struct {
	mu     sync.Mutex
	engine Engine
	events map[string]domain.EventID
}

// NewHandler creates an HTTP handler over the engine. events maps declared
// event names (as accepted by POST /v1/events) to their identifiers.
func NewHandler(engine Engine, events map[string]domain.EventID) http.Handler {
	s := &Server{engine: engine, events: events}

	r := chi.NewRouter()
	r.Get("/v1/tree", s.tree)
	r.Get("/v1/active", s.active)
	r.Post("/v1/events", s.dispatch)
	return r
}

type treeNode struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Parent string `json:"parent,omitempty"`
	Active bool   `json:"active"`
}

type activeResponse struct {
	Active string `json:"active,omitempty"`
	Halted bool   `json:"halted"`
}

type dispatchRequest struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

func (s *Server) tree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	states := s.engine.States()
	activePath := s.engine.Active().Path()
	s.mu.Unlock()

	nodes := make([]treeNode, 0, len(states))
	for _, st := range states {
		path := st.Path()
		nodes = append(nodes, treeNode{
			Name:   st.Name(),
			Path:   path,
			Parent: st.Parent().Path(),
			Active: activePath == path,
		})
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) active(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	active := s.engine.Active()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, activeResponse{
		Active: active.Path(),
		Halted: active == nil,
	})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	var body dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, ok := s.events[body.Event]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown event: %s", body.Event), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.engine.Dispatch(r.Context(), &domain.Message{Event: id, Payload: body.Payload})
	active := s.engine.Active()
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, domain.ErrHalted) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, activeResponse{
		Active: active.Path(),
		Halted: active == nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing useful left to report.
		return
	}
}
