// Package api serves derived simulation state over HTTP. GET endpoints are
// public and read-only; writes are limited to intent submission, which is
// queued and consumed by the engine between ticks — handlers never touch
// live core state.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talgya/masquerade/internal/engine"
	"github.com/talgya/masquerade/internal/persona"
)

// Server serves snapshots of the simulation over HTTP.
type Server struct {
	Port int

	snapshot atomic.Pointer[engine.Snapshot]

	intentMu sync.Mutex
	intents  []persona.Intent
}

// Publish installs the snapshot served to readers. Called by the host
// after each tick.
func (s *Server) Publish(snap *engine.Snapshot) {
	s.snapshot.Store(snap)
}

// DrainIntents hands queued intents to the host. Called between ticks.
func (s *Server) DrainIntents() []persona.Intent {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()
	out := s.intents
	s.intents = nil
	return out
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	intentLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/districts", s.handleDistricts)
	mux.HandleFunc("/api/v1/district/", s.handleDistrictDetail)
	mux.HandleFunc("/api/v1/cases", s.handleCases)
	mux.HandleFunc("/api/v1/personas", s.handlePersonas)
	mux.HandleFunc("/api/v1/feed", s.handleFeed)
	mux.HandleFunc("/api/v1/transformations", s.handleTransformations)
	mux.HandleFunc("/api/v1/intent", RateLimitMiddleware(intentLimiter, s.handleIntent))

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()
}

func (s *Server) current(w http.ResponseWriter) *engine.Snapshot {
	snap := s.snapshot.Load()
	if snap == nil {
		http.Error(w, `{"error":"simulation not started"}`, http.StatusServiceUnavailable)
		return nil
	}
	return snap
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	activeCases := 0
	for _, c := range snap.Cases {
		if c.Status == "ACTIVE" {
			activeCases++
		}
	}
	writeJSON(w, map[string]any{
		"tick":            snap.Tick,
		"districts":       len(snap.Districts),
		"cases_total":     len(snap.Cases),
		"cases_active":    activeCases,
		"feed_length":     len(snap.Feed),
		"transformations": len(snap.Transformations),
	})
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	if snap := s.current(w); snap != nil {
		writeJSON(w, snap.Districts)
	}
}

func (s *Server) handleDistrictDetail(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/district/")
	for _, d := range snap.Districts {
		if d.DistrictID == id {
			// Include the district's cases alongside its heat state.
			var cases []any
			for _, c := range snap.Cases {
				if c.DistrictID == id {
					cases = append(cases, c)
				}
			}
			writeJSON(w, map[string]any{"district": d, "cases": cases})
			return
		}
	}
	http.Error(w, `{"error":"unknown district"}`, http.StatusNotFound)
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	if snap := s.current(w); snap != nil {
		writeJSON(w, snap.Cases)
	}
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	if snap := s.current(w); snap != nil {
		writeJSON(w, snap.Personas)
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if snap := s.current(w); snap != nil {
		writeJSON(w, snap.Feed)
	}
}

func (s *Server) handleTransformations(w http.ResponseWriter, r *http.Request) {
	if snap := s.current(w); snap != nil {
		writeJSON(w, snap.Transformations)
	}
}

// handleIntent queues a persona intent for the next tick.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"POST only"}`, http.StatusMethodNotAllowed)
		return
	}
	var in persona.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"bad intent payload"}`, http.StatusBadRequest)
		return
	}
	if in.PersonaID == "" || in.Kind == "" {
		http.Error(w, `{"error":"persona_id and kind are required"}`, http.StatusBadRequest)
		return
	}
	s.intentMu.Lock()
	s.intents = append(s.intents, in)
	s.intentMu.Unlock()
	writeJSON(w, map[string]string{"status": "queued"})
}
