package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/sampstat/sampstat/assets"
	"github.com/sampstat/sampstat/internal/models"
	"github.com/sampstat/sampstat/internal/protocol"
	"github.com/sampstat/sampstat/internal/query"
	"github.com/sampstat/sampstat/internal/vars"
)

// handleIndex serves the landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	content, _ := assets.ReadFile("landing.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(content)
}

// handleHealth reports liveness and build metadata.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"build":  vars.Info(),
	})
}

// handleServer resolves a single target to a server record.
// Query params: ?ip=51.79.247.157&port=7777
func (s *Server) handleServer(w http.ResponseWriter, r *http.Request) {
	target, ok := s.targetFromParams(w, r.URL.Query().Get("ip"), r.URL.Query().Get("port"))
	if !ok {
		return
	}

	record := s.svc.One(target)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(record)
}

// handleServers resolves up to query.MaxBatch targets, preserving the
// order of the input list.
// Query params: ?targets=51.79.247.157:7777,144.217.10.12:7777
func (s *Server) handleServers(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("targets")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "Missing targets")
		return
	}

	entries := strings.Split(raw, ",")
	if len(entries) > query.MaxBatch {
		respondError(w, http.StatusBadRequest, "Too many targets, maximum is "+strconv.Itoa(query.MaxBatch))
		return
	}

	targets := make([]models.Target, 0, len(entries))
	for _, entry := range entries {
		host, portStr, err := net.SplitHostPort(strings.TrimSpace(entry))
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid target "+strconv.Quote(entry))
			return
		}

		port, err := strconv.Atoi(portStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid port in target "+strconv.Quote(entry))
			return
		}

		target, err := protocol.ParseTarget(host, port)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid target "+strconv.Quote(entry))
			return
		}

		targets = append(targets, target)
	}

	records := s.svc.Many(targets)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

// targetFromParams validates the ip/port query parameters, writing a
// 400 response and returning false on caller error.
func (s *Server) targetFromParams(w http.ResponseWriter, ip, portStr string) (models.Target, bool) {
	if ip == "" || portStr == "" {
		respondError(w, http.StatusBadRequest, "Missing ip or port")
		return models.Target{}, false
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid port")
		return models.Target{}, false
	}

	target, err := protocol.ParseTarget(ip, port)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid target: "+err.Error())
		return models.Target{}, false
	}

	return target, true
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
