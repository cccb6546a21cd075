package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nerrad567/mqtt-scribe/internal/capture"
)

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// StatusResponse is the status endpoint payload.
type StatusResponse struct {
	Version       string                           `json:"version"`
	Started       time.Time                        `json:"started"`
	UptimeSeconds int64                            `json:"uptime_seconds"`
	Connected     bool                             `json:"connected"`
	Topics        map[string]capture.TopicCounters `json:"topics"`
	Dropped       uint64                           `json:"dropped"`
}

// handleHealth reports broker connectivity.
//
// 200 when the broker connection is healthy, 503 otherwise.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.broker != nil {
		if err := s.broker.HealthCheck(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "unhealthy",
				Error:  err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleStatus reports the reception counters.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.stats.Snapshot()

	connected := false
	if s.broker != nil {
		connected = s.broker.HealthCheck(r.Context()) == nil
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Version:       s.version,
		Started:       snap.Started,
		UptimeSeconds: int64(time.Since(snap.Started).Seconds()),
		Connected:     connected,
		Topics:        snap.Topics,
		Dropped:       snap.Dropped,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
