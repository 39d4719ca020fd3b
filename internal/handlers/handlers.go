package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"campus-feed/internal/service"
	"campus-feed/internal/utils"
)

// Server holds the HTTP-facing dependencies. Handlers are a thin decorator
// over the service: decode, dispatch, translate the typed error, encode.
type Server struct {
	Svc     *service.Service
	Metrics *utils.MetricsCollector
}

// NewServer creates a new Server instance with the given components
func NewServer(svc *service.Service, metrics *utils.MetricsCollector) *Server {
	return &Server{
		Svc:     svc,
		Metrics: metrics,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a typed service failure onto an HTTP status so callers can
// tell "course not found" from "wrong access code".
func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		writeJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": err.Error(),
	})
}

// HandleHealth reports entity counts and uptime.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		counts, err := s.Svc.Counts()
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":       "healthy",
			"user_count":   counts["users"],
			"course_count": counts["courses"],
			"post_count":   counts["posts"],
			"uptime":       s.Metrics.Uptime().String(),
			"server_time":  time.Now(),
		})
	}
}
