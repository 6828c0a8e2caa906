package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/3a-softwares/E-Storefront-Services/errors"
	"github.com/3a-softwares/E-Storefront-Services/health"
	"github.com/3a-softwares/E-Storefront-Services/identity"
	"github.com/3a-softwares/E-Storefront-Services/seed"
)

// envelope is the REST response shape for non-GraphQL endpoints.
type envelope struct {
	Success           bool         `json:"success"`
	Message           string       `json:"message,omitempty"`
	Stats             seed.Stats   `json:"stats,omitempty"`
	Status            *seed.Status `json:"status,omitempty"`
	AvailableServices []string     `json:"availableServices,omitempty"`
	Timestamp         time.Time    `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "E-Storefront GraphQL Gateway",
		"endpoints": map[string]string{
			"graphql":  "/graphql",
			"health":   "/api/health/services",
			"metrics":  "/metrics",
			"selfTest": "/health",
		},
		"timestamp": time.Now().UTC(),
	})
}

// handleSelfHealth is the gateway reporting on itself, used by its own
// orchestrator. Downstream state is deliberately excluded here.
func (s *Server) handleSelfHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    health.StatusHealthy,
		"service":   health.GatewayName,
		"uptime":    time.Since(s.started).Seconds(),
		"timestamp": time.Now().UTC(),
	})
}

// handleServicesHealth runs the full sweep. A degraded fleet is still a 200:
// the endpoint answered, the verdict is in the body.
func (s *Server) handleServicesHealth(w http.ResponseWriter, r *http.Request) {
	report := s.checker.CheckAll(r.Context())
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("service")
	record, err := s.checker.CheckOne(r.Context(), name)
	if err != nil {
		if errors.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, envelope{
				Success:           false,
				Message:           "Unknown service: " + name,
				AvailableServices: s.checker.ServiceNames(),
				Timestamp:         time.Now().UTC(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success:   false,
			Message:   "Health check failed",
			Timestamp: time.Now().UTC(),
		})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// requireAdmin gates seed endpoints on the decoded role claim. The gate runs
// before the seeder is touched.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identity.FromContext(r.Context())
		if !id.IsAdmin() {
			writeJSON(w, http.StatusForbidden, envelope{
				Success:   false,
				Message:   "Admin access required",
				Timestamp: time.Now().UTC(),
			})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if s.seeder == nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Success:   false,
			Message:   "Seeding is not configured",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	// preserveUsers defaults to true; destructive reseeds are opt-in.
	preserveUsers := r.URL.Query().Get("preserveUsers") != "false"

	stats, err := s.seeder.Run(r.Context(), preserveUsers)
	if err != nil {
		s.logger.Error("seed failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success:   false,
			Message:   "Seeding failed: " + err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Message:   "Database seeded",
		Stats:     stats,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleSeedClear(w http.ResponseWriter, r *http.Request) {
	if s.seeder == nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Success:   false,
			Message:   "Seeding is not configured",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	stats, err := s.seeder.Clear(r.Context())
	if err != nil {
		s.logger.Error("seed clear failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success:   false,
			Message:   "Clearing failed: " + err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Message:   "Seed data cleared, admin users preserved",
		Stats:     stats,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleSeedStatus(w http.ResponseWriter, r *http.Request) {
	if s.seeder == nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Success:   false,
			Message:   "Seeding is not configured",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	status, err := s.seeder.DatabaseStatus(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success:   false,
			Message:   "Status check failed: " + err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
}
