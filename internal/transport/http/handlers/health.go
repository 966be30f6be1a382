package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/lease-service/internal/logger"
	"github.com/baechuer/lease-service/internal/transport/http/response"
)

const readyTimeout = 2 * time.Second

// HealthCheck is one dependency probed by /readyz. Optional checks are
// reported but never fail readiness.
type HealthCheck struct {
	Name     string
	Ping     func(ctx context.Context) error
	Optional bool
}

type HealthHandler struct {
	checks []HealthCheck
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, healthBody{Status: "ok"})
}

// Readyz handles GET /readyz.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := http.StatusOK
	body := healthBody{Status: "ready", Checks: make(map[string]string, len(h.checks))}

	for _, c := range h.checks {
		if c.Ping == nil {
			continue
		}
		if err := c.Ping(ctx); err != nil {
			body.Checks[c.Name] = "unavailable"
			logger.WithCtx(r.Context()).Warn().Err(err).Str("check", c.Name).Msg("readiness check failed")
			if !c.Optional {
				status = http.StatusServiceUnavailable
				body.Status = "unavailable"
			}
			continue
		}
		body.Checks[c.Name] = "ok"
	}

	response.WriteJSON(w, status, body)
}
