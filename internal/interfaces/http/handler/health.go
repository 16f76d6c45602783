package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger is a dependency whose reachability the health check reports
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and dependency health
type HealthHandler struct {
	BaseHandler
	checks  map[string]Pinger
	timeout time.Duration
	started time.Time
	version string
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string            `json:"status" example:"healthy"`
	Version string            `json:"version,omitempty" example:"1.0.0"`
	Uptime  string            `json:"uptime" example:"1h2m3s"`
	Checks  map[string]string `json:"checks"`
}

// NewHealthHandler creates a HealthHandler. Every check must answer
// within timeout for the service to report healthy.
func NewHealthHandler(version string, timeout time.Duration, checks map[string]Pinger) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{
		checks:  checks,
		timeout: timeout,
		started: time.Now(),
		version: version,
	}
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks:  make(map[string]string, len(names)),
	}
	status := http.StatusOK

	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			logger.L(ctx).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "unreachable"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}
