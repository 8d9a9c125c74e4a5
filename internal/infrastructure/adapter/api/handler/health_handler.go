package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether one dependency is usable
type HealthCheck func(ctx context.Context) error

// HealthHandler serves GET /health
type HealthHandler struct {
	checks       map[string]HealthCheck
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewHealthHandler creates a health handler running the named checks
func NewHealthHandler(checks map[string]HealthCheck, timeProvider coreport.TimeProvider, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{
		checks:       checks,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Health runs every check; any failure turns the response into a 503
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := h.timeProvider.WithTimeout(c.Request.Context(), coreport.Duration(healthCheckTimeout))
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			h.logger.Warn("Health check failed", map[string]any{
				"check": name,
				"error": err.Error(),
			})
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
