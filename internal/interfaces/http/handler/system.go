package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck checks one dependency of the service
type HealthCheck func(ctx context.Context) error

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
	timeout   time.Duration
}

// NewSystemHandler creates a new SystemHandler. Each named check must pass
// for the service to report healthy.
func NewSystemHandler(version string, checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		timeout:   2 * time.Second,
	}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Reports whether the service and its dependencies are reachable
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.L(ctx).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "error"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	resp.Time = time.Now().Format(time.RFC3339)
	c.JSON(status, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system info
// @Description  Returns version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      "Clube Back Office API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}
