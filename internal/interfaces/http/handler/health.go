package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	checks    map[string]Pinger
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler creates a HealthHandler. Nil checks are skipped, so a
// disabled Redis does not fail readiness.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{checks: active, startTime: time.Now(), timeout: 3 * time.Second}
}

// HealthResponse is the probe payload
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Live reports that the process is serving
func (h *HealthHandler) Live(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready pings every dependency and answers 503 if any is down
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			logger.FromContext(ctx).Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			resp.Status = "unavailable"
			resp.Checks[name] = "down"
			continue
		}
		resp.Checks[name] = "up"
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error:   &dto.ErrorInfo{Code: "SERVICE_UNAVAILABLE", Message: "A dependency is unavailable", RequestID: getRequestID(c)},
		})
		return
	}
	h.Success(c, resp)
}
