package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
)

// HealthHandler reports liveness
type HealthHandler struct {
	name    string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(name string) *HealthHandler {
	return &HealthHandler{name: name, started: time.Now()}
}

// Check returns ok with the service name and uptime
func (h *HealthHandler) Check(c *gin.Context) {
	response.OK(c, "Service is healthy", gin.H{
		"status":  "ok",
		"service": h.name,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
