package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadyCheck pings one backing dependency by name.
type ReadyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks []ReadyCheck
}

func NewHealthHandler(checks ...ReadyCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health is the liveness probe; it never consults dependencies.
func (h *HealthHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// Ready reports 503 as soon as a configured backend stops answering. The
// memory backends register no checks, so it degenerates to a static ready.
func (h *HealthHandler) Ready(ctx *gin.Context) {
	for _, check := range h.checks {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		err := check.Ping(cctx)
		cancel()

		if err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"failed": check.Name,
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
