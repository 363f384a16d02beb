package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CheckFunc func(ctx context.Context) error

// Health is a simple health check.
func Health(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Live is a lightweight liveness probe: the process is alive.
func Live(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready probes every configured backend. The memory backend has none and is
// always ready.
func Ready(checks map[string]CheckFunc) gin.HandlerFunc {
	return func(g *gin.Context) {
		result := gin.H{}
		healthy := true
		for name, check := range checks {
			if err := check(g.Request.Context()); err != nil {
				result[name] = "unhealthy"
				healthy = false
				continue
			}
			result[name] = "ok"
		}

		status := http.StatusOK
		msg := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			msg = "not_ready"
		}
		g.JSON(status, gin.H{
			"status": msg,
			"checks": result,
		})
	}
}
