package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_jewel/internal/cache"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

var startTime = time.Now()

// Pinger checks connectivity of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	rates   *cache.RateCache
	sources []string
	redis   Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// rate cache lives in process memory.
func NewHealthHandler(rates *cache.RateCache, sources []string, redis Pinger) *HealthHandler {
	return &HealthHandler{rates: rates, sources: sources, redis: redis}
}

// GetHealth responds with service status and rate cache state. It never
// triggers a rate refresh.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	rates := gin.H{
		"status":  "empty",
		"sources": h.sources,
		"ttl":     h.rates.TTL().String(),
	}
	if entry, ok := h.rates.Entry(c.Request.Context()); ok {
		rates["status"] = "stale"
		if h.rates.Fresh(entry) {
			rates["status"] = "fresh"
		}
		rates["source"] = entry.Snapshot.Source
		rates["fetchedAt"] = entry.FetchedAt
		rates["fallback"] = entry.Fallback
	}

	redisStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisStatus = "up"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "down"
		}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"rates":   rates,
		"redis":   redisStatus,
	})
}
