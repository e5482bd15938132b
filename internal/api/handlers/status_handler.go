package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/cache"
)

const apiVersion = "1.0.0"

// StatusHandler reports liveness and per-collaborator health, and exposes
// cache maintenance. Services maps collaborator name to "healthy",
// "missing_credentials" or "error" as determined at startup.
type StatusHandler struct {
	services map[string]string
	cache    *cache.ResponseCache
	started  time.Time
}

func NewStatusHandler(services map[string]string, respCache *cache.ResponseCache) *StatusHandler {
	return &StatusHandler{
		services: services,
		cache:    respCache,
		started:  time.Now(),
	}
}

// Root describes the API surface for anyone probing the base URL.
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Ed-room API",
		"version": apiVersion,
		"endpoints": gin.H{
			"POST /chat":              "full chat pipeline: translate, moderate, classify, dispatch",
			"POST /process":           "translation and moderation breakdown only",
			"POST /explain":           "standalone topic explanation",
			"POST /explain/history/clear": "clear a user's explanation history",
			"POST /quiz/generate":     "generate a Google Forms quiz",
			"GET /quiz/requirements":  "quiz input contract",
			"GET /status":             "service and cache status",
			"GET /health":             "liveness probe",
			"POST /cache/clear":       "drop all cached responses",
		},
	})
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":        apiVersion,
		"services":       h.services,
		"cache":          h.cache.Stats(),
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// Health reports healthy only when every collaborator came up; otherwise
// degraded, still with a 200 so orchestrators keep the process alive.
func (h *StatusHandler) Health(c *gin.Context) {
	status := "healthy"
	for _, s := range h.services {
		if s != "healthy" {
			status = "degraded"
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *StatusHandler) ClearCache(c *gin.Context) {
	h.cache.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "response cache cleared"})
}
