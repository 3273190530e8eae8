package handlers

import (
	"net/http"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/messaging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and operational status.
type HealthHandler struct {
	perf        *performance.Tracker
	editor      *services.EditorService
	broadcaster *messaging.Broadcaster
}

func NewHealthHandler(perf *performance.Tracker, editor *services.EditorService, broadcaster *messaging.Broadcaster) *HealthHandler {
	return &HealthHandler{perf: perf, editor: editor, broadcaster: broadcaster}
}

// Health is the liveness probe.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status reports uptime, open sessions, feed clients and operation stats.
// Admin only.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uptime":         h.perf.Uptime().String(),
		"editorSessions": h.editor.SessionCount(),
		"feedClients":    h.broadcaster.ClientCount(),
		"operations":     h.perf.Stats(),
	})
}
