package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/mediaq/internal/app"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	queue  *app.TaskQueue
	worker *app.Worker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(queue *app.TaskQueue, worker *app.Worker) *HealthHandler {
	return &HealthHandler{
		queue:  queue,
		worker: worker,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Worker  struct {
		Running bool `json:"running"`
	} `json:"worker"`
	Queue struct {
		Pending int `json:"pending"`
	} `json:"queue"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}
	response.Worker.Running = h.worker.IsRunning()
	response.Queue.Pending = h.queue.Len()

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.worker.IsRunning() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "download worker not running",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
