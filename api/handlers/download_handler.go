package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/mediaq/internal/app"
	"github.com/yourusername/mediaq/internal/domain"
	"go.uber.org/zap"
)

// DownloadHandler handles download-related HTTP requests
type DownloadHandler struct {
	queue    *app.TaskQueue
	worker   *app.Worker
	fetchCfg *domain.FetchConfig
	logger   *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(queue *app.TaskQueue, worker *app.Worker, fetchCfg *domain.FetchConfig, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		queue:    queue,
		worker:   worker,
		fetchCfg: fetchCfg,
		logger:   logger,
	}
}

// AddDownloadRequest represents a request to enqueue a download. Unset
// fields fall back to the configured preference defaults; Extra options are
// passed through to the fetcher untouched.
type AddDownloadRequest struct {
	URL              string          `json:"url" binding:"required"`
	Private          bool            `json:"private"`
	OutputTemplate   string          `json:"output_template,omitempty"`
	Format           string          `json:"format,omitempty"`
	NoPlaylist       *bool           `json:"no_playlist,omitempty"`
	SocketTimeout    *int            `json:"socket_timeout,omitempty"`
	CheckCertificate *bool           `json:"check_certificate,omitempty"`
	CookieFile       string          `json:"cookie_file,omitempty"`
	Extra            []domain.Option `json:"extra,omitempty"`
}

// buildOptions merges the configured defaults with per-request overrides,
// preserving option order.
func (r *AddDownloadRequest) buildOptions(fetchCfg *domain.FetchConfig) domain.Options {
	opts := fetchCfg.DefaultOptions()

	if r.OutputTemplate != "" {
		opts = opts.Set(domain.OptOutputTemplate, r.OutputTemplate)
	}
	if r.Format != "" {
		opts = opts.Set(domain.OptFormat, r.Format)
	}
	if r.NoPlaylist != nil {
		opts = opts.Set(domain.OptNoPlaylist, *r.NoPlaylist)
	}
	if r.SocketTimeout != nil {
		opts = opts.Set(domain.OptSocketTimeout, *r.SocketTimeout)
	}
	if r.CheckCertificate != nil {
		opts = opts.Set(domain.OptNoCheckCertificate, !*r.CheckCertificate)
	}
	if r.CookieFile != "" {
		opts = opts.Set(domain.OptCookieFile, r.CookieFile)
	}
	for _, extra := range r.Extra {
		opts = opts.Set(extra.Key, extra.Value)
	}

	return opts
}

// AddDownload handles POST /api/v1/downloads
func (h *DownloadHandler) AddDownload(c *gin.Context) {
	var req AddDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request := domain.NewRequest(req.URL, req.Private, req.buildOptions(h.fetchCfg))

	if err := h.queue.Enqueue(request); err != nil {
		if errors.Is(err, domain.ErrQueueFull) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to enqueue download", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Download enqueued",
		zap.String("id", request.ID),
		zap.String("url", request.URL),
		zap.Bool("private", request.Private))

	c.JSON(http.StatusAccepted, request)
}

// Pending handles GET /api/v1/downloads/pending
func (h *DownloadHandler) Pending(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pending": h.queue.Len()})
}

// Completed handles GET /api/v1/downloads/completed
//
// This is the progress interface: a poller calls it on a short timer with
// reset=true and trims that many entries from the front of its own display
// list.
func (h *DownloadHandler) Completed(c *gin.Context) {
	reset, _ := strconv.ParseBool(c.DefaultQuery("reset", "false"))
	c.JSON(http.StatusOK, gin.H{
		"completed": h.queue.DrainCompleted(reset),
		"reset":     reset,
	})
}

// StopWorker handles POST /api/v1/worker/stop
//
// The stop is best-effort-prompt: an in-flight download finishes or
// permanently fails before the worker halts, so the response only
// acknowledges the request.
func (h *DownloadHandler) StopWorker(c *gin.Context) {
	h.worker.RequestStop()
	c.JSON(http.StatusAccepted, gin.H{"message": "worker stop requested"})
}
