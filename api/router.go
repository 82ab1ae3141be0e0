package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/mediaq/api/handlers"
	"github.com/yourusername/mediaq/api/middleware"
	"github.com/yourusername/mediaq/internal/app"
	"github.com/yourusername/mediaq/internal/domain"
)

// SetupRouter sets up the HTTP router for the daemon. The router is the
// UI-facing surface: it enqueues requests, exposes the progress counter and
// history, and relays the stop signal; it never touches the queue beyond
// that.
func SetupRouter(
	queue *app.TaskQueue,
	worker *app.Worker,
	history domain.HistoryRepository,
	fetchCfg *domain.FetchConfig,
	log *zap.Logger,
) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(queue, worker)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		downloadHandler := handlers.NewDownloadHandler(queue, worker, fetchCfg, log)
		downloads := v1.Group("/downloads")
		{
			downloads.POST("", downloadHandler.AddDownload)
			downloads.GET("/pending", downloadHandler.Pending)
			downloads.GET("/completed", downloadHandler.Completed)
		}

		v1.POST("/worker/stop", downloadHandler.StopWorker)

		historyHandler := handlers.NewHistoryHandler(history, log)
		historyRoutes := v1.Group("/history")
		{
			historyRoutes.GET("", historyHandler.List)
			historyRoutes.DELETE("", historyHandler.Clear)
		}
	}

	return router
}
