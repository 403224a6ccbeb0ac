package routes

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the endpoint handlers mounted by SetupRoutes
type Handlers struct {
	Upload *handler.UploadHandler
	Record *handler.RecordHandler
	Health *handler.HealthHandler
	// Metrics serves the prometheus scrape endpoint; nil leaves /metrics unmounted
	Metrics http.Handler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	userRoutes := router.Group("/users")
	{
		// chunked upload, then ingest of the reassembled file
		userRoutes.POST("/uploadUserFile", h.Upload.UploadChunk)
		userRoutes.POST("/upload", h.Upload.Ingest)
		userRoutes.GET("/upload/status", h.Upload.Status)

		userRoutes.GET("", h.Record.List)
		userRoutes.GET("/:id", h.Record.Get)
		userRoutes.POST("/:id", h.Record.Create)
		userRoutes.PATCH("/:id", h.Record.Update)
		userRoutes.DELETE("/:id", h.Record.Delete)
	}

	router.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}
}

// MiddlewareOptions configures SetupMiddlewares
type MiddlewareOptions struct {
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
	// Observer records request metrics when set
	Observer       middleware.HTTPObserver
	AllowedOrigins []string
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, opts MiddlewareOptions) {
	// the request id must exist before anything logs
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(opts.Logger))
	router.Use(middleware.Logger(opts.Logger, opts.TimeProvider))
	if opts.Observer != nil {
		router.Use(middleware.Metrics(opts.Observer, opts.TimeProvider))
	}
	router.Use(middleware.CORS(opts.AllowedOrigins...))
}
