package handlers

import (
	"net/http"

	"wellness_tracker/internal/logger"
	"wellness_tracker/internal/metrics"
	"wellness_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const statusOK = "ok"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
}

// Option customizes a Handler.
type Option func(*Handler)

// WithMetrics records request metrics into m and serves g on /metrics.
func WithMetrics(m *metrics.Manager, g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestMetrics)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live session stream; browsers cannot set headers on upgrade, so the token may come as ?token=
	router.GET("/ws/sessions/:id", h.queryTokenMiddleware, h.userIdMiddleware, h.wsSession)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerExerciseRoutes(api)
		h.registerSessionRoutes(api)
		h.registerTemplateRoutes(api)
		h.registerLogRoutes(api)
		api.GET("/stats", h.getStats)
	}
}

func (h *Handler) registerExerciseRoutes(api *gin.RouterGroup) {
	exercises := api.Group("/exercises")
	{
		exercises.GET("", h.listExercises)
		exercises.POST("", h.createExercise)
		exercises.GET("/:id", h.getExercise)
		exercises.PATCH("/:id", h.updateExercise)
		exercises.DELETE("/:id", h.deleteExercise)
		exercises.POST("/:id/reset", h.resetExercise)
		exercises.GET("/:id/history", h.getHistory)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		sessions.GET("/:id", h.getSession)
		sessions.POST("/:id/start", h.startSession)
		sessions.POST("/:id/pause", h.pauseSession)
		sessions.POST("/:id/resume", h.resumeSession)
		sessions.POST("/:id/reset", h.resetSession)
		sessions.POST("/:id/abandon", h.abandonSession)
	}
}

func (h *Handler) registerTemplateRoutes(api *gin.RouterGroup) {
	templates := api.Group("/templates")
	{
		templates.GET("", h.listTemplates)
		templates.POST("/:id/instantiate", h.instantiateTemplate)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
