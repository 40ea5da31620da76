package handlers

import (
	"errors"
	"net/http"
	"time"

	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository/gateway"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	streamInterval time.Duration
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log, streamInterval: defaultInterval}
}

// WithStreamInterval sets the default push interval of websocket streams.
func (h *Handler) WithStreamInterval(d time.Duration) *Handler {
	if d >= minInterval && d <= maxInterval {
		h.streamInterval = d
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/sign-out", h.signOut)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.sessionMiddleware)
	{
		api.GET("/me", h.me)
		api.GET("/cities", h.listCities)
		h.registerDashboardRoutes(api)
		h.registerWeatherRoutes(api)
		h.registerPredictionRoutes(api)
		h.registerAdminRoutes(api)
	}
}

func (h *Handler) registerDashboardRoutes(api *gin.RouterGroup) {
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("", h.getDashboard)
		// Body example: {"selectedCities":["Tokyo"],"timeRangeType":"week"}
		dashboard.PUT("/filter", h.applyDashboardFilter)
		dashboard.POST("/refresh", h.refreshDashboard)
		dashboard.POST("/reset", h.resetDashboard)
	}
}

func (h *Handler) registerWeatherRoutes(api *gin.RouterGroup) {
	weather := api.Group("/weather")
	{
		weather.GET("/readings", h.getReadings)
	}
}

func (h *Handler) registerPredictionRoutes(api *gin.RouterGroup) {
	api.GET("/predictions", h.getPredictions)
	api.GET("/ws/predictions", h.wsPredictions)
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.requireRole(models.RoleAdmin))
	{
		admin.GET("/metrics", h.adminMetrics)
		admin.GET("/users", h.adminListUsers)
		admin.POST("/users", h.adminCreateUser)
		admin.GET("/activity", h.getActivity)
	}
}

const requestIDHeader = "X-Request-ID"

// requestID echoes the caller's request id or assigns a new one.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(requestIDHeader, id)
	c.Next()
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

const statusOK = "ok"

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(ctxRequestID)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps service and gateway errors to HTTP responses.
// Anything unrecognised is a failed upstream query.
func (h *Handler) respondServiceError(c *gin.Context, userMsg, logKey string, err error, kv ...interface{}) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, service.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAdminUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, gateway.ErrCircuitOpen):
		h.logAndJSONError(c, http.StatusServiceUnavailable, "data service temporarily unavailable", logKey, err, kv...)
	default:
		if gwErr, ok := gateway.AsError(err); ok {
			switch {
			case gwErr.IsUnauthorized():
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired", "redirect": "/"})
				return
			case gwErr.IsForbidden():
				if h.log != nil {
					h.log.Infow(logKey, "err", err, "request_id", c.GetString(ctxRequestID))
				}
				c.JSON(http.StatusForbidden, gin.H{"error": "access denied by data policy"})
				return
			}
		}
		h.logAndJSONError(c, http.StatusBadGateway, userMsg, logKey, err, kv...)
	}
}
