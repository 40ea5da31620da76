package handlers

import (
	"net/http"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Known cities
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, cities"
// @Router       /api/v1/cities [get]
// @Security     BearerAuth
func (h *Handler) listCities(c *gin.Context) {
	names := []string{}
	if h.services.Cities != nil {
		names = h.services.Cities.Names()
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(names),
		"cities": names,
	})
}

// respondView writes the dashboard view. A failed load still carries the
// previous data, so it is returned next to the error.
func (h *Handler) respondView(c *gin.Context, logKey string, view service.DashboardView, err error) {
	if err == nil {
		c.JSON(http.StatusOK, view)
		return
	}
	if view.LastError == "" {
		h.respondServiceError(c, "failed to load weather data", logKey, err, "user_id", userID(c))
		return
	}
	if h.log != nil {
		h.log.Errorw(logKey, "err", err, "user_id", userID(c), "request_id", c.GetString(ctxRequestID))
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error": "failed to load weather data",
		"view":  view,
	})
}

// @Summary      Dashboard
// @Description  Current dashboard view. The first call loads all cities over all time.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardView
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}  "error, view"
// @Router       /api/v1/dashboard [get]
// @Security     BearerAuth
func (h *Handler) getDashboard(c *gin.Context) {
	view, err := h.services.Dashboard.Get(c.Request.Context(), accessToken(c), userID(c))
	h.respondView(c, "dashboard_get_failed", view, err)
}

// @Summary      Apply dashboard filter
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        body  body      models.DashboardFilter  true  "Filter"
// @Success      200   {object}  service.DashboardView
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]interface{}  "error, view"
// @Router       /api/v1/dashboard/filter [put]
// @Security     BearerAuth
func (h *Handler) applyDashboardFilter(c *gin.Context) {
	var filter models.DashboardFilter
	if ok := h.bindJSONOrBadRequest(c, &filter); !ok {
		return
	}
	view, err := h.services.Dashboard.Apply(c.Request.Context(), accessToken(c), userID(c), filter)
	h.respondView(c, "dashboard_apply_failed", view, err)
}

// @Summary      Refresh dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardView
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}  "error, view"
// @Router       /api/v1/dashboard/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshDashboard(c *gin.Context) {
	view, err := h.services.Dashboard.Refresh(c.Request.Context(), accessToken(c), userID(c))
	h.respondView(c, "dashboard_refresh_failed", view, err)
}

// @Summary      Reset dashboard
// @Description  Restores the default filter and reloads.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardView
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}  "error, view"
// @Router       /api/v1/dashboard/reset [post]
// @Security     BearerAuth
func (h *Handler) resetDashboard(c *gin.Context) {
	view, err := h.services.Dashboard.Reset(c.Request.Context(), accessToken(c), userID(c))
	h.respondView(c, "dashboard_reset_failed", view, err)
}
