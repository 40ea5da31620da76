package handlers

import (
	"errors"
	"net/http"
	"strings"

	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimitInvalid = "invalid 'limit'; use a positive integer"
)

// @Summary      Admin metrics
// @Tags         admin
// @Produce      json
// @Param        window  query     string  false  "User growth window"  Enums(24h,7d,30d)
// @Success      200     {object}  service.AdminMetrics
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /api/v1/admin/metrics [get]
// @Security     BearerAuth
func (h *Handler) adminMetrics(c *gin.Context) {
	window := c.DefaultQuery("window", service.Window7d)
	m, err := h.services.Admin.Metrics(c.Request.Context(), accessToken(c), window)
	if err != nil {
		h.respondServiceError(c, "failed to compute metrics", "admin_metrics_failed", err, "window", window)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, users"
// @Failure      403  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/admin/users [get]
// @Security     BearerAuth
func (h *Handler) adminListUsers(c *gin.Context) {
	users, err := h.services.Admin.ListUsers(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "failed to list users", "admin_list_users_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

// @Summary      Create user
// @Description  Creates a confirmed viewer account.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      201   {object}  models.Identity
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/admin/users [post]
// @Security     BearerAuth
func (h *Handler) adminCreateUser(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	user, err := h.services.Admin.CreateUser(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		var authErr *service.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": authErr.Message})
			return
		}
		h.respondServiceError(c, "failed to create user", "admin_create_user_failed", err, "email", input.Email)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      Activity log
// @Description  Filter activity by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).
// @Tags         admin
// @Produce      json
// @Param        from   query     string  false  "Start of range"  example(2025-08-01)
// @Param        to     query     string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type   query     string  false  "Event type"  Enums(SIGN_IN,SIGN_UP,SIGN_OUT,ACCESS_DENIED)
// @Param        limit  query     int     false  "Maximum number of events (default 100, max 1000)"
// @Success      200    {object}  map[string]interface{}  "count, events"
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/admin/activity [get]
// @Security     BearerAuth
func (h *Handler) getActivity(c *gin.Context) {
	var (
		filter = service.LogFilter{Type: strings.TrimSpace(c.Query("type"))}
		err    error
	)
	if qs := c.Query("from"); qs != "" {
		if filter.From, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if filter.To, err = parseRangeEnd(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
	}
	if filter.Limit, err = parsePositiveInt(c.Query("limit")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return
	}

	events, err := h.services.ActivityLog.List(c.Request.Context(), filter)
	if err != nil {
		if service.IsValidation(err) {
			h.respondServiceError(c, "invalid filter", "activity_filter_invalid", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load activity", "activity_list_failed", err,
			"from", filter.From, "to", filter.To, "type", filter.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
