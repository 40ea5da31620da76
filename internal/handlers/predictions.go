package handlers

import (
	"net/http"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Latest predictions
// @Description  Latest prediction per city. With horizon set, each record is flattened to that horizon.
// @Tags         predictions
// @Produce      json
// @Param        search   query     string  false  "Case-insensitive city or country substring"
// @Param        horizon  query     string  false  "Forecast horizon"  Enums(30m,60m,120m)
// @Success      200      {object}  map[string]interface{}  "count, records"
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      502      {object}  map[string]interface{}  "error, records"
// @Router       /api/v1/predictions [get]
// @Security     BearerAuth
func (h *Handler) getPredictions(c *gin.Context) {
	horizon := c.Query("horizon")

	res := h.services.Predictions.LoadLatest(c.Request.Context(), accessToken(c))
	if !res.OK() {
		if h.log != nil {
			h.log.Errorw("predictions_load_failed", "err", res.Err, "request_id", c.GetString(ctxRequestID))
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "failed to load predictions",
			"records": []models.PredictionRecord{},
		})
		return
	}

	records := service.FilterBySearchTerm(res.Records, c.Query("search"))
	if horizon == "" {
		c.JSON(http.StatusOK, gin.H{
			"count":   len(records),
			"records": records,
		})
		return
	}

	forecasts, err := service.ProjectHorizon(records, horizon)
	if err != nil {
		h.respondServiceError(c, "invalid horizon", "predictions_horizon_invalid", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(forecasts),
		"horizon": horizon,
		"records": forecasts,
	})
}
