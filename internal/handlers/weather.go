package handlers

import (
	"net/http"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const errStartInvalid = "invalid 'start' time; use RFC3339 or YYYY-MM-DD"

// @Summary      Weather readings
// @Description  Stateless query over the weather table. Does not touch the dashboard state.
// @Tags         weather
// @Produce      json
// @Param        cities  query     string  false  "Comma-separated city names; empty or All means every city"  example(Tokyo,Lima)
// @Param        range   query     string  false  "Preset time range"  Enums(all,today,week)
// @Param        start   query     string  false  "Custom range start (RFC3339 or YYYY-MM-DD); used with range=all"
// @Success      200     {object}  map[string]interface{}  "filter, count, readings, stats, chart"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/weather/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	filter := models.DashboardFilter{
		SelectedCities: splitList(c.Query("cities")),
		TimeRangeType:  c.Query("range"),
	}
	if qs := c.Query("start"); qs != "" {
		start, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errStartInvalid})
			return
		}
		filter.DateRange.Start = start
	}

	nf, err := h.services.Weather.NormalizeFilter(filter)
	if err != nil {
		h.respondServiceError(c, "invalid filter", "weather_filter_invalid", err)
		return
	}

	readings, err := h.services.Weather.LoadReadings(c.Request.Context(), accessToken(c), nf)
	if err != nil {
		h.respondServiceError(c, "failed to load weather data", "weather_readings_failed", err, "cities", nf.SelectedCities)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter":   nf,
		"count":    len(readings),
		"readings": readings,
		"stats":    service.Summarize(readings),
		"chart":    service.BuildChartSeries(readings, nf),
	})
}
