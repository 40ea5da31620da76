package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weather_dashboard/internal/cities"
	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/metrics"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository"
)

// DisplayDateLayout renders reading timestamps as MM/dd HH:mm.
const DisplayDateLayout = "01/02 15:04"

// Preset window lengths.
const (
	todayWindow = 24 * time.Hour
	weekWindow  = 7 * 24 * time.Hour
)

type WeatherService struct {
	repo   repository.WeatherRepo
	cities *cities.Table
	paging Paging
	log    *logger.Logger
	now    func() time.Time
}

func NewWeatherService(repo repository.WeatherRepo, table *cities.Table, paging Paging, log *logger.Logger) *WeatherService {
	if log == nil {
		log = logger.Nop()
	}
	return &WeatherService{
		repo:   repo,
		cities: table,
		paging: paging.withDefaults(),
		log:    log,
		now:    time.Now,
	}
}

var _ Weather = (*WeatherService)(nil)

// ResolveTimeRange returns the start instant of a preset range. The zero
// time means no lower bound.
func ResolveTimeRange(rangeType string, now time.Time) (time.Time, error) {
	switch rangeType {
	case models.RangeAll, "":
		return time.Time{}, nil
	case models.RangeToday:
		return now.Add(-todayWindow).UTC(), nil
	case models.RangeWeek:
		return now.Add(-weekWindow).UTC(), nil
	default:
		return time.Time{}, invalid("timeRangeType", fmt.Sprintf("unknown time range %q: must be all, today or week", rangeType))
	}
}

// NormalizeFilter collapses the city selection and fills the date range of
// preset time ranges. An empty selection, or one containing "All", becomes
// ["All"]. Duplicate and blank city names are dropped.
func (s *WeatherService) NormalizeFilter(f models.DashboardFilter) (models.DashboardFilter, error) {
	out := models.DashboardFilter{
		TimeRangeType: strings.ToLower(strings.TrimSpace(f.TimeRangeType)),
		DateRange:     f.DateRange,
	}
	if out.TimeRangeType == "" {
		out.TimeRangeType = models.RangeAll
	}

	if f.IsAll() {
		out.SelectedCities = []string{models.AllCities}
	} else {
		seen := make(map[string]bool, len(f.SelectedCities))
		for _, c := range f.SelectedCities {
			c = strings.TrimSpace(c)
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out.SelectedCities = append(out.SelectedCities, c)
		}
		if len(out.SelectedCities) == 0 {
			out.SelectedCities = []string{models.AllCities}
		}
	}

	now := s.now()
	start, err := ResolveTimeRange(out.TimeRangeType, now)
	if err != nil {
		return models.DashboardFilter{}, err
	}
	if out.TimeRangeType != models.RangeAll {
		out.DateRange = models.DateRange{Start: start, End: now.UTC()}
	}
	if !out.DateRange.Start.IsZero() && !out.DateRange.End.IsZero() && out.DateRange.Start.After(out.DateRange.End) {
		return models.DashboardFilter{}, invalid("dateRange", "date range start must not be after its end")
	}
	return out, nil
}

// LoadReadings fetches the readings matching filter, newest first, one page at
// a time until a short page or the row ceiling. Any failed page aborts the
// whole load.
func (s *WeatherService) LoadReadings(ctx context.Context, accessToken string, filter models.DashboardFilter) ([]models.EnrichedReading, error) {
	q := repository.WeatherQuery{}
	if !filter.IsAll() {
		q.Cities = filter.SelectedCities
	}
	switch {
	case !filter.DateRange.Start.IsZero():
		q.Since = filter.DateRange.Start
	case filter.TimeRangeType != "" && filter.TimeRangeType != models.RangeAll:
		start, err := ResolveTimeRange(filter.TimeRangeType, s.now())
		if err != nil {
			return nil, err
		}
		q.Since = start
	}

	var out []models.EnrichedReading
	pages := 0
	for offset := 0; offset < s.paging.MaxRows; offset += s.paging.PageSize {
		limit := s.paging.PageSize
		if remaining := s.paging.MaxRows - offset; remaining < limit {
			limit = remaining
		}
		q.Offset, q.Limit = offset, limit

		page, err := s.repo.FetchPage(ctx, accessToken, q)
		pages++
		if err != nil {
			s.log.Errorw("weather_page_failed", "offset", offset, "pages", pages, "err", err)
			return nil, fmt.Errorf("load weather readings at offset %d: %w", offset, err)
		}
		if out == nil {
			out = make([]models.EnrichedReading, 0, len(page))
		}
		for _, r := range page {
			out = append(out, Enrich(r, s.cities))
		}
		s.log.Debugw("weather_page_fetched", "offset", offset, "rows", len(page))
		if len(page) < limit {
			break
		}
	}
	if out == nil {
		out = []models.EnrichedReading{}
	}

	metrics.WeatherRowsLoaded.Add(float64(len(out)))
	s.log.Infow("weather_loaded", "rows", len(out), "pages", pages, "cities", len(q.Cities))
	return out, nil
}

// DewPoint approximates the dew point from temperature (°C) and relative
// humidity (%).
func DewPoint(temperature, humidity float64) float64 {
	return temperature - ((100 - humidity) / 5)
}

// Enrich appends the derived display fields to r without touching its own.
func Enrich(r models.WeatherReading, table *cities.Table) models.EnrichedReading {
	country := cities.UnknownCountry
	if table != nil {
		country = table.Country(r.City)
	}
	return models.EnrichedReading{
		WeatherReading: r,
		DisplayDate:    r.WeatherTimestamp.UTC().Format(DisplayDateLayout),
		Country:        country,
		DewPoint:       DewPoint(r.Temperature, r.Humidity),
	}
}
