package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weather_dashboard/internal/cities"
	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository"
)

// PredictionResult separates "no data" from "fetch failed": Err is set only
// on failure, and Records is then empty.
type PredictionResult struct {
	Records []models.PredictionRecord
	Err     error
}

// OK reports whether the fetch succeeded.
func (r PredictionResult) OK() bool { return r.Err == nil }

type PredictionService struct {
	repo   repository.PredictionRepo
	cities *cities.Table
	paging Paging
	log    *logger.Logger
}

func NewPredictionService(repo repository.PredictionRepo, table *cities.Table, paging Paging, log *logger.Logger) *PredictionService {
	if log == nil {
		log = logger.Nop()
	}
	return &PredictionService{repo: repo, cities: table, paging: paging.withDefaults(), log: log}
}

var _ Predictions = (*PredictionService)(nil)

// LoadLatest returns the most recently created prediction of every city,
// enriched with city metadata when the city is known.
func (s *PredictionService) LoadLatest(ctx context.Context, accessToken string) PredictionResult {
	seen := make(map[string]bool)
	records := make([]models.PredictionRecord, 0)
	fetched := 0

	for offset := 0; offset < s.paging.MaxRows; offset += s.paging.PageSize {
		limit := s.paging.PageSize
		if remaining := s.paging.MaxRows - offset; remaining < limit {
			limit = remaining
		}
		page, err := s.repo.FetchPage(ctx, accessToken, offset, limit)
		if err != nil {
			s.log.Errorw("predictions_load_failed", "offset", offset, "err", err)
			return PredictionResult{Records: []models.PredictionRecord{}, Err: fmt.Errorf("load predictions at offset %d: %w", offset, err)}
		}
		fetched += len(page)
		for _, rec := range page {
			if seen[rec.City] {
				continue
			}
			seen[rec.City] = true
			records = append(records, s.enrich(rec))
		}
		if len(page) < limit {
			break
		}
	}

	s.log.Infow("predictions_loaded", "rows", fetched, "cities", len(records))
	return PredictionResult{Records: records}
}

func (s *PredictionService) enrich(rec models.PredictionRecord) models.PredictionRecord {
	if s.cities == nil {
		return rec
	}
	meta, ok := s.cities.Lookup(rec.City)
	if !ok {
		return rec
	}
	lat, lon, country := meta.Latitude, meta.Longitude, meta.Country
	rec.Latitude, rec.Longitude, rec.Country = &lat, &lon, &country
	return rec
}

// FilterBySearchTerm keeps records whose city or country contains term,
// ignoring case. An empty term returns records unchanged.
func FilterBySearchTerm(records []models.PredictionRecord, term string) []models.PredictionRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := make([]models.PredictionRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.City), term) ||
			(rec.Country != nil && strings.Contains(strings.ToLower(*rec.Country), term)) {
			out = append(out, rec)
		}
	}
	return out
}

// ProjectHorizon flattens records to the forecast of a single horizon.
// Records without that horizon are skipped.
func ProjectHorizon(records []models.PredictionRecord, horizon string) ([]models.HorizonForecast, error) {
	offset, err := horizonOffset(horizon)
	if err != nil {
		return nil, err
	}
	out := make([]models.HorizonForecast, 0, len(records))
	for _, rec := range records {
		hv, ok := rec.PredictionResults.Horizons[horizon]
		if !ok {
			continue
		}
		base := rec.PredictionResults.Timestamp
		if base.IsZero() {
			base = rec.CreatedAt
		}
		f := models.HorizonForecast{
			City:          rec.City,
			Latitude:      rec.Latitude,
			Longitude:     rec.Longitude,
			Horizon:       horizon,
			PredictedFor:  base.Add(offset).UTC(),
			Temperature:   hv.Temperature,
			Humidity:      hv.Humidity,
			ModelType:     rec.ModelType,
			AccuracyScore: rec.AccuracyScore,
			CreatedAt:     rec.CreatedAt,
		}
		if rec.Country != nil {
			f.Country = *rec.Country
		}
		out = append(out, f)
	}
	return out, nil
}

func horizonOffset(horizon string) (time.Duration, error) {
	for _, h := range models.Horizons {
		if h == horizon {
			return time.ParseDuration(h)
		}
	}
	return 0, invalid("horizon", fmt.Sprintf("unknown horizon %q: must be one of %s", horizon, strings.Join(models.Horizons, ", ")))
}
