package repository

import (
	"context"
	"fmt"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository/gateway"
)

// PredictionGateway reads the predictions table through the row API.
type PredictionGateway struct {
	gw    *gateway.Client
	table string
}

func NewPredictionGateway(gw *gateway.Client, table string) *PredictionGateway {
	return &PredictionGateway{gw: gw, table: table}
}

var _ PredictionRepo = (*PredictionGateway)(nil)

type predictionRow struct {
	ID                int64    `json:"id"`
	City              string   `json:"city"`
	ModelType         string   `json:"model_type"`
	AccuracyScore     *float64 `json:"accuracy_score"`
	CreatedAt         string   `json:"created_at"`
	PredictionResults struct {
		Timestamp string                         `json:"timestamp"`
		Horizons  map[string]models.HorizonValue `json:"horizons"`
	} `json:"prediction_results"`
}

// FetchPage returns one page ordered by created_at descending.
func (r *PredictionGateway) FetchPage(ctx context.Context, accessToken string, offset, limit int) ([]models.PredictionRecord, error) {
	var rows []predictionRow
	err := r.gw.Select(ctx, accessToken, r.table, gateway.Query{
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]models.PredictionRecord, 0, len(rows))
	for _, row := range rows {
		created, err := parseTimestamp(row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("prediction row %d created_at: %w", row.ID, err)
		}
		rec := models.PredictionRecord{
			ID:            row.ID,
			City:          row.City,
			ModelType:     row.ModelType,
			AccuracyScore: row.AccuracyScore,
			CreatedAt:     created,
			PredictionResults: models.PredictionResults{
				Horizons: row.PredictionResults.Horizons,
			},
		}
		if row.PredictionResults.Timestamp != "" {
			ts, err := parseTimestamp(row.PredictionResults.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("prediction row %d timestamp: %w", row.ID, err)
			}
			rec.PredictionResults.Timestamp = ts
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *PredictionGateway) Count(ctx context.Context, accessToken string) (int, error) {
	return r.gw.Count(ctx, accessToken, r.table)
}
