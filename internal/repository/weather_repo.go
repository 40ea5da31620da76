package repository

import (
	"context"
	"fmt"
	"time"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository/gateway"
)

const weatherTimestampColumn = "weather_timestamp"

// WeatherGateway reads the weather table through the row API.
type WeatherGateway struct {
	gw    *gateway.Client
	table string
}

func NewWeatherGateway(gw *gateway.Client, table string) *WeatherGateway {
	return &WeatherGateway{gw: gw, table: table}
}

var _ WeatherRepo = (*WeatherGateway)(nil)

type weatherRow struct {
	ID               int64   `json:"id"`
	City             string  `json:"city"`
	Temperature      float64 `json:"temperature"`
	Humidity         float64 `json:"humidity"`
	WeatherTimestamp string  `json:"weather_timestamp"`
	DataSource       string  `json:"data_source"`
}

// FetchPage returns one page ordered by weather_timestamp descending.
func (r *WeatherGateway) FetchPage(ctx context.Context, accessToken string, q WeatherQuery) ([]models.WeatherReading, error) {
	query := gateway.Query{
		OrderBy: weatherTimestampColumn,
		Desc:    true,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	if len(q.Cities) > 0 {
		query.Filters = append(query.Filters, gateway.In("city", q.Cities))
	}
	if !q.Since.IsZero() {
		query.Filters = append(query.Filters, gateway.Gte(weatherTimestampColumn, q.Since.UTC().Format(time.RFC3339)))
	}

	var rows []weatherRow
	if err := r.gw.Select(ctx, accessToken, r.table, query, &rows); err != nil {
		return nil, err
	}

	out := make([]models.WeatherReading, 0, len(rows))
	for _, row := range rows {
		ts, err := parseTimestamp(row.WeatherTimestamp)
		if err != nil {
			return nil, fmt.Errorf("weather row %d: %w", row.ID, err)
		}
		out = append(out, models.WeatherReading{
			ID:               row.ID,
			City:             row.City,
			Temperature:      row.Temperature,
			Humidity:         row.Humidity,
			WeatherTimestamp: ts,
			DataSource:       row.DataSource,
		})
	}
	return out, nil
}

func (r *WeatherGateway) Count(ctx context.Context, accessToken string) (int, error) {
	return r.gw.Count(ctx, accessToken, r.table)
}
