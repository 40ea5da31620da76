package models

import "time"

// Forecast horizons carried by every prediction record.
const (
	Horizon30m  = "30m"
	Horizon60m  = "60m"
	Horizon120m = "120m"
)

// Horizons lists the supported horizons in ascending order.
var Horizons = []string{Horizon30m, Horizon60m, Horizon120m}

// HorizonValue is the forecast for one horizon.
type HorizonValue struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// PredictionResults is the JSON payload stored by the ML pipeline.
type PredictionResults struct {
	Timestamp time.Time               `json:"timestamp"`
	Horizons  map[string]HorizonValue `json:"horizons"`
}

// PredictionRecord is one row of the predictions table. Latitude, Longitude
// and Country are filled from the city metadata table and stay nil for
// unknown cities.
type PredictionRecord struct {
	ID                int64             `json:"id"`
	City              string            `json:"city"`
	ModelType         string            `json:"model_type"`
	AccuracyScore     *float64          `json:"accuracy_score"`
	CreatedAt         time.Time         `json:"created_at"`
	PredictionResults PredictionResults `json:"prediction_results"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Country   *string  `json:"country,omitempty"`
}

// HorizonForecast flattens a prediction record for a single horizon.
type HorizonForecast struct {
	City          string    `json:"city"`
	Country       string    `json:"country,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Horizon       string    `json:"horizon"`
	PredictedFor  time.Time `json:"predicted_for"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	ModelType     string    `json:"model_type"`
	AccuracyScore *float64  `json:"accuracy_score"`
	CreatedAt     time.Time `json:"created_at"`
}
