package models

import "time"

// WeatherReading is one row of the gateway's weather table.
type WeatherReading struct {
	ID               int64     `json:"id"`
	City             string    `json:"city"`
	Temperature      float64   `json:"temperature"` // °C
	Humidity         float64   `json:"humidity"`    // percent, 0..100
	WeatherTimestamp time.Time `json:"weather_timestamp"`
	DataSource       string    `json:"data_source"`
}

// EnrichedReading is a WeatherReading plus the fields derived at read time.
type EnrichedReading struct {
	WeatherReading
	DisplayDate string  `json:"displayDate"` // MM/dd HH:mm
	Country     string  `json:"country"`     // "Unknown" when the city is not in the metadata table
	DewPoint    float64 `json:"dewPoint"`
}

// CityValue is a single ranked entry in the summary lists.
type CityValue struct {
	City    string  `json:"city"`
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

// SummaryStats holds the per-city rankings shown on the dashboard cards.
type SummaryStats struct {
	MaxTemps       []CityValue `json:"maxTemps"`
	MinTemps       []CityValue `json:"minTemps"`
	MaxHumidity    []CityValue `json:"maxHumidity"`
	MinHumidity    []CityValue `json:"minHumidity"`
	TotalCountries int         `json:"totalCountries"`
	TotalCities    int         `json:"totalCities"`
}

// Chart modes.
const (
	ChartComparison = "comparison" // latest reading per city, alphabetical
	ChartTrend      = "trend"      // one city, oldest to newest
)

// ChartSeries is the chart-ready projection of a set of readings.
type ChartSeries struct {
	Mode   string            `json:"mode"`
	City   string            `json:"city,omitempty"`
	Points []EnrichedReading `json:"points"`
}
