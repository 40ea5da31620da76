package service

import (
	"sort"

	"weather_dashboard/internal/models"
)

// summaryListSize is the length of each ranking list.
const summaryListSize = 5

// latestPerCity keeps the first reading of every city. Input is newest first,
// so the first occurrence is the most recent one.
func latestPerCity(readings []models.EnrichedReading) []models.EnrichedReading {
	seen := make(map[string]bool)
	out := make([]models.EnrichedReading, 0)
	for _, r := range readings {
		if seen[r.City] {
			continue
		}
		seen[r.City] = true
		out = append(out, r)
	}
	return out
}

// rankBy returns up to summaryListSize entries ordered by value. Ties keep
// their input order.
func rankBy(latest []models.EnrichedReading, value func(models.EnrichedReading) float64, descending bool) []models.CityValue {
	sorted := make([]models.EnrichedReading, len(latest))
	copy(sorted, latest)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return value(sorted[i]) > value(sorted[j])
		}
		return value(sorted[i]) < value(sorted[j])
	})

	n := len(sorted)
	if n > summaryListSize {
		n = summaryListSize
	}
	out := make([]models.CityValue, 0, n)
	for _, r := range sorted[:n] {
		out = append(out, models.CityValue{City: r.City, Country: r.Country, Value: value(r)})
	}
	return out
}

func temperatureOf(r models.EnrichedReading) float64 { return r.Temperature }
func humidityOf(r models.EnrichedReading) float64    { return r.Humidity }

// Summarize reduces readings to one per city and ranks them. Empty input
// yields empty lists and zero counts.
func Summarize(readings []models.EnrichedReading) models.SummaryStats {
	latest := latestPerCity(readings)

	countries := make(map[string]bool)
	for _, r := range latest {
		countries[r.Country] = true
	}

	return models.SummaryStats{
		MaxTemps:       rankBy(latest, temperatureOf, true),
		MinTemps:       rankBy(latest, temperatureOf, false),
		MaxHumidity:    rankBy(latest, humidityOf, true),
		MinHumidity:    rankBy(latest, humidityOf, false),
		TotalCountries: len(countries),
		TotalCities:    len(latest),
	}
}

// BuildChartSeries shapes readings for display. With "All" or several cities
// selected it returns the latest reading per city in alphabetical order; with
// exactly one city it returns that city's readings oldest first.
func BuildChartSeries(readings []models.EnrichedReading, filter models.DashboardFilter) models.ChartSeries {
	if filter.IsAll() || len(filter.SelectedCities) > 1 {
		points := latestPerCity(readings)
		sort.SliceStable(points, func(i, j int) bool { return points[i].City < points[j].City })
		return models.ChartSeries{Mode: models.ChartComparison, Points: points}
	}

	city := filter.SelectedCities[0]
	points := make([]models.EnrichedReading, 0)
	for _, r := range readings {
		if r.City == city {
			points = append(points, r)
		}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].WeatherTimestamp.Before(points[j].WeatherTimestamp)
	})
	return models.ChartSeries{Mode: models.ChartTrend, City: city, Points: points}
}
