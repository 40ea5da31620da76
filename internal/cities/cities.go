// Package cities holds the static city metadata table used to enrich
// weather readings and predictions.
package cities

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"weather_dashboard/internal/models"
)

// UnknownCountry is reported for cities missing from the table.
const UnknownCountry = "Unknown"

//go:embed cities.json
var embedded []byte

type entry struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Table is a read-only city name -> metadata mapping. Lookups are exact and
// case-sensitive.
type Table struct {
	byName map[string]models.CityMeta
	names  []string
}

var (
	defaultTable *Table
	defaultErr   error
	once         sync.Once
)

// Default returns the process-wide table parsed from the embedded data.
// The data is parsed on first use; a corrupt table panics since the binary
// cannot work without it.
func Default() *Table {
	once.Do(func() {
		defaultTable, defaultErr = Parse(embedded)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("cities: embedded table: %v", defaultErr))
	}
	return defaultTable
}

// Parse builds a Table from a JSON array of {city, country, latitude, longitude}.
func Parse(data []byte) (*Table, error) {
	var rows []entry
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode city table: %w", err)
	}
	t := &Table{
		byName: make(map[string]models.CityMeta, len(rows)),
		names:  make([]string, 0, len(rows)),
	}
	for i, r := range rows {
		if r.City == "" {
			return nil, fmt.Errorf("city table row %d: empty city name", i)
		}
		if _, dup := t.byName[r.City]; dup {
			return nil, fmt.Errorf("city table row %d: duplicate city %q", i, r.City)
		}
		t.byName[r.City] = models.CityMeta{
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		}
		t.names = append(t.names, r.City)
	}
	sort.Strings(t.names)
	return t, nil
}

// Lookup returns the metadata for an exact city name.
func (t *Table) Lookup(city string) (models.CityMeta, bool) {
	m, ok := t.byName[city]
	return m, ok
}

// Country returns the city's country, or UnknownCountry.
func (t *Table) Country(city string) string {
	if m, ok := t.byName[city]; ok {
		return m.Country
	}
	return UnknownCountry
}

// Names returns all city names sorted alphabetically.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of cities in the table.
func (t *Table) Len() int { return len(t.names) }
