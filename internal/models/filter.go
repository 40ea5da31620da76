package models

import "time"

// AllCities is the sentinel selection meaning "no city restriction".
const AllCities = "All"

// Time range presets.
const (
	RangeAll   = "all"
	RangeToday = "today"
	RangeWeek  = "week"
)

// DateRange is an optional window; zero values mean unbounded.
type DateRange struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// DashboardFilter is the filter state of one user's dashboard.
type DashboardFilter struct {
	SelectedCities []string  `json:"selectedCities"`
	TimeRangeType  string    `json:"timeRangeType"`
	DateRange      DateRange `json:"dateRange"`
}

// DefaultFilter returns the filter a fresh or reset dashboard starts with.
func DefaultFilter() DashboardFilter {
	return DashboardFilter{
		SelectedCities: []string{AllCities},
		TimeRangeType:  RangeAll,
	}
}

// IsAll reports whether the selection applies no city restriction.
func (f DashboardFilter) IsAll() bool {
	if len(f.SelectedCities) == 0 {
		return true
	}
	for _, c := range f.SelectedCities {
		if c == AllCities {
			return true
		}
	}
	return false
}
