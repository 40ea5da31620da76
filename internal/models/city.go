package models

// CityMeta is the static metadata for one supported city.
type CityMeta struct {
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
