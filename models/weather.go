package models

import (
	"encoding/json"
	"image"
	"time"
)

// WeatherSnapshot holds the fields of one successful current-weather lookup.
// Temperatures are in Kelvin as returned by the API.
type WeatherSnapshot struct {
	City           string    `json:"city"`
	ConditionCode  string    `json:"conditionCode"`
	ConditionMain  string    `json:"conditionMain"`
	TempCurrentK   float64   `json:"tempCurrentK"`
	TempMinK       float64   `json:"tempMinK"`
	TempMaxK       float64   `json:"tempMaxK"`
	TempFeelsLikeK float64   `json:"tempFeelsLikeK"`
	PressureHPa    int       `json:"pressureHPa"`
	HumidityPct    int       `json:"humidityPct"`
	WindSpeed      json.Number `json:"windSpeed"`
	SunriseUnix    int64     `json:"sunriseUnix"`
	SunsetUnix     int64     `json:"sunsetUnix"`
	FetchedAt      time.Time `json:"fetchedAt"`
}

// Icon is a decoded condition icon
type Icon struct {
	Code  string
	MIME  string
	Image image.Image
}

// Size returns the native pixel size of the icon, zero if nothing is decoded
func (i Icon) Size() (width, height int) {
	if i.Image == nil {
		return 0, 0
	}
	b := i.Image.Bounds()
	return b.Dx(), b.Dy()
}
