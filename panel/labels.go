package panel

import (
	"fmt"
	"time"

	"weather-panel/models"
)

const (
	noticeFound    = "City found!"
	noticeNotFound = "An error occurred, please try again"
)

// TemperatureLabels returns the Temperature panel texts in display order
func TemperatureLabels(s models.WeatherSnapshot) []string {
	return []string{
		"Condition: " + s.ConditionMain,
		fmt.Sprintf("Temperature: %d°F", models.KelvinToFahrenheit(s.TempCurrentK)),
		fmt.Sprintf("Min Temperature: %d°F", models.KelvinToFahrenheit(s.TempMinK)),
		fmt.Sprintf("Max Temperature: %d°F", models.KelvinToFahrenheit(s.TempMaxK)),
		fmt.Sprintf("Feels Like Temperature: %d°F", models.KelvinToFahrenheit(s.TempFeelsLikeK)),
	}
}

// OtherLabels returns the Other panel texts in display order.
// sunOffset is applied to sunrise and sunset before formatting.
func OtherLabels(s models.WeatherSnapshot, sunOffset time.Duration) []string {
	return []string{
		fmt.Sprintf("Pressure: %d hPa", s.PressureHPa),
		fmt.Sprintf("Humidity: %d%%", s.HumidityPct),
		"Wind: " + models.FormatWindSpeed(s.WindSpeed) + " Meter/Second",
		"Sunrise: " + models.FormatSunTime(s.SunriseUnix, sunOffset),
		"Sunset: " + models.FormatSunTime(s.SunsetUnix, sunOffset),
	}
}

// PanelLabels returns the labels for mode, nil for ModeNone
func PanelLabels(mode models.Mode, s models.WeatherSnapshot, sunOffset time.Duration) []string {
	switch mode {
	case models.ModeTemperature:
		return TemperatureLabels(s)
	case models.ModeOther:
		return OtherLabels(s, sunOffset)
	default:
		return nil
	}
}
