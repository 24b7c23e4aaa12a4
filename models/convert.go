package models

import (
	"encoding/json"
	"time"
)

// DefaultSunOffset is the fixed offset applied to sunrise and sunset before display
const DefaultSunOffset = -7 * time.Hour

// KelvinToFahrenheit converts and truncates toward zero
func KelvinToFahrenheit(kelvin float64) int {
	return int((kelvin-273.15)*9/5 + 32)
}

// FormatSunTime shifts an epoch timestamp by offset and renders it as a
// 12-hour wall clock without AM/PM.
func FormatSunTime(epochSeconds int64, offset time.Duration) string {
	return time.Unix(epochSeconds, 0).UTC().Add(offset).Format("03:04:05")
}

// FormatWindSpeed prints the speed exactly as the API sent it, so 4 stays
// "4" and 4.0 stays "4.0"
func FormatWindSpeed(speed json.Number) string {
	if speed == "" {
		return "0"
	}
	return speed.String()
}
