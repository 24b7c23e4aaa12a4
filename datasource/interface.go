package datasource

import (
	"context"
	"errors"

	"weather-panel/models"
)

// ErrCityNotFound is returned when the API answers with cod "404"
var ErrCityNotFound = errors.New("city not found")

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// GetWeather fetches current weather for a city name
	GetWeather(ctx context.Context, city string) (models.WeatherSnapshot, error)

	// Name returns the provider's name
	Name() string
}

// IconSource fetches and decodes condition icons
type IconSource interface {
	// FetchIcon downloads the icon identified by code
	FetchIcon(ctx context.Context, code string) (models.Icon, error)

	// Name returns the source's name
	Name() string
}
