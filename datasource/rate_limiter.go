package datasource

import (
	"context"
	"fmt"

	"weather-panel/models"

	"golang.org/x/time/rate"
)

// RateLimitedWeatherProvider wraps a WeatherProvider with rate limiting
type RateLimitedWeatherProvider struct {
	provider WeatherProvider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedWeatherProvider creates a new rate limited weather provider
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedWeatherProvider(provider WeatherProvider, rps float64, burst int) *RateLimitedWeatherProvider {
	return &RateLimitedWeatherProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// GetWeather fetches weather data, respecting rate limits
func (r *RateLimitedWeatherProvider) GetWeather(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.GetWeather(ctx, city)
}

// Name returns the provider name
func (r *RateLimitedWeatherProvider) Name() string {
	return r.name
}

// RateLimitedIconSource wraps an IconSource with rate limiting
type RateLimitedIconSource struct {
	source  IconSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedIconSource creates a new rate limited icon source
func NewRateLimitedIconSource(source IconSource, rps float64, burst int) *RateLimitedIconSource {
	return &RateLimitedIconSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchIcon fetches an icon, respecting rate limits
func (r *RateLimitedIconSource) FetchIcon(ctx context.Context, code string) (models.Icon, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Icon{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.FetchIcon(ctx, code)
}

// Name returns the source name
func (r *RateLimitedIconSource) Name() string {
	return r.name
}

// Verify that our rate limited types implement the required interfaces
var (
	_ WeatherProvider = (*RateLimitedWeatherProvider)(nil)
	_ IconSource      = (*RateLimitedIconSource)(nil)
)
