package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-panel/logger"
	"weather-panel/models"
)

// DefaultOpenWeatherMapURL is the current-weather API root. config uses it
// as the default for WEATHER_BASE_URL.
const DefaultOpenWeatherMapURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherMapProvider fetches current weather from OpenWeatherMap
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Ensure OpenWeatherMapProvider implements WeatherProvider
var _ WeatherProvider = (*OpenWeatherMapProvider)(nil)

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider.
// An empty baseURL selects DefaultOpenWeatherMapURL.
func NewOpenWeatherMapProvider(apiKey, baseURL string, timeout time.Duration) *OpenWeatherMapProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherMapURL
	}
	return &OpenWeatherMapProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

// currentWeatherResponse mirrors the fields read from /weather. Pointers
// distinguish a missing field from a zero value.
type currentWeatherResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
	Weather []struct {
		Main *string `json:"main"`
		Icon *string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		TempMin   *float64 `json:"temp_min"`
		TempMax   *float64 `json:"temp_max"`
		FeelsLike *float64 `json:"feels_like"`
		Pressure  *float64 `json:"pressure"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *json.Number `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
}

// code returns cod as text whether the API sent it as a string or a number
func (r *currentWeatherResponse) code() string {
	raw := bytes.TrimSpace(r.Cod)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// GetWeather fetches current weather for a city
func (p *OpenWeatherMapProvider) GetWeather(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	log := logger.GetLogger()

	// Build URL
	endpoint := fmt.Sprintf("%s/weather", p.baseURL)
	params := url.Values{}
	params.Add("q", city)
	params.Add("appid", p.apiKey)

	log.Debugw("Requesting current weather", "endpoint", endpoint, "city", city)

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}

	// Execute request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("failed to read response body: %w", err)
	}

	// Parse before looking at the status: a 404 body still carries cod
	var response currentWeatherResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if response.code() == "404" {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}

	if resp.StatusCode != http.StatusOK {
		return models.WeatherSnapshot{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	snapshot, err := response.snapshot()
	if err != nil {
		return models.WeatherSnapshot{}, err
	}
	snapshot.City = city
	if response.Name != "" {
		snapshot.City = response.Name
	}
	snapshot.FetchedAt = time.Now()

	return snapshot, nil
}

// snapshot extracts the display fields, failing on the first one missing
func (r *currentWeatherResponse) snapshot() (models.WeatherSnapshot, error) {
	missing := func(field string) (models.WeatherSnapshot, error) {
		return models.WeatherSnapshot{}, fmt.Errorf("response is missing field %s", field)
	}

	if len(r.Weather) == 0 {
		return missing("weather[0]")
	}
	w := r.Weather[0]
	switch {
	case w.Icon == nil:
		return missing("weather[0].icon")
	case w.Main == nil:
		return missing("weather[0].main")
	case r.Main == nil:
		return missing("main")
	case r.Main.Temp == nil:
		return missing("main.temp")
	case r.Main.TempMin == nil:
		return missing("main.temp_min")
	case r.Main.TempMax == nil:
		return missing("main.temp_max")
	case r.Main.FeelsLike == nil:
		return missing("main.feels_like")
	case r.Main.Pressure == nil:
		return missing("main.pressure")
	case r.Main.Humidity == nil:
		return missing("main.humidity")
	case r.Wind == nil || r.Wind.Speed == nil:
		return missing("wind.speed")
	case r.Sys == nil || r.Sys.Sunrise == nil:
		return missing("sys.sunrise")
	case r.Sys.Sunset == nil:
		return missing("sys.sunset")
	}

	return models.WeatherSnapshot{
		ConditionCode:  *w.Icon,
		ConditionMain:  *w.Main,
		TempCurrentK:   *r.Main.Temp,
		TempMinK:       *r.Main.TempMin,
		TempMaxK:       *r.Main.TempMax,
		TempFeelsLikeK: *r.Main.FeelsLike,
		PressureHPa:    int(*r.Main.Pressure),
		HumidityPct:    int(*r.Main.Humidity),
		WindSpeed:      *r.Wind.Speed,
		SunriseUnix:    *r.Sys.Sunrise,
		SunsetUnix:     *r.Sys.Sunset,
	}, nil
}
