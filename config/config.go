// Package config loads application settings from the environment, an
// optional .env file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"weather-panel/datasource"
	"weather-panel/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration
type Config struct {
	APIKey         string
	WeatherBaseURL string
	IconBaseURL    string

	RequestTimeout time.Duration
	NoticeDuration time.Duration
	SunOffset      time.Duration
	IconCacheTTL   time.Duration

	RateLimit struct {
		Enabled bool
		RPS     float64
		Burst   int
	}

	HTTPAddr string
	LogLevel string
}

func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// Load reads envFile (if it exists) into the process environment and then
// resolves every setting from the environment over the defaults.
func Load(envFile string) (*Config, error) {
	log := logger.GetLogger()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			log.Debugw("No env file found", "path", envFile)
		}
	}

	v := viper.New()
	v.SetDefault("WEATHER.BASE_URL", datasource.DefaultOpenWeatherMapURL)
	v.SetDefault("WEATHER.ICON_BASE_URL", datasource.DefaultIconURL)
	v.SetDefault("WEATHER.REQUEST_TIMEOUT", "10s")
	v.SetDefault("WEATHER.ICON_CACHE_TTL", "24h")
	v.SetDefault("UI.NOTICE_DURATION", "5s")
	v.SetDefault("UI.SUN_OFFSET", "-7h")
	// OpenWeatherMap free tier allows 60 calls/minute
	v.SetDefault("RATE_LIMIT.ENABLED", true)
	v.SetDefault("RATE_LIMIT.RPS", 1.0)
	v.SetDefault("RATE_LIMIT.BURST", 5)
	v.SetDefault("HTTP.ADDR", "")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"WEATHER.API_KEY", "WEATHER_API_KEY"},
		{"WEATHER.BASE_URL", "WEATHER_BASE_URL"},
		{"WEATHER.ICON_BASE_URL", "WEATHER_ICON_BASE_URL"},
		{"WEATHER.REQUEST_TIMEOUT", "WEATHER_REQUEST_TIMEOUT"},
		{"WEATHER.ICON_CACHE_TTL", "WEATHER_ICON_CACHE_TTL"},
		{"UI.NOTICE_DURATION", "NOTICE_DURATION"},
		{"UI.SUN_OFFSET", "SUN_OFFSET"},
		{"RATE_LIMIT.ENABLED", "RATE_LIMIT_ENABLED"},
		{"RATE_LIMIT.RPS", "RATE_LIMIT_RPS"},
		{"RATE_LIMIT.BURST", "RATE_LIMIT_BURST"},
		{"HTTP.ADDR", "HTTP_ADDR"},
		{"LOG_LEVEL", "LOG_LEVEL"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:         NormalizeAPIKey(v.GetString("WEATHER.API_KEY")),
		WeatherBaseURL: strings.TrimRight(v.GetString("WEATHER.BASE_URL"), "/"),
		IconBaseURL:    strings.TrimRight(v.GetString("WEATHER.ICON_BASE_URL"), "/"),
		RequestTimeout: v.GetDuration("WEATHER.REQUEST_TIMEOUT"),
		IconCacheTTL:   v.GetDuration("WEATHER.ICON_CACHE_TTL"),
		NoticeDuration: v.GetDuration("UI.NOTICE_DURATION"),
		SunOffset:      v.GetDuration("UI.SUN_OFFSET"),
		HTTPAddr:       v.GetString("HTTP.ADDR"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}
	cfg.RateLimit.Enabled = v.GetBool("RATE_LIMIT.ENABLED")
	cfg.RateLimit.RPS = v.GetFloat64("RATE_LIMIT.RPS")
	cfg.RateLimit.Burst = v.GetInt("RATE_LIMIT.BURST")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		log.Warnw("WEATHER_API_KEY is not set, lookups will be rejected by the API")
	}
	log.Debugw("Configuration loaded",
		"weatherBaseURL", cfg.WeatherBaseURL,
		"iconBaseURL", cfg.IconBaseURL,
		"rateLimit", cfg.RateLimit.Enabled,
		"httpAddr", cfg.HTTPAddr)

	return cfg, nil
}

// Validate checks the values that would otherwise break the app at runtime.
// A missing API key is deliberately not an error.
func (c *Config) Validate() error {
	if c.WeatherBaseURL == "" {
		return errors.New("weather base URL must not be empty")
	}
	if c.IconBaseURL == "" {
		return errors.New("icon base URL must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.NoticeDuration <= 0 {
		return fmt.Errorf("notice duration must be positive, got %s", c.NoticeDuration)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("invalid rate limit: rps=%v burst=%d", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}

// NormalizeAPIKey accepts either a bare key or the legacy "&appid=<key>"
// query fragment and returns the bare key.
func NormalizeAPIKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.TrimPrefix(key, "&")
	key = strings.TrimPrefix(key, "appid=")
	return key
}
