package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"weather-panel/datasource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"WEATHER_API_KEY", "WEATHER_BASE_URL", "WEATHER_ICON_BASE_URL",
	"WEATHER_REQUEST_TIMEOUT", "WEATHER_ICON_CACHE_TTL", "NOTICE_DURATION",
	"SUN_OFFSET", "RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"HTTP_ADDR", "LOG_LEVEL",
}

// clearConfigEnv unsets every variable Load reads and restores them afterwards
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, datasource.DefaultOpenWeatherMapURL, cfg.WeatherBaseURL)
	assert.Equal(t, datasource.DefaultIconURL, cfg.IconBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.NoticeDuration)
	assert.Equal(t, -7*time.Hour, cfg.SunOffset)
	assert.Equal(t, 24*time.Hour, cfg.IconCacheTTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 1.0, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("WEATHER_API_KEY", "abc123")
	t.Setenv("WEATHER_BASE_URL", "http://localhost:9999/data/")
	t.Setenv("NOTICE_DURATION", "2s")
	t.Setenv("SUN_OFFSET", "0s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("HTTP_ADDR", "127.0.0.1:8089")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.APIKey)
	assert.Equal(t, "http://localhost:9999/data", cfg.WeatherBaseURL)
	assert.Equal(t, 2*time.Second, cfg.NoticeDuration)
	assert.Equal(t, time.Duration(0), cfg.SunOffset)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "127.0.0.1:8089", cfg.HTTPAddr)
}

func TestLoadEnvFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEATHER_API_KEY=&appid=fromfile\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.APIKey)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{"zero notice duration", map[string]string{"NOTICE_DURATION": "0s"}},
		{"negative timeout", map[string]string{"WEATHER_REQUEST_TIMEOUT": "-1s"}},
		{"zero burst", map[string]string{"RATE_LIMIT_BURST": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestNormalizeAPIKey(t *testing.T) {
	assert.Equal(t, "k", NormalizeAPIKey("k"))
	assert.Equal(t, "k", NormalizeAPIKey("&appid=k"))
	assert.Equal(t, "k", NormalizeAPIKey(" appid=k \n"))
	assert.Equal(t, "", NormalizeAPIKey(""))
}
