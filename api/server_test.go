package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"weather-panel/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*SnapshotStore, *httptest.Server) {
	t.Helper()
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_lookups_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	store := NewSnapshotStore()
	srv := httptest.NewServer(NewServer(store, reg, "", models.DefaultSunOffset).Handler())
	t.Cleanup(srv.Close)
	return store, srv
}

func TestCurrentWeatherBeforeLookup(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/weather/current")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestCurrentWeatherAfterLookup(t *testing.T) {
	store, srv := newTestServer(t)
	store.UpdateSnapshot(models.WeatherSnapshot{City: "Denver", ConditionMain: "Clear", TempCurrentK: 300, SunriseUnix: 1700000000})
	store.UpdateSnapshot(models.WeatherSnapshot{City: "Oslo", ConditionMain: "Snow", TempCurrentK: 260, SunriseUnix: 1700000000})
	assert.Equal(t, 2, store.Updates())

	resp, err := http.Get(srv.URL + "/api/weather/current")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body currentWeatherResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Oslo", body.Snapshot.City)
	assert.Equal(t, 8, body.Display.TemperatureF)
	assert.Equal(t, "03:13:20", body.Display.Sunrise)
}

func TestCurrentWeatherRejectsPost(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/weather/current", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "test_lookups_total 1")
}
