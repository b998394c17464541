package weather

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "test-key", 2*time.Second, slog.Default(), nil)
}

func TestClient_CurrentWeather(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"main": {"temp": 31.4, "humidity": 78},
			"wind": {"speed": 3.2},
			"rain": {"1h": 2.5}
		}`))
	}))
	defer server.Close()

	snapshot, err := newTestClient(server.URL).CurrentWeather(context.Background(), domain.Geo{Lat: 28.505, Lon: 77.105})
	require.NoError(t, err)

	assert.Equal(t, 31.4, snapshot.TemperatureC)
	assert.Equal(t, 78.0, snapshot.HumidityPct)
	assert.Equal(t, 2.5, snapshot.RainfallMM)
	assert.Equal(t, 3.2, snapshot.WindSpeedMPS)

	assert.Equal(t, []string{"28.505000"}, gotQuery["lat"])
	assert.Equal(t, []string{"test-key"}, gotQuery["appid"])
	assert.Equal(t, []string{"metric"}, gotQuery["units"])
}

func TestClient_CurrentWeather_NoRainField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main": {"temp": 18.0, "humidity": 40}, "wind": {"speed": 1.1}}`))
	}))
	defer server.Close()

	snapshot, err := newTestClient(server.URL).CurrentWeather(context.Background(), domain.Geo{})
	require.NoError(t, err)

	assert.Zero(t, snapshot.RainfallMM, "dry conditions omit the rain block")
	assert.Equal(t, 18.0, snapshot.TemperatureC)
}

func TestClient_CurrentWeather_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentWeather(context.Background(), domain.Geo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_CurrentWeather_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentWeather(context.Background(), domain.Geo{})
	require.Error(t, err)
}
