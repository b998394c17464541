package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
	"github.com/RanaDarpan/agrisense-analysis/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Client implements domain.WeatherProvider against an
// OpenWeatherMap-compatible current conditions API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a weather client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// CurrentWeather fetches current conditions at the given point, in
// metric units.
func (c *Client) CurrentWeather(ctx context.Context, location domain.Geo) (domain.WeatherSnapshot, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.6f", location.Lat)},
		"lon":   {fmt.Sprintf("%.6f", location.Lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observeDuration(time.Since(start))
	if err != nil {
		c.countFetch("error")
		return domain.WeatherSnapshot{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.countFetch("error")
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherSnapshot{}, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, body)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.countFetch("error")
		return domain.WeatherSnapshot{}, fmt.Errorf("decode response: %w", err)
	}

	c.countFetch("success")
	return domain.WeatherSnapshot{
		TemperatureC: apiResp.Main.Temp,
		HumidityPct:  apiResp.Main.Humidity,
		RainfallMM:   apiResp.Rain.OneHour,
		WindSpeedMPS: apiResp.Wind.Speed,
	}, nil
}

func (c *Client) countFetch(outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.WeatherFetches.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func (c *Client) observeDuration(d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ProviderDuration.With(prometheus.Labels{"provider": "weather"}).Observe(d.Seconds())
}

// OpenWeatherMap current weather response shape.

type response struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}
