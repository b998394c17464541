package sentinel

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

// Client implements domain.BandProvider against a Sentinel-2 band
// statistics API. When the API is unreachable, returns an error, or is
// not configured at all, the client falls back to deterministic
// synthetic reflectance so an analysis request never fails on band
// availability alone.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a band data client. An empty baseURL puts the client
// in synthetic-only mode.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchBands returns mean surface reflectance for the bounding box.
func (c *Client) FetchBands(ctx context.Context, bounds domain.BoundingBox) (domain.BandReading, error) {
	if c.baseURL == "" {
		reading := SyntheticReading(bounds)
		c.countFetch(reading.Source, "success")
		return reading, nil
	}

	reading, err := c.fetchRemote(ctx, bounds)
	if err != nil {
		c.countFetch("sentinel-2", "error")
		c.logger.Warn("band api fetch failed, using synthetic reflectance",
			"error", err,
		)
		reading = SyntheticReading(bounds)
		c.countFetch(reading.Source, "success")
		return reading, nil
	}

	if reading.Sample.IsEmpty() {
		c.countFetch("sentinel-2", "empty")
		reading = SyntheticReading(bounds)
		c.countFetch(reading.Source, "success")
		return reading, nil
	}

	c.countFetch(reading.Source, "success")
	return reading, nil
}

func (c *Client) fetchRemote(ctx context.Context, bounds domain.BoundingBox) (domain.BandReading, error) {
	params := url.Values{
		"min_lat": {fmt.Sprintf("%.6f", bounds.MinLat)},
		"min_lon": {fmt.Sprintf("%.6f", bounds.MinLon)},
		"max_lat": {fmt.Sprintf("%.6f", bounds.MaxLat)},
		"max_lon": {fmt.Sprintf("%.6f", bounds.MaxLon)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.BandReading{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observeDuration(time.Since(start))
	if err != nil {
		return domain.BandReading{}, fmt.Errorf("band stats request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.BandReading{}, fmt.Errorf("band API error: status %d: %s", resp.StatusCode, body)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return domain.BandReading{}, fmt.Errorf("decode response: %w", err)
	}

	// Several Sentinel-2 tiles can cover one field; the API returns one
	// sample per tile and the analysis consumes their mean.
	return domain.BandReading{
		Sample:     domain.MergeBandSamples(apiResp.Tiles),
		Source:     "sentinel-2",
		AcquiredAt: apiResp.AcquiredAt,
		CloudCover: apiResp.CloudCover,
	}, nil
}

func (c *Client) countFetch(source, outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.BandFetches.With(prometheus.Labels{"source": source, "outcome": outcome}).Inc()
}

func (c *Client) observeDuration(d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ProviderDuration.With(prometheus.Labels{"provider": "bands"}).Observe(d.Seconds())
}

// Band statistics API response shape.

type response struct {
	Tiles      []domain.BandSample `json:"tiles"`
	CloudCover float64             `json:"cloud_cover"`
	AcquiredAt time.Time           `json:"acquired_at"`
}
