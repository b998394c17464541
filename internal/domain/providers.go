package domain

import (
	"context"
	"time"
)

// BandReading is one band data provider response.
type BandReading struct {
	Sample     BandSample
	Source     string // e.g. "sentinel-2", "synthetic"
	AcquiredAt time.Time
	CloudCover float64 // percent
}

// BandProvider supplies surface reflectance for a field. Implementations
// may fall back to synthetic data; the Source field records which path
// produced the sample.
type BandProvider interface {
	FetchBands(ctx context.Context, bounds BoundingBox) (BandReading, error)
}

// WeatherProvider supplies current conditions for a sampling point.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, location Geo) (WeatherSnapshot, error)
}
