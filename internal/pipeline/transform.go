package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
)

// FarmAnalyzer implements Analyzer by wiring the geo helpers, the external
// providers, and the assessment chain together.
type FarmAnalyzer struct {
	bands   domain.BandProvider
	weather domain.WeatherProvider
	logger  *slog.Logger
}

// NewAnalyzer creates a FarmAnalyzer. Pass a nil weather provider to run
// without weather-based adjustments.
func NewAnalyzer(bands domain.BandProvider, weather domain.WeatherProvider, logger *slog.Logger) *FarmAnalyzer {
	return &FarmAnalyzer{
		bands:   bands,
		weather: weather,
		logger:  logger,
	}
}

// Analyze parses the request, gathers band and weather inputs, and runs
// the assessment chain. A weather failure degrades gracefully to a nil
// snapshot; a band failure fails the request, since every assessment
// depends on the sample.
func (a *FarmAnalyzer) Analyze(ctx context.Context, raw domain.RawMessage) (domain.AnalysisReport, error) {
	req, err := domain.ParseAnalysisRequest(raw)
	if err != nil {
		return domain.AnalysisReport{}, err
	}

	reading, err := a.bands.FetchBands(ctx, req.Polygon.Bounds())
	if err != nil {
		return domain.AnalysisReport{}, fmt.Errorf("fetch bands for farm %s: %w", req.FarmID, err)
	}

	var weather *domain.WeatherSnapshot
	if a.weather != nil {
		snapshot, err := a.weather.CurrentWeather(ctx, req.Polygon.Centroid())
		if err != nil {
			a.logger.Warn("weather fetch failed, analyzing without weather",
				"farm_id", req.FarmID,
				"error", err,
			)
		} else {
			weather = &snapshot
		}
	}

	return domain.AssembleReport(req, reading, weather), nil
}
