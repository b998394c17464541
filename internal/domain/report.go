package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// RawMessage represents an unprocessed analysis request from the source
// topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// analysisRequestJSON is the wire shape published by the farm management
// backend. Polygon vertices use the GeoJSON [lon, lat] order.
type analysisRequestJSON struct {
	FarmID    string       `json:"farm_id"`
	UserID    string       `json:"user_id"`
	CropType  string       `json:"crop_type"`
	CropStage string       `json:"crop_stage"`
	Polygon   [][2]float64 `json:"polygon"`
	Soil      *SoilRecord  `json:"soil,omitempty"`
}

// AnalysisRequest is the domain representation after parsing.
type AnalysisRequest struct {
	FarmID    string
	UserID    string
	CropType  string
	CropStage GrowthStage
	Polygon   Polygon
	Soil      *SoilRecord
}

// ParseAnalysisRequest deserializes a raw message into an
// AnalysisRequest. The polygon must carry at least three vertices; an
// unknown growth stage falls back to vegetative.
func ParseAnalysisRequest(raw RawMessage) (AnalysisRequest, error) {
	var req analysisRequestJSON
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return AnalysisRequest{}, fmt.Errorf("parse analysis request: %w", err)
	}

	if req.FarmID == "" {
		return AnalysisRequest{}, fmt.Errorf("parse analysis request: missing farm_id")
	}

	polygon := make(Polygon, len(req.Polygon))
	for i, v := range req.Polygon {
		polygon[i] = Geo{Lon: v[0], Lat: v[1]}
	}
	if len(polygon.ring()) < 3 {
		return AnalysisRequest{}, fmt.Errorf("parse analysis request: polygon needs at least 3 vertices, got %d", len(polygon.ring()))
	}

	return AnalysisRequest{
		FarmID:    req.FarmID,
		UserID:    req.UserID,
		CropType:  req.CropType,
		CropStage: ParseGrowthStage(req.CropStage),
		Polygon:   polygon,
		Soil:      req.Soil,
	}, nil
}

// AnalysisReport is the assembled output of one analysis run, destined
// for the sink topic.
type AnalysisReport struct {
	ID        string      `json:"id"`
	FarmID    string      `json:"farm_id"`
	UserID    string      `json:"user_id,omitempty"`
	CropType  string      `json:"crop_type,omitempty"`
	CropStage GrowthStage `json:"crop_stage"`

	Centroid   Geo     `json:"centroid"`
	AreaHa     float64 `json:"area_ha"`
	BandSource string  `json:"band_source"`

	Bands   BandSample       `json:"bands"`
	Weather *WeatherSnapshot `json:"weather,omitempty"`

	Health HealthAssessment   `json:"health"`
	Soil   SoilAssessment     `json:"soil"`
	Pest   PestRiskAssessment `json:"pest"`
	Alerts []AlertRecord      `json:"alerts,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// AssembleReport runs the full analysis chain over already-fetched inputs
// and stamps a deterministic report ID. Weather may be nil.
func AssembleReport(req AnalysisRequest, reading BandReading, weather *WeatherSnapshot) AnalysisReport {
	centroid := req.Polygon.Centroid()
	now := clock.Now()

	health := AnalyzeCropHealth(reading.Sample, weather, req.CropType)
	soil := AnalyzeSoil(reading.Sample, req.Soil)
	pest := AssessPestRisk(health, weather, req.CropType, req.CropStage)

	alerts := GenerateAlerts(req.FarmID, req.UserID, health)
	if pestAlert := GeneratePestAlert(req.FarmID, req.UserID, pest); pestAlert != nil {
		alerts = append(alerts, *pestAlert)
	}

	return AnalysisReport{
		ID:          generateReportID(req.FarmID, centroid, now),
		FarmID:      req.FarmID,
		UserID:      req.UserID,
		CropType:    req.CropType,
		CropStage:   req.CropStage,
		Centroid:    centroid,
		AreaHa:      req.Polygon.AreaHectares(),
		BandSource:  reading.Source,
		Bands:       reading.Sample,
		Weather:     copyWeather(weather),
		Health:      health,
		Soil:        soil,
		Pest:        pest,
		Alerts:      alerts,
		ProcessedAt: now,
	}
}

// generateReportID produces a deterministic ID from the report's key
// fields. Deterministic IDs let downstream consumers upsert idempotently
// when a request is replayed within the same hour.
func generateReportID(farmID string, centroid Geo, at time.Time) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%s", farmID, centroid.Lat, centroid.Lon, at.UTC().Truncate(time.Hour).Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if farmID == "" {
		return short
	}
	return farmID + "-" + short
}

// copyWeather detaches the snapshot from the caller so upstream mutation
// cannot retroactively alter the report.
func copyWeather(w *WeatherSnapshot) *WeatherSnapshot {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}
