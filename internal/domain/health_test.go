package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// thrivingBands yields NDVI=0.7, NDMI~0.31, BSI well below 0.2.
var thrivingBands = BandSample{B2: 500, B3: 800, B4: 600, B8: 3400, B11: 1800}

// stressedBands yields NDVI=0.1, NDMI=-0.2, BSI>0.2.
var stressedBands = BandSample{B2: 500, B3: 700, B4: 900, B8: 1100, B11: 1650}

func TestAnalyzeCropHealth_Thriving(t *testing.T) {
	weather := &WeatherSnapshot{TemperatureC: 25, HumidityPct: 60, RainfallMM: 5}

	health := AnalyzeCropHealth(thrivingBands, weather, "wheat")

	assert.Equal(t, 100, health.HealthScore)
	assert.Equal(t, StatusHealthy, health.Status)
	assert.Empty(t, health.Problems)
	assert.Contains(t, health.Recommendations,
		"Crop is thriving; maintain current irrigation and fertilization practices")
}

func TestAnalyzeCropHealth_Stressed(t *testing.T) {
	baseline := AnalyzeCropHealth(stressedBands, nil, "")
	heatWave := AnalyzeCropHealth(stressedBands, &WeatherSnapshot{TemperatureC: 45, HumidityPct: 50}, "")

	assert.Equal(t, baseline.HealthScore-10, heatWave.HealthScore,
		"extreme temperature must cost exactly 10 points")

	types := map[ProblemType]Severity{}
	for _, p := range heatWave.Problems {
		types[p.Type] = p.Severity
	}
	assert.Equal(t, SeverityHigh, types[ProblemLowNDVI])
	assert.Equal(t, SeverityHigh, types[ProblemWaterStress])
}

func TestAnalyzeCropHealth_ScoreTiers(t *testing.T) {
	tests := []struct {
		name     string
		bands    BandSample
		expected int
	}{
		// base 50 + NDVI tier + NDMI tier (+ BSI penalty where it applies).
		{"dense moist canopy", thrivingBands, 100},
		{"moderate canopy", BandSample{B2: 600, B3: 900, B4: 1100, B8: 2600, B11: 2400}, 85}, // NDVI .4054 -> +25, NDMI .04 -> +10
		{"sparse dry canopy", stressedBands, 48},                                             // +5 +3, BSI .2289 -> -10
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := AnalyzeCropHealth(tt.bands, nil, "")
			assert.Equal(t, tt.expected, health.HealthScore)
		})
	}
}

func TestAnalyzeCropHealth_ProblemDetectionOrder(t *testing.T) {
	// Stressed bands plus humid heat: low_ndvi, water_stress, bare_soil is
	// not reached (BSI < 0.3), disease_risk closes the list.
	weather := &WeatherSnapshot{TemperatureC: 28, HumidityPct: 90}

	health := AnalyzeCropHealth(stressedBands, weather, "")

	require.Len(t, health.Problems, 3)
	assert.Equal(t, ProblemLowNDVI, health.Problems[0].Type)
	assert.Equal(t, ProblemWaterStress, health.Problems[1].Type)
	assert.Equal(t, ProblemDiseaseRisk, health.Problems[2].Type)
}

func TestAnalyzeCropHealth_MissingWeather(t *testing.T) {
	assert.NotPanics(t, func() {
		health := AnalyzeCropHealth(stressedBands, nil, "")

		for _, p := range health.Problems {
			assert.NotEqual(t, ProblemDiseaseRisk, p.Type,
				"disease risk needs weather and must not fire without it")
		}
	})
}

func TestAnalyzeCropHealth_WeatherRecommendations(t *testing.T) {
	weather := &WeatherSnapshot{TemperatureC: 38, HumidityPct: 55, RainfallMM: 42}

	health := AnalyzeCropHealth(thrivingBands, weather, "")

	assert.Contains(t, health.Recommendations,
		"Heavy recent rainfall: clear drainage channels to prevent waterlogging")
	assert.Contains(t, health.Recommendations,
		"Heat stress likely: shift irrigation to early morning or evening")
}

func TestAnalyzeCropHealth_CropAdvice(t *testing.T) {
	tests := []struct {
		name     string
		bands    BandSample
		cropType string
		advice   string
	}{
		{"wheat low vigour", stressedBands, "wheat", "Apply nitrogen top dressing to lift tillering"},
		{"rice low vigour", stressedBands, "Rice", "Apply nitrogen top dressing at panicle initiation"},
		{"cotton dry canopy", stressedBands, "cotton", "Keep soil moisture consistent through boll development"},
		{"sugarcane dense canopy", BandSample{B2: 500, B3: 800, B4: 600, B8: 3600, B11: 1800}, "sugarcane", "Dense canopy: scout weekly for early borer infestation"},
		{"potato exposed soil", stressedBands, "potato", "Exposed soil around tubers: check nutrient levels and hill up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := AnalyzeCropHealth(tt.bands, nil, tt.cropType)
			assert.Contains(t, health.Recommendations, tt.advice)
		})
	}
}

func TestAnalyzeCropHealth_UnknownCropSkipsAdvice(t *testing.T) {
	known := AnalyzeCropHealth(stressedBands, nil, "wheat")
	unknown := AnalyzeCropHealth(stressedBands, nil, "dragonfruit")

	assert.Less(t, len(unknown.Recommendations), len(known.Recommendations))
}

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected CropStatus
	}{
		{100, StatusHealthy},
		{75, StatusHealthy},
		{74, StatusModerate},
		{50, StatusModerate},
		{49, StatusPoor},
		{25, StatusPoor},
		{24, StatusCritical},
		{0, StatusCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusForScore(tt.score), "score %d", tt.score)
	}
}
