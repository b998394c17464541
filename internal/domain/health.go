package domain

import "strings"

// CropStatus classifies overall crop condition from the health score.
type CropStatus string

const (
	StatusHealthy  CropStatus = "healthy"  // score >= 75
	StatusModerate CropStatus = "moderate" // score >= 50
	StatusPoor     CropStatus = "poor"     // score >= 25
	StatusCritical CropStatus = "critical"
)

// ProblemType identifies the condition a detection rule fired on.
type ProblemType string

const (
	ProblemLowNDVI     ProblemType = "low_ndvi"
	ProblemWaterStress ProblemType = "water_stress"
	ProblemBareSoil    ProblemType = "bare_soil"
	ProblemDiseaseRisk ProblemType = "disease_risk"
)

// Severity grades a detected problem.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Problem is one condition flagged by the health analysis. Ordering in a
// HealthAssessment follows detection order: vegetation, moisture, bare
// soil, disease risk.
type Problem struct {
	Type     ProblemType `json:"type"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

// HealthAssessment is the full output of one crop health analysis. Never
// mutated after construction.
type HealthAssessment struct {
	Indices         IndexSet   `json:"indices"`
	HealthScore     int        `json:"health_score"` // 0-100
	Status          CropStatus `json:"status"`
	Problems        []Problem  `json:"problems,omitempty"`
	Recommendations []string   `json:"recommendations,omitempty"`
}

const baseHealthScore = 50

// healthRule is one (predicate, delta) step of the additive health score.
// Rules run in declaration order; every qualifying rule fires.
type healthRule struct {
	delta   int
	applies func(idx IndexSet, w *WeatherSnapshot) bool
}

var healthScoreRules = []healthRule{
	// Vegetation vigour tiers (exactly one fires).
	{35, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.NDVI > 0.6 }},
	{25, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.NDVI > 0.4 && idx.NDVI <= 0.6 }},
	{15, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.NDVI > 0.2 && idx.NDVI <= 0.4 }},
	{5, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.NDVI <= 0.2 }},

	// Canopy moisture tiers (exactly one fires).
	{15, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.NDMI > 0.2 }},
	{10, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.NDMI > 0 && idx.NDMI <= 0.2 }},
	{3, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.NDMI <= 0 }},

	// Weather penalties, skipped when no snapshot is available.
	{-10, func(_ IndexSet, w *WeatherSnapshot) bool {
		return w != nil && (w.TemperatureC > 40 || w.TemperatureC < 5)
	}},
	{-5, func(_ IndexSet, w *WeatherSnapshot) bool {
		return w != nil && (w.HumidityPct > 90 || w.HumidityPct < 20)
	}},

	// Exposed soil penalty.
	{-10, func(idx IndexSet, _ *WeatherSnapshot) bool { return idx.BSI > 0.2 }},
}

// AnalyzeCropHealth scores crop condition from a band sample, an optional
// weather snapshot, and a crop type. A nil weather snapshot skips the
// weather adjustments; an empty or unknown crop type skips the per-crop
// advice. Total over numeric input; never fails.
func AnalyzeCropHealth(bands BandSample, weather *WeatherSnapshot, cropType string) HealthAssessment {
	idx := ComputeAllIndices(bands)

	score := baseHealthScore
	for _, rule := range healthScoreRules {
		if rule.applies(idx, weather) {
			score += rule.delta
		}
	}
	score = clampInt(score, 0, 100)

	problems := detectProblems(idx, weather)
	return HealthAssessment{
		Indices:         idx,
		HealthScore:     score,
		Status:          statusForScore(score),
		Problems:        problems,
		Recommendations: buildRecommendations(idx, weather, cropType, problems),
	}
}

func statusForScore(score int) CropStatus {
	switch {
	case score >= 75:
		return StatusHealthy
	case score >= 50:
		return StatusModerate
	case score >= 25:
		return StatusPoor
	default:
		return StatusCritical
	}
}

// detectProblems runs the detection rules in fixed order. Detection is
// independent of the score; several problems can coexist.
func detectProblems(idx IndexSet, weather *WeatherSnapshot) []Problem {
	var problems []Problem

	switch {
	case idx.NDVI < 0.2:
		problems = append(problems, Problem{
			Type:     ProblemLowNDVI,
			Severity: SeverityHigh,
			Message:  "Very low vegetation vigour; possible crop failure or bare field",
		})
	case idx.NDVI < 0.4:
		problems = append(problems, Problem{
			Type:     ProblemLowNDVI,
			Severity: SeverityMedium,
			Message:  "Vegetation vigour below the healthy range",
		})
	}

	switch {
	case idx.NDMI < -0.1:
		problems = append(problems, Problem{
			Type:     ProblemWaterStress,
			Severity: SeverityHigh,
			Message:  "Severe canopy water deficit detected",
		})
	case idx.NDMI < 0.1:
		problems = append(problems, Problem{
			Type:     ProblemWaterStress,
			Severity: SeverityMedium,
			Message:  "Canopy moisture is marginal",
		})
	}

	if idx.BSI > 0.3 {
		problems = append(problems, Problem{
			Type:     ProblemBareSoil,
			Severity: SeverityHigh,
			Message:  "Large exposed soil fraction within the field",
		})
	}

	if weather != nil && weather.HumidityPct > 85 && weather.TemperatureC > 20 {
		problems = append(problems, Problem{
			Type:     ProblemDiseaseRisk,
			Severity: SeverityMedium,
			Message:  "Warm humid conditions favour fungal disease",
		})
	}

	return problems
}

// cropRule is one entry of the static per-crop advice table.
type cropRule struct {
	applies func(idx IndexSet) bool
	advice  string
}

// cropAdviceTable keys lowercase crop types to their advice rules. Crop
// types not listed get no crop-specific advice.
var cropAdviceTable = map[string][]cropRule{
	"wheat": {
		{func(idx IndexSet) bool { return idx.NDVI < 0.5 }, "Apply nitrogen top dressing to lift tillering"},
	},
	"rice": {
		{func(idx IndexSet) bool { return idx.NDVI < 0.5 }, "Apply nitrogen top dressing at panicle initiation"},
	},
	"cotton": {
		{func(idx IndexSet) bool { return idx.NDMI < 0.1 }, "Keep soil moisture consistent through boll development"},
	},
	"sugarcane": {
		{func(idx IndexSet) bool { return idx.NDVI > 0.7 }, "Dense canopy: scout weekly for early borer infestation"},
	},
	"potato": {
		{func(idx IndexSet) bool { return idx.BSI > 0.2 }, "Exposed soil around tubers: check nutrient levels and hill up"},
	},
	"tomato": {
		{func(idx IndexSet) bool { return idx.BSI > 0.2 }, "Exposed soil in beds: check nutrient levels and mulch"},
	},
	"vegetable": {
		{func(idx IndexSet) bool { return idx.BSI > 0.2 }, "Exposed soil in beds: check nutrient levels and mulch"},
	},
}

// buildRecommendations assembles advice from problem-driven rules, weather
// rules, and the per-crop table, in that order.
func buildRecommendations(idx IndexSet, weather *WeatherSnapshot, cropType string, problems []Problem) []string {
	var recs []string

	for _, p := range problems {
		switch p.Type {
		case ProblemWaterStress:
			recs = append(recs, "Irrigate within the next few days and mulch to retain soil moisture")
		case ProblemLowNDVI:
			recs = append(recs, "Inspect the field for pest or nutrient damage; consider a balanced fertilizer application")
		}
	}

	if idx.NDVI > 0.6 && idx.NDMI > 0.2 {
		recs = append(recs, "Crop is thriving; maintain current irrigation and fertilization practices")
	}

	if weather != nil {
		if weather.RainfallMM > 30 {
			recs = append(recs, "Heavy recent rainfall: clear drainage channels to prevent waterlogging")
		}
		if weather.TemperatureC > 35 {
			recs = append(recs, "Heat stress likely: shift irrigation to early morning or evening")
		}
	}

	for _, rule := range cropAdviceTable[strings.ToLower(strings.TrimSpace(cropType))] {
		if rule.applies(idx) {
			recs = append(recs, rule.advice)
		}
	}

	return recs
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
