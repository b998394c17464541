package domain

import (
	"strings"
	"time"
)

// RiskLevel is the coarse pest-outbreak classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"    // score < 40
	RiskMedium RiskLevel = "medium" // score >= 40
	RiskHigh   RiskLevel = "high"   // score >= 70
)

// GrowthStage is the phenological phase of the crop cycle.
type GrowthStage string

const (
	StageSeedling   GrowthStage = "seedling"
	StageVegetative GrowthStage = "vegetative"
	StageFlowering  GrowthStage = "flowering"
	StageFruiting   GrowthStage = "fruiting"
	StageMaturity   GrowthStage = "maturity"
)

// ParseGrowthStage normalizes a stage string, defaulting to vegetative for
// unknown or empty input.
func ParseGrowthStage(s string) GrowthStage {
	switch stage := GrowthStage(strings.ToLower(strings.TrimSpace(s))); stage {
	case StageSeedling, StageVegetative, StageFlowering, StageFruiting, StageMaturity:
		return stage
	default:
		return StageVegetative
	}
}

// TreatmentMethod categorizes a suggested treatment.
type TreatmentMethod string

const (
	TreatmentChemical   TreatmentMethod = "chemical"
	TreatmentOrganic    TreatmentMethod = "organic"
	TreatmentBiological TreatmentMethod = "biological"
	TreatmentCultural   TreatmentMethod = "cultural"
)

// PestPrediction names one likely pest with its outbreak probability.
type PestPrediction struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"` // percent, clamped to 95
	Description string  `json:"description"`
}

// Treatment is one suggested intervention.
type Treatment struct {
	Method      TreatmentMethod `json:"method"`
	Description string          `json:"description"`
	Timing      string          `json:"timing"`
}

// PestRiskAssessment is the output of one pest risk analysis.
type PestRiskAssessment struct {
	RiskScore      int              `json:"risk_score"` // 0-100
	RiskLevel      RiskLevel        `json:"risk_level"`
	Confidence     int              `json:"confidence"` // 0-100
	PestTypes      []PestPrediction `json:"pest_types,omitempty"`
	PreventionTips []string         `json:"prevention_tips,omitempty"`
	Treatments     []Treatment      `json:"treatments,omitempty"`
	CropStage      GrowthStage      `json:"crop_stage"`
	ValidUntil     time.Time        `json:"valid_until"`
}

// pestValidity is the fixed forecast horizon regardless of risk level.
const pestValidity = 7 * 24 * time.Hour

// riskRule is one (predicate, delta) step of the additive risk score.
type riskRule struct {
	delta   int
	applies func(idx IndexSet, w *WeatherSnapshot, stage GrowthStage) bool
}

var pestRiskRules = []riskRule{
	// Insect activity peaks in the 25-35°C window.
	{15, func(_ IndexSet, w *WeatherSnapshot, _ GrowthStage) bool {
		return w != nil && w.TemperatureC >= 25 && w.TemperatureC <= 35
	}},
	{15, func(_ IndexSet, w *WeatherSnapshot, _ GrowthStage) bool {
		return w != nil && w.HumidityPct > 70
	}},
	{10, func(_ IndexSet, w *WeatherSnapshot, _ GrowthStage) bool {
		return w != nil && w.HumidityPct > 85
	}},
	{5, func(_ IndexSet, w *WeatherSnapshot, _ GrowthStage) bool {
		return w != nil && w.RainfallMM > 20
	}},

	// Weak vegetation is more susceptible (tiers exclusive).
	{15, func(idx IndexSet, _ *WeatherSnapshot, _ GrowthStage) bool { return idx.NDVI < 0.3 }},
	{8, func(idx IndexSet, _ *WeatherSnapshot, _ GrowthStage) bool { return idx.NDVI >= 0.3 && idx.NDVI < 0.5 }},

	// Reproductive stages attract the most pests.
	{10, func(_ IndexSet, _ *WeatherSnapshot, stage GrowthStage) bool {
		return stage == StageFlowering || stage == StageFruiting
	}},
}

// AssessPestRisk scores pest-outbreak likelihood from a health assessment,
// optional weather, crop type, and growth stage. A nil weather snapshot
// skips the weather terms. The assessment is valid for seven days.
func AssessPestRisk(health HealthAssessment, weather *WeatherSnapshot, cropType string, stage GrowthStage) PestRiskAssessment {
	score := 20
	for _, rule := range pestRiskRules {
		if rule.applies(health.Indices, weather, stage) {
			score += rule.delta
		}
	}
	score = clampInt(score, 0, 100)

	level := riskLevelForScore(score)
	return PestRiskAssessment{
		RiskScore:      score,
		RiskLevel:      level,
		Confidence:     clampInt(60+score/5, 0, 100),
		PestTypes:      predictPests(cropType, level),
		PreventionTips: preventionTips(level),
		Treatments:     suggestedTreatments(level),
		CropStage:      stage,
		ValidUntil:     clock.Now().Add(pestValidity),
	}
}

func riskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// pestCatalog holds base outbreak probabilities per crop type. Crop types
// without an entry fall back to the default generalists.
var pestCatalog = map[string][]PestPrediction{
	"wheat": {
		{Name: "Aphids", Probability: 60, Description: "Sap-sucking colonies on stems and ears"},
		{Name: "Armyworm", Probability: 45, Description: "Larvae defoliating leaves overnight"},
		{Name: "Termites", Probability: 30, Description: "Root and stem base damage in dry spells"},
	},
	"rice": {
		{Name: "Stem borer", Probability: 65, Description: "Dead hearts and whiteheads in tillers"},
		{Name: "Brown planthopper", Probability: 55, Description: "Hopper burn at the crop base"},
		{Name: "Leaf folder", Probability: 40, Description: "Folded leaves with scraped tissue"},
	},
	"cotton": {
		{Name: "Bollworm", Probability: 70, Description: "Larvae boring into squares and bolls"},
		{Name: "Whitefly", Probability: 55, Description: "Honeydew, sooty mould, and leaf curl virus"},
		{Name: "Pink bollworm", Probability: 45, Description: "Rosetted flowers and damaged lint"},
	},
	"corn": {
		{Name: "Fall armyworm", Probability: 65, Description: "Ragged whorl feeding and frass"},
		{Name: "Corn borer", Probability: 50, Description: "Tunnelled stalks and broken tassels"},
		{Name: "Cutworm", Probability: 35, Description: "Seedlings cut at the soil line"},
	},
	"tomato": {
		{Name: "Whitefly", Probability: 65, Description: "Vector of leaf curl virus"},
		{Name: "Fruit borer", Probability: 55, Description: "Entry holes in green and ripening fruit"},
		{Name: "Leaf miner", Probability: 40, Description: "Serpentine mines in leaflets"},
	},
	"default": {
		{Name: "Aphids", Probability: 50, Description: "Sap-sucking colonies on tender growth"},
		{Name: "Caterpillars", Probability: 40, Description: "Chewing damage on leaves and shoots"},
		{Name: "Mites", Probability: 30, Description: "Stippling and webbing on leaf undersides"},
	},
}

// riskMultipliers scale catalog probabilities by risk level.
var riskMultipliers = map[RiskLevel]float64{
	RiskHigh:   1.3,
	RiskMedium: 1.0,
	RiskLow:    0.6,
}

// predictPests returns the crop's pest candidates with probabilities
// scaled by risk level and clamped to 95%.
func predictPests(cropType string, level RiskLevel) []PestPrediction {
	candidates, ok := pestCatalog[strings.ToLower(strings.TrimSpace(cropType))]
	if !ok {
		candidates = pestCatalog["default"]
	}

	mult := riskMultipliers[level]
	predictions := make([]PestPrediction, len(candidates))
	for i, c := range candidates {
		c.Probability = round4(clampFloat(c.Probability*mult, 0, 95))
		predictions[i] = c
	}
	return predictions
}

// preventionTips returns the baseline tips, extended at elevated risk.
func preventionTips(level RiskLevel) []string {
	tips := []string{
		"Scout the field at least twice a week",
		"Keep field borders free of weeds and crop residue",
		"Install pheromone traps to monitor pest pressure",
	}
	if level == RiskMedium || level == RiskHigh {
		tips = append(tips,
			"Increase scouting to daily during the risk window",
			"Prepare a preventive insecticide application",
		)
	}
	return tips
}

// suggestedTreatments returns the baseline treatment ladder; chemical
// control is only suggested at medium or high risk.
func suggestedTreatments(level RiskLevel) []Treatment {
	treatments := []Treatment{
		{Method: TreatmentCultural, Description: "Remove and destroy infested plant parts", Timing: "on detection"},
		{Method: TreatmentOrganic, Description: "Apply neem oil spray", Timing: "early morning or late evening"},
		{Method: TreatmentBiological, Description: "Release Trichogramma egg parasitoids", Timing: "at first moth catch"},
	}
	if level == RiskMedium || level == RiskHigh {
		treatments = append(treatments, Treatment{
			Method:      TreatmentChemical,
			Description: "Apply a labelled selective insecticide",
			Timing:      "when threshold is crossed, observing pre-harvest interval",
		})
	}
	return treatments
}
