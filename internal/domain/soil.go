package domain

import "math"

// SoilRecord carries lab or manually entered soil readings. Every field is
// optional; nil means unknown, not deficient, and unknown fields take no
// part in scoring or recommendations.
type SoilRecord struct {
	PH            *float64 `json:"ph,omitempty"`
	Nitrogen      *float64 `json:"nitrogen,omitempty"`       // kg/ha
	Phosphorus    *float64 `json:"phosphorus,omitempty"`     // kg/ha
	Potassium     *float64 `json:"potassium,omitempty"`      // kg/ha
	Moisture      *float64 `json:"moisture,omitempty"`       // volumetric %
	OrganicMatter *float64 `json:"organic_matter,omitempty"` // %
}

// SoilAssessment merges satellite-derived soil proxies with any manual
// readings. The four proxy fields are always set from the band sample;
// manual fields pass through untouched.
type SoilAssessment struct {
	MoistureIndex        float64 `json:"moisture_index"`         // NDMI
	BareSoilIndex        float64 `json:"bare_soil_index"`        // BSI
	VegetationCoverPct   int     `json:"vegetation_cover_pct"`   // 0-100
	EstimatedMoisturePct int     `json:"estimated_moisture_pct"` // 0-100

	PH            *float64 `json:"ph,omitempty"`
	Nitrogen      *float64 `json:"nitrogen,omitempty"`
	Phosphorus    *float64 `json:"phosphorus,omitempty"`
	Potassium     *float64 `json:"potassium,omitempty"`
	Moisture      *float64 `json:"moisture,omitempty"`
	OrganicMatter *float64 `json:"organic_matter,omitempty"`

	HealthScore     int      `json:"health_score"` // 0-100
	Recommendations []string `json:"recommendations,omitempty"`
}

// AnalyzeSoil derives soil condition from a band sample and an optional
// prior soil record. Works on an empty sample (all proxies degrade to
// their index-zero values) and never fails.
func AnalyzeSoil(bands BandSample, existing *SoilRecord) SoilAssessment {
	idx := ComputeAllIndices(bands)

	a := SoilAssessment{
		MoistureIndex:        idx.NDMI,
		BareSoilIndex:        idx.BSI,
		VegetationCoverPct:   clampInt(int(math.Round((idx.NDVI+1)/2*100)), 0, 100),
		EstimatedMoisturePct: clampInt(int(math.Round((idx.NDMI+0.5)*80)), 0, 100),
	}

	if existing != nil {
		a.PH = copyFloat(existing.PH)
		a.Nitrogen = copyFloat(existing.Nitrogen)
		a.Phosphorus = copyFloat(existing.Phosphorus)
		a.Potassium = copyFloat(existing.Potassium)
		a.Moisture = copyFloat(existing.Moisture)
		a.OrganicMatter = copyFloat(existing.OrganicMatter)
	}

	a.Recommendations = soilRecommendations(a)
	a.HealthScore = soilHealthScore(a)
	return a
}

// soilRecommendations applies every qualifying amendment rule
// independently; rules over absent manual fields are skipped.
func soilRecommendations(a SoilAssessment) []string {
	var recs []string

	if a.EstimatedMoisturePct < 30 {
		recs = append(recs, "Soil moisture is low: irrigate soon")
	}
	if a.BareSoilIndex > 0.3 {
		recs = append(recs, "High bare soil fraction: sow a cover crop to protect topsoil")
	}
	if a.PH != nil && *a.PH < 5.5 {
		recs = append(recs, "Acidic soil: apply agricultural lime")
	}
	if a.PH != nil && *a.PH > 8.0 {
		recs = append(recs, "Alkaline soil: apply elemental sulfur")
	}
	if a.Nitrogen != nil && *a.Nitrogen < 150 {
		recs = append(recs, "Nitrogen deficit: apply urea or another nitrogen source")
	}
	if a.Phosphorus != nil && *a.Phosphorus < 20 {
		recs = append(recs, "Phosphorus deficit: apply single superphosphate")
	}
	if a.Potassium != nil && *a.Potassium < 150 {
		recs = append(recs, "Potassium deficit: apply muriate of potash")
	}
	if a.OrganicMatter != nil && *a.OrganicMatter < 2 {
		recs = append(recs, "Low organic matter: add compost or plough in green manure")
	}

	return recs
}

func soilHealthScore(a SoilAssessment) int {
	score := 50

	if a.EstimatedMoisturePct >= 30 && a.EstimatedMoisturePct <= 70 {
		score += 15
	} else {
		score -= 5
	}
	if a.VegetationCoverPct > 60 {
		score += 10
	}
	if a.PH != nil && *a.PH >= 6.0 && *a.PH <= 7.5 {
		score += 10
	}
	if a.OrganicMatter != nil && *a.OrganicMatter > 3 {
		score += 10
	}
	if a.Nitrogen != nil && *a.Nitrogen >= 200 {
		score += 5
	}

	return clampInt(score, 0, 100)
}

// copyFloat detaches an optional value from the caller's record so later
// mutation upstream cannot alter the assessment.
func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
