package domain

import (
	"fmt"
	"time"
)

// AlertPriority orders how urgently an alert should surface.
type AlertPriority string

const (
	PriorityUrgent  AlertPriority = "urgent"
	PriorityWarning AlertPriority = "warning"
	PriorityInfo    AlertPriority = "info"
)

// AlertCategory routes an alert to the right downstream view.
type AlertCategory string

const (
	CategoryHealth AlertCategory = "health"
	CategorySoil   AlertCategory = "soil"
	CategoryPest   AlertCategory = "pest"
)

// Alert expiry windows: urgent alerts demand action within days, warnings
// stay visible for a week.
const (
	urgentAlertTTL  = 3 * 24 * time.Hour
	warningAlertTTL = 7 * 24 * time.Hour
)

// AlertRecord is one alert destined for the persistence/presentation
// layer.
type AlertRecord struct {
	FarmID    string        `json:"farm_id"`
	UserID    string        `json:"user_id"`
	Category  AlertCategory `json:"category"`
	Priority  AlertPriority `json:"priority"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// GenerateAlerts derives alert records from a health assessment. A score
// below 25 raises an urgent alert, below 50 a warning; every high-severity
// problem raises its own urgent alert, with water stress routed to the
// soil category. Healthy assessments yield no alerts.
func GenerateAlerts(farmID, userID string, health HealthAssessment) []AlertRecord {
	now := clock.Now()
	var alerts []AlertRecord

	switch {
	case health.HealthScore < 25:
		alerts = append(alerts, AlertRecord{
			FarmID:    farmID,
			UserID:    userID,
			Category:  CategoryHealth,
			Priority:  PriorityUrgent,
			Title:     "Critical Crop Health",
			Message:   fmt.Sprintf("Crop health score has dropped to %d. Immediate field inspection required.", health.HealthScore),
			CreatedAt: now,
			ExpiresAt: now.Add(urgentAlertTTL),
		})
	case health.HealthScore < 50:
		alerts = append(alerts, AlertRecord{
			FarmID:    farmID,
			UserID:    userID,
			Category:  CategoryHealth,
			Priority:  PriorityWarning,
			Title:     "Low Crop Health",
			Message:   fmt.Sprintf("Crop health score is %d, below the healthy range.", health.HealthScore),
			CreatedAt: now,
			ExpiresAt: now.Add(warningAlertTTL),
		})
	}

	for _, p := range health.Problems {
		if p.Severity != SeverityHigh {
			continue
		}
		category := CategoryHealth
		if p.Type == ProblemWaterStress {
			category = CategorySoil
		}
		alerts = append(alerts, AlertRecord{
			FarmID:    farmID,
			UserID:    userID,
			Category:  category,
			Priority:  PriorityUrgent,
			Title:     problemAlertTitle(p.Type),
			Message:   p.Message,
			CreatedAt: now,
			ExpiresAt: now.Add(urgentAlertTTL),
		})
	}

	return alerts
}

// GeneratePestAlert derives an alert from a pest risk assessment. Only
// high risk produces an alert; it names the top-probability pest and
// expires with the assessment. Returns nil otherwise.
func GeneratePestAlert(farmID, userID string, pest PestRiskAssessment) *AlertRecord {
	if pest.RiskLevel != RiskHigh || len(pest.PestTypes) == 0 {
		return nil
	}

	top := pest.PestTypes[0]
	for _, p := range pest.PestTypes[1:] {
		if p.Probability > top.Probability {
			top = p
		}
	}

	return &AlertRecord{
		FarmID:    farmID,
		UserID:    userID,
		Category:  CategoryPest,
		Priority:  PriorityUrgent,
		Title:     "High Pest Outbreak Risk",
		Message:   fmt.Sprintf("%s outbreak likely (%.0f%% probability). Begin preventive treatment.", top.Name, top.Probability),
		CreatedAt: clock.Now(),
		ExpiresAt: pest.ValidUntil,
	}
}

func problemAlertTitle(t ProblemType) string {
	switch t {
	case ProblemLowNDVI:
		return "Severe Vegetation Loss"
	case ProblemWaterStress:
		return "Severe Water Stress"
	case ProblemBareSoil:
		return "Bare Soil Expansion"
	case ProblemDiseaseRisk:
		return "Disease Conditions"
	default:
		return "Field Problem Detected"
	}
}
