package domain

import (
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alertTestTime = time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC)

func TestGenerateAlerts_CriticalHealth(t *testing.T) {
	restore := SetClock(clockwork.NewFakeClockAt(alertTestTime))
	defer restore()

	health := HealthAssessment{HealthScore: 10, Status: StatusCritical}

	alerts := GenerateAlerts("farm-1", "user-1", health)

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "farm-1", a.FarmID)
	assert.Equal(t, "user-1", a.UserID)
	assert.Equal(t, PriorityUrgent, a.Priority)
	assert.Equal(t, CategoryHealth, a.Category)
	assert.Equal(t, "Critical Crop Health", a.Title)
	assert.Contains(t, a.Message, strconv.Itoa(health.HealthScore))
	assert.Equal(t, alertTestTime.Add(3*24*time.Hour), a.ExpiresAt)
}

func TestGenerateAlerts_LowHealth(t *testing.T) {
	restore := SetClock(clockwork.NewFakeClockAt(alertTestTime))
	defer restore()

	alerts := GenerateAlerts("farm-1", "user-1", HealthAssessment{HealthScore: 40})

	require.Len(t, alerts, 1)
	assert.Equal(t, PriorityWarning, alerts[0].Priority)
	assert.Equal(t, "Low Crop Health", alerts[0].Title)
	assert.Equal(t, alertTestTime.Add(7*24*time.Hour), alerts[0].ExpiresAt)
}

func TestGenerateAlerts_HighSeverityProblems(t *testing.T) {
	health := HealthAssessment{
		HealthScore: 60,
		Problems: []Problem{
			{Type: ProblemWaterStress, Severity: SeverityHigh, Message: "Severe canopy water deficit detected"},
			{Type: ProblemBareSoil, Severity: SeverityHigh, Message: "Large exposed soil fraction within the field"},
			{Type: ProblemLowNDVI, Severity: SeverityMedium, Message: "Vegetation vigour below the healthy range"},
		},
	}

	alerts := GenerateAlerts("farm-1", "user-1", health)

	require.Len(t, alerts, 2, "only high-severity problems alert; score 60 adds none")
	assert.Equal(t, CategorySoil, alerts[0].Category, "water stress routes to the soil category")
	assert.Equal(t, PriorityUrgent, alerts[0].Priority)
	assert.Equal(t, CategoryHealth, alerts[1].Category)
}

func TestGenerateAlerts_HealthyNoAlerts(t *testing.T) {
	alerts := GenerateAlerts("farm-1", "user-1", HealthAssessment{HealthScore: 82, Status: StatusHealthy})

	assert.Empty(t, alerts)
}

func TestGeneratePestAlert(t *testing.T) {
	validUntil := alertTestTime.Add(7 * 24 * time.Hour)

	t.Run("high risk names the top pest", func(t *testing.T) {
		pest := PestRiskAssessment{
			RiskLevel: RiskHigh,
			PestTypes: []PestPrediction{
				{Name: "Whitefly", Probability: 84.5},
				{Name: "Bollworm", Probability: 91},
			},
			ValidUntil: validUntil,
		}

		alert := GeneratePestAlert("farm-1", "user-1", pest)

		require.NotNil(t, alert)
		assert.Equal(t, CategoryPest, alert.Category)
		assert.Equal(t, PriorityUrgent, alert.Priority)
		assert.Contains(t, alert.Message, "Bollworm")
		assert.Contains(t, alert.Message, "91%")
		assert.Equal(t, validUntil, alert.ExpiresAt)
	})

	t.Run("medium risk stays silent", func(t *testing.T) {
		pest := PestRiskAssessment{
			RiskLevel:  RiskMedium,
			PestTypes:  []PestPrediction{{Name: "Aphids", Probability: 50}},
			ValidUntil: validUntil,
		}

		assert.Nil(t, GeneratePestAlert("farm-1", "user-1", pest))
	})

	t.Run("no predictions, no alert", func(t *testing.T) {
		assert.Nil(t, GeneratePestAlert("farm-1", "user-1", PestRiskAssessment{RiskLevel: RiskHigh}))
	})
}
