package recommendation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepsisai/clinical-api/internal/model"
)

func stableResult() *model.AssessmentResult {
	return &model.AssessmentResult{
		ID:          "a1",
		PatientName: "Sam Okafor",
		Vitals: model.VitalSigns{
			HR: 75, O2Sat: 98, Resp: 16, Temp: 36.8, MAP: 85, WBC: 7, Platelets: 250,
		},
		IsSepsis:  false,
		RiskScore: 0,
	}
}

func criticalResult() *model.AssessmentResult {
	return &model.AssessmentResult{
		ID:          "a2",
		PatientName: "Jordan Reyes",
		Vitals: model.VitalSigns{
			HR: 120, O2Sat: 88, Resp: 28, Temp: 39.2, MAP: 55, WBC: 18, Platelets: 85,
		},
		IsSepsis:    true,
		RiskScore:   100,
		RiskFactors: []string{"Tachycardia", "Hypoxemia", "Hypotension"},
	}
}

func TestBuildLocalIsDeterministic(t *testing.T) {
	a := BuildLocal(criticalResult())
	b := BuildLocal(criticalResult())
	assert.Equal(t, a, b)
}

func TestBuildLocalPopulatesEverySection(t *testing.T) {
	set := BuildLocal(stableResult())
	assert.NotEmpty(t, set.Nutrition)
	assert.NotEmpty(t, set.Therapy)
	assert.NotEmpty(t, set.Pharmacology)
	assert.NotEmpty(t, set.PrescriptionSummary)
	assert.Empty(t, set.SourceError)

	for _, header := range []string{headerNutrition, headerTherapy, headerPharmacology, headerPrescription} {
		assert.Contains(t, set.RawCombined, header)
	}
}

func TestBuildLocalConditionalBullets(t *testing.T) {
	stable := BuildLocal(stableResult())
	assert.Contains(t, stable.Nutrition, "adequate caloric intake")
	assert.NotContains(t, stable.Therapy, "Delay upright positioning")
	assert.NotContains(t, stable.Pharmacology, "supplemental oxygen")
	assert.NotContains(t, stable.Pharmacology, "Trend CBC")

	critical := BuildLocal(criticalResult())
	assert.Contains(t, critical.Nutrition, "aggressive caloric intake")
	assert.Contains(t, critical.Nutrition, "thermoregulation")
	assert.Contains(t, critical.Therapy, "Delay upright positioning until MAP ≥ 65 mmHg")
	assert.Contains(t, critical.Pharmacology, "supplemental oxygen")
	assert.Contains(t, critical.Pharmacology, "Trend CBC")
}

func TestBuildLocalPrescriptionSummary(t *testing.T) {
	set := BuildLocal(criticalResult())

	lines := strings.Split(set.PrescriptionSummary, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Risk Level: High (100/100)")
	assert.Contains(t, lines[1], "Tachycardia, Hypoxemia, Hypotension")
	assert.Contains(t, lines[2], "Aggressive resuscitation")
	assert.Contains(t, lines[3], "daily coagulation panel")
	assert.Contains(t, lines[4], "Escalation Plan")
}

func TestBuildLocalNoFactorsPlaceholder(t *testing.T) {
	set := BuildLocal(stableResult())
	assert.Contains(t, set.PrescriptionSummary, noFactorsLine)
	assert.Contains(t, set.PrescriptionSummary, "Maintenance fluids")
	assert.NotContains(t, set.PrescriptionSummary, "coagulation panel")
}

func TestBuildLocalRoundTripsThroughParser(t *testing.T) {
	// The local output must satisfy the same section contract the
	// remote response is held to.
	set := BuildLocal(criticalResult())

	for _, header := range knownHeaders {
		section, ok := extractSection(set.RawCombined, header)
		assert.True(t, ok, header)
		assert.NotEmpty(t, section)
	}
}
