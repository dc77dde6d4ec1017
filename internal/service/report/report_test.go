package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepsisai/clinical-api/internal/model"
)

func fixedFormatter() *Formatter {
	f := NewFormatter()
	f.now = func() time.Time {
		return time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	}
	return f
}

func sepsisResult() *model.AssessmentResult {
	return &model.AssessmentResult{
		ID:          "a1",
		PatientName: "Jordan Reyes",
		PatientAge:  "67",
		Vitals: model.VitalSigns{
			HR: 120, O2Sat: 88, Resp: 28, Temp: 39.2, MAP: 55, WBC: 18, Platelets: 85,
		},
		IsSepsis:    true,
		RiskScore:   100,
		RiskFactors: []string{"Tachycardia", "Hypoxemia", "Hypotension"},
		DisplayDate: "3/14/2025, 3:09:26 PM",
	}
}

func TestRenderSepsisReport(t *testing.T) {
	text := fixedFormatter().Render(sepsisResult(), nil, "doc@example.org")

	assert.Contains(t, text, "SEPSIS DETECTION CLINICAL REPORT")
	assert.Contains(t, text, "Generated: 3/14/2025, 3:09:26 PM")
	assert.Contains(t, text, "Physician: doc@example.org")

	assert.Contains(t, text, "Name: Jordan Reyes")
	assert.Contains(t, text, "Age: 67")
	assert.Contains(t, text, "Gender: Not specified")

	assert.Contains(t, text, "HR: 120")
	assert.Contains(t, text, "Platelets: 85")

	assert.Contains(t, text, "Diagnosis: SEPSIS DETECTED (CRITICAL)")
	assert.Contains(t, text, "Risk Score: 100/100")
	assert.Contains(t, text, "Risk Level: HIGH RISK")
	assert.Contains(t, text, "1. Tachycardia")
	assert.Contains(t, text, "3. Hypotension")
}

func TestRenderNegativeReport(t *testing.T) {
	res := sepsisResult()
	res.IsSepsis = false
	res.RiskScore = 15
	res.RiskFactors = nil

	text := fixedFormatter().Render(res, nil, "")

	assert.Contains(t, text, "Diagnosis: SEPSIS NEGATIVE")
	assert.Contains(t, text, "Risk Level: LOW RISK")
	assert.Contains(t, text, "None identified")
	assert.Contains(t, text, "Physician: Not specified")
	assert.Contains(t, text, "Age: 67")
}

func TestRenderModelPerformanceTable(t *testing.T) {
	text := fixedFormatter().Render(sepsisResult(), nil, "doc@example.org")

	assert.Contains(t, text, "MODEL PERFORMANCE METRICS")
	assert.Contains(t, text, "Accuracy            85.2%        92.1%        +6.9%")
	assert.Contains(t, text, "AUC-ROC             87.8%        94.2%        +6.4%")
	assert.Contains(t, text, "Balanced Accuracy   84.5%        91.9%        +7.4%")
}

func TestRenderRecommendationsSection(t *testing.T) {
	recs := &model.RecommendationSet{RawCombined: "NUTRITIONAL INTERVENTION\n- eat well"}

	with := fixedFormatter().Render(sepsisResult(), recs, "doc@example.org")
	assert.Contains(t, with, "AI-GENERATED CLINICAL RECOMMENDATIONS")
	assert.Contains(t, with, "- eat well")
	assert.Contains(t, with, "DISCLAIMER")

	without := fixedFormatter().Render(sepsisResult(), nil, "doc@example.org")
	assert.NotContains(t, without, "AI-GENERATED CLINICAL RECOMMENDATIONS")
	assert.NotContains(t, without, "DISCLAIMER")
}

func TestRenderFooter(t *testing.T) {
	text := fixedFormatter().Render(sepsisResult(), nil, "doc@example.org")
	assert.True(t, strings.Contains(text, "Report Generated by SepsisAI Clinical Platform"))
	assert.True(t, strings.HasSuffix(text, heavyRule))
}

func TestFilename(t *testing.T) {
	name := fixedFormatter().Filename(sepsisResult())
	require.True(t, strings.HasPrefix(name, "SepsisAI_Report_Jordan_Reyes_"))
	assert.True(t, strings.HasSuffix(name, ".txt"))
	assert.NotContains(t, name, " ")
}

func TestFilenameCollapsesWhitespaceRuns(t *testing.T) {
	res := sepsisResult()
	res.PatientName = "  Jordan \t De  La Cruz "

	name := fixedFormatter().Filename(res)
	require.True(t, strings.HasPrefix(name, "SepsisAI_Report_Jordan_De_La_Cruz_"))
	assert.NotContains(t, name, "__")
	assert.NotContains(t, name, "\t")
}
