package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sepsisai/clinical-api/internal/model"
)

const (
	heavyRule = "═══════════════════════════════════════════════════"
	lightRule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
)

// modelPerformance is the published PhysioNet-vs-VAE comparison table
// included in every exported report.
const modelPerformance = `Metric              PhysioNet    VAE Model    Improvement
Accuracy            85.2%        92.1%        +6.9%
Precision           80.5%        88.9%        +8.4%
Recall              88.0%        94.5%        +6.5%
F1 Score            84.1%        91.6%        +7.5%
Specificity         82.3%        89.3%        +7.0%
PR-AUC              86.5%        93.8%        +7.3%
AUC-ROC             87.8%        94.2%        +6.4%
Balanced Accuracy   84.5%        91.9%        +7.4%`

// Formatter renders plain-text clinical reports for download.
type Formatter struct {
	now func() time.Time
}

func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// Render formats one assessment, with optional recommendations, as a
// complete report. recs may be nil.
func (f *Formatter) Render(res *model.AssessmentResult, recs *model.RecommendationSet, physicianEmail string) string {
	var b strings.Builder

	if physicianEmail == "" {
		physicianEmail = "Not specified"
	}

	fmt.Fprintf(&b, "%s\n          SEPSIS DETECTION CLINICAL REPORT\n%s\n\n", heavyRule, heavyRule)
	fmt.Fprintf(&b, "Generated: %s\nPhysician: %s\n\n", f.now().Format("1/2/2006, 3:04:05 PM"), physicianEmail)

	section(&b, "PATIENT INFORMATION")
	fmt.Fprintf(&b, "Name: %s\n", res.PatientName)
	fmt.Fprintf(&b, "Age: %s\n", orDefault(res.PatientAge, "Not provided"))
	fmt.Fprintf(&b, "Gender: %s\n", orDefault(res.PatientGender, "Not specified"))
	fmt.Fprintf(&b, "Assessment Date: %s\n\n", res.DisplayDate)

	section(&b, "VITAL SIGNS")
	for _, r := range res.Vitals.Readings() {
		fmt.Fprintf(&b, "%s: %v\n", r.Name, r.Value)
	}
	b.WriteString("\n")

	section(&b, "CLINICAL ASSESSMENT")
	diagnosis := "SEPSIS NEGATIVE"
	if res.IsSepsis {
		diagnosis = "SEPSIS DETECTED (CRITICAL)"
	}
	fmt.Fprintf(&b, "Diagnosis: %s\n", diagnosis)
	fmt.Fprintf(&b, "Risk Score: %d/100\n", res.RiskScore)
	fmt.Fprintf(&b, "Risk Level: %s RISK\n\n", strings.ToUpper(string(res.Severity())))

	b.WriteString("Risk Factors Identified:\n")
	if len(res.RiskFactors) == 0 {
		b.WriteString("None identified\n\n")
	} else {
		for i, factor := range res.RiskFactors {
			fmt.Fprintf(&b, "%d. %s\n", i+1, factor)
		}
		b.WriteString("\n")
	}

	section(&b, "MODEL PERFORMANCE METRICS")
	b.WriteString(modelPerformance)
	b.WriteString("\n\n")

	if recs != nil && recs.RawCombined != "" {
		section(&b, "AI-GENERATED CLINICAL RECOMMENDATIONS")
		b.WriteString("\n")
		b.WriteString(recs.RawCombined)
		b.WriteString("\n\n⚠ DISCLAIMER: AI-generated recommendations must be\nreviewed by licensed medical professional.\n\n")
	}

	fmt.Fprintf(&b, "%s\nReport Generated by SepsisAI Clinical Platform\nVAE-Augmented Machine Learning System\n%s", heavyRule, heavyRule)

	return b.String()
}

// Filename suggests a download name for the report.
func (f *Formatter) Filename(res *model.AssessmentResult) string {
	name := strings.Join(strings.Fields(res.PatientName), "_")
	return fmt.Sprintf("SepsisAI_Report_%s_%d.txt", name, f.now().UnixMilli())
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s\n%s\n%s\n", lightRule, title, lightRule)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
