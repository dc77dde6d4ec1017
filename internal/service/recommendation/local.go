package recommendation

import (
	"fmt"
	"strings"

	"github.com/sepsisai/clinical-api/internal/model"
)

// Section headers shared by the local builder, the remote prompt and
// the response parser.
const (
	headerNutrition    = "NUTRITIONAL INTERVENTION"
	headerTherapy      = "PHYSICAL THERAPY PROTOCOL"
	headerPharmacology = "PHARMACOLOGICAL MANAGEMENT"
	headerPrescription = "PRESCRIPTION SUMMARY"
)

// noFactorsLine is the stable placeholder when no risk factors fired.
const noFactorsLine = "Key Factors: Stable baseline vitals, continue surveillance"

// BuildLocal produces the deterministic recommendation set for one
// assessment. Always succeeds; same input yields byte-identical output.
func BuildLocal(res *model.AssessmentResult) *model.RecommendationSet {
	vitals := res.Vitals
	severity := res.Severity()

	intake := "adequate"
	if res.RiskScore > model.HighRiskThreshold {
		intake = "aggressive"
	}

	nutrition := []string{
		fmt.Sprintf("Maintain %s caloric intake (25-30 kcal/kg/day)", intake),
		"Target 1.5-2 g/kg/day protein with leucine-rich sources",
		"Prioritize enteral nutrition; transition to parenteral only if contraindicated",
		"Add omega-3 fatty acids and antioxidants to limit inflammation",
		"Titrate fluids and electrolytes every 6 hours",
	}
	if vitals.Temp > 38.5 || vitals.Temp < 36 {
		nutrition = append(nutrition, "Support thermoregulation with warmed feeds and normoglycemia")
	}

	therapy := []string{
		"Initiate passive range-of-motion exercises every 4 hours",
		"Progress to active-assisted movements once hemodynamically stable",
		"Use incentive spirometry or deep breathing hourly while awake",
		"Mobilize to chair/ambulate with assistance twice daily as tolerated",
	}
	if vitals.MAP < 65 {
		therapy = append(therapy, "Delay upright positioning until MAP ≥ 65 mmHg and vasopressors weaned")
	}

	meds := []string{
		"Administer broad-spectrum IV antibiotics within 1 hour, de-escalate per cultures",
		"Maintain MAP ≥ 65 mmHg; initiate norepinephrine if fluids inadequate",
		"Give 30 mL/kg balanced crystalloids within first 3 hours",
	}
	if vitals.O2Sat < 92 {
		meds = append(meds, "Provide supplemental oxygen; escalate to HFNC or ventilatory support if persistent hypoxemia")
	}
	if vitals.WBC > 12 || vitals.WBC < 4 {
		meds = append(meds, "Trend CBC q12h; consider colony-stimulating factors if neutropenic")
	}

	factorsLine := noFactorsLine
	if len(res.RiskFactors) > 0 {
		factorsLine = "Key Factors: " + strings.Join(res.RiskFactors, ", ")
	}
	fluids := "Maintenance fluids, monitor I/O"
	if vitals.MAP < 65 {
		fluids = "Aggressive resuscitation with crystalloids, reassess via ultrasound"
	}
	monitoring := "Monitoring: Vitals q1h, lactate q6h until < 2 mmol/L"
	if vitals.Platelets < 100 {
		monitoring += ", daily coagulation panel"
	}

	prescription := []string{
		fmt.Sprintf("Risk Level: %s (%d/100)", severity, res.RiskScore),
		factorsLine,
		"Fluid Management: " + fluids,
		monitoring,
		"Escalation Plan: Activate rapid response if MAP < 60, lactate rising, or urine output < 0.5 mL/kg/hr",
	}

	nutritionBlock := bulletBlock(nutrition)
	therapyBlock := bulletBlock(therapy)
	medsBlock := bulletBlock(meds)
	prescriptionBlock := bulletBlock(prescription)

	return &model.RecommendationSet{
		Nutrition:           nutritionBlock,
		Therapy:             therapyBlock,
		Pharmacology:        medsBlock,
		PrescriptionSummary: prescriptionBlock,
		RawCombined: strings.Join([]string{
			headerNutrition + "\n" + nutritionBlock,
			headerTherapy + "\n" + therapyBlock,
			headerPharmacology + "\n" + medsBlock,
			headerPrescription + "\n" + prescriptionBlock,
		}, "\n\n"),
	}
}

func bulletBlock(items []string) string {
	return "- " + strings.Join(items, "\n- ")
}
