package recommendation

import (
	"fmt"
	"strings"

	"github.com/sepsisai/clinical-api/internal/model"
)

// prompt.go holds the text sent to the generation service. Keeping the
// clinical wording in one file makes it easy to review without touching
// transport or parsing code.

// systemInstruction primes the model for sepsis management and pins the
// three section headers the response parser scans for. The prescription
// summary is never requested remotely.
const systemInstruction = "You are an expert clinical AI assistant specializing in sepsis management. " +
	"Provide evidence-based, actionable clinical recommendations. Use clear bullet points. " +
	"Be specific with medications, dosages, and monitoring parameters. " +
	"Format your response with clear section headers: " +
	headerNutrition + ", " + headerTherapy + ", and " + headerPharmacology + "."

const responseFormat = "Please provide clinical recommendations in EXACTLY this format:\n\n" +
	headerNutrition + "\n- Recommendation 1\n- Recommendation 2\n(5-7 recommendations)\n\n" +
	headerTherapy + "\n- Recommendation 1\n- Recommendation 2\n(4-6 recommendations)\n\n" +
	headerPharmacology + "\n- Recommendation 1\n- Recommendation 2\n(3-5 recommendations)"

// buildPrompt serializes one assessment into the clinical case prompt.
func buildPrompt(res *model.AssessmentResult) string {
	readings := res.Vitals.Readings()
	vitalsText := make([]string, 0, len(readings))
	for _, r := range readings {
		vitalsText = append(vitalsText, fmt.Sprintf("%s: %v", r.Name, r.Value))
	}

	factorsText := "None identified"
	if len(res.RiskFactors) > 0 {
		factorsText = strings.Join(res.RiskFactors, ", ")
	}

	diagnosis := "NEGATIVE"
	if res.IsSepsis {
		diagnosis = "POSITIVE (High Priority)"
	}

	age := res.PatientAge
	if age == "" {
		age = "Not specified"
	}
	gender := res.PatientGender
	if gender == "" {
		gender = "Not specified"
	}

	return fmt.Sprintf(
		"Clinical Case Analysis:\n\n"+
			"Patient: %s\nAge: %s\nGender: %s\n\n"+
			"Vital Signs: %s\n\n"+
			"Diagnosis: Sepsis %s\nRisk Score: %d/100\nRisk Factors: %s\n\n%s",
		res.PatientName, age, gender,
		strings.Join(vitalsText, ", "),
		diagnosis, res.RiskScore, factorsText,
		responseFormat,
	)
}
