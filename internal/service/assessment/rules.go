package assessment

import (
	"github.com/sepsisai/clinical-api/internal/model"
)

// sepsisVoteThreshold is the number of triggered rules at which the
// classifier calls the case positive.
const sepsisVoteThreshold = 3

// maxScore caps the additive risk score.
const maxScore = 100

// rule is one threshold check over a set of vitals. The scorer and the
// classifier evaluate the same predicates; sharing the table keeps them
// bit-identical by construction.
type rule struct {
	points    int
	label     string
	triggered func(v model.VitalSigns) bool
}

// Rules in fixed evaluation order. Order matters: factor labels are
// reported in this sequence.
var rules = []rule{
	{15, "Tachycardia", func(v model.VitalSigns) bool { return v.HR > 90 }},
	{20, "Hypoxemia", func(v model.VitalSigns) bool { return v.O2Sat < 95 }},
	{15, "Tachypnea", func(v model.VitalSigns) bool { return v.Resp > 22 }},
	{15, "Temperature dysregulation", func(v model.VitalSigns) bool { return v.Temp > 38.0 || v.Temp < 36.0 }},
	{25, "Hypotension", func(v model.VitalSigns) bool { return v.MAP < 65 }},
	{15, "Abnormal WBC", func(v model.VitalSigns) bool { return v.WBC > 12 || v.WBC < 4 }},
	{20, "Thrombocytopenia", func(v model.VitalSigns) bool { return v.Platelets < 100 }},
}

// Score computes the additive 0-100 risk score and the triggered
// factor labels. Pure; never fails on valid vitals.
func Score(v model.VitalSigns) model.RiskAssessment {
	sum := 0
	factors := []string{}
	for _, r := range rules {
		if r.triggered(v) {
			sum += r.points
			factors = append(factors, r.label)
		}
	}
	if sum > maxScore {
		sum = maxScore
	}
	return model.RiskAssessment{Score: sum, Factors: factors}
}

// CountTriggered re-evaluates every rule predicate and counts hits.
func CountTriggered(v model.VitalSigns) int {
	n := 0
	for _, r := range rules {
		if r.triggered(v) {
			n++
		}
	}
	return n
}

// Classify applies the threshold vote: sepsis iff at least three rules
// trigger.
func Classify(v model.VitalSigns) bool {
	return CountTriggered(v) >= sepsisVoteThreshold
}
