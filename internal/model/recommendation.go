package model

// RecommendationSet holds the four labeled text sections produced for
// one AssessmentResult. Never persisted; regenerated on each request.
type RecommendationSet struct {
	Nutrition           string `json:"nutrition"`
	Therapy             string `json:"therapy"`
	Pharmacology        string `json:"pharmacology"`
	PrescriptionSummary string `json:"prescription_summary"`
	RawCombined         string `json:"raw_combined"`

	// SourceError carries a human-readable note when generation
	// degraded to the local builder. Advisory only; the sections above
	// are always populated.
	SourceError string `json:"source_error,omitempty"`
}

// Degraded reports whether the set was produced by the local fallback.
func (r *RecommendationSet) Degraded() bool {
	return r.SourceError != ""
}
