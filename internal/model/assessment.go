package model

import (
	"time"
)

// Severity bands derived from the numeric risk score.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"

	// HighRiskThreshold is the score above which a record counts as
	// high risk, in banding, filtering and dashboard stats alike.
	HighRiskThreshold = 70
)

// SeverityForScore bands a 0-100 risk score.
func SeverityForScore(score int) Severity {
	switch {
	case score > HighRiskThreshold:
		return SeverityHigh
	case score > 40:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// RiskAssessment is the scorer output: an additive 0-100 score and the
// triggered factor labels in rule-evaluation order.
type RiskAssessment struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// AssessmentResult is the unit of record: one scored, classified set of
// vitals for one patient. Immutable once created; owned by a single
// user's history.
type AssessmentResult struct {
	ID            string     `json:"id"`
	PatientName   string     `json:"patient_name"`
	PatientAge    string     `json:"patient_age,omitempty"`
	PatientGender string     `json:"patient_gender,omitempty"`
	Vitals        VitalSigns `json:"vitals"`
	IsSepsis      bool       `json:"is_sepsis"`
	RiskScore     int        `json:"risk_score"`
	RiskFactors   []string   `json:"risk_factors"`
	CreatedAt     time.Time  `json:"created_at"`
	DisplayDate   string     `json:"display_date"`
}

// Severity returns the record's severity band.
func (r *AssessmentResult) Severity() Severity {
	return SeverityForScore(r.RiskScore)
}

// RecordCategory selects a slice of a user's history.
type RecordCategory string

const (
	CategoryAll      RecordCategory = "all"
	CategorySepsis   RecordCategory = "sepsis"
	CategoryNegative RecordCategory = "negative"
	CategoryHighRisk RecordCategory = "highRisk"
)

// Valid reports whether the category is one of the known filters.
func (c RecordCategory) Valid() bool {
	switch c {
	case CategoryAll, CategorySepsis, CategoryNegative, CategoryHighRisk:
		return true
	}
	return false
}

// RecordStats summarizes a user's history for the dashboard.
type RecordStats struct {
	Total    int `json:"total"`
	Sepsis   int `json:"sepsis"`
	HighRisk int `json:"high_risk"`
	Recent   int `json:"recent_24h"`
}

// CreateAssessmentRequest carries raw form input: patient identity plus
// the seven vitals as entered text, validated by ParseVitalSigns.
type CreateAssessmentRequest struct {
	PatientName   string            `json:"patient_name" binding:"required"`
	PatientAge    string            `json:"patient_age"`
	PatientGender string            `json:"patient_gender"`
	Vitals        map[string]string `json:"vitals" binding:"required"`
}

// ListRecordsRequest carries the history filter parameters.
type ListRecordsRequest struct {
	Search   string         `json:"search" form:"search"`
	Category RecordCategory `json:"category" form:"category"`
}
