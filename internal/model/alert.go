package model

import "time"

// SepsisAlert is published on the broker when an assessment comes back
// sepsis-positive. Consumed by the alert worker.
type SepsisAlert struct {
	AssessmentID string    `json:"assessment_id"`
	UserID       string    `json:"user_id"`
	PatientName  string    `json:"patient_name"`
	RiskScore    int       `json:"risk_score"`
	Severity     Severity  `json:"severity"`
	CreatedAt    time.Time `json:"created_at"`
}
