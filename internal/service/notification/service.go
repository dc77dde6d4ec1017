package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sepsisai/clinical-api/internal/email"
	"github.com/sepsisai/clinical-api/internal/model"
)

// Service routes sepsis alerts to the on-call notification targets.
type Service struct {
	mailer     email.Service
	recipients []string
}

func NewService(mailer email.Service, recipients []string) *Service {
	return &Service{
		mailer:     mailer,
		recipients: recipients,
	}
}

// Notify delivers one alert to every configured recipient. Delivery is
// best-effort per recipient; one failed address does not block the rest.
func (s *Service) Notify(ctx context.Context, alert *model.SepsisAlert) error {
	var lastErr error
	for _, to := range s.recipients {
		if err := s.mailer.SendSepsisAlert(ctx, to, alert.PatientName, alert.RiskScore, string(alert.Severity)); err != nil {
			log.Error().
				Err(err).
				Str("recipient", to).
				Str("assessment_id", alert.AssessmentID).
				Msg("Failed to deliver sepsis alert")
			lastErr = err
			continue
		}
		log.Info().
			Str("recipient", to).
			Str("assessment_id", alert.AssessmentID).
			Int("risk_score", alert.RiskScore).
			Msg("Sepsis alert delivered")
	}
	return lastErr
}
