package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type Service interface {
	SendSepsisAlert(ctx context.Context, to string, patientName string, riskScore int, severity string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendSepsisAlert(ctx context.Context, to string, patientName string, riskScore int, severity string) error {
	subject := fmt.Sprintf("SEPSIS ALERT: %s (risk %d/100)", patientName, riskScore)
	content := fmt.Sprintf(
		"A sepsis-positive assessment was recorded.\n\n"+
			"Patient: %s\nRisk Score: %d/100\nRisk Level: %s\n\n"+
			"Review the assessment in the clinical dashboard and initiate the sepsis protocol if indicated.",
		patientName, riskScore, severity,
	)
	return s.SendCustom(ctx, to, subject, content)
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
