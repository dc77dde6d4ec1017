package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/repository"
	"github.com/sepsisai/clinical-api/internal/repository/kv"
	"github.com/sepsisai/clinical-api/pkg/errors"
	"github.com/sepsisai/clinical-api/pkg/messaging"
	"github.com/sepsisai/clinical-api/pkg/metrics"
)

// displayDateLayout mirrors the locale-style date shown next to each
// record.
const displayDateLayout = "1/2/2006, 3:04:05 PM"

type AssessmentService interface {
	Assess(ctx context.Context, userID string, req *model.CreateAssessmentRequest) (*model.AssessmentResult, error)
	List(ctx context.Context, userID string, filter model.ListRecordsRequest) ([]*model.AssessmentResult, error)
	Get(ctx context.Context, userID, assessmentID string) (*model.AssessmentResult, error)
	Stats(ctx context.Context, userID string) (*model.RecordStats, error)
}

type Service struct {
	records repository.RecordRepository
	broker  messaging.Broker
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(records repository.RecordRepository, broker messaging.Broker, m *metrics.Metrics) *Service {
	return &Service{
		records: records,
		broker:  broker,
		metrics: m,
		now:     time.Now,
	}
}

// Assess validates raw vitals, scores and classifies them, and appends
// the result to the user's history. The append must succeed before the
// assessment counts as saved; alert publishing happens after and never
// fails the call.
func (s *Service) Assess(ctx context.Context, userID string, req *model.CreateAssessmentRequest) (*model.AssessmentResult, error) {
	vitals, err := model.ParseVitalSigns(req.Vitals)
	if err != nil {
		return nil, err
	}

	risk := Score(vitals)
	isSepsis := Classify(vitals)

	now := s.now()
	result := &model.AssessmentResult{
		ID:            uuid.New().String(),
		PatientName:   req.PatientName,
		PatientAge:    req.PatientAge,
		PatientGender: req.PatientGender,
		Vitals:        vitals,
		IsSepsis:      isSepsis,
		RiskScore:     risk.Score,
		RiskFactors:   risk.Factors,
		CreatedAt:     now,
		DisplayDate:   now.Format(displayDateLayout),
	}

	if err := s.records.Append(ctx, userID, result); err != nil {
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	s.observe(result)
	if isSepsis {
		s.publishAlert(ctx, userID, result)
	}

	return result, nil
}

func (s *Service) observe(result *model.AssessmentResult) {
	if s.metrics == nil {
		return
	}
	diagnosis := "negative"
	if result.IsSepsis {
		diagnosis = "sepsis"
		s.metrics.SepsisPositivesTotal.Inc()
	}
	s.metrics.AssessmentsTotal.WithLabelValues(diagnosis).Inc()
	s.metrics.AssessmentRiskScore.Observe(float64(result.RiskScore))
}

func (s *Service) publishAlert(ctx context.Context, userID string, result *model.AssessmentResult) {
	if s.broker == nil {
		return
	}

	alert := model.SepsisAlert{
		AssessmentID: result.ID,
		UserID:       userID,
		PatientName:  result.PatientName,
		RiskScore:    result.RiskScore,
		Severity:     result.Severity(),
		CreatedAt:    result.CreatedAt,
	}

	if err := s.broker.Publish(ctx, messaging.ChannelSepsisAlerts, alert); err != nil {
		log.Error().Err(err).Str("assessment_id", result.ID).Msg("failed to publish sepsis alert")
		if s.metrics != nil {
			s.metrics.AlertPublishesFailed.Inc()
		}
		return
	}
	if s.metrics != nil {
		s.metrics.AlertsPublishedTotal.Inc()
	}
}

// List returns the user's history filtered by search term and category.
// An undecodable stored payload degrades to an empty history rather
// than failing the request.
func (s *Service) List(ctx context.Context, userID string, filter model.ListRecordsRequest) ([]*model.AssessmentResult, error) {
	records, err := s.loadDegrading(ctx, userID)
	if err != nil {
		return nil, err
	}

	if filter.Category != "" && !filter.Category.Valid() {
		return nil, errors.NewBadRequest(fmt.Sprintf("unknown category %q", filter.Category), nil)
	}

	return kv.FilterRecords(records, filter.Search, filter.Category), nil
}

func (s *Service) Get(ctx context.Context, userID, assessmentID string) (*model.AssessmentResult, error) {
	records, err := s.loadDegrading(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == assessmentID {
			return r, nil
		}
	}
	return nil, errors.NewNotFound("assessment", nil)
}

// Stats summarizes the user's history for the dashboard cards.
func (s *Service) Stats(ctx context.Context, userID string) (*model.RecordStats, error) {
	records, err := s.loadDegrading(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.RecordStats{Total: len(records)}
	cutoff := s.now().Add(-24 * time.Hour)
	for _, r := range records {
		if r.IsSepsis {
			stats.Sepsis++
		}
		if r.RiskScore > model.HighRiskThreshold {
			stats.HighRisk++
		}
		if r.CreatedAt.After(cutoff) {
			stats.Recent++
		}
	}
	return stats, nil
}

func (s *Service) loadDegrading(ctx context.Context, userID string) ([]*model.AssessmentResult, error) {
	records, err := s.records.Load(ctx, userID)
	if err != nil {
		if errors.IsPersistence(err) {
			log.Warn().Err(err).Str("user_id", userID).Msg("record history unreadable, treating as empty")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return records, nil
}
