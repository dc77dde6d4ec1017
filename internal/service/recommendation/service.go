package recommendation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/pkg/errors"
	"github.com/sepsisai/clinical-api/pkg/metrics"
)

// RemoteGenerator is the text-generation service contract: one request,
// one response, no streaming.
type RemoteGenerator interface {
	GenerateContent(ctx context.Context, systemInstruction, prompt string) (string, error)
}

type RecommendationService interface {
	Generate(ctx context.Context, res *model.AssessmentResult) (*model.RecommendationSet, error)
}

// Service generates recommendations for one assessment at a time. The
// local builder is the guaranteed path; the remote strategy augments it
// and degrades section-by-section or wholesale on failure. A caller is
// never left without recommendations.
type Service struct {
	remote  RemoteGenerator
	timeout time.Duration
	metrics *metrics.Metrics

	// Each attempt takes a token; only the newest attempt's result is
	// recorded as current, so a slow response cannot clobber the result
	// of a later request.
	latest  atomic.Uint64
	mu      sync.Mutex
	current *model.RecommendationSet
}

func NewService(remote RemoteGenerator, timeout time.Duration, m *metrics.Metrics) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{
		remote:  remote,
		timeout: timeout,
		metrics: m,
	}
}

// Generate builds a recommendation set for res. The returned set always
// has all four sections populated; SourceError is set when any part of
// it came from the local fallback instead of the remote service.
func (s *Service) Generate(ctx context.Context, res *model.AssessmentResult) (*model.RecommendationSet, error) {
	token := s.latest.Add(1)
	start := time.Now()

	set := s.generate(ctx, res)

	if s.metrics != nil {
		s.metrics.GenerationLatency.Observe(time.Since(start).Seconds())
	}
	s.finish(token, set)
	return set, nil
}

func (s *Service) generate(ctx context.Context, res *model.AssessmentResult) *model.RecommendationSet {
	fallback := BuildLocal(res)

	if s.remote == nil {
		fallback.SourceError = "Remote generation is not configured; recommendations generated locally."
		s.countOutcome("fallback")
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.remote.GenerateContent(ctx, systemInstruction, buildPrompt(res))
	if err != nil {
		genErr := errors.NewRemoteGeneration("remote recommendation generation failed", err)
		log.Warn().Err(genErr).Str("assessment_id", res.ID).Msg("falling back to local recommendations")

		fallback.SourceError = "Generated locally because the AI service is unavailable. " + err.Error()
		s.countOutcome("fallback")
		return fallback
	}

	set, complete := s.merge(text, fallback)
	if complete {
		s.countOutcome("remote")
	} else {
		s.countOutcome("merged")
	}
	return set
}

// merge extracts the three remotely generated sections, substituting
// the local block for any section the response is missing. The
// prescription summary is always locally derived.
func (s *Service) merge(text string, fallback *model.RecommendationSet) (*model.RecommendationSet, bool) {
	set := &model.RecommendationSet{
		PrescriptionSummary: fallback.PrescriptionSummary,
		RawCombined:         text,
	}

	complete := true
	if section, ok := extractSection(text, headerNutrition); ok {
		set.Nutrition = section
	} else {
		set.Nutrition = fallback.Nutrition
		complete = false
	}
	if section, ok := extractSection(text, headerTherapy); ok {
		set.Therapy = section
	} else {
		set.Therapy = fallback.Therapy
		complete = false
	}
	if section, ok := extractSection(text, headerPharmacology); ok {
		set.Pharmacology = section
	} else {
		set.Pharmacology = fallback.Pharmacology
		complete = false
	}
	return set, complete
}

func (s *Service) finish(token uint64, set *model.RecommendationSet) {
	if token != s.latest.Load() {
		// A newer attempt superseded this one; discard.
		if s.metrics != nil {
			s.metrics.StaleGenerations.Inc()
		}
		return
	}
	s.mu.Lock()
	s.current = set
	s.mu.Unlock()
}

// Current returns the most recently completed, non-superseded set.
func (s *Service) Current() (*model.RecommendationSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

func (s *Service) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.GenerationsTotal.WithLabelValues(outcome).Inc()
	}
}
