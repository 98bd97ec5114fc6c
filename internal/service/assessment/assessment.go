package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
)

const (
	DefaultSummaryDays = 30
	MaxSummaryDays     = 365
)

// Store is the assessment persistence used by the service.
type Store interface {
	Create(ctx context.Context, a *repo.Assessment) error
	List(ctx context.Context, f repo.Filter) ([]*repo.Assessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountBySeverity(ctx context.Context, since time.Time) (map[string]int, error)
}

// SubmitRequest is a screening submission as received from a client.
type SubmitRequest struct {
	// Type is the client-supplied questionnaire name; empty means PHQ9.
	Type    string
	Answers RawAnswers
	// Credentials are the session tokens the caller sent, most preferred first.
	Credentials []string
	// ClientID is the caller's self-declared device id.
	ClientID string
}

type ScoreResult struct {
	ID                uuid.UUID         `json:"id"`
	TotalScore        int               `json:"totalScore"`
	Severity          Severity          `json:"severity"`
	QuestionnaireType QuestionnaireType `json:"questionnaireType"`
	// AssessmentType repeats QuestionnaireType for older clients.
	AssessmentType QuestionnaireType `json:"assessmentType"`
}

type SeveritySummary struct {
	TotalCount int            `json:"totalCount"`
	BySeverity map[string]int `json:"bySeverity"`
	Days       int            `json:"days"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*ScoreResult, error)
	Recent(ctx context.Context, limit int) ([]*repo.Assessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SeveritySummary(ctx context.Context, days int) (*SeveritySummary, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type service struct {
	store     Store
	resolver  *identity.Resolver
	cache     SummaryCache
	submitted metric.Int64Counter
	now       func() time.Time
}

// New builds the service. cache may be nil.
func New(store Store, resolver *identity.Resolver, cache SummaryCache) Service {
	meter := otel.Meter("github.com/Alijeyrad/eunoia_backend/internal/service/assessment")
	submitted, err := meter.Int64Counter("eunoia_assessments_submitted",
		metric.WithDescription("Screenings scored and stored, by questionnaire and severity"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &service{
		store:     store,
		resolver:  resolver,
		cache:     cache,
		submitted: submitted,
		now:       time.Now,
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*ScoreResult, error) {
	qt, _ := ParseType(req.Type)

	answers, err := Normalize(qt, req.Answers)
	if err != nil {
		return nil, err
	}

	submitter := s.resolver.Resolve(ctx, req.Credentials, req.ClientID)

	total := answers.Total()
	severity := Classify(qt, total)

	userID, anonymousID := submitter.Columns()
	rec := &repo.Assessment{
		UserID:         userID,
		AnonymousID:    anonymousID,
		AssessmentType: qt.String(),
		TotalScore:     total,
		Severity:       severity.String(),
		RawAnswers:     []int(answers),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	if s.submitted != nil {
		s.submitted.Add(ctx, 1, metric.WithAttributes(
			attribute.String("questionnaire_type", qt.String()),
			attribute.String("severity", severity.String()),
		))
	}
	slog.InfoContext(ctx, "assessment_submitted",
		"request_id", reqctx.RequestIDFromContext(ctx),
		"assessment_id", rec.ID,
		"questionnaire_type", qt,
		"severity", severity,
		"submitter", submitter.Kind().String(),
	)

	return &ScoreResult{
		ID:                rec.ID,
		TotalScore:        total,
		Severity:          severity,
		QuestionnaireType: qt,
		AssessmentType:    qt,
	}, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]*repo.Assessment, error) {
	out, err := s.store.List(ctx, repo.Filter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list recent assessments: %w", err)
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete assessment: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func (s *service) SeveritySummary(ctx context.Context, days int) (*SeveritySummary, error) {
	if days < 1 || days > MaxSummaryDays {
		return nil, ErrInvalidRange
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, days); ok {
			return cached, nil
		}
	}

	since := s.now().AddDate(0, 0, -days)
	counts, err := s.store.CountBySeverity(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count by severity: %w", err)
	}

	out := &SeveritySummary{BySeverity: make(map[string]int, len(counts)), Days: days}
	for _, label := range Severities() {
		out.BySeverity[label.String()] = 0
	}
	for label, n := range counts {
		out.BySeverity[label] += n
		out.TotalCount += n
	}

	if s.cache != nil {
		s.cache.Set(ctx, days, out)
	}
	return out, nil
}
