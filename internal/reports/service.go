package reports

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Felici4no/RedeSentinela/internal/observability"
	"github.com/Felici4no/RedeSentinela/internal/risk"
	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

const (
	// DailyLimit caps a user's submissions per local day. The count-then-
	// insert sequence is not atomic: under a same-user race at most one
	// extra report may slip past the cap. Accepted and bounded; strict
	// enforcement would need a conditional insert at the store.
	DailyLimit = 3

	// MaxDescriptionLen bounds the free-text description.
	MaxDescriptionLen = 280

	pointsHighSeverity = 25
	pointsDefault      = 15
)

// Service owns the report lifecycle: submission (scoring, classification,
// daily cap) and the PENDING → VALIDATED/REJECTED state machine with its
// point-award side effect.
type Service struct {
	reports  repository.ReportRepo
	profiles repository.ProfileRepo
	clock    clockwork.Clock
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService wires the lifecycle service. A nil clock falls back to real
// time; nil metrics fall back to unregistered collectors.
func NewService(rr repository.ReportRepo, pr repository.ProfileRepo, clock clockwork.Clock, m *observability.Metrics, logger *slog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if m == nil {
		m = observability.NewMetricsForTesting()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reports: rr, profiles: pr, clock: clock, metrics: m, logger: logger}
}

// SubmitInput is the citizen-supplied draft. Score, classification, status
// and timestamps are computed here, never accepted from the caller.
type SubmitInput struct {
	Type        string
	Severity    models.Severity
	Description string
	Lat         *float64
	Lng         *float64
	AddressText string
	PhotoURL    string
}

// SubmitResult pairs the stored report with the educational message shown
// back to the submitter.
type SubmitResult struct {
	Report      *models.Report
	Educational string
}

// Submit validates the draft, enforces the daily cap, computes the risk
// score and classification, and persists the report as PENDING. All errors
// surface before any write.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (*SubmitResult, error) {
	if err := validateDraft(userID, in); err != nil {
		s.metrics.SubmissionsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	count, err := s.CountSubmittedToday(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count today's submissions: %w", err)
	}
	if count >= DailyLimit {
		s.metrics.SubmissionsRejected.WithLabelValues("rate_limit").Inc()
		return nil, ErrDailyLimit
	}

	now := s.clock.Now()
	report := &models.Report{
		ID:               uuid.NewString(),
		UserID:           userID,
		Type:             in.Type,
		Severity:         in.Severity,
		RiskScore:        risk.Score(in.Severity, in.Lat != nil && in.Lng != nil, len([]rune(in.Description))),
		Status:           models.StatusPending,
		Lat:              in.Lat,
		Lng:              in.Lng,
		AddressText:      in.AddressText,
		Description:      in.Description,
		PhotoURL:         in.PhotoURL,
		AIClassification: risk.Classify(in.Type),
		CreatedAt:        now.UTC().UnixMilli(),
	}

	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.metrics.ReportsSubmitted.Inc()
	s.logger.Info("report submitted",
		slog.String("report_id", report.ID),
		slog.String("type", report.Type),
		slog.String("severity", string(report.Severity)),
		slog.Int("risk_score", report.RiskScore),
	)

	return &SubmitResult{Report: report, Educational: risk.Educate(in.Type)}, nil
}

func validateDraft(userID string, in SubmitInput) error {
	if userID == "" {
		return validationErrf("user reference is required")
	}
	if in.Type == "" {
		return validationErrf("hazard type is required")
	}
	if !models.KnownHazardType(in.Type) {
		return validationErrf("unknown hazard type %q", in.Type)
	}
	if !in.Severity.Valid() {
		return validationErrf("severity must be one of LOW, MEDIUM, HIGH")
	}
	if len([]rune(in.Description)) > MaxDescriptionLen {
		return validationErrf("description exceeds %d characters", MaxDescriptionLen)
	}
	if (in.Lat == nil) != (in.Lng == nil) {
		return validationErrf("latitude and longitude must be supplied together")
	}
	return nil
}

// CountSubmittedToday counts the user's reports created since local
// midnight.
func (s *Service) CountSubmittedToday(ctx context.Context, userID string) (int64, error) {
	now := s.clock.Now()
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	return s.reports.CountReportsSince(ctx, userID, midnight)
}

// Validate transitions a PENDING report to VALIDATED, stamping the
// administrator and timestamp, optionally overriding the stored severity
// (the risk score keeps its original value), and credits points to the
// owner: 25 for HIGH post-override severity, 15 otherwise.
func (s *Service) Validate(ctx context.Context, reportID, adminID string, override *models.Severity) (*models.Report, error) {
	if adminID == "" {
		return nil, validationErrf("administrator reference is required")
	}
	if override != nil && !override.Valid() {
		return nil, validationErrf("severity override must be one of LOW, MEDIUM, HIGH")
	}

	report, err := s.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if report == nil {
		return nil, ErrNotFound
	}

	// an override equal to the stored severity is not an override
	if override != nil && *override == report.Severity {
		override = nil
	}

	now := s.clock.Now()
	ok, err := s.reports.TransitionReport(ctx, reportID, models.StatusValidated, adminID, now, override)
	if err != nil {
		return nil, fmt.Errorf("transition report: %w", err)
	}
	if !ok {
		s.metrics.ReportTransitions.WithLabelValues("conflict").Inc()
		return nil, ErrAlreadyProcessed
	}

	report.Status = models.StatusValidated
	validatedAt := now.UTC().UnixMilli()
	report.ValidatedAt = &validatedAt
	report.ValidatedBy = &adminID
	if override != nil {
		report.Severity = *override
	}

	points := int64(pointsDefault)
	if report.Severity == models.SeverityHigh {
		points = pointsHighSeverity
	}
	if err := s.profiles.AddPoints(ctx, report.UserID, points); err != nil {
		// the transition is already durable; surface the award failure
		return nil, fmt.Errorf("award points: %w", err)
	}

	s.metrics.ReportTransitions.WithLabelValues("validated").Inc()
	s.metrics.PointsAwarded.Add(float64(points))
	s.logger.Info("report validated",
		slog.String("report_id", reportID),
		slog.String("admin_id", adminID),
		slog.Int64("points", points),
	)

	return report, nil
}

// Reject transitions a PENDING report to REJECTED. No points are awarded.
func (s *Service) Reject(ctx context.Context, reportID, adminID string) (*models.Report, error) {
	if adminID == "" {
		return nil, validationErrf("administrator reference is required")
	}

	report, err := s.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if report == nil {
		return nil, ErrNotFound
	}

	now := s.clock.Now()
	ok, err := s.reports.TransitionReport(ctx, reportID, models.StatusRejected, adminID, now, nil)
	if err != nil {
		return nil, fmt.Errorf("transition report: %w", err)
	}
	if !ok {
		s.metrics.ReportTransitions.WithLabelValues("conflict").Inc()
		return nil, ErrAlreadyProcessed
	}

	report.Status = models.StatusRejected
	validatedAt := now.UTC().UnixMilli()
	report.ValidatedAt = &validatedAt
	report.ValidatedBy = &adminID

	s.metrics.ReportTransitions.WithLabelValues("rejected").Inc()
	s.logger.Info("report rejected",
		slog.String("report_id", reportID),
		slog.String("admin_id", adminID),
	)

	return report, nil
}
