package repository

import (
	"context"
	"time"

	"github.com/Felici4no/RedeSentinela/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ReportFilter narrows ListReports. Zero values mean "no constraint".
type ReportFilter struct {
	UserID       string
	Status       models.ReportStatus
	Severity     models.Severity
	Type         string
	OnlyLocated  bool
	CreatedAfter int64 // unix milliseconds, exclusive lower bound when > 0
}

type ReportRepo interface {
	CreateReport(ctx context.Context, r *models.Report) error
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context, f ReportFilter) ([]models.Report, error)
	CountReportsSince(ctx context.Context, userID string, since time.Time) (int64, error)
	// TransitionReport applies a terminal transition only if the report is
	// still PENDING. It returns false when the row exists but was already
	// terminal, so concurrent duplicate transitions cannot both succeed.
	TransitionReport(ctx context.Context, id string, to models.ReportStatus, validatedBy string, validatedAt time.Time, severityOverride *models.Severity) (bool, error)
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	ListProfileIDsWithReports(ctx context.Context) ([]string, error)
	// AddPoints credits delta points to the profile. Deltas are always
	// positive; points never decrease.
	AddPoints(ctx context.Context, id string, delta int64) error
}

type CertificateRepo interface {
	// UpsertCertificate inserts or, when the (user, tier) pair already
	// exists, replaces the verify code and issue timestamp.
	UpsertCertificate(ctx context.Context, c *models.Certificate) error
	ListCertificatesByUser(ctx context.Context, userID string) ([]models.Certificate, error)
	GetCertificateByCode(ctx context.Context, code string) (*models.Certificate, error)
}
