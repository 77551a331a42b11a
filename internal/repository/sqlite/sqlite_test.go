package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	dbfs "github.com/Felici4no/RedeSentinela/db"
	dbpkg "github.com/Felici4no/RedeSentinela/internal/db"
	sqlite "github.com/Felici4no/RedeSentinela/internal/repository/sqlite"
	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

var dbSeq int

func setupRepo(t *testing.T) (*sqlite.SQLiteRepo, func()) {
	t.Helper()
	ctx := context.Background()

	// a distinct named in-memory database per test keeps state isolated
	dbSeq++
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", dbSeq)
	d, err := dbpkg.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		d.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := sqlite.New(d, nil)
	return repo, func() { d.Close() }
}

func seedUser(t *testing.T, repo *sqlite.SQLiteRepo, id string) {
	t.Helper()
	p := &models.Profile{ID: id, Name: "Citizen " + id, Email: id + "@example.com", Role: models.RoleUser}
	if err := repo.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
}

func newReport(id, userID string, severity models.Severity) *models.Report {
	return &models.Report{
		ID:          id,
		UserID:      userID,
		Type:        "Poda",
		Severity:    severity,
		RiskScore:   60,
		Status:      models.StatusPending,
		Description: "galhos sobre a fiação",
		CreatedAt:   time.Now().UTC().UnixMilli(),
	}
}

func TestReportCreateAndGet(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	if err := repo.CreateReport(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil report")
	}

	got, err := repo.GetReportByID(ctx, "missing")
	if err != nil {
		t.Fatalf("GetReportByID error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing report got %#v", got)
	}

	lat, lng := -23.55, -46.63
	rep := newReport("r1", "u1", models.SeverityHigh)
	rep.Lat, rep.Lng = &lat, &lng
	rep.AddressText = "Rua das Flores - Centro"
	rep.AIClassification = "Cabo energizado detectado"
	if err := repo.CreateReport(ctx, rep); err != nil {
		t.Fatalf("CreateReport error: %v", err)
	}

	got, err = repo.GetReportByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetReportByID error: %v", err)
	}
	if got == nil || got.UserID != "u1" || got.Severity != models.SeverityHigh {
		t.Fatalf("GetReportByID wrong result: %#v", got)
	}
	if got.Lat == nil || *got.Lat != lat || got.Lng == nil || *got.Lng != lng {
		t.Fatalf("coordinates not round-tripped: %#v", got)
	}
	if got.ValidatedAt != nil || got.ValidatedBy != nil {
		t.Fatalf("fresh report should carry no validation stamps: %#v", got)
	}
}

func TestReportWithoutCoordinates(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	if err := repo.CreateReport(ctx, newReport("r1", "u1", models.SeverityLow)); err != nil {
		t.Fatalf("CreateReport error: %v", err)
	}

	got, err := repo.GetReportByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetReportByID error: %v", err)
	}
	if got.Lat != nil || got.Lng != nil {
		t.Fatalf("expected nil coordinates got %#v", got)
	}
	if got.HasLocation() {
		t.Fatalf("HasLocation should be false")
	}
}

func TestListReportsFilters(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")
	seedUser(t, repo, "u2")

	lat, lng := 1.0, 2.0
	r1 := newReport("r1", "u1", models.SeverityHigh)
	r1.Lat, r1.Lng = &lat, &lng
	r2 := newReport("r2", "u1", models.SeverityLow)
	r3 := newReport("r3", "u2", models.SeverityHigh)
	r3.Type = "Pipa"
	for _, r := range []*models.Report{r1, r2, r3} {
		if err := repo.CreateReport(ctx, r); err != nil {
			t.Fatalf("CreateReport %s: %v", r.ID, err)
		}
	}

	all, err := repo.ListReports(ctx, repository.ReportFilter{})
	if err != nil {
		t.Fatalf("ListReports error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 reports got %d", len(all))
	}

	byUser, err := repo.ListReports(ctx, repository.ReportFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListReports by user error: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("expected 2 reports for u1 got %d", len(byUser))
	}

	bySeverity, err := repo.ListReports(ctx, repository.ReportFilter{Severity: models.SeverityHigh})
	if err != nil {
		t.Fatalf("ListReports by severity error: %v", err)
	}
	if len(bySeverity) != 2 {
		t.Fatalf("expected 2 HIGH reports got %d", len(bySeverity))
	}

	located, err := repo.ListReports(ctx, repository.ReportFilter{OnlyLocated: true})
	if err != nil {
		t.Fatalf("ListReports located error: %v", err)
	}
	if len(located) != 1 || located[0].ID != "r1" {
		t.Fatalf("expected only r1 located got %#v", located)
	}

	byType, err := repo.ListReports(ctx, repository.ReportFilter{Type: "Pipa"})
	if err != nil {
		t.Fatalf("ListReports by type error: %v", err)
	}
	if len(byType) != 1 || byType[0].ID != "r3" {
		t.Fatalf("expected only r3 got %#v", byType)
	}
}

func TestCountReportsSince(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	old := newReport("old", "u1", models.SeverityLow)
	old.CreatedAt = base.Add(-48 * time.Hour).UnixMilli()
	fresh := newReport("fresh", "u1", models.SeverityLow)
	fresh.CreatedAt = base.UnixMilli()
	for _, r := range []*models.Report{old, fresh} {
		if err := repo.CreateReport(ctx, r); err != nil {
			t.Fatalf("CreateReport: %v", err)
		}
	}

	n, err := repo.CountReportsSince(ctx, "u1", base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountReportsSince error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 recent report got %d", n)
	}
}

func TestTransitionReportConditional(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	if err := repo.CreateReport(ctx, newReport("r1", "u1", models.SeverityMedium)); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	at := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	high := models.SeverityHigh
	ok, err := repo.TransitionReport(ctx, "r1", models.StatusValidated, "admin-1", at, &high)
	if err != nil {
		t.Fatalf("TransitionReport error: %v", err)
	}
	if !ok {
		t.Fatalf("expected transition to apply")
	}

	got, _ := repo.GetReportByID(ctx, "r1")
	if got.Status != models.StatusValidated {
		t.Fatalf("expected VALIDATED got %s", got.Status)
	}
	if got.Severity != models.SeverityHigh {
		t.Fatalf("expected overridden severity got %s", got.Severity)
	}
	if got.RiskScore != 60 {
		t.Fatalf("risk score must not change on override, got %d", got.RiskScore)
	}
	if got.ValidatedAt == nil || *got.ValidatedAt != at.UnixMilli() {
		t.Fatalf("validated_at not stamped: %#v", got)
	}
	if got.ValidatedBy == nil || *got.ValidatedBy != "admin-1" {
		t.Fatalf("validated_by not stamped: %#v", got)
	}

	// second transition of any kind must not apply
	ok, err = repo.TransitionReport(ctx, "r1", models.StatusRejected, "admin-2", at.Add(time.Minute), nil)
	if err != nil {
		t.Fatalf("TransitionReport second error: %v", err)
	}
	if ok {
		t.Fatalf("expected second transition to be refused")
	}
	got, _ = repo.GetReportByID(ctx, "r1")
	if got.Status != models.StatusValidated || *got.ValidatedBy != "admin-1" {
		t.Fatalf("terminal report mutated: %#v", got)
	}

	// missing report: no error, no application
	ok, err = repo.TransitionReport(ctx, "missing", models.StatusValidated, "admin-1", at, nil)
	if err != nil {
		t.Fatalf("TransitionReport missing error: %v", err)
	}
	if ok {
		t.Fatalf("expected transition on missing report to be refused")
	}
}

func TestTransitionWithoutOverrideKeepsSeverity(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	if err := repo.CreateReport(ctx, newReport("r1", "u1", models.SeverityMedium)); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	ok, err := repo.TransitionReport(ctx, "r1", models.StatusRejected, "admin-1", time.Now(), nil)
	if err != nil || !ok {
		t.Fatalf("TransitionReport: ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetReportByID(ctx, "r1")
	if got.Severity != models.SeverityMedium {
		t.Fatalf("severity changed without override: %s", got.Severity)
	}
}

func TestProfilePointsAccumulate(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	if err := repo.AddPoints(ctx, "u1", 25); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if err := repo.AddPoints(ctx, "u1", 15); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	p, err := repo.GetProfileByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfileByID: %v", err)
	}
	if p.Points != 40 {
		t.Fatalf("expected 40 points got %d", p.Points)
	}

	if err := repo.AddPoints(ctx, "missing", 10); err == nil {
		t.Fatalf("expected error for missing profile")
	}
	if err := repo.AddPoints(ctx, "u1", -5); err == nil {
		t.Fatalf("expected error for negative delta")
	}
}

func TestProfileLookups(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	byEmail, err := repo.GetProfileByEmail(ctx, "u1@example.com")
	if err != nil {
		t.Fatalf("GetProfileByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != "u1" {
		t.Fatalf("GetProfileByEmail wrong result: %#v", byEmail)
	}

	missing, err := repo.GetProfileByEmail(ctx, "none@example.com")
	if err != nil {
		t.Fatalf("GetProfileByEmail missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing email got %#v", missing)
	}
}

func TestCertificateUpsertIdempotent(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")

	first := &models.Certificate{UserID: "u1", Tier: models.TierGold, VerifyCode: "RS-U1-GOLD", IssuedAt: 1000}
	if err := repo.UpsertCertificate(ctx, first); err != nil {
		t.Fatalf("UpsertCertificate: %v", err)
	}
	second := &models.Certificate{UserID: "u1", Tier: models.TierGold, VerifyCode: "RS-U1-GOLD", IssuedAt: 2000}
	if err := repo.UpsertCertificate(ctx, second); err != nil {
		t.Fatalf("UpsertCertificate second: %v", err)
	}

	list, err := repo.ListCertificatesByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListCertificatesByUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one certificate per (user, tier) got %d", len(list))
	}
	if list[0].IssuedAt != 2000 {
		t.Fatalf("expected the second issue timestamp to win, got %d", list[0].IssuedAt)
	}

	byCode, err := repo.GetCertificateByCode(ctx, "RS-U1-GOLD")
	if err != nil {
		t.Fatalf("GetCertificateByCode: %v", err)
	}
	if byCode == nil || byCode.UserID != "u1" {
		t.Fatalf("GetCertificateByCode wrong result: %#v", byCode)
	}
}

func TestListProfileIDsWithReports(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, repo, "u1")
	seedUser(t, repo, "u2")

	for i, uid := range []string{"u1", "u1", "u2"} {
		r := newReport(fmt.Sprintf("r%d", i), uid, models.SeverityLow)
		if err := repo.CreateReport(ctx, r); err != nil {
			t.Fatalf("CreateReport: %v", err)
		}
	}

	ids, err := repo.ListProfileIDsWithReports(ctx)
	if err != nil {
		t.Fatalf("ListProfileIDsWithReports: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct contributors got %v", ids)
	}
}
