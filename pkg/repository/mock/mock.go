package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

// Store is an in-memory implementation of the repository interfaces for
// tests. The transition check mirrors the storage contract: a report leaves
// PENDING at most once.
type Store struct {
	mu           sync.Mutex
	reports      map[string]*models.Report
	reportOrder  []string
	profiles     map[string]*models.Profile
	certificates map[string]*models.Certificate // keyed user|tier

	CreateReportErr error
	AddPointsErr    error
}

var _ repository.ReportRepo = (*Store)(nil)
var _ repository.ProfileRepo = (*Store)(nil)
var _ repository.CertificateRepo = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		reports:      make(map[string]*models.Report),
		profiles:     make(map[string]*models.Profile),
		certificates: make(map[string]*models.Certificate),
	}
}

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	if s.CreateReportErr != nil {
		return s.CreateReportErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.reports[r.ID] = &cp
	s.reportOrder = append(s.reportOrder, r.ID)
	return nil
}

func (s *Store) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListReports(ctx context.Context, f repository.ReportFilter) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Report
	for _, id := range s.reportOrder {
		r := s.reports[id]
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Severity != "" && r.Severity != f.Severity {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.OnlyLocated && !r.HasLocation() {
			continue
		}
		if f.CreatedAfter > 0 && r.CreatedAt < f.CreatedAfter {
			continue
		}
		out = append(out, *r)
	}
	// newest first, like the sqlite implementation
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *Store) CountReportsSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	cutoff := since.UTC().UnixMilli()
	for _, r := range s.reports {
		if r.UserID == userID && r.CreatedAt >= cutoff {
			n++
		}
	}
	return n, nil
}

func (s *Store) TransitionReport(ctx context.Context, id string, to models.ReportStatus, validatedBy string, validatedAt time.Time, severityOverride *models.Severity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = to
	at := validatedAt.UTC().UnixMilli()
	r.ValidatedAt = &at
	r.ValidatedBy = &validatedBy
	if severityOverride != nil {
		r.Severity = *severityOverride
	}
	return true, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *Store) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListProfileIDsWithReports(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range s.reportOrder {
		uid := s.reports[id].UserID
		if !seen[uid] {
			seen[uid] = true
			out = append(out, uid)
		}
	}
	return out, nil
}

func (s *Store) AddPoints(ctx context.Context, id string, delta int64) error {
	if s.AddPointsErr != nil {
		return s.AddPointsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[id]; ok {
		p.Points += delta
	}
	return nil
}

func (s *Store) UpsertCertificate(ctx context.Context, c *models.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.certificates[c.UserID+"|"+string(c.Tier)] = &cp
	return nil
}

func (s *Store) ListCertificatesByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Certificate
	for _, c := range s.certificates {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out, nil
}

func (s *Store) GetCertificateByCode(ctx context.Context, code string) (*models.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.certificates {
		if c.VerifyCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}
