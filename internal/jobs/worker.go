package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Felici4no/RedeSentinela/internal/certificates"
	"github.com/Felici4no/RedeSentinela/internal/geo"
	"github.com/Felici4no/RedeSentinela/internal/observability"
	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

// DefaultInterval is the refresh period when the config leaves it unset.
const DefaultInterval = 5 * time.Minute

// Snapshot is the derived view the worker recomputes each cycle. It is
// replaced wholesale, never mutated in place.
type Snapshot struct {
	Clusters    []geo.Cluster   `json:"clusters"`
	TopAreas    []geo.AreaCount `json:"top_areas"`
	RefreshedAt int64           `json:"refreshed_at"`
}

// Worker periodically rebuilds the hot-zone snapshot and issues any newly
// earned certificates. Both passes are idempotent, so a missed or doubled
// cycle is harmless.
type Worker struct {
	reports  repository.ReportRepo
	profiles repository.ProfileRepo
	certs    repository.CertificateRepo
	clock    clockwork.Clock
	metrics  *observability.Metrics
	logger   *slog.Logger
	interval time.Duration

	snapshot atomic.Pointer[Snapshot]
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(rr repository.ReportRepo, pr repository.ProfileRepo, cr repository.CertificateRepo, clock clockwork.Clock, m *observability.Metrics, logger *slog.Logger, interval time.Duration) *Worker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if m == nil {
		m = observability.NewMetricsForTesting()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{
		reports:  rr,
		profiles: pr,
		certs:    cr,
		clock:    clock,
		metrics:  m,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs one cycle immediately, then keeps refreshing on the interval
// until Stop is called or the context is canceled.
func (w *Worker) Start(ctx context.Context) {
	w.runOnce(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := w.clock.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				w.logger.Info("derived-view worker stopping")
				return
			case <-ctx.Done():
				w.logger.Info("context canceled, derived-view worker exiting")
				return
			case <-ticker.Chan():
				w.runOnce(ctx)
			}
		}
	}()
}

// Stop signals the worker to stop and waits for it.
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

// Snapshot returns the last computed view, or nil before the first cycle
// completes.
func (w *Worker) Snapshot() *Snapshot {
	return w.snapshot.Load()
}

func (w *Worker) runOnce(ctx context.Context) {
	if err := w.RefreshSnapshot(ctx); err != nil {
		w.logger.Error("refresh snapshot", "err", err)
	}
	issued, err := w.IssueCertificates(ctx)
	if err != nil {
		w.logger.Error("issue certificates", "err", err)
		return
	}
	if issued > 0 {
		w.logger.Info("certificates issued", slog.Int("count", issued))
	}
}

// RefreshSnapshot rebuilds the cluster and area rankings over all located
// reports and publishes the result atomically.
func (w *Worker) RefreshSnapshot(ctx context.Context) error {
	started := w.clock.Now()

	located, err := w.reports.ListReports(ctx, repository.ReportFilter{OnlyLocated: true})
	if err != nil {
		return fmt.Errorf("list located reports: %w", err)
	}
	all, err := w.reports.ListReports(ctx, repository.ReportFilter{})
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	snap := &Snapshot{
		Clusters:    geo.Clusters(located, geo.MapClusterLimit),
		TopAreas:    geo.TopAreas(all, geo.TopAreaLimit),
		RefreshedAt: w.clock.Now().UTC().UnixMilli(),
	}
	w.snapshot.Store(snap)

	w.metrics.HotZoneClusters.Set(float64(len(snap.Clusters)))
	w.metrics.SnapshotRefreshSecs.Observe(w.clock.Since(started).Seconds())
	return nil
}

// IssueCertificates walks every contributor, computes the tiers their
// validated reports earn, and upserts any certificate not yet on record.
// Returns the number of new issues.
func (w *Worker) IssueCertificates(ctx context.Context) (int, error) {
	userIDs, err := w.profiles.ListProfileIDsWithReports(ctx)
	if err != nil {
		return 0, fmt.Errorf("list contributors: %w", err)
	}

	issued := 0
	for _, userID := range userIDs {
		validated, err := w.reports.ListReports(ctx, repository.ReportFilter{
			UserID: userID,
			Status: models.StatusValidated,
		})
		if err != nil {
			return issued, fmt.Errorf("list validated reports for %s: %w", userID, err)
		}

		achieved := certificates.AchievedTiers(validated)
		if len(achieved) == 0 {
			continue
		}

		existing, err := w.certs.ListCertificatesByUser(ctx, userID)
		if err != nil {
			return issued, fmt.Errorf("list certificates for %s: %w", userID, err)
		}
		held := make(map[models.Tier]bool, len(existing))
		for _, c := range existing {
			held[c.Tier] = true
		}

		for _, tier := range achieved {
			if held[tier] {
				continue
			}
			cert := certificates.NewCertificate(userID, tier, w.clock.Now())
			if err := w.certs.UpsertCertificate(ctx, cert); err != nil {
				return issued, fmt.Errorf("issue %s certificate for %s: %w", tier, userID, err)
			}
			issued++
			w.metrics.CertificatesIssued.Inc()
			w.logger.Info("certificate issued",
				slog.String("user_id", userID),
				slog.String("tier", string(tier)),
			)
		}
	}
	return issued, nil
}
