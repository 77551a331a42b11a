package api

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/Felici4no/RedeSentinela/internal/certificates"
	"github.com/Felici4no/RedeSentinela/internal/geo"
	"github.com/Felici4no/RedeSentinela/internal/jobs"
	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

type DashboardHandler struct {
	reportRepo  repository.ReportRepo
	profileRepo repository.ProfileRepo
	certRepo    repository.CertificateRepo
	worker      *jobs.Worker
}

func NewDashboardHandler(rr repository.ReportRepo, pr repository.ProfileRepo, cr repository.CertificateRepo, worker *jobs.Worker) *DashboardHandler {
	return &DashboardHandler{reportRepo: rr, profileRepo: pr, certRepo: cr, worker: worker}
}

type dashboardResponse struct {
	Reports  []models.Report       `json:"reports"`
	Points   int64                 `json:"points"`
	Progress certificates.Progress `json:"progress"`
	HotZones []geo.Cluster         `json:"hot_zones"`
}

// Dashboard assembles the citizen view: own reports, accumulated points,
// tier progress and the community hot-zone panel from the worker snapshot.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctx := r.Context()

	own, err := h.reportRepo.ListReports(ctx, repository.ReportFilter{UserID: userID})
	if err != nil {
		logger.Error("list own reports", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if own == nil {
		own = []models.Report{}
	}

	profile, err := h.profileRepo.GetProfileByID(ctx, userID)
	if err != nil || profile == nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	var validated []models.Report
	for _, rep := range own {
		if rep.Status == models.StatusValidated {
			validated = append(validated, rep)
		}
	}

	var hotZones []geo.Cluster
	if h.worker != nil {
		if snap := h.worker.Snapshot(); snap != nil {
			hotZones = snap.Clusters
			if len(hotZones) > geo.PanelClusterLimit {
				hotZones = hotZones[:geo.PanelClusterLimit]
			}
		}
	}
	if hotZones == nil {
		hotZones = []geo.Cluster{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dashboardResponse{
		Reports:  own,
		Points:   profile.Points,
		Progress: certificates.TierProgress(validated),
		HotZones: hotZones,
	})
}

// ListCertificates returns the caller's issued certificates.
func (h *DashboardHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.certRepo.ListCertificatesByUser(r.Context(), userID)
	if err != nil {
		logger.Error("list certificates", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Certificate{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// IssueCertificate issues the named tier on demand if the caller's validated
// reports earn it. Re-issuing an earned tier is an idempotent upsert.
func (h *DashboardHandler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tier := models.Tier(mux.Vars(r)["tier"])
	if !tier.Valid() {
		http.Error(w, "Unknown tier", http.StatusBadRequest)
		return
	}

	validated, err := h.reportRepo.ListReports(r.Context(), repository.ReportFilter{
		UserID: userID,
		Status: models.StatusValidated,
	})
	if err != nil {
		logger.Error("list validated reports", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !certificates.Achieved(tier, validated) {
		http.Error(w, "Tier requirements not met", http.StatusBadRequest)
		return
	}

	cert := certificates.NewCertificate(userID, tier, time.Now())
	if err := h.certRepo.UpsertCertificate(r.Context(), cert); err != nil {
		logger.Error("issue certificate", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cert)
}

// VerifyCertificate resolves a public verification code. Open endpoint so a
// shared certificate can be checked by anyone.
func (h *DashboardHandler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.certRepo.GetCertificateByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		logger.Error("verify certificate", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cert == nil {
		http.Error(w, "Certificate not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cert)
}
