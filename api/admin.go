package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/Felici4no/RedeSentinela/internal/geo"
	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

// defaultStatsWindowDays bounds the admin stats query when no window is
// given.
const defaultStatsWindowDays = 30

type AdminHandler struct {
	reportRepo repository.ReportRepo
}

func NewAdminHandler(rr repository.ReportRepo) *AdminHandler {
	return &AdminHandler{reportRepo: rr}
}

type statsResponse struct {
	WindowDays   int                         `json:"window_days"`
	Total        int                         `json:"total"`
	HighSeverity int                         `json:"high_severity"`
	ByStatus     map[models.ReportStatus]int `json:"by_status"`
	BySeverity   map[models.Severity]int     `json:"by_severity"`
	ByType       map[string]int              `json:"by_type"`
}

// Stats aggregates report counts over a trailing window (default 30 days,
// override with ?days=N).
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days := defaultStatsWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	cutoff := time.Now().AddDate(0, 0, -days).UTC().UnixMilli()
	list, err := h.reportRepo.ListReports(r.Context(), repository.ReportFilter{CreatedAfter: cutoff})
	if err != nil {
		logger.Error("list reports for stats", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := statsResponse{
		WindowDays: days,
		ByStatus:   make(map[models.ReportStatus]int),
		BySeverity: make(map[models.Severity]int),
		ByType:     make(map[string]int),
	}
	for _, rep := range list {
		resp.Total++
		resp.ByStatus[rep.Status]++
		resp.BySeverity[rep.Severity]++
		resp.ByType[rep.Type]++
		if rep.Severity == models.SeverityHigh {
			resp.HighSeverity++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type mapResponse struct {
	Clusters []geo.Cluster   `json:"clusters"`
	TopAreas []geo.AreaCount `json:"top_areas"`
}

// Map computes clusters and recurring areas live, honoring type, severity
// and status filters.
func (h *AdminHandler) Map(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ReportFilter{
		Type:     q.Get("type"),
		Severity: models.Severity(q.Get("severity")),
		Status:   models.ReportStatus(q.Get("status")),
	}

	list, err := h.reportRepo.ListReports(r.Context(), filter)
	if err != nil {
		logger.Error("list reports for map", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := mapResponse{
		Clusters: geo.Clusters(list, geo.MapClusterLimit),
		TopAreas: geo.TopAreas(list, geo.TopAreaLimit),
	}
	if resp.Clusters == nil {
		resp.Clusters = []geo.Cluster{}
	}
	if resp.TopAreas == nil {
		resp.TopAreas = []geo.AreaCount{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
