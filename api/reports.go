package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/Felici4no/RedeSentinela/internal/reports"
	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

type ReportsHandler struct {
	svc        *reports.Service
	reportRepo repository.ReportRepo
}

func NewReportsHandler(svc *reports.Service, rr repository.ReportRepo) *ReportsHandler {
	return &ReportsHandler{svc: svc, reportRepo: rr}
}

// writeServiceError maps lifecycle errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *reports.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Reason, http.StatusBadRequest)
	case errors.Is(err, reports.ErrDailyLimit):
		http.Error(w, "Daily submission limit reached", http.StatusTooManyRequests)
	case errors.Is(err, reports.ErrNotFound):
		http.Error(w, "Report not found", http.StatusNotFound)
	case errors.Is(err, reports.ErrAlreadyProcessed):
		http.Error(w, "Report already processed", http.StatusConflict)
	default:
		logger.Error("report operation failed", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type submitRequest struct {
	Type        string          `json:"type"`
	Severity    models.Severity `json:"severity"`
	Description string          `json:"description"`
	Lat         *float64        `json:"lat"`
	Lng         *float64        `json:"lng"`
	AddressText string          `json:"address_text"`
	PhotoURL    string          `json:"photo_url"`
}

type submitResponse struct {
	Report      *models.Report `json:"report"`
	Educational string         `json:"educational_message"`
}

func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Submit(r.Context(), userID, reports.SubmitInput{
		Type:        req.Type,
		Severity:    req.Severity,
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
		AddressText: req.AddressText,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(submitResponse{Report: result.Report, Educational: result.Educational})
}

// List returns the caller's own reports. Administrators see every report and
// may filter by user_id, status, severity and type.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := repository.ReportFilter{UserID: userID}
	if RoleFromContext(r.Context()) == models.RoleAdmin {
		q := r.URL.Query()
		filter.UserID = q.Get("user_id")
		filter.Status = models.ReportStatus(q.Get("status"))
		filter.Severity = models.Severity(q.Get("severity"))
		filter.Type = q.Get("type")
	}

	list, err := h.reportRepo.ListReports(r.Context(), filter)
	if err != nil {
		logger.Error("list reports", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Report{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	report, err := h.reportRepo.GetReportByID(r.Context(), id)
	if err != nil {
		logger.Error("get report", slog.Any("err", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	// a foreign report is indistinguishable from a missing one for citizens
	if report == nil || (RoleFromContext(r.Context()) != models.RoleAdmin && report.UserID != userID) {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

type validateRequest struct {
	Severity *models.Severity `json:"severity"`
}

func (h *ReportsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	adminID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req validateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	report, err := h.svc.Validate(r.Context(), mux.Vars(r)["id"], adminID, req.Severity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (h *ReportsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	adminID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := h.svc.Reject(r.Context(), mux.Vars(r)["id"], adminID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
