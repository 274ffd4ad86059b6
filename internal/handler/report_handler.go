package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/rosterly/backend/internal/model"
	"github.com/rosterly/backend/internal/repository"
	"github.com/rosterly/backend/internal/service"
	"github.com/rosterly/backend/pkg/auth"
)

// ReportHandler handles report form submission, downloads and the admin listing.
type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sub service.ReportSubmission
	if err := decodeBody(w, r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	receipt, err := h.reportService.Create(r.Context(), sub)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Code)
		case errors.Is(err, service.ErrReportInProgress):
			writeError(w, http.StatusConflict, "report_in_progress")
		case errors.Is(err, service.ErrReportFailed):
			slog.Error("report generation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "report_failed")
		default:
			slog.Error("report create failed", "error", err)
			writeError(w, http.StatusInternalServerError, "create_failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// Download handles GET /api/reports/{id}/download?token=...
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	token := r.URL.Query().Get("token")

	dl, err := h.reportService.Download(r.Context(), id, token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			writeError(w, http.StatusForbidden, "invalid_token")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found")
		case errors.Is(err, service.ErrReportExpired):
			writeError(w, http.StatusGone, "report_expired")
		default:
			slog.Error("report download failed", "report_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "download_failed")
		}
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	w.Header().Set("Cache-Control", "private, no-store")
	if _, err := io.Copy(w, dl.Body); err != nil {
		slog.Warn("report download interrupted", "report_id", id, "error", err)
	}
}

type reportRequestListResponse struct {
	ReportRequests []*model.ReportRequest `json:"report_requests"`
}

// AdminList handles GET /api/admin/report-requests.
// Supports query params: industry, limit, offset.
func (h *ReportHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdminFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	q := r.URL.Query()
	opts := model.ReportRequestListOptions{
		Industry: q.Get("industry"),
		Limit:    50,
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		opts.Limit = n
	}
	if o := q.Get("offset"); o != "" {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_offset")
			return
		}
		opts.Offset = n
	}

	list, err := h.reportService.List(r.Context(), opts)
	if err != nil {
		slog.Error("list report requests failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	// Return [] not null for empty lists
	if list == nil {
		list = []*model.ReportRequest{}
	}
	writeJSON(w, http.StatusOK, reportRequestListResponse{ReportRequests: list})
}
