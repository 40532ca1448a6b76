package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/export"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/service"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Calculate godoc
// @Summary Calculate an income report
// @Description Budget entries contribute their daily rate times the days they overlap the window. Income is the total of orders created within the window.
// @Tags Reports
// @Produce json
// @Param dateFrom query string true "Window start (YYYY-MM-DD)"
// @Param dateTo query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} domain.ReportResultDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/calculate [get]
func (h *ReportHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseWindow(w, r.URL.Query().Get("dateFrom"), r.URL.Query().Get("dateTo"))
	if !ok {
		return
	}

	result, err := h.reportService.Calculate(r.Context(), from, to)
	if err != nil {
		handleServiceError(w, h.logger, err, "calculate report")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToReportResultDTO(result))
}

// ListSnapshots godoc
// @Summary List saved report snapshots
// @Tags Reports
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ReportSnapshotDTO}
// @Security BearerAuth
// @Router /reports/snapshots [get]
func (h *ReportHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	result, err := h.reportService.ListSnapshots(r.Context(), page, pageSize)
	if err != nil {
		handleServiceError(w, h.logger, err, "list report snapshots")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetSnapshot godoc
// @Summary Get a saved report snapshot
// @Tags Reports
// @Produce json
// @Param id path int true "Snapshot ID"
// @Success 200 {object} domain.ReportSnapshotDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/snapshots/{id} [get]
func (h *ReportHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "snapshot")
	if !ok {
		return
	}

	snapshot, err := h.reportService.GetSnapshot(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "load report snapshot")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToReportSnapshotDTO(snapshot))
}

// SaveSnapshot godoc
// @Summary Calculate and save a report snapshot
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body domain.SaveSnapshotRequest true "Snapshot"
// @Success 201 {object} domain.ReportSnapshotDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/snapshots [post]
func (h *ReportHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.SaveSnapshotRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	snapshot, err := h.reportService.CalculateAndSave(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "save report snapshot")
		return
	}
	respondJSON(w, http.StatusCreated, mapper.ToReportSnapshotDTO(snapshot))
}

// DeleteSnapshot godoc
// @Summary Delete a report snapshot
// @Tags Reports
// @Param id path int true "Snapshot ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/snapshots/{id} [delete]
func (h *ReportHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "snapshot")
	if !ok {
		return
	}

	if err := h.reportService.DeleteSnapshot(r.Context(), actor, id); err != nil {
		handleServiceError(w, h.logger, err, "delete report snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportSnapshot godoc
// @Summary Download a snapshot as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Snapshot ID"
// @Success 200 {file} file
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/snapshots/{id}/export [get]
func (h *ReportHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "snapshot")
	if !ok {
		return
	}

	filename, body, err := h.reportService.ExportSnapshot(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "export report snapshot")
		return
	}
	h.streamWorkbook(w, filename, body)
}

// ArchiveSnapshot godoc
// @Summary Archive a snapshot spreadsheet to blob storage
// @Tags Reports
// @Produce json
// @Param id path int true "Snapshot ID"
// @Success 200 {object} domain.ArchiveResponse
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/snapshots/{id}/archive [post]
func (h *ReportHandler) ArchiveSnapshot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "snapshot")
	if !ok {
		return
	}

	resp, err := h.reportService.ArchiveSnapshot(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.logger, err, "archive report snapshot")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// DownloadArchive godoc
// @Summary Download an archived snapshot spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Snapshot ID"
// @Success 200 {file} file
// @Failure 404 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/snapshots/{id}/archive [get]
func (h *ReportHandler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "snapshot")
	if !ok {
		return
	}

	filename, body, err := h.reportService.DownloadArchive(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "download snapshot archive")
		return
	}
	defer body.Close()
	h.streamWorkbook(w, filename, body)
}

func (h *ReportHandler) streamWorkbook(w http.ResponseWriter, filename string, body io.Reader) {
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("failed to stream workbook", zap.Error(err), zap.String("filename", filename))
	}
}

func parseWindow(w http.ResponseWriter, rawFrom, rawTo string) (from, to time.Time, ok bool) {
	from, err := domain.ParseDate(rawFrom)
	if err != nil {
		respondValidationError(w, domain.NewValidationError("dateFrom", err.Error()))
		return from, to, false
	}
	to, err = domain.ParseDate(rawTo)
	if err != nil {
		respondValidationError(w, domain.NewValidationError("dateTo", err.Error()))
		return from, to, false
	}
	return from, to, true
}
