package handler

import (
	"net/http"
	"strconv"

	"github.com/freshfold/laundry-api/internal/service"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	capacityService *service.CapacityService
	clock           service.Clock
	logger          *zap.Logger
}

func NewScheduleHandler(capacityService *service.CapacityService, clock service.Clock, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		capacityService: capacityService,
		clock:           clock,
		logger:          logger,
	}
}

// Capacity godoc
// @Summary Check load capacity for a date
// @Description Remaining is negative when the day is over-booked
// @Tags Schedule
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.CapacityDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /schedule/capacity [get]
func (h *ScheduleHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	day := service.Today(h.clock)
	if date != nil {
		day = *date
	}

	capacity, err := h.capacityService.CheckCapacity(r.Context(), day)
	if err != nil {
		handleServiceError(w, h.logger, err, "check capacity")
		return
	}
	respondJSON(w, http.StatusOK, capacity)
}

// Suggestions godoc
// @Summary Suggest dates with free capacity
// @Description Scans forward from the day after `from`, skipping Sundays. The list may be shorter than requested.
// @Tags Schedule
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Param lookahead query int false "Days to scan" default(30)
// @Param want query int false "Dates wanted" default(3)
// @Success 200 {array} domain.AvailableDateDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /schedule/suggestions [get]
func (h *ScheduleHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	start := service.Today(h.clock)
	if from != nil {
		start = *from
	}

	lookahead, ok := optionalPositiveInt(w, r, "lookahead")
	if !ok {
		return
	}
	want, ok := optionalPositiveInt(w, r, "want")
	if !ok {
		return
	}

	dates, err := h.capacityService.SuggestAvailableDates(r.Context(), start, lookahead, want)
	if err != nil {
		handleServiceError(w, h.logger, err, "suggest dates")
		return
	}
	respondJSON(w, http.StatusOK, dates)
}

// optionalPositiveInt returns 0 when the parameter is absent
func optionalPositiveInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 366 {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return n, true
}
