package handler

import (
	"net/http"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/service"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		logger:        logger,
	}
}

// List godoc
// @Summary List budget entries
// @Description Every entry is returned with its overlap and proportional expense for the window. The window defaults to the current month.
// @Tags Budget
// @Produce json
// @Param dateFrom query string false "Window start (YYYY-MM-DD)"
// @Param dateTo query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} domain.BudgetViewDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /budget [get]
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "dateFrom")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	to, err := parseDateQuery(r, "dateTo")
	if err != nil {
		respondValidationError(w, err)
		return
	}

	view, err := h.budgetService.ListEntries(r.Context(), from, to)
	if err != nil {
		handleServiceError(w, h.logger, err, "list budget entries")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetByID godoc
// @Summary Get a budget entry
// @Tags Budget
// @Produce json
// @Param id path int true "Budget entry ID"
// @Success 200 {object} domain.BudgetEntryDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /budget/{id} [get]
func (h *BudgetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "budget entry")
	if !ok {
		return
	}

	entry, err := h.budgetService.GetEntry(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "load budget entry")
		return
	}
	respondJSON(w, http.StatusOK, entryDTO(entry))
}

// Create godoc
// @Summary Add a budget entry
// @Tags Budget
// @Accept json
// @Produce json
// @Param request body domain.BudgetEntryRequest true "Budget entry"
// @Success 201 {object} domain.BudgetEntryDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /budget [post]
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.BudgetEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.budgetService.AddEntry(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create budget entry")
		return
	}
	respondJSON(w, http.StatusCreated, entryDTO(entry))
}

// Update godoc
// @Summary Update a budget entry
// @Description The daily rate is recomputed from the new amount and period
// @Tags Budget
// @Accept json
// @Produce json
// @Param id path int true "Budget entry ID"
// @Param request body domain.BudgetEntryRequest true "Budget entry"
// @Success 200 {object} domain.BudgetEntryDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /budget/{id} [put]
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "budget entry")
	if !ok {
		return
	}
	var req domain.BudgetEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.budgetService.UpdateEntry(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update budget entry")
		return
	}
	respondJSON(w, http.StatusOK, entryDTO(entry))
}

// Delete godoc
// @Summary Delete a budget entry
// @Tags Budget
// @Param id path int true "Budget entry ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /budget/{id} [delete]
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "budget entry")
	if !ok {
		return
	}

	if err := h.budgetService.DeleteEntry(r.Context(), actor, id); err != nil {
		handleServiceError(w, h.logger, err, "delete budget entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// entryDTO shows a single entry against its own period
func entryDTO(entry *domain.BudgetEntry) domain.BudgetEntryDTO {
	return mapper.ToBudgetEntryDTO(entry, entry.PeriodStart, entry.PeriodEnd)
}
