package handler

import (
	"net/http"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/service"
	"go.uber.org/zap"
)

type ItemHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewItemHandler(catalogService *service.CatalogService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// List godoc
// @Summary List catalog items
// @Description Disabled items are hidden unless includeDisabled is set or type=disabled is requested
// @Tags Items
// @Produce json
// @Param type query string false "Filter by type" Enums(service, addon, disabled)
// @Param includeDisabled query bool false "Include disabled items"
// @Success 200 {array} domain.ItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &repository.ItemFilters{
		IncludeDisabled: r.URL.Query().Get("includeDisabled") == "true",
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := domain.ItemType(raw)
		if !t.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid item type")
			return
		}
		filters.Type = &t
	}

	items, err := h.catalogService.List(r.Context(), filters)
	if err != nil {
		handleServiceError(w, h.logger, err, "list items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetByID godoc
// @Summary Get a catalog item
// @Tags Items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} domain.ItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "item")
	if !ok {
		return
	}

	item, err := h.catalogService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "load item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Add a catalog item
// @Tags Items
// @Accept json
// @Produce json
// @Param request body domain.CreateItemRequest true "Item"
// @Success 201 {object} domain.ItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.CreateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.catalogService.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// Update godoc
// @Summary Update a catalog item
// @Description Existing orders keep the name and price they were created with
// @Tags Items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body domain.UpdateItemRequest true "Item"
// @Success 200 {object} domain.ItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "item")
	if !ok {
		return
	}
	var req domain.UpdateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.catalogService.Update(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a catalog item
// @Tags Items
// @Param id path int true "Item ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "item")
	if !ok {
		return
	}

	if err := h.catalogService.Delete(r.Context(), actor, id); err != nil {
		handleServiceError(w, h.logger, err, "delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
