package handler

import (
	"net/http"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/service"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// Get godoc
// @Summary Get shop settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.SettingsDTO
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "load settings")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToSettingsDTO(settings))
}

// Update godoc
// @Summary Update shop settings
// @Description Admin only. The caller confirms with their password. Existing orders keep their weight per load snapshot.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateSettingsRequest true "Settings to change"
// @Success 200 {object} domain.SettingsDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.UpdateSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := h.settingsService.Update(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update settings")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToSettingsDTO(settings))
}
