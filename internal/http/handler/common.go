package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// SuccessResponse wraps a payload with the success flag clients check first
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

// respondValidationError sends the field messages from validator or a domain
// ValidationError as a 400
func respondValidationError(w http.ResponseWriter, err error) {
	fieldErrors := make(map[string]string)
	detail := "One or more fields failed validation"

	var ve validator.ValidationErrors
	var de *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		for _, fe := range ve {
			fieldErrors[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	case errors.As(err, &de):
		detail = de.Error()
		if de.Field != "" {
			fieldErrors[de.Field] = de.Message
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
		Errors: fieldErrors,
	})
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusServiceUnavailable:
		return domain.ErrorTypeUnavailable
	default:
		return domain.ErrorTypeInternal
	}
}

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Persistence failures are logged in full and reported generically.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	var ve *domain.ValidationError
	var nf *service.NotFoundError
	var pe *service.PersistenceError

	switch {
	case errors.As(err, &ve):
		respondValidationError(w, err)
	case errors.As(err, &nf):
		respondWithError(w, http.StatusNotFound, capitalize(nf.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, capitalize(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "You do not have permission to "+action)
	case errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, service.ErrInconsistentReport):
		respondWithError(w, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, service.ErrStorageNotConfigured):
		respondWithError(w, http.StatusServiceUnavailable, capitalize(err.Error()))
	case errors.As(err, &pe):
		logger.Error("persistence failure", zap.String("action", action), zap.String("op", pe.Op), zap.Error(pe.Err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	default:
		logger.Error("request failed", zap.String("action", action), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeAndValidate reads a JSON body into req and runs struct validation.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseID reads a positive integer path parameter
func parseID(w http.ResponseWriter, r *http.Request, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid "+resource+" ID")
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads page and pageSize with defaults of 1 and 20
func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter
func parseDateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, err.Error())
	}
	return &d, nil
}

// actorFrom returns the authenticated caller or writes a 401
func actorFrom(w http.ResponseWriter, r *http.Request) (*auth.UserContext, bool) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return actor, true
}
