package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/freshfold/laundry-api/internal/domain"
	"go.uber.org/zap"
)

// UserLookup loads the stored account behind a token
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenService
	users  UserLookup
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenService, users UserLookup, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate requires a valid Bearer token belonging to an active account
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Invalid authorization header format")
			return
		}

		userCtx, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			writeError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Invalid or expired token")
			return
		}

		// Deactivated or deleted accounts lose access immediately, whatever the token says
		user, err := m.users.GetByID(r.Context(), userCtx.UserID)
		if err != nil || user == nil || !user.IsActive {
			m.logger.Warn("token for unknown or inactive user",
				zap.Uint("user_id", userCtx.UserID),
				zap.String("path", r.URL.Path),
			)
			writeError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Account is not active")
			return
		}
		userCtx = NewUserContext(user)

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Uint("user_id", userCtx.UserID),
			zap.String("username", userCtx.Username),
			zap.String("role", string(userCtx.Role)),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole middleware ensures user has specific role
func (m *Middleware) RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Authentication required")
				return
			}

			if !userCtx.HasAnyRole(roles...) {
				m.logger.Warn("role check failed",
					zap.Uint("user_id", userCtx.UserID),
					zap.String("role", string(userCtx.Role)),
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusForbidden, domain.ErrorTypeForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, errType, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Success: false,
		Type:    errType,
		Title:   http.StatusText(status),
		Status:  status,
		Detail:  detail,
	})
}
