package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler(t *testing.T) {
	h := setupHandlers(t)

	t.Run("employees cannot list accounts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.users.List(rr, newRequest(t, http.MethodGet, "/users", h.employee, nil, nil))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin lists accounts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.users.List(rr, newRequest(t, http.MethodGet, "/users", h.admin, nil, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var users []domain.UserDTO
		decodeBody(t, rr, &users)
		assert.Len(t, users, 2)
	})

	newUser := domain.CreateUserRequest{
		Username: "night-shift",
		FullName: "Night Shift",
		Password: "laundry-at-night",
		Role:     domain.RoleEmployee,
	}

	var created domain.UserDTO
	t.Run("create", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.users.Create(rr, newRequest(t, http.MethodPost, "/users", h.admin, newUser, nil))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		decodeBody(t, rr, &created)
		assert.True(t, created.IsActive)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.users.Create(rr, newRequest(t, http.MethodPost, "/users", h.admin, newUser, nil))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		req := newUser
		req.Username = "another"
		req.Password = "short"
		rr := httptest.NewRecorder()
		h.users.Create(rr, newRequest(t, http.MethodPost, "/users", h.admin, req, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr).Errors, "password")
	})

	t.Run("deactivate", func(t *testing.T) {
		inactive := false
		rr := httptest.NewRecorder()
		h.users.SetActive(rr, newRequest(t, http.MethodPatch, "/users/3/active", h.admin,
			domain.SetUserActiveRequest{IsActive: &inactive}, idParam(created.ID)))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var got domain.UserDTO
		decodeBody(t, rr, &got)
		assert.False(t, got.IsActive)
	})

	t.Run("admins cannot deactivate themselves", func(t *testing.T) {
		inactive := false
		rr := httptest.NewRecorder()
		h.users.SetActive(rr, newRequest(t, http.MethodPatch, "/users/1/active", h.admin,
			domain.SetUserActiveRequest{IsActive: &inactive}, idParam(h.admin.UserID)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		active := true
		rr := httptest.NewRecorder()
		h.users.SetActive(rr, newRequest(t, http.MethodPatch, "/users/99/active", h.admin,
			domain.SetUserActiveRequest{IsActive: &active}, idParam(99)))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
