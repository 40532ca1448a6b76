package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHandler(t *testing.T) {
	h := setupHandlers(t)
	testutil.CreateTestItem(t, h.db, "Retired Service", domain.ItemTypeDisabled, "10")

	t.Run("employees cannot add items", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.items.Create(rr, newRequest(t, http.MethodPost, "/items", h.employee, domain.CreateItemRequest{
			Name: "Dry Clean", Type: domain.ItemTypeService, Price: 200,
		}, nil))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	var created domain.ItemDTO
	t.Run("admin adds an item", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.items.Create(rr, newRequest(t, http.MethodPost, "/items", h.admin, domain.CreateItemRequest{
			Name: "Dry Clean", Type: domain.ItemTypeService, Price: 200,
		}, nil))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		decodeBody(t, rr, &created)
		assert.True(t, created.Price.Equal(testutil.Money("200")))
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.items.Create(rr, newRequest(t, http.MethodPost, "/items", h.admin, domain.CreateItemRequest{
			Name: "Free", Type: domain.ItemTypeAddon, Price: 0,
		}, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list hides disabled items", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.items.List(rr, newRequest(t, http.MethodGet, "/items", h.employee, nil, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var items []domain.ItemDTO
		decodeBody(t, rr, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "Dry Clean", items[0].Name)

		rr = httptest.NewRecorder()
		h.items.List(rr, newRequest(t, http.MethodGet, "/items?includeDisabled=true", h.employee, nil, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		decodeBody(t, rr, &items)
		assert.Len(t, items, 2)
	})

	t.Run("list rejects unknown type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.items.List(rr, newRequest(t, http.MethodGet, "/items?type=bundle", h.employee, nil, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("update and delete", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.items.Update(rr, newRequest(t, http.MethodPut, "/items/2", h.admin, domain.UpdateItemRequest{
			Name: "Dry Clean Premium", Type: domain.ItemTypeService, Price: 250,
		}, idParam(created.ID)))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = httptest.NewRecorder()
		h.items.GetByID(rr, newRequest(t, http.MethodGet, "/items/2", h.employee, nil, idParam(created.ID)))
		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.ItemDTO
		decodeBody(t, rr, &got)
		assert.Equal(t, "Dry Clean Premium", got.Name)

		rr = httptest.NewRecorder()
		h.items.Delete(rr, newRequest(t, http.MethodDelete, "/items/2", h.admin, nil, idParam(created.ID)))
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = httptest.NewRecorder()
		h.items.GetByID(rr, newRequest(t, http.MethodGet, "/items/2", h.employee, nil, idParam(created.ID)))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
