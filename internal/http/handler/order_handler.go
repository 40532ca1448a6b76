package handler

import (
	"net/http"
	"strconv"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/service"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// List godoc
// @Summary List orders
// @Description Overdue pending orders are reconciled to late or unclaimed before listing
// @Tags Orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(pending, completed, late, unclaimed)
// @Param scheduleType query string false "Filter by schedule type" Enums(pickup, delivery)
// @Param scheduleFrom query string false "Earliest schedule date (YYYY-MM-DD)"
// @Param scheduleTo query string false "Latest schedule date (YYYY-MM-DD)"
// @Param employeeId query int false "Filter by creating employee"
// @Param search query string false "Search customer name or contact"
// @Param sortBy query string false "Sort field" Enums(scheduleDate, createdAt, totalAmount, customerName) default(scheduleDate)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.OrderDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	q := r.URL.Query()

	filters := &repository.OrderFilters{
		Search: q.Get("search"),
		Sort: repository.SortConfig{
			Field: q.Get("sortBy"),
			Order: repository.ParseSortOrder(q.Get("sortOrder")),
		},
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filters.Status = &status
	}
	if raw := q.Get("scheduleType"); raw != "" {
		scheduleType := domain.ScheduleType(raw)
		if !scheduleType.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid schedule type filter")
			return
		}
		filters.ScheduleType = &scheduleType
	}
	if raw := q.Get("employeeId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid employee ID")
			return
		}
		employeeID := uint(id)
		filters.EmployeeID = &employeeID
	}

	var err error
	if filters.ScheduleFrom, err = parseDateQuery(r, "scheduleFrom"); err != nil {
		respondValidationError(w, err)
		return
	}
	if filters.ScheduleTo, err = parseDateQuery(r, "scheduleTo"); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.orderService.ListOrders(r.Context(), page, pageSize, filters)
	if err != nil {
		handleServiceError(w, h.logger, err, "list orders")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get an order
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "load order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Create godoc
// @Summary Create an order
// @Description Loads are computed from the current weight per load. Delivery orders carry the current delivery fee as a line.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body domain.CreateOrderRequest true "Order"
// @Success 201 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.CreateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create order")
		return
	}
	w.Header().Set("Location", "/api/v1/orders/"+strconv.FormatUint(uint64(order.ID), 10))
	respondJSON(w, http.StatusCreated, order)
}

// Update godoc
// @Summary Edit an order
// @Description Partial edit confirmed with the caller's password. Supplied items replace all lines.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body domain.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}
	var req domain.UpdateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// ReplaceItems godoc
// @Summary Replace order lines
// @Description All lines are deleted and recreated from the request in one transaction
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body domain.ReplaceOrderItemsRequest true "New lines"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/items [put]
func (h *OrderHandler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}
	var req domain.ReplaceOrderItemsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orderService.ReplaceOrderItems(r.Context(), actor, id, req.Items)
	if err != nil {
		handleServiceError(w, h.logger, err, "replace order items")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Set the status of a pending order
// @Description Orders that have already left pending are not changed; updated is 0 in that case
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body domain.UpdateOrderStatusRequest true "Status"
// @Success 200 {object} domain.StatusUpdateResult
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}
	var req domain.UpdateOrderStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handleServiceError(w, h.logger, err, "update order status")
		return
	}
	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "load order")
		return
	}
	respondJSON(w, http.StatusOK, domain.StatusUpdateResult{Updated: updated, Order: *order})
}

// Complete godoc
// @Summary Mark an order completed
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/complete [post]
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.MarkCompleted(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.logger, err, "complete order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Delete godoc
// @Summary Delete an order
// @Tags Orders
// @Param id path int true "Order ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(r.Context(), actor, id); err != nil {
		handleServiceError(w, h.logger, err, "delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
