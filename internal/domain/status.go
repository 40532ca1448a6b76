package domain

import "time"

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusLate      OrderStatus = "late"
	OrderStatusUnclaimed OrderStatus = "unclaimed"
)

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusLate, OrderStatusUnclaimed:
		return true
	}
	return false
}

// ScheduleType says whether the customer picks the order up or the shop delivers it
type ScheduleType string

const (
	SchedulePickup   ScheduleType = "pickup"
	ScheduleDelivery ScheduleType = "delivery"
)

// IsValid reports whether t is a known schedule type
func (t ScheduleType) IsValid() bool {
	return t == SchedulePickup || t == ScheduleDelivery
}

// DeriveStatus computes the effective status of an order on the given day.
// Completed is terminal. An order due today or later is pending; an overdue
// delivery is late and an overdue pickup is unclaimed. Only calendar dates are
// compared.
func DeriveStatus(order *Order, today time.Time) OrderStatus {
	if order.Status == OrderStatusCompleted {
		return OrderStatusCompleted
	}
	if !CivilDate(order.ScheduleDate).Before(CivilDate(today)) {
		return OrderStatusPending
	}
	if order.ScheduleType == ScheduleDelivery {
		return OrderStatusLate
	}
	return OrderStatusUnclaimed
}
