package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/metrics"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeliveryFeeLineName is the service name of the line that carries the delivery charge
const DeliveryFeeLineName = "Delivery Fee"

type OrderService struct {
	orderRepo *repository.OrderRepository
	itemRepo  *repository.ItemRepository
	userRepo  *repository.UserRepository
	settings  SettingsProvider
	clock     Clock
	metrics   *metrics.Metrics
	logger    *zap.Logger
	db        *gorm.DB
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	itemRepo *repository.ItemRepository,
	userRepo *repository.UserRepository,
	settings SettingsProvider,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
	db *gorm.DB,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		userRepo:  userRepo,
		settings:  settings,
		clock:     clock,
		metrics:   m,
		logger:    logger,
		db:        db,
	}
}

// CreateOrder places an order for the calling employee. The order row and all
// of its lines are written in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, actor *auth.UserContext, req *domain.CreateOrderRequest) (*domain.OrderDTO, error) {
	if actor == nil {
		return nil, ErrUserContextRequired
	}

	customerName, err := requiredText("customerName", req.CustomerName)
	if err != nil {
		return nil, err
	}
	contact, err := requiredText("contact", req.Contact)
	if err != nil {
		return nil, err
	}
	address, err := requiredText("address", req.Address)
	if err != nil {
		return nil, err
	}
	weight, err := positiveWeight(req.TotalWeight)
	if err != nil {
		return nil, err
	}
	if !req.ScheduleType.IsValid() {
		return nil, invalid("scheduleType", "must be pickup or delivery")
	}
	scheduleDate, err := domain.ParseDate(req.ScheduleDate)
	if err != nil {
		return nil, invalid("scheduleDate", err.Error())
	}
	if len(req.Items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	fee := decimal.Zero
	if req.ScheduleType == domain.ScheduleDelivery {
		fee = settings.DeliveryFee
	}
	lines = withDeliveryFee(lines, req.ScheduleType, fee)
	weightPerLoad := domain.RoundWeight(settings.WeightPerLoad)

	order := &domain.Order{
		EmployeeID:            actor.UserID,
		CustomerName:          customerName,
		Contact:               contact,
		Address:               address,
		TotalWeight:           weight,
		TotalLoad:             domain.LoadsFor(weight, weightPerLoad),
		WeightPerLoadSnapshot: weightPerLoad,
		DeliveryFee:           fee,
		TotalAmount:           sumLines(lines),
		ScheduleType:          req.ScheduleType,
		ScheduleDate:          scheduleDate,
		Status:                domain.OrderStatusPending,
		CreatedAt:             s.clock.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := orders.CreateItems(ctx, order.ID, lines); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create order", zap.Error(err), zap.Uint("employee_id", actor.UserID))
		return nil, persistence("create order", err)
	}
	order.Items = lines

	s.metrics.OrderCreated(string(order.ScheduleType), order.TotalAmount.InexactFloat64())
	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("employee_id", actor.UserID),
		zap.Int("total_load", order.TotalLoad),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.String("schedule_date", domain.FormatDate(order.ScheduleDate)),
	)

	dto := mapper.ToOrderDTO(order, Today(s.clock))
	return &dto, nil
}

// GetOrder returns one order with its lines and derived status
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*domain.OrderDTO, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	today := Today(s.clock)
	if derived := domain.DeriveStatus(order, today); derived != order.Status {
		if _, err := s.UpdateStatus(ctx, id, derived); err != nil && !errors.Is(err, ErrOrderNotFound) {
			s.logger.Warn("failed to reconcile order status", zap.Error(err), zap.Uint("order_id", id))
		}
	}
	dto := mapper.ToOrderDTO(order, today)
	return &dto, nil
}

// ListOrders reconciles overdue statuses and returns a page of orders
func (s *OrderService) ListOrders(ctx context.Context, page, pageSize int, filters *repository.OrderFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	if _, err := s.ReconcileStatuses(ctx); err != nil {
		s.logger.Warn("status reconciliation failed during list", zap.Error(err))
	}

	orders, total, err := s.orderRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		s.logger.Error("failed to list orders", zap.Error(err))
		return nil, persistence("list orders", err)
	}

	today := Today(s.clock)
	dtos := make([]domain.OrderDTO, len(orders))
	for i := range orders {
		dtos[i] = mapper.ToOrderDTO(&orders[i], today)
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// UpdateOrder applies the supplied subset of fields. The caller re-enters
// their password. The weight-per-load snapshot is kept unless a value is given
// or UseCurrentWeightPerLoad is set. Supplied lines replace all existing
// lines in the same transaction as the field update.
func (s *OrderService) UpdateOrder(ctx context.Context, actor *auth.UserContext, id uint, req *domain.UpdateOrderRequest) (*domain.OrderDTO, error) {
	if actor == nil {
		return nil, ErrUserContextRequired
	}
	if err := confirmPassword(ctx, s.userRepo, actor.UserID, req.Password); err != nil {
		s.logger.Warn("order update rejected", zap.Uint("user_id", actor.UserID), zap.Uint("order_id", id), zap.Error(err))
		return nil, err
	}

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	previousType := order.ScheduleType

	if req.CustomerName != nil {
		if order.CustomerName, err = requiredText("customerName", *req.CustomerName); err != nil {
			return nil, err
		}
	}
	if req.Contact != nil {
		if order.Contact, err = requiredText("contact", *req.Contact); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if order.Address, err = requiredText("address", *req.Address); err != nil {
			return nil, err
		}
	}
	if req.TotalWeight != nil {
		if order.TotalWeight, err = positiveWeight(*req.TotalWeight); err != nil {
			return nil, err
		}
	}
	if req.ScheduleType != nil {
		if !req.ScheduleType.IsValid() {
			return nil, invalid("scheduleType", "must be pickup or delivery")
		}
		order.ScheduleType = *req.ScheduleType
	}
	if req.ScheduleDate != nil {
		if order.ScheduleDate, err = domain.ParseDate(*req.ScheduleDate); err != nil {
			return nil, invalid("scheduleDate", err.Error())
		}
	}
	if req.Items != nil && len(req.Items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}

	var settings *domain.ShopSettings
	needSettings := req.UseCurrentWeightPerLoad ||
		(order.ScheduleType == domain.ScheduleDelivery && previousType != domain.ScheduleDelivery)
	if needSettings {
		if settings, err = s.settings.Get(ctx); err != nil {
			return nil, err
		}
	}

	switch {
	case req.WeightPerLoad != nil:
		wpl := domain.RoundWeight(decimal.NewFromFloat(*req.WeightPerLoad))
		if !wpl.IsPositive() {
			return nil, invalid("weightPerLoad", "must be at least 0.01")
		}
		order.WeightPerLoadSnapshot = wpl
	case req.UseCurrentWeightPerLoad:
		order.WeightPerLoadSnapshot = domain.RoundWeight(settings.WeightPerLoad)
	}
	order.TotalLoad = domain.LoadsFor(order.TotalWeight, order.WeightPerLoadSnapshot)

	rebuildLines := req.Items != nil || order.ScheduleType != previousType
	var lines []domain.OrderItem
	if rebuildLines {
		if req.Items != nil {
			if lines, err = s.buildLines(ctx, req.Items); err != nil {
				return nil, err
			}
		} else {
			lines = catalogLines(order.Items)
		}
		switch {
		case order.ScheduleType != domain.ScheduleDelivery:
			order.DeliveryFee = decimal.Zero
		case previousType != domain.ScheduleDelivery:
			order.DeliveryFee = settings.DeliveryFee
		}
		lines = withDeliveryFee(lines, order.ScheduleType, order.DeliveryFee)
		order.TotalAmount = sumLines(lines)
	}

	today := Today(s.clock)
	if (order.Status == domain.OrderStatusLate || order.Status == domain.OrderStatusUnclaimed) &&
		!order.ScheduleDate.Before(today) {
		order.Status = domain.OrderStatusPending
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		if err := orders.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if rebuildLines {
			if err := orders.ReplaceItems(ctx, order.ID, lines); err != nil {
				return fmt.Errorf("replace order items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update order", zap.Error(err), zap.Uint("order_id", id))
		return nil, persistence("update order", err)
	}
	if rebuildLines {
		order.Items = lines
	}

	s.logger.Info("order updated",
		zap.Uint("order_id", id),
		zap.Uint("user_id", actor.UserID),
		zap.Bool("items_replaced", rebuildLines),
	)
	dto := mapper.ToOrderDTO(order, today)
	return &dto, nil
}

// ReplaceOrderItems swaps every line of an order for the given list and
// recomputes its total. The delivery fee line is kept.
func (s *OrderService) ReplaceOrderItems(ctx context.Context, actor *auth.UserContext, id uint, items []domain.OrderLineRequest) (*domain.OrderDTO, error) {
	if actor == nil {
		return nil, ErrUserContextRequired
	}
	if len(items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, items)
	if err != nil {
		return nil, err
	}
	lines = withDeliveryFee(lines, order.ScheduleType, order.DeliveryFee)
	order.TotalAmount = sumLines(lines)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		if err := orders.Update(ctx, order); err != nil {
			return fmt.Errorf("update order total: %w", err)
		}
		if err := orders.ReplaceItems(ctx, order.ID, lines); err != nil {
			return fmt.Errorf("replace order items: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to replace order items", zap.Error(err), zap.Uint("order_id", id))
		return nil, persistence("replace order items", err)
	}
	order.Items = lines

	s.logger.Info("order items replaced", zap.Uint("order_id", id), zap.Int("lines", len(lines)))
	dto := mapper.ToOrderDTO(order, Today(s.clock))
	return &dto, nil
}

// UpdateStatus changes the stored status of an order that is still pending and
// returns the number of rows changed. Finalized orders are left alone.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) (int64, error) {
	if !status.IsValid() {
		return 0, invalid("status", "must be one of pending, completed, late, unclaimed")
	}
	changed, err := s.orderRepo.UpdateStatusIfPending(ctx, id, status)
	if err != nil {
		s.logger.Error("failed to update order status", zap.Error(err), zap.Uint("order_id", id))
		return 0, persistence("update order status", err)
	}
	if changed == 0 {
		if _, err := s.loadOrder(ctx, id); err != nil {
			return 0, err
		}
		return 0, nil
	}
	s.metrics.StatusChanged(string(status), "update", changed)
	s.logger.Info("order status updated", zap.Uint("order_id", id), zap.String("status", string(status)))
	return changed, nil
}

// MarkCompleted finalizes an order from any status
func (s *OrderService) MarkCompleted(ctx context.Context, actor *auth.UserContext, id uint) (*domain.OrderDTO, error) {
	if actor == nil {
		return nil, ErrUserContextRequired
	}
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusCompleted {
		if err := s.orderRepo.SetStatus(ctx, id, domain.OrderStatusCompleted); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, persistence("complete order", err)
		}
		order.Status = domain.OrderStatusCompleted
		s.metrics.StatusChanged(string(domain.OrderStatusCompleted), "manual", 1)
		s.logger.Info("order completed", zap.Uint("order_id", id), zap.Uint("user_id", actor.UserID))
	}
	dto := mapper.ToOrderDTO(order, Today(s.clock))
	return &dto, nil
}

// DeleteOrder removes an order. Its lines are removed by the schema's cascade
// in the same transaction.
func (s *OrderService) DeleteOrder(ctx context.Context, actor *auth.UserContext, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		s.logger.Error("failed to delete order", zap.Error(err), zap.Uint("order_id", id))
		return persistence("delete order", err)
	}
	s.logger.Info("order deleted", zap.Uint("order_id", id), zap.Uint("user_id", actor.UserID))
	return nil
}

// ReconcileStatuses persists the derived status of every pending order whose
// schedule date has passed. Only pending rows are touched.
func (s *OrderService) ReconcileStatuses(ctx context.Context) (int64, error) {
	today := Today(s.clock)

	late, err := s.orderRepo.MarkOverdue(ctx, domain.ScheduleDelivery, today, domain.OrderStatusLate)
	if err != nil {
		return 0, persistence("mark late deliveries", err)
	}
	unclaimed, err := s.orderRepo.MarkOverdue(ctx, domain.SchedulePickup, today, domain.OrderStatusUnclaimed)
	if err != nil {
		return late, persistence("mark unclaimed pickups", err)
	}

	s.metrics.StatusChanged(string(domain.OrderStatusLate), "reconcile", late)
	s.metrics.StatusChanged(string(domain.OrderStatusUnclaimed), "reconcile", unclaimed)
	if late+unclaimed > 0 {
		s.logger.Info("order statuses reconciled",
			zap.Int64("late", late),
			zap.Int64("unclaimed", unclaimed),
			zap.String("today", domain.FormatDate(today)),
		)
	}
	return late + unclaimed, nil
}

func (s *OrderService) loadOrder(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, persistence("load order", err)
	}
	return order, nil
}

// buildLines prices each requested line from the catalog. Unknown and disabled
// items are rejected.
func (s *OrderService) buildLines(ctx context.Context, reqLines []domain.OrderLineRequest) ([]domain.OrderItem, error) {
	ids := make([]uint, 0, len(reqLines))
	for _, l := range reqLines {
		ids = append(ids, l.ItemID)
	}
	catalog, err := s.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, persistence("load items", err)
	}

	lines := make([]domain.OrderItem, 0, len(reqLines))
	for i, l := range reqLines {
		field := fmt.Sprintf("items[%d]", i)
		if l.Quantity <= 0 {
			return nil, invalid(field+".quantity", "must be greater than 0")
		}
		item, ok := catalog[l.ItemID]
		if !ok {
			return nil, invalid(field+".itemId", fmt.Sprintf("item %d does not exist", l.ItemID))
		}
		if item.Type == domain.ItemTypeDisabled {
			return nil, invalid(field+".itemId", fmt.Sprintf("item %q is disabled", item.Name))
		}
		lines = append(lines, domain.OrderItem{
			ServiceName:      item.Name,
			Price:            item.Price,
			Quantity:         l.Quantity,
			CalculatedAmount: domain.LineAmount(item.Price, l.Quantity),
		})
	}
	return lines, nil
}

// withDeliveryFee appends the delivery fee line for delivery orders with a fee
func withDeliveryFee(lines []domain.OrderItem, scheduleType domain.ScheduleType, fee decimal.Decimal) []domain.OrderItem {
	if scheduleType != domain.ScheduleDelivery || !fee.IsPositive() {
		return lines
	}
	return append(lines, domain.OrderItem{
		ServiceName:      DeliveryFeeLineName,
		Price:            fee,
		Quantity:         1,
		CalculatedAmount: fee,
	})
}

// catalogLines copies existing lines without the delivery fee line
func catalogLines(items []domain.OrderItem) []domain.OrderItem {
	lines := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if item.ServiceName == DeliveryFeeLineName {
			continue
		}
		item.ID = 0
		lines = append(lines, item)
	}
	return lines
}

func sumLines(lines []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.CalculatedAmount)
	}
	return total
}

func requiredText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "is required")
	}
	return value, nil
}

func positiveWeight(weight float64) (decimal.Decimal, error) {
	w := domain.RoundWeight(decimal.NewFromFloat(weight))
	if !w.IsPositive() {
		return decimal.Zero, invalid("totalWeight", "must be greater than 0")
	}
	return w, nil
}
