package repository

import (
	"context"
	"strings"
	"time"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilters narrows order listings. Date bounds are inclusive civil dates.
type OrderFilters struct {
	Status       *domain.OrderStatus
	ScheduleType *domain.ScheduleType
	ScheduleFrom *time.Time
	ScheduleTo   *time.Time
	EmployeeID   *uint
	Search       string
	Sort         SortConfig
}

// orderSortFields whitelists the columns orders may be sorted by
var orderSortFields = map[string]string{
	"scheduleDate": "schedule_date",
	"createdAt":    "created_at",
	"totalAmount":  "total_amount",
	"customerName": "customer_name",
}

// OrderIncome is the slice of an order the report engine needs
type OrderIncome struct {
	ID          uint
	TotalAmount decimal.Decimal
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create inserts the order row only; lines are written with CreateItems
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

// CreateItems inserts line items one row at a time
func (r *OrderRepository) CreateItems(ctx context.Context, orderID uint, items []domain.OrderItem) error {
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = orderID
		if err := r.db.WithContext(ctx).Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReplaceItems deletes every line of the order and inserts items in their place
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID uint, items []domain.OrderItem) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	return r.CreateItems(ctx, orderID, items)
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update saves the order row without touching its lines
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

// Delete removes the order; its lines go with it through the foreign key cascade
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context, page, pageSize int, filters *OrderFilters) ([]domain.Order, int64, error) {
	var orders []domain.Order
	var total int64

	sort := SortConfig{Field: "scheduleDate", Order: SortOrderDesc}
	query := r.db.WithContext(ctx).Model(&domain.Order{})
	if filters != nil {
		if filters.Sort.Field != "" {
			sort = filters.Sort
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.ScheduleType != nil {
			query = query.Where("schedule_type = ?", *filters.ScheduleType)
		}
		if filters.ScheduleFrom != nil {
			query = query.Where("schedule_date >= ?", domain.CivilDate(*filters.ScheduleFrom))
		}
		if filters.ScheduleTo != nil {
			query = query.Where("schedule_date <= ?", domain.CivilDate(*filters.ScheduleTo))
		}
		if filters.EmployeeID != nil {
			query = query.Where("employee_id = ?", *filters.EmployeeID)
		}
		if filters.Search != "" {
			searchPattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(contact) LIKE ?", searchPattern, searchPattern)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Offset(offset).Limit(pageSize).
		Order(BuildOrderClause(sort, orderSortFields, "schedule_date")).
		Find(&orders).Error

	return orders, total, err
}

// UpdateStatusIfPending sets status only on a row still stored as pending and
// reports how many rows changed
func (r *OrderRepository) UpdateStatusIfPending(ctx context.Context, id uint, status domain.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, domain.OrderStatusPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// SetStatus sets status unconditionally
func (r *OrderRepository) SetStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkOverdue moves pending orders of one schedule type dated before today to status
func (r *OrderRepository) MarkOverdue(ctx context.Context, scheduleType domain.ScheduleType, today time.Time, status domain.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ? AND schedule_type = ? AND schedule_date < ?", domain.OrderStatusPending, scheduleType, domain.CivilDate(today)).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// SumLoadsOn totals the loads of every order scheduled on date
func (r *OrderRepository) SumLoadsOn(ctx context.Context, date time.Time) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total_load), 0)").
		Where("schedule_date = ?", domain.CivilDate(date)).
		Scan(&total).Error
	return int(total), err
}

// ListIncomeCreatedBetween returns the totals of orders created in [start, end)
func (r *OrderRepository) ListIncomeCreatedBetween(ctx context.Context, start, end time.Time) ([]OrderIncome, error) {
	var rows []OrderIncome
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("id, total_amount").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountScheduledOn(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("schedule_date = ?", domain.CivilDate(date)).
		Count(&count).Error
	return count, err
}
