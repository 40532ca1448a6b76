package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole is the access level of a staff account
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User is a staff account that can log in to the point of sale
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	FullName     string    `gorm:"type:varchar(200);not null;column:full_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'employee'"`
	IsActive     bool      `gorm:"not null;default:true;column:is_active"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// ItemType classifies catalog entries
type ItemType string

const (
	ItemTypeService  ItemType = "service"
	ItemTypeAddon    ItemType = "addon"
	ItemTypeDisabled ItemType = "disabled"
)

// IsValid reports whether t is a known item type
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeService, ItemTypeAddon, ItemTypeDisabled:
		return true
	}
	return false
}

// Item is a sellable service or add-on in the catalog
type Item struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"type:varchar(150);not null"`
	Type      ItemType        `gorm:"type:varchar(20);not null;index"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// BudgetEntry is a recurring expense spread evenly over its effective period
type BudgetEntry struct {
	ID              uint            `gorm:"primaryKey"`
	ExpenseName     string          `gorm:"type:varchar(200);not null;column:expense_name"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;column:allocated_amount"`
	PeriodStart     time.Time       `gorm:"type:date;not null;index;column:period_start"`
	PeriodEnd       time.Time       `gorm:"type:date;not null;index;column:period_end"`
	DailyRate       decimal.Decimal `gorm:"type:decimal(12,2);not null;column:daily_rate"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// Order is a customer's laundry drop-off with its pickup or delivery schedule
type Order struct {
	ID                    uint            `gorm:"primaryKey"`
	EmployeeID            uint            `gorm:"not null;index;column:employee_id"`
	CustomerName          string          `gorm:"type:varchar(200);not null;column:customer_name"`
	Contact               string          `gorm:"type:varchar(50);not null"`
	Address               string          `gorm:"type:varchar(500);not null"`
	TotalWeight           decimal.Decimal `gorm:"type:decimal(10,2);not null;column:total_weight"`
	TotalLoad             int             `gorm:"not null;column:total_load"`
	WeightPerLoadSnapshot decimal.Decimal `gorm:"type:decimal(10,2);not null;column:weight_per_load_snapshot"`
	DeliveryFee           decimal.Decimal `gorm:"type:decimal(12,2);not null;column:delivery_fee"`
	TotalAmount           decimal.Decimal `gorm:"type:decimal(12,2);not null;column:total_amount"`
	ScheduleType          ScheduleType    `gorm:"type:varchar(20);not null;column:schedule_type"`
	ScheduleDate          time.Time       `gorm:"type:date;not null;index;column:schedule_date"`
	Status                OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Items                 []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time       `gorm:"not null;index"`
	UpdatedAt             time.Time       `gorm:"not null"`
}

// OrderItem is a sold line. Name and price are copied from the catalog at sale
// time so later catalog edits never change a past receipt.
type OrderItem struct {
	ID               uint            `gorm:"primaryKey"`
	OrderID          uint            `gorm:"not null;index;column:order_id"`
	ServiceName      string          `gorm:"type:varchar(150);not null;column:service_name"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity         int             `gorm:"not null"`
	CalculatedAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;column:calculated_amount"`
}

// ReportSnapshot is an immutable, persisted copy of a computed income report
type ReportSnapshot struct {
	ID                 uint                    `gorm:"primaryKey"`
	ReportName         string                  `gorm:"type:varchar(200);not null;column:report_name"`
	DateFrom           time.Time               `gorm:"type:date;not null;column:date_from"`
	DateTo             time.Time               `gorm:"type:date;not null;column:date_to"`
	GrossIncome        decimal.Decimal         `gorm:"type:decimal(14,2);not null;column:gross_income"`
	TotalExpenses      decimal.Decimal         `gorm:"type:decimal(14,2);not null;column:total_expenses"`
	NetIncome          decimal.Decimal         `gorm:"type:decimal(14,2);not null;column:net_income"`
	TotalOrders        int                     `gorm:"not null;column:total_orders"`
	TotalBudgetEntries int                     `gorm:"not null;column:total_budget_entries"`
	CreatedBy          uint                    `gorm:"not null;index;column:created_by"`
	Notes              string                  `gorm:"type:text"`
	ArchivePath        string                  `gorm:"type:varchar(500);column:archive_path"`
	Details            []SnapshotExpenseDetail `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time               `gorm:"not null;index"`
}

// SnapshotExpenseDetail records how one budget entry contributed to a snapshot
type SnapshotExpenseDetail struct {
	ID                  uint            `gorm:"primaryKey"`
	SnapshotID          uint            `gorm:"not null;index;column:snapshot_id"`
	BudgetID            uint            `gorm:"not null;column:budget_id"`
	ExpenseName         string          `gorm:"type:varchar(200);not null;column:expense_name"`
	BudgetAllocated     decimal.Decimal `gorm:"type:decimal(12,2);not null;column:budget_allocated"`
	DailyCost           decimal.Decimal `gorm:"type:decimal(12,2);not null;column:daily_cost"`
	BudgetDateStart     time.Time       `gorm:"type:date;not null;column:budget_date_start"`
	BudgetDateEnd       time.Time       `gorm:"type:date;not null;column:budget_date_end"`
	OverlapDays         int             `gorm:"not null;column:overlap_days"`
	ProportionalExpense decimal.Decimal `gorm:"type:decimal(12,2);not null;column:proportional_expense"`
}

// Setting is one named scalar in the shop configuration table
type Setting struct {
	Name      string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:varchar(255);not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Setting names
const (
	SettingWeightPerLoad = "weight_per_load"
	SettingLoadLimit     = "load_limit"
	SettingDeliveryFee   = "delivery_fee"
)

// ShopSettings is the typed view of the settings table
type ShopSettings struct {
	WeightPerLoad decimal.Decimal
	LoadLimit     int
	DeliveryFee   decimal.Decimal
}
