package domain

import "github.com/shopspring/decimal"

// Money and weights are serialized as JSON numbers (see decimal.MarshalJSONWithoutQuotes in main).

// ============================================================================
// Auth and users
// ============================================================================

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"` // ISO 8601
	User      UserDTO `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=200"`
}

type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=100"`
	FullName string   `json:"fullName" validate:"required,max=200"`
	Password string   `json:"password" validate:"required,min=8,max=200"`
	Role     UserRole `json:"role" validate:"required,oneof=admin employee"`
}

type SetUserActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type UserDTO struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	FullName  string   `json:"fullName"`
	Role      UserRole `json:"role"`
	IsActive  bool     `json:"isActive"`
	CreatedAt string   `json:"createdAt"` // ISO 8601
}

// ============================================================================
// Catalog
// ============================================================================

type CreateItemRequest struct {
	Name  string   `json:"name" validate:"required,max=150"`
	Type  ItemType `json:"type" validate:"required,oneof=service addon disabled"`
	Price float64  `json:"price" validate:"gt=0"`
}

type UpdateItemRequest struct {
	Name  string   `json:"name" validate:"required,max=150"`
	Type  ItemType `json:"type" validate:"required,oneof=service addon disabled"`
	Price float64  `json:"price" validate:"gt=0"`
}

type ItemDTO struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Type      ItemType        `json:"type"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// ============================================================================
// Budget
// ============================================================================

type BudgetEntryRequest struct {
	ExpenseName     string  `json:"expenseName" validate:"required,max=200"`
	AllocatedAmount float64 `json:"allocatedAmount" validate:"gt=0"`
	PeriodStart     string  `json:"periodStart" validate:"required,datetime=2006-01-02"`
	PeriodEnd       string  `json:"periodEnd" validate:"required,datetime=2006-01-02"`
}

type BudgetEntryDTO struct {
	ID                  uint            `json:"id"`
	ExpenseName         string          `json:"expenseName"`
	AllocatedAmount     decimal.Decimal `json:"allocatedAmount"`
	PeriodStart         string          `json:"periodStart"`
	PeriodEnd           string          `json:"periodEnd"`
	DailyRate           decimal.Decimal `json:"dailyRate"`
	OverlapDays         int             `json:"overlapDays"`
	ProportionalExpense decimal.Decimal `json:"proportionalExpense"`
}

// BudgetViewDTO lists budget entries touching a window with their share of it
type BudgetViewDTO struct {
	DateFrom      string           `json:"dateFrom"`
	DateTo        string           `json:"dateTo"`
	Entries       []BudgetEntryDTO `json:"entries"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
}

// ============================================================================
// Orders
// ============================================================================

type OrderLineRequest struct {
	ItemID   uint `json:"itemId" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customerName" validate:"required,max=200"`
	Contact      string             `json:"contact" validate:"required,max=50"`
	Address      string             `json:"address" validate:"required,max=500"`
	TotalWeight  float64            `json:"totalWeight" validate:"gt=0"`
	ScheduleType ScheduleType       `json:"scheduleType" validate:"required,oneof=pickup delivery"`
	ScheduleDate string             `json:"scheduleDate" validate:"required,datetime=2006-01-02"`
	Items        []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest is a partial edit. Nil fields are left unchanged; a nil
// Items slice keeps the current lines. Password re-authenticates the caller.
type UpdateOrderRequest struct {
	Password                string             `json:"password" validate:"required"`
	CustomerName            *string            `json:"customerName,omitempty" validate:"omitempty,min=1,max=200"`
	Contact                 *string            `json:"contact,omitempty" validate:"omitempty,min=1,max=50"`
	Address                 *string            `json:"address,omitempty" validate:"omitempty,min=1,max=500"`
	TotalWeight             *float64           `json:"totalWeight,omitempty" validate:"omitempty,gt=0"`
	ScheduleType            *ScheduleType      `json:"scheduleType,omitempty" validate:"omitempty,oneof=pickup delivery"`
	ScheduleDate            *string            `json:"scheduleDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	WeightPerLoad           *float64           `json:"weightPerLoad,omitempty" validate:"omitempty,gt=0"`
	UseCurrentWeightPerLoad bool               `json:"useCurrentWeightPerLoad,omitempty"`
	Items                   []OrderLineRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

type ReplaceOrderItemsRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending completed late unclaimed"`
}

// StatusUpdateResult reports whether a status change was applied. Updated is
// zero when the order had already left pending.
type StatusUpdateResult struct {
	Updated int64    `json:"updated"`
	Order   OrderDTO `json:"order"`
}

type OrderItemDTO struct {
	ID               uint            `json:"id"`
	ServiceName      string          `json:"serviceName"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int             `json:"quantity"`
	CalculatedAmount decimal.Decimal `json:"calculatedAmount"`
}

type OrderDTO struct {
	ID                    uint            `json:"id"`
	EmployeeID            uint            `json:"employeeId"`
	CustomerName          string          `json:"customerName"`
	Contact               string          `json:"contact"`
	Address               string          `json:"address"`
	TotalWeight           decimal.Decimal `json:"totalWeight"`
	TotalLoad             int             `json:"totalLoad"`
	WeightPerLoadSnapshot decimal.Decimal `json:"weightPerLoadSnapshot"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	ScheduleType          ScheduleType    `json:"scheduleType"`
	ScheduleDate          string          `json:"scheduleDate"`
	Status                OrderStatus     `json:"status"`
	Items                 []OrderItemDTO  `json:"items,omitempty"`
	CreatedAt             string          `json:"createdAt"`
	UpdatedAt             string          `json:"updatedAt"`
}

// ============================================================================
// Scheduling
// ============================================================================

type CapacityDTO struct {
	Date        string `json:"date"`
	Scheduled   int    `json:"scheduledLoads"`
	Limit       int    `json:"loadLimit"`
	Remaining   int    `json:"remaining"`
	FullyBooked bool   `json:"fullyBooked"`
}

type AvailableDateDTO struct {
	Date      string `json:"date"`
	Remaining int    `json:"remaining"`
}

// ============================================================================
// Reports
// ============================================================================

type SaveSnapshotRequest struct {
	ReportName string `json:"reportName" validate:"required,max=200"`
	DateFrom   string `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo     string `json:"dateTo" validate:"required,datetime=2006-01-02"`
	Notes      string `json:"notes,omitempty" validate:"max=2000"`
}

type ExpenseDetailDTO struct {
	BudgetID            uint            `json:"budgetId"`
	ExpenseName         string          `json:"expenseName"`
	BudgetAllocated     decimal.Decimal `json:"budgetAllocated"`
	DailyCost           decimal.Decimal `json:"dailyCost"`
	BudgetDateStart     string          `json:"budgetDateStart"`
	BudgetDateEnd       string          `json:"budgetDateEnd"`
	OverlapDays         int             `json:"overlapDays"`
	ProportionalExpense decimal.Decimal `json:"proportionalExpense"`
}

type ReportResultDTO struct {
	DateFrom           string             `json:"dateFrom"`
	DateTo             string             `json:"dateTo"`
	GrossIncome        decimal.Decimal    `json:"grossIncome"`
	TotalExpenses      decimal.Decimal    `json:"totalExpenses"`
	NetIncome          decimal.Decimal    `json:"netIncome"`
	TotalOrders        int                `json:"totalOrders"`
	TotalBudgetEntries int                `json:"totalBudgetEntries"`
	ExpenseDetails     []ExpenseDetailDTO `json:"expenseDetails"`
}

type ReportSnapshotDTO struct {
	ID                 uint               `json:"id"`
	ReportName         string             `json:"reportName"`
	DateFrom           string             `json:"dateFrom"`
	DateTo             string             `json:"dateTo"`
	GrossIncome        decimal.Decimal    `json:"grossIncome"`
	TotalExpenses      decimal.Decimal    `json:"totalExpenses"`
	NetIncome          decimal.Decimal    `json:"netIncome"`
	TotalOrders        int                `json:"totalOrders"`
	TotalBudgetEntries int                `json:"totalBudgetEntries"`
	CreatedBy          uint               `json:"createdBy"`
	Notes              string             `json:"notes,omitempty"`
	ArchivePath        string             `json:"archivePath,omitempty"`
	CreatedAt          string             `json:"createdAt"`
	ExpenseDetails     []ExpenseDetailDTO `json:"expenseDetails,omitempty"`
}

// ArchiveResponse points at an uploaded snapshot workbook
type ArchiveResponse struct {
	SnapshotID uint   `json:"snapshotId"`
	Location   string `json:"location"`
}

// ============================================================================
// Settings and dashboard
// ============================================================================

type SettingsDTO struct {
	WeightPerLoad decimal.Decimal `json:"weightPerLoad"`
	LoadLimit     int             `json:"loadLimit"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
}

type UpdateSettingsRequest struct {
	Password      string   `json:"password" validate:"required"`
	WeightPerLoad *float64 `json:"weightPerLoad,omitempty" validate:"omitempty,gt=0"`
	LoadLimit     *int     `json:"loadLimit,omitempty" validate:"omitempty,gt=0"`
	DeliveryFee   *float64 `json:"deliveryFee,omitempty" validate:"omitempty,gte=0"`
}

type DashboardDTO struct {
	Today                string          `json:"today"`
	Capacity             CapacityDTO     `json:"capacity"`
	PendingOrders        int64           `json:"pendingOrders"`
	OrdersScheduledToday int64           `json:"ordersScheduledToday"`
	MonthToDateGross     decimal.Decimal `json:"monthToDateGross"`
	MonthToDateOrders    int             `json:"monthToDateOrders"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
