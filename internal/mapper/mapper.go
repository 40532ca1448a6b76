package mapper

import (
	"time"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/shopspring/decimal"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: formatTimestamp(user.CreatedAt),
	}
}

// ToItemDTO converts Item to ItemDTO
func ToItemDTO(item *domain.Item) domain.ItemDTO {
	return domain.ItemDTO{
		ID:        item.ID,
		Name:      item.Name,
		Type:      item.Type,
		Price:     item.Price,
		CreatedAt: formatTimestamp(item.CreatedAt),
		UpdatedAt: formatTimestamp(item.UpdatedAt),
	}
}

// ToOrderDTO converts Order to OrderDTO. The status is derived for today, so a
// stale stored status is never shown.
func ToOrderDTO(order *domain.Order, today time.Time) domain.OrderDTO {
	dto := domain.OrderDTO{
		ID:                    order.ID,
		EmployeeID:            order.EmployeeID,
		CustomerName:          order.CustomerName,
		Contact:               order.Contact,
		Address:               order.Address,
		TotalWeight:           order.TotalWeight,
		TotalLoad:             order.TotalLoad,
		WeightPerLoadSnapshot: order.WeightPerLoadSnapshot,
		DeliveryFee:           order.DeliveryFee,
		TotalAmount:           order.TotalAmount,
		ScheduleType:          order.ScheduleType,
		ScheduleDate:          domain.FormatDate(order.ScheduleDate),
		Status:                domain.DeriveStatus(order, today),
		CreatedAt:             formatTimestamp(order.CreatedAt),
		UpdatedAt:             formatTimestamp(order.UpdatedAt),
	}
	if len(order.Items) > 0 {
		dto.Items = make([]domain.OrderItemDTO, len(order.Items))
		for i, item := range order.Items {
			dto.Items[i] = domain.OrderItemDTO{
				ID:               item.ID,
				ServiceName:      item.ServiceName,
				Price:            item.Price,
				Quantity:         item.Quantity,
				CalculatedAmount: item.CalculatedAmount,
			}
		}
	}
	return dto
}

// ToBudgetEntryDTO converts BudgetEntry to BudgetEntryDTO with its share of
// the given window
func ToBudgetEntryDTO(entry *domain.BudgetEntry, from, to time.Time) domain.BudgetEntryDTO {
	dto := domain.BudgetEntryDTO{
		ID:                  entry.ID,
		ExpenseName:         entry.ExpenseName,
		AllocatedAmount:     entry.AllocatedAmount,
		PeriodStart:         domain.FormatDate(entry.PeriodStart),
		PeriodEnd:           domain.FormatDate(entry.PeriodEnd),
		DailyRate:           entry.DailyRate,
		ProportionalExpense: decimal.Zero,
	}
	if _, _, days, ok := domain.Overlap(entry.PeriodStart, entry.PeriodEnd, from, to); ok {
		dto.OverlapDays = days
		dto.ProportionalExpense = domain.ProportionalExpense(entry.DailyRate, days)
	}
	return dto
}

// ToExpenseDetailDTO converts ExpenseDetail to ExpenseDetailDTO
func ToExpenseDetailDTO(d *domain.ExpenseDetail) domain.ExpenseDetailDTO {
	return domain.ExpenseDetailDTO{
		BudgetID:            d.BudgetID,
		ExpenseName:         d.ExpenseName,
		BudgetAllocated:     d.BudgetAllocated,
		DailyCost:           d.DailyCost,
		BudgetDateStart:     domain.FormatDate(d.BudgetDateStart),
		BudgetDateEnd:       domain.FormatDate(d.BudgetDateEnd),
		OverlapDays:         d.OverlapDays,
		ProportionalExpense: d.ProportionalExpense,
	}
}

// ToReportResultDTO converts ReportResult to ReportResultDTO
func ToReportResultDTO(r *domain.ReportResult) domain.ReportResultDTO {
	dto := domain.ReportResultDTO{
		DateFrom:           domain.FormatDate(r.DateFrom),
		DateTo:             domain.FormatDate(r.DateTo),
		GrossIncome:        r.GrossIncome,
		TotalExpenses:      r.TotalExpenses,
		NetIncome:          r.NetIncome,
		TotalOrders:        r.TotalOrders,
		TotalBudgetEntries: r.TotalBudgetEntries,
		ExpenseDetails:     make([]domain.ExpenseDetailDTO, len(r.ExpenseDetails)),
	}
	for i := range r.ExpenseDetails {
		dto.ExpenseDetails[i] = ToExpenseDetailDTO(&r.ExpenseDetails[i])
	}
	return dto
}

// ToReportSnapshotDTO converts ReportSnapshot to ReportSnapshotDTO. Details are
// included only when they were loaded.
func ToReportSnapshotDTO(s *domain.ReportSnapshot) domain.ReportSnapshotDTO {
	dto := domain.ReportSnapshotDTO{
		ID:                 s.ID,
		ReportName:         s.ReportName,
		DateFrom:           domain.FormatDate(s.DateFrom),
		DateTo:             domain.FormatDate(s.DateTo),
		GrossIncome:        s.GrossIncome,
		TotalExpenses:      s.TotalExpenses,
		NetIncome:          s.NetIncome,
		TotalOrders:        s.TotalOrders,
		TotalBudgetEntries: s.TotalBudgetEntries,
		CreatedBy:          s.CreatedBy,
		Notes:              s.Notes,
		ArchivePath:        s.ArchivePath,
		CreatedAt:          formatTimestamp(s.CreatedAt),
	}
	if len(s.Details) > 0 {
		dto.ExpenseDetails = make([]domain.ExpenseDetailDTO, len(s.Details))
		for i, d := range s.Details {
			detail := DetailFromSnapshot(&d)
			dto.ExpenseDetails[i] = ToExpenseDetailDTO(&detail)
		}
	}
	return dto
}

// DetailFromSnapshot converts a stored detail row back to an ExpenseDetail
func DetailFromSnapshot(d *domain.SnapshotExpenseDetail) domain.ExpenseDetail {
	return domain.ExpenseDetail{
		BudgetID:            d.BudgetID,
		ExpenseName:         d.ExpenseName,
		BudgetAllocated:     d.BudgetAllocated,
		DailyCost:           d.DailyCost,
		BudgetDateStart:     d.BudgetDateStart,
		BudgetDateEnd:       d.BudgetDateEnd,
		OverlapDays:         d.OverlapDays,
		ProportionalExpense: d.ProportionalExpense,
	}
}

// ToSettingsDTO converts ShopSettings to SettingsDTO
func ToSettingsDTO(s *domain.ShopSettings) domain.SettingsDTO {
	return domain.SettingsDTO{
		WeightPerLoad: s.WeightPerLoad,
		LoadLimit:     s.LoadLimit,
		DeliveryFee:   s.DeliveryFee,
	}
}
