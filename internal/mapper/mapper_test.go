package mapper_test

import (
	"testing"
	"time"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestToOrderDTO(t *testing.T) {
	order := &domain.Order{
		ID:           7,
		EmployeeID:   2,
		CustomerName: "Ana Cruz",
		TotalAmount:  decimal.RequireFromString("410"),
		ScheduleType: domain.ScheduleDelivery,
		ScheduleDate: day("2024-03-10"),
		Status:       domain.OrderStatusPending,
		CreatedAt:    time.Date(2024, 3, 9, 8, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ID: 1, ServiceName: "Wash & Fold", Price: decimal.RequireFromString("120"), Quantity: 3, CalculatedAmount: decimal.RequireFromString("360")},
		},
	}

	t.Run("overdue delivery shows as late", func(t *testing.T) {
		dto := mapper.ToOrderDTO(order, day("2024-03-15"))
		assert.Equal(t, domain.OrderStatusLate, dto.Status)
		assert.Equal(t, "2024-03-10", dto.ScheduleDate)
		assert.Equal(t, "2024-03-09T08:30:00Z", dto.CreatedAt)
		require.Len(t, dto.Items, 1)
		assert.Equal(t, "Wash & Fold", dto.Items[0].ServiceName)
	})

	t.Run("due today stays pending", func(t *testing.T) {
		dto := mapper.ToOrderDTO(order, day("2024-03-10"))
		assert.Equal(t, domain.OrderStatusPending, dto.Status)
	})

	t.Run("no lines leaves items nil", func(t *testing.T) {
		bare := *order
		bare.Items = nil
		assert.Nil(t, mapper.ToOrderDTO(&bare, day("2024-03-10")).Items)
	})
}

func TestToBudgetEntryDTO(t *testing.T) {
	entry := &domain.BudgetEntry{
		ID:              3,
		ExpenseName:     "Rent",
		AllocatedAmount: decimal.RequireFromString("3100"),
		PeriodStart:     day("2024-01-01"),
		PeriodEnd:       day("2024-01-31"),
		DailyRate:       decimal.RequireFromString("100"),
	}

	t.Run("partial overlap", func(t *testing.T) {
		dto := mapper.ToBudgetEntryDTO(entry, day("2024-01-25"), day("2024-02-10"))
		assert.Equal(t, 7, dto.OverlapDays)
		assert.True(t, dto.ProportionalExpense.Equal(decimal.RequireFromString("700")))
		assert.Equal(t, "2024-01-01", dto.PeriodStart)
	})

	t.Run("no overlap", func(t *testing.T) {
		dto := mapper.ToBudgetEntryDTO(entry, day("2024-02-01"), day("2024-02-29"))
		assert.Zero(t, dto.OverlapDays)
		assert.True(t, dto.ProportionalExpense.IsZero())
	})
}

func TestToReportSnapshotDTO(t *testing.T) {
	snapshot := &domain.ReportSnapshot{
		ID:            1,
		ReportName:    "January",
		DateFrom:      day("2024-01-01"),
		DateTo:        day("2024-01-31"),
		GrossIncome:   decimal.RequireFromString("250"),
		TotalExpenses: decimal.RequireFromString("3100"),
		NetIncome:     decimal.RequireFromString("-2850"),
	}
	assert.Nil(t, mapper.ToReportSnapshotDTO(snapshot).ExpenseDetails)

	snapshot.Details = []domain.SnapshotExpenseDetail{{
		BudgetID:            3,
		ExpenseName:         "Rent",
		BudgetDateStart:     day("2024-01-01"),
		BudgetDateEnd:       day("2024-01-31"),
		OverlapDays:         31,
		ProportionalExpense: decimal.RequireFromString("3100"),
	}}
	dto := mapper.ToReportSnapshotDTO(snapshot)
	require.Len(t, dto.ExpenseDetails, 1)
	assert.Equal(t, uint(3), dto.ExpenseDetails[0].BudgetID)
	assert.Equal(t, "2024-01-31", dto.ExpenseDetails[0].BudgetDateEnd)
}
