package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		stored   OrderStatus
		schedule ScheduleType
		date     string
		want     OrderStatus
	}{
		{"completed stays completed", OrderStatusCompleted, ScheduleDelivery, "2024-01-01", OrderStatusCompleted},
		{"due today is pending", OrderStatusPending, SchedulePickup, "2024-03-10", OrderStatusPending},
		{"future is pending", OrderStatusLate, ScheduleDelivery, "2024-03-11", OrderStatusPending},
		{"overdue delivery is late", OrderStatusPending, ScheduleDelivery, "2024-03-09", OrderStatusLate},
		{"overdue pickup is unclaimed", OrderStatusPending, SchedulePickup, "2024-03-09", OrderStatusUnclaimed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.stored, ScheduleType: tt.schedule, ScheduleDate: date(t, tt.date)}
			assert.Equal(t, tt.want, DeriveStatus(o, today))
		})
	}
}

func TestDeriveStatus_IgnoresTimeOfDay(t *testing.T) {
	o := &Order{Status: OrderStatusPending, ScheduleType: SchedulePickup, ScheduleDate: date(t, "2024-03-10")}
	lateEvening := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, OrderStatusPending, DeriveStatus(o, lateEvening))
}

func TestOverlap(t *testing.T) {
	start, end, days, ok := Overlap(date(t, "2024-01-01"), date(t, "2024-01-31"), date(t, "2024-01-15"), date(t, "2024-02-15"))
	require.True(t, ok)
	assert.Equal(t, 17, days)
	assert.Equal(t, "2024-01-15", FormatDate(start))
	assert.Equal(t, "2024-01-31", FormatDate(end))

	_, _, days, ok = Overlap(date(t, "2024-01-01"), date(t, "2024-01-10"), date(t, "2024-01-11"), date(t, "2024-01-20"))
	assert.False(t, ok)
	assert.Zero(t, days)

	_, _, days, ok = Overlap(date(t, "2024-01-10"), date(t, "2024-01-10"), date(t, "2024-01-01"), date(t, "2024-01-31"))
	assert.True(t, ok)
	assert.Equal(t, 1, days)
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 31, InclusiveDays(date(t, "2024-01-01"), date(t, "2024-01-31")))
	assert.Equal(t, 1, InclusiveDays(date(t, "2024-01-01"), date(t, "2024-01-01")))
	assert.Equal(t, 29, InclusiveDays(date(t, "2024-02-01"), date(t, "2024-02-29")))
}

func TestDailyRate(t *testing.T) {
	assert.True(t, decimal.NewFromInt(100).Equal(DailyRate(decimal.NewFromInt(3100), 31)))
	assert.True(t, decimal.RequireFromString("33.33").Equal(DailyRate(decimal.NewFromInt(100), 3)))
	assert.True(t, DailyRate(decimal.NewFromInt(100), 0).IsZero())
}

func TestDailyRate_TimesDaysStaysNearAllocation(t *testing.T) {
	cases := []struct {
		amount string
		days   int
	}{
		{"3100", 31}, {"100", 3}, {"999.99", 7}, {"1500", 30}, {"12000", 365}, {"0.05", 2},
	}
	for _, c := range cases {
		allocated := decimal.RequireFromString(c.amount)
		rate := DailyRate(allocated, c.days)
		drift := rate.Mul(decimal.NewFromInt(int64(c.days))).Sub(allocated).Abs()
		// each day's rate is off by at most half a cent
		limit := decimal.RequireFromString("0.005").Mul(decimal.NewFromInt(int64(c.days)))
		assert.True(t, drift.LessThanOrEqual(limit), "amount %s over %d days drifted %s", c.amount, c.days, drift)
	}
}

func TestProportionalExpense(t *testing.T) {
	assert.True(t, decimal.NewFromInt(500).Equal(ProportionalExpense(decimal.NewFromInt(100), 5)))
	assert.True(t, ProportionalExpense(decimal.NewFromInt(100), 0).IsZero())
}

func TestLoadsFor(t *testing.T) {
	seven := decimal.NewFromInt(7)
	assert.Equal(t, 2, LoadsFor(decimal.NewFromInt(14), seven))
	assert.Equal(t, 3, LoadsFor(decimal.RequireFromString("14.1"), seven))
	assert.Equal(t, 1, LoadsFor(decimal.RequireFromString("0.5"), seven))
	assert.Equal(t, 0, LoadsFor(decimal.NewFromInt(10), decimal.Zero))
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	start, end := DayBounds(date(t, "2024-01-01"), date(t, "2024-01-31"), loc)
	assert.Equal(t, time.Date(2023, 12, 31, 16, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 31, 16, 0, 0, 0, time.UTC), end)
}

func TestReportResult_IsConsistent(t *testing.T) {
	r := &ReportResult{
		GrossIncome:        decimal.NewFromInt(500),
		TotalExpenses:      decimal.NewFromInt(3100),
		NetIncome:          decimal.NewFromInt(-2600),
		TotalBudgetEntries: 1,
		ExpenseDetails:     []ExpenseDetail{{ProportionalExpense: decimal.NewFromInt(3100)}},
	}
	assert.True(t, r.IsConsistent())

	r.NetIncome = decimal.NewFromInt(-2500)
	assert.False(t, r.IsConsistent())
}
