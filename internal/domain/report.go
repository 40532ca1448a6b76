package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseDetail is one budget entry's contribution to a report window
type ExpenseDetail struct {
	BudgetID            uint
	ExpenseName         string
	BudgetAllocated     decimal.Decimal
	DailyCost           decimal.Decimal
	BudgetDateStart     time.Time
	BudgetDateEnd       time.Time
	OverlapDays         int
	ProportionalExpense decimal.Decimal
}

// ReportResult is a computed income report for an inclusive date window
type ReportResult struct {
	DateFrom           time.Time
	DateTo             time.Time
	GrossIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	NetIncome          decimal.Decimal
	TotalOrders        int
	TotalBudgetEntries int
	ExpenseDetails     []ExpenseDetail
}

// IsConsistent reports whether the totals agree with the detail rows
func (r *ReportResult) IsConsistent() bool {
	sum := decimal.Zero
	for _, d := range r.ExpenseDetails {
		sum = sum.Add(d.ProportionalExpense)
	}
	return sum.Equal(r.TotalExpenses) &&
		r.NetIncome.Equal(r.GrossIncome.Sub(r.TotalExpenses)) &&
		r.TotalBudgetEntries == len(r.ExpenseDetails)
}
