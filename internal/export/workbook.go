package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet  = "Summary"
	expensesSheet = "Expenses"
)

var expenseHeadings = []string{
	"Budget ID", "Expense", "Allocated", "Daily Cost", "Period Start", "Period End", "Overlap Days", "Proportional Expense",
}

// SnapshotWorkbook renders a saved income report as an xlsx workbook with a
// summary sheet and one row per expense detail
func SnapshotWorkbook(snapshot *domain.ReportSnapshot) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(expensesSheet); err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Report", snapshot.ReportName},
		{"From", domain.FormatDate(snapshot.DateFrom)},
		{"To", domain.FormatDate(snapshot.DateTo)},
		{"Gross Income", snapshot.GrossIncome.InexactFloat64()},
		{"Total Expenses", snapshot.TotalExpenses.InexactFloat64()},
		{"Net Income", snapshot.NetIncome.InexactFloat64()},
		{"Orders", snapshot.TotalOrders},
		{"Budget Entries", snapshot.TotalBudgetEntries},
		{"Notes", snapshot.Notes},
		{"Saved At", snapshot.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(expensesSheet, "A1", &expenseHeadings); err != nil {
		return nil, err
	}
	for i, d := range snapshot.Details {
		row := []interface{}{
			d.BudgetID,
			d.ExpenseName,
			d.BudgetAllocated.InexactFloat64(),
			d.DailyCost.InexactFloat64(),
			domain.FormatDate(d.BudgetDateStart),
			domain.FormatDate(d.BudgetDateEnd),
			d.OverlapDays,
			d.ProportionalExpense.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(expensesSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(expensesSheet, "A1", "H1", style)
		_ = f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), style)
	}
	_ = f.SetColWidth(expensesSheet, "B", "B", 30)
	_ = f.SetColWidth(summarySheet, "A", "B", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SnapshotFilename builds a download-safe file name for a snapshot workbook
func SnapshotFilename(snapshot *domain.ReportSnapshot) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(snapshot.ReportName, "-"), "-")
	if name == "" {
		name = "report"
	}
	return fmt.Sprintf("snapshot-%d-%s.xlsx", snapshot.ID, strings.ToLower(name))
}
