// Package reports renders derived ledger figures into downloadable workbooks.
package reports

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// BuildCostCenterWorkbook renders a cost-center summary as an xlsx workbook.
func BuildCostCenterWorkbook(summary *domain.CostCenterSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Cost Center Summary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s)", summary.Name, summary.Code))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	window := "all time"
	if summary.From != nil && summary.To != nil {
		window = fmt.Sprintf("%s to %s", summary.From.Format("2006-01-02"), summary.To.Format("2006-01-02"))
	} else if summary.From != nil {
		window = fmt.Sprintf("from %s", summary.From.Format("2006-01-02"))
	} else if summary.To != nil {
		window = fmt.Sprintf("until %s", summary.To.Format("2006-01-02"))
	}
	f.SetCellValue(sheetName, "A2", "Period")
	f.SetCellValue(sheetName, "B2", window)

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total Expenses", summary.TotalExpenses},
		{"Teacher Salaries", summary.TeacherSalaries},
		{"Other Expenses", summary.OtherExpenses},
		{"Total Revenue", summary.TotalRevenue},
		{"Cash Inflow", summary.CashInflow},
		{"Cash Outflow", summary.CashOutflow},
		{"Opening Balance", summary.OpeningBalance},
		{"Closing Balance", summary.ClosingBalance},
	}
	for i, row := range rows {
		r := i + 4
		labelCell := fmt.Sprintf("A%d", r)
		valueCell := fmt.Sprintf("B%d", r)
		f.SetCellValue(sheetName, labelCell, row.label)
		f.SetCellStyle(sheetName, labelCell, labelCell, labelStyle)
		value, _ := row.value.Float64()
		f.SetCellValue(sheetName, valueCell, value)
	}

	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
