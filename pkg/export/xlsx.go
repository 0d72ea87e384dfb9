package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/granthours/core/report"
)

const (
	sheetDetails = "Details"
	sheetSummary = "Summary"
)

// WriteXLSX writes a workbook with the detail and summary tables and one
// pivot sheet per week.
func WriteXLSX(w io.Writer, rep report.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetDetails); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	details := make([][]any, 0, len(rep.Details))
	for _, r := range rep.Details {
		details = append(details, []any{r.Week, r.Day, r.Grant, r.Hours})
	}
	if err := writeSheet(f, sheetDetails, DetailHeader, details, headerStyle); err != nil {
		return err
	}

	summary := make([][]any, 0, len(rep.Summary))
	for _, r := range rep.Summary {
		summary = append(summary, []any{r.Grant, r.Week1Hours, r.Week2Hours, r.TotalHours, r.MaximumHours, r.RemainingHours})
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	if err := writeSheet(f, sheetSummary, SummaryHeader, summary, headerStyle); err != nil {
		return err
	}

	for _, wk := range rep.Weeks {
		name := fmt.Sprintf("Week %d", wk.Week)
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		header := append([]string{"Day"}, wk.Grants...)
		header = append(header, "Total", "Utilization %")
		rows := make([][]any, 0, len(wk.Days)+1)
		for _, d := range wk.Days {
			row := []any{d.Day}
			for _, h := range d.Hours {
				row = append(row, h)
			}
			rows = append(rows, append(row, d.Total, d.Utilization))
		}
		rows = append(rows, weekTotalsRow(wk))
		if err := writeSheet(f, name, header, rows, headerStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func weekTotalsRow(wk report.WeekPivot) []any {
	row := []any{"Total"}
	for i := range wk.Grants {
		sum := 0.0
		for _, d := range wk.Days {
			sum += d.Hours[i]
		}
		row = append(row, sum)
	}
	return append(row, wk.Total, wk.Utilization)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}
