package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kilianp07/granthours/core/report"
)

// WriteCSV writes the selected table with its header row.
func WriteCSV(w io.Writer, rep report.Report, table Table) error {
	header, rows := Rows(rep, table)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

type detailRecord struct {
	Week  int     `json:"Week"`
	Day   string  `json:"Day"`
	Grant string  `json:"Grant"`
	Hours float64 `json:"Hours"`
}

type summaryRecord struct {
	Grant     string  `json:"Grant"`
	Week1     float64 `json:"Week 1 Hours"`
	Week2     float64 `json:"Week 2 Hours"`
	Total     float64 `json:"Total Hours"`
	Maximum   float64 `json:"Maximum Hours"`
	Remaining float64 `json:"Remaining Hours"`
}

// WriteJSON writes the selected table as an array of objects keyed by the
// export column names.
func WriteJSON(w io.Writer, rep report.Report, table Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if table == TableSummary {
		out := make([]summaryRecord, 0, len(rep.Summary))
		for _, r := range rep.Summary {
			out = append(out, summaryRecord{r.Grant, r.Week1Hours, r.Week2Hours, r.TotalHours, r.MaximumHours, r.RemainingHours})
		}
		return enc.Encode(out)
	}
	out := make([]detailRecord, 0, len(rep.Details))
	for _, r := range rep.Details {
		out = append(out, detailRecord{r.Week, r.Day, r.Grant, r.Hours})
	}
	return enc.Encode(out)
}

// WriteText renders the selected table for a terminal, followed by the
// totals line and any warnings.
func WriteText(w io.Writer, rep report.Report, table Table) error {
	header, rows := Rows(rep, table)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	t := rep.Totals
	if _, err := fmt.Fprintf(w, "\nmode %s: %.2f of %.2f grant hours (%.1f%%), %.1f%% of %.0f workday hours\n",
		rep.Mode, t.Allocated, t.Maximum, t.GrantUtilization, t.WorkdayFill, t.WorkdayHours); err != nil {
		return err
	}
	for _, warn := range rep.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn); err != nil {
			return err
		}
	}
	return nil
}
