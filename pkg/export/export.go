// Package export renders allocation reports as files: CSV and JSON tables,
// an XLSX workbook and an HTML chart. Writers are looked up by format name.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/granthours/core/factory"
	"github.com/kilianp07/granthours/core/report"
)

// Table selects which table of a report is written.
type Table string

const (
	TableDetails Table = "details"
	TableSummary Table = "summary"
)

// ParseTable validates a table name. An empty name selects details.
func ParseTable(s string) (Table, error) {
	switch Table(s) {
	case "", TableDetails:
		return TableDetails, nil
	case TableSummary:
		return TableSummary, nil
	}
	return "", fmt.Errorf("unknown table %q", s)
}

var (
	// DetailHeader lists the detail export columns.
	DetailHeader = []string{"Week", "Day", "Grant", "Hours"}
	// SummaryHeader lists the summary export columns.
	SummaryHeader = []string{"Grant", "Week 1 Hours", "Week 2 Hours", "Total Hours", "Maximum Hours", "Remaining Hours"}
)

// Rows returns the header and the stringified rows of the selected table.
func Rows(rep report.Report, table Table) ([]string, [][]string) {
	if table == TableSummary {
		rows := make([][]string, 0, len(rep.Summary))
		for _, r := range rep.Summary {
			rows = append(rows, []string{
				r.Grant,
				formatHours(r.Week1Hours),
				formatHours(r.Week2Hours),
				formatHours(r.TotalHours),
				formatHours(r.MaximumHours),
				formatHours(r.RemainingHours),
			})
		}
		return SummaryHeader, rows
	}
	rows := make([][]string, 0, len(rep.Details))
	for _, r := range rep.Details {
		rows = append(rows, []string{strconv.Itoa(r.Week), r.Day, r.Grant, formatHours(r.Hours)})
	}
	return DetailHeader, rows
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// Exporter writes a report in one file format.
type Exporter interface {
	Write(w io.Writer, rep report.Report, table Table) error
	ContentType() string
	Extension() string
}

var registry = factory.NewRegistry[Exporter]()

// Register adds an exporter factory under a format name.
func Register(name string, f factory.Factory[Exporter]) error {
	return registry.Register(name, f)
}

// New returns the exporter for format.
func New(format string) (Exporter, error) {
	return NewWithConf(format, nil)
}

// NewWithConf returns the exporter for format configured with conf.
func NewWithConf(format string, conf map[string]any) (Exporter, error) {
	if !registry.Has(format) {
		return nil, fmt.Errorf("unknown export format %q (available: %v)", format, registry.Names())
	}
	return registry.Create(factory.ModuleConfig{Type: format, Conf: conf})
}

// Formats lists the registered format names.
func Formats() []string { return registry.Names() }

type funcExporter struct {
	write       func(io.Writer, report.Report, Table) error
	contentType string
	ext         string
}

func (e funcExporter) Write(w io.Writer, rep report.Report, table Table) error {
	return e.write(w, rep, table)
}
func (e funcExporter) ContentType() string { return e.contentType }
func (e funcExporter) Extension() string   { return e.ext }

func static(e Exporter) factory.Factory[Exporter] {
	return func(map[string]any) (Exporter, error) { return e, nil }
}

func init() {
	_ = Register("csv", static(funcExporter{WriteCSV, "text/csv", ".csv"}))
	_ = Register("json", static(funcExporter{WriteJSON, "application/json", ".json"}))
	_ = Register("table", static(funcExporter{WriteText, "text/plain; charset=utf-8", ".txt"}))
	_ = Register("xlsx", static(funcExporter{
		func(w io.Writer, rep report.Report, _ Table) error { return WriteXLSX(w, rep) },
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx",
	}))
	_ = Register("html", func(conf map[string]any) (Exporter, error) {
		var c ChartOptions
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return funcExporter{
			func(w io.Writer, rep report.Report, _ Table) error { return WriteHTML(w, rep, c) },
			"text/html; charset=utf-8", ".html",
		}, nil
	})
}
