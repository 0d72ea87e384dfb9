package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/granthours/core/report"
)

// ChartOptions customizes the HTML chart.
type ChartOptions struct {
	Title string `json:"title"`
}

// WriteHTML renders a stacked bar chart of hours per grant for each of the
// ten workdays.
func WriteHTML(w io.Writer, rep report.Report, o ChartOptions) error {
	title := o.Title
	if title == "" {
		title = "Grant hours per day"
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%s mode, %.2f of %.2f hours allocated", rep.Mode, rep.Totals.Allocated, rep.Totals.Maximum),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hours"}),
	)

	var days []string
	for _, wk := range rep.Weeks {
		for _, d := range wk.Days {
			days = append(days, fmt.Sprintf("W%d %s", wk.Week, d.Day[:3]))
		}
	}
	bar.SetXAxis(days)
	if len(rep.Weeks) == 0 {
		return bar.Render(w)
	}
	for i, grant := range rep.Weeks[0].Grants {
		data := make([]opts.BarData, 0, len(days))
		for _, wk := range rep.Weeks {
			for _, d := range wk.Days {
				data = append(data, opts.BarData{Value: d.Hours[i]})
			}
		}
		bar.AddSeries(grant, data, charts.WithBarChartOpts(opts.BarChart{Stack: "hours"}))
	}
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
