package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/granthours/core/allocation"
	"github.com/kilianp07/granthours/core/model"
	"github.com/kilianp07/granthours/core/report"
)

func sampleReport(t *testing.T) report.Report {
	t.Helper()
	seed := uint64(11)
	eng := allocation.NewEngine(allocation.Config{Seed: &seed})
	res, err := eng.Allocate([]model.GrantRequest{
		{Name: "Alpha", Hours: 50},
		{Name: "Beta", Hours: 30},
	})
	require.NoError(t, err)
	return report.Build(res)
}

func TestWriteCSV(t *testing.T) {
	rep := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rep, TableDetails))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, DetailHeader, recs[0])
	assert.Len(t, recs, len(rep.Details)+1)

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, rep, TableSummary))
	recs, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Grant", "Week 1 Hours", "Week 2 Hours", "Total Hours", "Maximum Hours", "Remaining Hours"}, recs[0])
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Alpha", recs[1][1], recs[1][2], "50", "50", "0"}, recs[1])
}

func TestWriteJSON(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rep, TableSummary))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Beta", out[1]["Grant"])
	assert.InDelta(t, 30.0, out[1]["Total Hours"], 1e-9)
	assert.Contains(t, out[0], "Remaining Hours")

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, rep, TableDetails))
	out = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out, len(rep.Details))
	for _, col := range DetailHeader {
		assert.Contains(t, out[0], col)
	}
}

func TestWriteXLSX(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Details", "Summary", "Week 1", "Week 2"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, SummaryHeader, rows[0])
	assert.Len(t, rows, 3)

	week, err := f.GetRows("Week 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Day", "Alpha", "Beta", "Total", "Utilization %"}, week[0])
	assert.Len(t, week, 7)
	assert.Equal(t, "Monday", week[1][0])
}

func TestWriteHTML(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, rep, ChartOptions{Title: "Sprint 12"}))
	html := buf.String()
	assert.Contains(t, html, "Sprint 12")
	assert.Contains(t, html, "Alpha")
	assert.Contains(t, html, "W2 Fri")
}

func TestWriteText(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rep, TableSummary))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Grant"))
	assert.Contains(t, out, "mode exact: 80.00 of 80.00 grant hours")
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"csv", "json", "xlsx", "html", "table"} {
		e, err := New(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, e.ContentType())
		assert.True(t, strings.HasPrefix(e.Extension(), "."))
	}
	_, err := New("pdf")
	assert.ErrorContains(t, err, "unknown export format")
	assert.Contains(t, Formats(), "xlsx")
}

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable("")
	require.NoError(t, err)
	assert.Equal(t, TableDetails, tbl)
	tbl, err = ParseTable("summary")
	require.NoError(t, err)
	assert.Equal(t, TableSummary, tbl)
	_, err = ParseTable("weekly")
	assert.Error(t, err)
}
