// Package grantfile reads grant requests from YAML, JSON or CSV files.
//
// YAML and JSON files hold a top-level "grants" list of {name, max_hours}
// objects. CSV files carry a "Grant Name,Maximum Hours" header. Hours may be
// written as numbers or numeric strings; anything else is rejected with
// model.ErrNonNumericHours.
package grantfile

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/granthours/core/model"
)

// Format is an input file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// CSV header cells, matched case-insensitively.
const (
	ColumnName  = "Grant Name"
	ColumnHours = "Maximum Hours"
)

// ErrHeader is returned for a CSV file without the expected columns.
var ErrHeader = errors.New("csv header must contain \"Grant Name\" and \"Maximum Hours\"")

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported grant file format: %q", ext)
	}
}

// Load reads the grant requests stored at path.
func Load(path string) ([]model.GrantRequest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	reqs, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reqs, nil
}

// Parse reads grant requests from r in the given format. Requests are
// returned in file order and are not validated beyond hour parsing.
func Parse(r io.Reader, format Format) ([]model.GrantRequest, error) {
	switch format {
	case FormatYAML:
		var doc struct {
			Grants []rawGrant `yaml:"grants"`
		}
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return convert(doc.Grants)
	case FormatJSON:
		var doc struct {
			Grants []rawGrant `json:"grants"`
		}
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return convert(doc.Grants)
	case FormatCSV:
		return parseCSV(r)
	default:
		return nil, fmt.Errorf("unsupported grant file format: %q", format)
	}
}

type rawGrant struct {
	Name  string `json:"name" yaml:"name"`
	Hours any    `json:"max_hours" yaml:"max_hours"`
}

func convert(raw []rawGrant) ([]model.GrantRequest, error) {
	out := make([]model.GrantRequest, 0, len(raw))
	for _, g := range raw {
		h, err := ParseHours(g.Hours)
		if err != nil {
			return nil, fmt.Errorf("grant %q: %w", g.Name, err)
		}
		out = append(out, model.GrantRequest{Name: strings.TrimSpace(g.Name), Hours: h})
	}
	return out, nil
}

// ParseHours converts a decoded hour value to float64. Strings are parsed
// as decimals; NaN, infinities and other types are rejected.
func ParseHours(v any) (float64, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			err = errors.New("not finite")
			break
		}
		d = decimal.NewFromFloat(x)
	case json.Number:
		d, err = decimal.NewFromString(x.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(x))
	default:
		err = fmt.Errorf("unexpected %T", v)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrNonNumericHours, v)
	}
	return d.InexactFloat64(), nil
}

func parseCSV(r io.Reader) ([]model.GrantRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrHeader
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	nameCol, hoursCol := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, ColumnName):
			nameCol = i
		case strings.EqualFold(h, ColumnHours):
			hoursCol = i
		}
	}
	if nameCol < 0 || hoursCol < 0 {
		return nil, ErrHeader
	}
	var raw []rawGrant
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(rec) <= nameCol || len(rec) <= hoursCol {
			return nil, fmt.Errorf("csv line %d: missing columns", line)
		}
		if strings.TrimSpace(rec[nameCol]) == "" && strings.TrimSpace(rec[hoursCol]) == "" {
			continue
		}
		raw = append(raw, rawGrant{Name: rec[nameCol], Hours: rec[hoursCol]})
	}
	return convert(raw)
}
