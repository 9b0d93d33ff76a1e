package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"git.sr.ht/~whereswaldon/plotwise/chart"
)

// Document is the raw data contract handed to us by whatever fetched and
// decoded the JSON: a mapping of logical series keys to display names,
// and a list of equal-length columns. Column 0 carries the shared
// coordinate axis; columns 1..n carry one series of values each. Every
// column leads with its key, which this layer slices off before any
// samples reach the engine.
type Document struct {
	Names   map[string]string `json:"names"`
	Columns [][]any           `json:"columns"`
}

// DecodeDocument reads one JSON document from r.
func DecodeDocument(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decoding document: %w", err)
	}
	return d, nil
}

// dateFormats are the accepted coordinate date layouts, tried in order.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ChartParams reshapes the document into a chart description for the
// given target selector. The coordinate kind is inferred from the first
// coordinate entry: numbers plot numerically, parseable dates plot on a
// time axis, and any other strings become categories. Unparseable
// samples are passed through as NaN so the engine's validation drops and
// reports them instead of this layer silently guessing.
func (d Document) ChartParams(selector, title string) (chart.Params, error) {
	if len(d.Columns) < 2 {
		return chart.Params{}, fmt.Errorf("document needs a coordinate column and at least one series, got %d columns", len(d.Columns))
	}
	_, coordRaw, err := splitColumn(d.Columns[0])
	if err != nil {
		return chart.Params{}, fmt.Errorf("coordinate column: %w", err)
	}
	kind, coords, categories := parseCoords(coordRaw)

	params := chart.Params{
		Selector:    selector,
		ContentName: title,
		CoordType:   kind,
		ValueType:   chart.KindNumber,
		Categories:  categories,
	}
	for i, col := range d.Columns[1:] {
		key, raw, err := splitColumn(col)
		if err != nil {
			return chart.Params{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		name := d.Names[key]
		if name == "" {
			name = key
		}
		values := make([]float64, len(raw))
		for j, v := range raw {
			values[j] = asNumber(v)
		}
		params.DataSets = append(params.DataSets, chart.SeriesSpec{
			Name:      name,
			CoordKind: kind,
			Coords:    coords,
			Values:    values,
		})
	}
	return params, nil
}

// splitColumn separates a column's leading key from its samples.
func splitColumn(col []any) (key string, rest []any, err error) {
	if len(col) == 0 {
		return "", nil, fmt.Errorf("column is empty")
	}
	key, ok := col[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("column header %v is not a string key", col[0])
	}
	return key, col[1:], nil
}

// parseCoords types the coordinate column from its first sample and
// converts every sample into the engine's float64 domain: numbers as
// themselves, dates as Unix milliseconds, categories as indices into the
// returned label list.
func parseCoords(raw []any) (chart.Kind, []float64, []string) {
	kind := chart.KindNumber
	if len(raw) > 0 {
		if s, ok := raw[0].(string); ok {
			if _, err := parseDate(s); err == nil {
				kind = chart.KindTime
			} else {
				kind = chart.KindCategory
			}
		}
	}
	coords := make([]float64, len(raw))
	var categories []string
	seen := map[string]int{}
	for i, v := range raw {
		switch kind {
		case chart.KindTime:
			s, ok := v.(string)
			if !ok {
				coords[i] = math.NaN()
				continue
			}
			t, err := parseDate(s)
			if err != nil {
				coords[i] = math.NaN()
				continue
			}
			coords[i] = float64(t.UnixMilli())
		case chart.KindCategory:
			label := fmt.Sprint(v)
			idx, ok := seen[label]
			if !ok {
				idx = len(categories)
				seen[label] = idx
				categories = append(categories, label)
			}
			coords[i] = float64(idx)
		default:
			coords[i] = asNumber(v)
		}
	}
	return kind, coords, categories
}

func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// asNumber converts a decoded JSON value to a float64 sample, mapping
// everything non-numeric to NaN for the engine to drop.
func asNumber(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
