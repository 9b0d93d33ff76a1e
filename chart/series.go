package chart

import (
	"fmt"
	"math"
	"sort"
)

// Params is the declarative description of one chart: where it goes,
// what it is called, how its coordinates and values are typed, and the
// data series it plots. Params values are treated as immutable by the
// engine; Update replaces them wholesale.
type Params struct {
	// Selector names the target container. It doubles as the registry
	// key for the instance drawn into that container.
	Selector    string
	ContentName string
	// CoordType is the domain kind shared by every data set.
	CoordType Kind
	// ValueType is the range kind. Only KindNumber is supported today.
	ValueType Kind
	// Categories holds the display labels for category coordinates,
	// indexed by coordinate value.
	Categories []string
	DataSets   []SeriesSpec
}

// SeriesSpec is one named data set as supplied by the caller. Coords and
// Values are parallel: sample i is (Coords[i], Values[i]). Time
// coordinates are Unix milliseconds and category coordinates are indices
// into Params.Categories. The engine never mutates or retains these
// slices; validation copies what it keeps.
type SeriesSpec struct {
	Name      string
	CoordKind Kind
	Coords    []float64
	Values    []float64
	// Presentation overrides the chart-wide presentation for this
	// series when not PresentationInherit.
	Presentation Presentation
}

// SortDataSets reorders the data sets in place according to order. The
// sort is stable, so equal keys keep their given relative order.
func (p *Params) SortDataSets(order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(p.DataSets, func(i, j int) bool {
			return p.DataSets[i].Name < p.DataSets[j].Name
		})
	case SortByMaxValue:
		sort.SliceStable(p.DataSets, func(i, j int) bool {
			return finiteMax(p.DataSets[i].Values) > finiteMax(p.DataSets[j].Values)
		})
	}
}

func finiteMax(vals []float64) float64 {
	out := math.Inf(-1)
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = max(out, v)
		}
	}
	return out
}

// ValidatedSeries is a series after validation: engine-owned copies of
// the retained samples, sorted by coordinate (stable, so duplicate
// coordinates keep their original relative order).
type ValidatedSeries struct {
	Name         string
	Presentation Presentation
	Coords       []float64
	Values       []float64
	// ValueMin/ValueMax summarize the retained values, for legends and
	// data set ordering. Zero when the series retained nothing.
	ValueMin, ValueMax float64
	// Dropped counts the samples removed during validation.
	Dropped int
}

func (s ValidatedSeries) Len() int {
	return len(s.Coords)
}

// Validate checks one series against the chart's coordinate kind and
// copies its samples into engine-owned storage. Non-finite samples are
// dropped and reported through diag; render is best-effort, not
// all-or-nothing. A coordinate kind mismatch fails the whole series.
func Validate(spec SeriesSpec, kind Kind, diag DiagnosticFunc) (ValidatedSeries, error) {
	if spec.CoordKind != kind {
		return ValidatedSeries{}, fmt.Errorf("series %q: coordinate type %v does not match chart coordinate type %v", spec.Name, spec.CoordKind, kind)
	}
	out := ValidatedSeries{
		Name:         spec.Name,
		Presentation: spec.Presentation,
	}
	n := len(spec.Coords)
	if len(spec.Values) != n {
		n = min(n, len(spec.Values))
		excess := max(len(spec.Coords), len(spec.Values)) - n
		out.Dropped += excess
		diag(&InvalidSampleError{
			Series: spec.Name,
			Index:  n,
			Reason: fmt.Sprintf("length mismatch: %d coordinates, %d values", len(spec.Coords), len(spec.Values)),
		})
	}
	for i := 0; i < n; i++ {
		c, v := spec.Coords[i], spec.Values[i]
		if reason := finiteReason(c, v); reason != "" {
			out.Dropped++
			diag(&InvalidSampleError{Series: spec.Name, Index: i, Reason: reason})
			continue
		}
		if len(out.Coords) == 0 {
			out.ValueMin, out.ValueMax = v, v
		} else {
			out.ValueMin = min(out.ValueMin, v)
			out.ValueMax = max(out.ValueMax, v)
		}
		out.Coords = append(out.Coords, c)
		out.Values = append(out.Values, v)
	}
	sortByCoord(&out)
	return out, nil
}

func finiteReason(c, v float64) string {
	switch {
	case math.IsNaN(v):
		return "value is NaN"
	case math.IsInf(v, 0):
		return "value is infinite"
	case math.IsNaN(c):
		return "coordinate is NaN"
	case math.IsInf(c, 0):
		return "coordinate is infinite"
	}
	return ""
}

// sortByCoord orders the series' samples by coordinate so that line
// paths connect left to right. Rendering assumes sortable coordinates;
// the input order is already lost to the validation copy, so sorting in
// place here never touches caller data.
func sortByCoord(s *ValidatedSeries) {
	if sort.Float64sAreSorted(s.Coords) {
		return
	}
	idx := make([]int, len(s.Coords))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Coords[idx[a]] < s.Coords[idx[b]]
	})
	coords := make([]float64, len(idx))
	values := make([]float64, len(idx))
	for i, j := range idx {
		coords[i] = s.Coords[j]
		values[i] = s.Values[j]
	}
	s.Coords = coords
	s.Values = values
}
