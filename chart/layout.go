package chart

import (
	"fmt"
	"image"

	"gioui.org/f32"
)

// plotLayout is the result of one layout pass: shared scales built from
// the union of every series' domain, and each retained sample mapped
// into pixel space in post-sort coordinate order.
type plotLayout struct {
	X, Y   Scale
	Points [][]f32.Point
}

// layoutSeries derives the shared X and Y scales for a canvas of the
// given size and maps every series onto them. Scales are always rebuilt
// from the full data set; nothing is adjusted incrementally, so the
// result is identical whether the data arrived at once or over many
// updates.
//
// If no series retained any samples there is nothing to scale and the
// pass fails with ErrEmptyDomain.
func layoutSeries(series []ValidatedSeries, size image.Point, coordKind Kind, autoLogRatio float64) (plotLayout, error) {
	var coords, values []float64
	for _, s := range series {
		coords = append(coords, s.Coords...)
		values = append(values, s.Values...)
	}
	x, err := BuildScale(coordKind, coords, 0, float32(size.X))
	if err != nil {
		return plotLayout{}, fmt.Errorf("deriving coordinate scale: %w", err)
	}
	// Pixel Y grows downward, so the value range runs from the bottom of
	// the canvas to the top.
	y, err := BuildScale(KindNumber, values, float32(size.Y), 0)
	if err != nil {
		return plotLayout{}, fmt.Errorf("deriving value scale: %w", err)
	}
	if autoLogRatio > 0 && y.DomainMin > 0 && y.DomainMax/y.DomainMin >= autoLogRatio {
		y.Logarithmic = true
	}

	lay := plotLayout{X: x, Y: y, Points: make([][]f32.Point, len(series))}
	for i, s := range series {
		pts := make([]f32.Point, s.Len())
		for j := range pts {
			pts[j] = f32.Pt(x.ToPixel(s.Coords[j]), y.ToPixel(s.Values[j]))
		}
		lay.Points[i] = pts
	}
	return lay, nil
}
