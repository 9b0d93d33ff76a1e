package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"golang.org/x/exp/constraints"
)

// resolvePresentation collapses a series' presentation against the
// chart-wide default.
func resolvePresentation(series, chartWide Presentation) Presentation {
	if series == PresentationInherit {
		return chartWide
	}
	return series
}

// renderSeries draws one series' pixel-space points into ops using the
// given presentation. Lines connect consecutive points in coordinate
// order, points draw one marker per sample, and bars draw columns down
// to the canvas floor. Bars require category or evenly spaced
// coordinates; that precondition is enforced when the presentation is
// resolved, so by the time a series reaches here it is drawable.
func renderSeries(ops *op.Ops, series ValidatedSeries, pts []f32.Point, pres Presentation, col color.NRGBA, size image.Point, oneDp float32) error {
	if len(pts) == 0 {
		return nil
	}
	switch pres {
	case PresentationLine:
		renderLine(ops, pts, col, oneDp)
	case PresentationPoints:
		for _, p := range pts {
			fillMarker(ops, p, col, 2*oneDp)
		}
	case PresentationBars:
		renderBars(ops, pts, col, size, oneDp)
	default:
		return &UnsupportedPresentationError{
			Series:       series.Name,
			Presentation: pres,
			Reason:       "unrecognized presentation mode",
		}
	}
	return nil
}

func renderLine(ops *op.Ops, pts []f32.Point, col color.NRGBA, oneDp float32) {
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	paint.FillShape(ops, col, clip.Stroke{
		Path:  p.End(),
		Width: oneDp,
	}.Op())
	// A single retained sample has no segment to stroke; fall back to a
	// marker so the series is still visible.
	if len(pts) == 1 {
		fillMarker(ops, pts[0], col, 2*oneDp)
	}
}

func fillMarker(ops *op.Ops, center f32.Point, col color.NRGBA, radius float32) {
	r := int(ceil(radius))
	c := image.Pt(int(center.X), int(center.Y))
	paint.FillShape(ops, col, clip.Ellipse{
		Min: c.Sub(image.Pt(r, r)),
		Max: c.Add(image.Pt(r, r)),
	}.Op(ops))
}

// barSlotCheck enforces the bar-mode precondition: a categorical domain,
// or numeric/time coordinates on an even grid.
func barSlotCheck(series ValidatedSeries) error {
	if len(series.Coords) < 3 {
		return nil
	}
	step := series.Coords[1] - series.Coords[0]
	for i := 2; i < len(series.Coords); i++ {
		diff := series.Coords[i] - series.Coords[i-1]
		if math.Abs(diff-step) > math.Abs(step)*1e-6 {
			return &UnsupportedPresentationError{
				Series:       series.Name,
				Presentation: PresentationBars,
				Reason:       fmt.Sprintf("coordinates are not evenly spaced (step %g then %g)", step, diff),
			}
		}
	}
	return nil
}

func renderBars(ops *op.Ops, pts []f32.Point, col color.NRGBA, size image.Point, oneDp float32) {
	slot := float32(size.X)
	if len(pts) > 1 {
		slot = pts[1].X - pts[0].X
	}
	halfWidth := max(slot*0.4, oneDp)
	for _, p := range pts {
		paint.FillShape(ops, col, clip.Rect{
			Min: image.Pt(int(p.X-halfWidth), int(p.Y)),
			Max: image.Pt(int(p.X+halfWidth), size.Y),
		}.Op())
	}
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}
