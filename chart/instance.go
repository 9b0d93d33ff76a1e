package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"
)

// Instance is one live chart. It owns its scales, its per-series pixel
// caches, and its interaction state; caller-supplied Params data is only
// borrowed for the duration of the call that supplied it.
//
// An Instance is not safe for concurrent use. All operations, including
// Layout, must run on one goroutine — in practice the Gio frame
// goroutine.
type Instance struct {
	registry *Registry
	params   Params
	cfg      Config

	series   []ValidatedSeries
	resolved []Presentation
	// skip marks series whose presentation cannot be drawn over this
	// chart's domain. They stay in the legend but are not rendered.
	skip []bool

	size      image.Point
	lay       plotLayout
	layoutErr error

	pos       f32.Point
	isHovered bool
	hovered   hoverState
	destroyed bool
}

func newInstance(reg *Registry, params Params, cfg Config) (*Instance, error) {
	c := &Instance{
		registry: reg,
		cfg:      cfg.withDefaults(),
	}
	if err := c.refresh(params); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the chart's description and re-runs validation and
// layout in place. The instance identity is preserved, as is the hover
// state when the highlighted sample still exists. On error the previous
// description stays in effect.
func (c *Instance) Update(params Params) error {
	if c.destroyed {
		return ErrInstanceDestroyed
	}
	return c.refresh(params)
}

// Destroy releases everything the instance owns. Every subsequent
// operation on it fails with ErrInstanceDestroyed.
func (c *Instance) Destroy() error {
	if c.destroyed {
		return ErrInstanceDestroyed
	}
	if c.registry != nil {
		c.registry.remove(c.params.Selector)
	}
	c.destroyed = true
	c.series = nil
	c.resolved = nil
	c.skip = nil
	c.lay = plotLayout{}
	c.hovered = hoverState{}
	return nil
}

// Params returns the chart's current description.
func (c *Instance) Params() Params {
	return c.params
}

// Err reports the failure of the most recent layout pass, if any.
func (c *Instance) Err() error {
	if c.destroyed {
		return ErrInstanceDestroyed
	}
	return c.layoutErr
}

// LegendEntry summarizes one series for display outside the plot.
type LegendEntry struct {
	Name               string
	Color              color.NRGBA
	Samples, Dropped   int
	ValueMin, ValueMax float64
	Skipped            bool
}

// Legend returns one entry per series in data set order.
func (c *Instance) Legend() []LegendEntry {
	out := make([]LegendEntry, len(c.series))
	for i, s := range c.series {
		out[i] = LegendEntry{
			Name:     s.Name,
			Color:    c.cfg.color(i),
			Samples:  s.Len(),
			Dropped:  s.Dropped,
			ValueMin: s.ValueMin,
			ValueMax: s.ValueMax,
			Skipped:  c.skip[i],
		}
	}
	return out
}

// refresh validates the new description and commits it only if a chart
// can be built from it. Validation is best-effort per sample and per
// series; the pass as a whole fails only when nothing at all survives.
func (c *Instance) refresh(params Params) error {
	params.SortDataSets(c.cfg.SortDataSets)
	series := make([]ValidatedSeries, 0, len(params.DataSets))
	var seriesErrs []error
	retained := 0
	for _, spec := range params.DataSets {
		vs, err := Validate(spec, params.CoordType, c.cfg.Diagnostic)
		if err != nil {
			seriesErrs = append(seriesErrs, err)
			c.cfg.Diagnostic(err)
			continue
		}
		retained += vs.Len()
		series = append(series, vs)
	}
	if retained == 0 {
		err := fmt.Errorf("no drawable samples: %w", ErrEmptyDomain)
		if len(seriesErrs) > 0 {
			err = errors.Join(append([]error{err}, seriesErrs...)...)
		}
		return err
	}

	c.params = params
	c.series = series
	c.resolved = make([]Presentation, len(series))
	c.skip = make([]bool, len(series))
	for i, s := range series {
		c.resolved[i] = resolvePresentation(s.Presentation, c.cfg.Presentation)
		if c.resolved[i] == PresentationBars && params.CoordType != KindCategory {
			if err := barSlotCheck(s); err != nil {
				c.skip[i] = true
				c.cfg.Diagnostic(err)
			}
		}
	}
	c.relayout()
	return nil
}

// relayout rebuilds the scales and pixel caches for the current canvas
// size. Stale hover references are cleared rather than remapped; the
// next pointer move recomputes the highlight against the new geometry.
func (c *Instance) relayout() {
	if c.size.X <= 0 || c.size.Y <= 0 {
		return
	}
	c.lay, c.layoutErr = layoutSeries(c.series, c.size, c.params.CoordType, c.cfg.AutoLogRatio)
	if c.hovered.Active {
		if c.hovered.Series >= len(c.lay.Points) || c.hovered.Sample >= len(c.lay.Points[c.hovered.Series]) {
			c.hovered = hoverState{}
		}
	}
}

// update drains pointer events and drives the hover state machine: a
// move with a candidate within threshold highlights it, a move without
// one (or leaving the canvas) returns to idle.
func (c *Instance) update(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move,
		})
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case pointer.Event:
			switch ev.Kind {
			case pointer.Enter, pointer.Move:
				c.isHovered = true
				c.pos = ev.Position
			case pointer.Leave, pointer.Cancel:
				c.isHovered = false
			}
		}
	}
	if c.isHovered && c.layoutErr == nil {
		c.hovered = hitTest(c.lay.Points, c.pos, float32(gtx.Dp(c.cfg.HitThreshold)))
	} else {
		c.hovered = hoverState{}
	}
}

// Layout draws the chart into gtx, relaying out first if the canvas size
// changed since the last frame.
func (c *Instance) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	c.update(gtx)
	size := gtx.Constraints.Max
	if c.destroyed {
		return layout.Dimensions{Size: size}
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	defer func() { gtx.Constraints = origConstraints }()

	gap := gtx.Dp(4)

	// Reserve space for the title and the axis labels before sizing the
	// plot itself. The widest y label is the one for the largest value.
	title := material.Body1(th, c.params.ContentName)
	title.MaxLines = 1
	title.Alignment = text.Middle
	titleDims, titleCall := record(gtx, title.Layout)

	var valueMax float64
	for _, s := range c.series {
		valueMax = max(valueMax, s.ValueMax)
	}
	yProbe := material.Body2(th, formatNumberTick(valueMax, 0))
	probeDims, _ := record(gtx, yProbe.Layout)

	titleH := titleDims.Size.Y + gap
	yAxisW := probeDims.Size.X + 2*gap
	xAxisH := probeDims.Size.Y + gap
	plot := image.Pt(size.X-yAxisW, size.Y-titleH-xAxisH)
	if plot.X < 1 || plot.Y < 1 {
		return layout.Dimensions{Size: size}
	}
	if plot != c.size {
		c.size = plot
		c.relayout()
	}

	// Center the title across the full width.
	titleOffset := op.Offset(image.Pt(max((size.X-titleDims.Size.X)/2, 0), 0)).Push(gtx.Ops)
	titleCall.Add(gtx.Ops)
	titleOffset.Pop()

	if c.layoutErr != nil {
		l := material.Body1(th, c.layoutErr.Error())
		l.Color = color.NRGBA{R: 150, A: 255}
		offset := op.Offset(image.Pt(yAxisW, titleH)).Push(gtx.Ops)
		l.Layout(gtx)
		offset.Pop()
		return layout.Dimensions{Size: size}
	}

	minSpacing := gtx.Dp(c.cfg.MinTickSpacing)
	c.layoutYAxis(gtx, th, image.Pt(yAxisW, titleH), plot, minSpacing, gap)
	c.layoutXAxis(gtx, th, image.Pt(yAxisW, titleH+plot.Y), plot, minSpacing, gap)

	offset := op.Offset(image.Pt(yAxisW, titleH)).Push(gtx.Ops)
	c.layoutPlot(gtx, th, plot)
	offset.Pop()

	return layout.Dimensions{Size: size}
}

// layoutYAxis draws the value ticks: a label in the reserved gutter and
// a gridline across the plot for each tick.
func (c *Instance) layoutYAxis(gtx layout.Context, th *material.Theme, origin, plot image.Point, minSpacing, gap int) {
	oneDp := gtx.Dp(1)
	for _, tick := range axisTicks(c.lay.Y, plot.Y, minSpacing, nil) {
		label := material.Body2(th, tick.Label)
		dims, call := record(gtx, label.Layout)
		y := origin.Y + int(tick.Pos)
		offset := op.Offset(image.Pt(origin.X-dims.Size.X-gap, y-dims.Size.Y/2)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		offset.Pop()
		paint.FillShape(gtx.Ops, color.NRGBA{A: 50}, clip.Rect{
			Min: image.Pt(origin.X, y),
			Max: image.Pt(origin.X+plot.X, y+oneDp),
		}.Op())
	}
}

// layoutXAxis draws the coordinate ticks under the plot.
func (c *Instance) layoutXAxis(gtx layout.Context, th *material.Theme, origin, plot image.Point, minSpacing, gap int) {
	oneDp := gtx.Dp(1)
	for _, tick := range axisTicks(c.lay.X, plot.X, minSpacing, c.params.Categories) {
		label := material.Body2(th, tick.Label)
		dims, call := record(gtx, label.Layout)
		x := origin.X + int(tick.Pos)
		paint.FillShape(gtx.Ops, color.NRGBA{A: 100}, clip.Rect{
			Min: image.Pt(x, origin.Y-gap/2),
			Max: image.Pt(x+oneDp, origin.Y),
		}.Op())
		offset := op.Offset(image.Pt(x-dims.Size.X/2, origin.Y+gap/2)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		offset.Pop()
	}
}

// layoutPlot draws the series geometry, the pointer input area, and the
// hover affordances, all in plot-local coordinates.
func (c *Instance) layoutPlot(gtx layout.Context, th *material.Theme, plot image.Point) {
	area := clip.Rect{Max: plot}.Push(gtx.Ops)
	defer area.Pop()
	event.Op(gtx.Ops, c)

	oneDp := float32(gtx.Dp(1))
	for i, s := range c.series {
		if c.skip[i] {
			continue
		}
		err := renderSeries(gtx.Ops, s, c.lay.Points[i], c.resolved[i], c.cfg.color(i), plot, oneDp)
		if err != nil {
			c.skip[i] = true
			c.cfg.Diagnostic(err)
		}
	}

	if c.hovered.Active {
		c.layoutHighlight(gtx, th, plot)
	}
}

// layoutHighlight marks the hovered sample with a guide line and an
// enlarged marker, plus the tooltip unless it is disabled.
func (c *Instance) layoutHighlight(gtx layout.Context, th *material.Theme, plot image.Point) {
	pt := c.lay.Points[c.hovered.Series][c.hovered.Sample]
	oneDp := float32(gtx.Dp(1))
	x := int(pt.X)
	paint.FillShape(gtx.Ops, color.NRGBA{A: 100}, clip.Rect{
		Min: image.Pt(x, 0),
		Max: image.Pt(x+gtx.Dp(1), plot.Y),
	}.Op())
	fillMarker(gtx.Ops, pt, c.cfg.color(c.hovered.Series), 3*oneDp)

	if c.cfg.DisableTooltip {
		return
	}
	series := c.series[c.hovered.Series]
	coordLabel := formatTick(c.lay.X, series.Coords[c.hovered.Sample], 0.001, c.params.Categories)
	valueLabel := formatNumberTick(series.Values[c.hovered.Sample], 0.001)

	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	macro := op.Record(gtx.Ops)
	dims := layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 200}, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return layout.Dimensions{Size: gtx.Constraints.Min}
		},
		func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(6).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								size := image.Pt(gtx.Dp(8), gtx.Dp(8))
								paint.FillShape(gtx.Ops, c.cfg.color(c.hovered.Series), clip.Ellipse{Max: size}.Op(gtx.Ops))
								return layout.Dimensions{Size: size}
							}),
							layout.Rigid(layout.Spacer{Width: 8}.Layout),
							layout.Rigid(material.Body2(th, series.Name).Layout),
						)
					}),
					layout.Rigid(material.Body2(th, coordLabel+": "+valueLabel).Layout),
				)
			})
		},
	)
	call := macro.Stop()
	gtx.Constraints = origConstraints

	// Keep the tooltip inside the plot, flipping to the left of the
	// sample when it would run off the right edge.
	pos := image.Pt(int(pt.X)+gtx.Dp(8), int(pt.Y)+gtx.Dp(8))
	if pos.X+dims.Size.X > plot.X {
		pos.X = max(int(pt.X)-gtx.Dp(8)-dims.Size.X, 0)
	}
	if pos.Y+dims.Size.Y > plot.Y {
		pos.Y = max(plot.Y-dims.Size.Y, 0)
	}
	offset := op.Offset(pos).Push(gtx.Ops)
	call.Add(gtx.Ops)
	offset.Pop()
}

// record captures a widget's ops without drawing them, the same macro
// trick the rest of the layout code uses for measuring labels.
func record(gtx layout.Context, w layout.Widget) (layout.Dimensions, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}
