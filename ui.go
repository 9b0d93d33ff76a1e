package main

import (
	"image"
	"image/color"
	"log"
	"strconv"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/plotwise/backend"
	"git.sr.ht/~whereswaldon/plotwise/chart"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var (
	pauseIcon, _ = widget.NewIcon(icons.AVPause)
	playIcon, _  = widget.NewIcon(icons.AVPlayArrow)
)

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer

	registry *chart.Registry
	chart    *chart.Instance

	openBtn  widget.Clickable
	pauseBtn widget.Clickable
	paused   bool
	// pending holds the latest session that arrived while paused, applied
	// when the user resumes.
	pending *backend.Session
	loadErr string

	legendTable component.GridState

	th            *material.Theme
	sessionStream *stream.Stream[backend.Session]
	session       backend.Session
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	return &UI{
		ws:            ws,
		th:            th,
		expl:          expl,
		registry:      chart.NewRegistry(),
		sessionStream: stream.New(ws.Controller, ws.Bundle.Datasource.CurrentSession),
	}
}

// Update the state of the UI and generate events. Must be called at the start
// of every frame.
func (ui *UI) Update(gtx C) {
	session, isNew := ui.sessionStream.ReadNew(gtx)
	if isNew {
		if ui.paused {
			ui.pending = &session
		} else {
			ui.session = session
			ui.apply(session)
		}
	}
	if ui.openBtn.Clicked(gtx) {
		if _, err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl); err != nil && err != explorer.ErrUserDecline {
			ui.loadErr = err.Error()
		}
	}
	if ui.pauseBtn.Clicked(gtx) {
		ui.paused = !ui.paused
		if !ui.paused && ui.pending != nil {
			ui.session = *ui.pending
			ui.apply(*ui.pending)
			ui.pending = nil
		}
	}
}

// apply pushes a session's chart description into the registry, destroying
// and recreating the chart when the session switched to a new selector.
func (ui *UI) apply(session backend.Session) {
	ui.loadErr = ""
	if session.Err != nil {
		ui.loadErr = session.Err.Error()
	}
	params := session.Params
	if params.Selector == "" {
		return
	}
	if ui.chart != nil && ui.chart.Params().Selector != params.Selector {
		if err := ui.chart.Destroy(); err != nil {
			log.Printf("destroying chart: %v", err)
		}
		ui.chart = nil
	}
	if ui.chart == nil {
		inst, err := ui.registry.CreateMain(params, chart.Config{})
		if err != nil {
			ui.loadErr = err.Error()
			return
		}
		ui.chart = inst
		return
	}
	if err := ui.chart.Update(params); err != nil {
		ui.loadErr = err.Error()
	}
}

func (ui *UI) layoutToolbar(gtx C) D {
	inset := layout.UniformInset(2)
	return layout.Flex{
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return inset.Layout(gtx, material.Button(ui.th, &ui.openBtn, "Open Document").Layout)
		}),
		layout.Rigid(func(gtx C) D {
			icon := pauseIcon
			desc := "Pause updates"
			if ui.paused {
				icon = playIcon
				desc = "Resume updates"
			}
			return inset.Layout(gtx, material.IconButton(ui.th, &ui.pauseBtn, icon, desc).Layout)
		}),
		layout.Flexed(1, func(gtx C) D {
			if len(ui.loadErr) == 0 {
				return D{}
			}
			l := material.Body1(ui.th, ui.loadErr)
			l.Color = color.NRGBA{R: 150, A: 255}
			l.MaxLines = 2
			return inset.Layout(gtx, l.Layout)
		}),
	)
}

// legendColumns is swatch+name plus samples, dropped, min, and max.
const legendColumns = 5

func (ui *UI) layoutLegend(gtx C) D {
	entries := ui.chart.Legend()
	if len(entries) == 0 {
		return D{}
	}
	tbl := component.Table(ui.th, &ui.legendTable)
	longest := material.Body1(ui.th, "Samples 000")
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	longestDims, _ := rec(gtx, func(gtx C) D {
		return layout.UniformInset(2).Layout(gtx, longest.Layout)
	})
	gtx.Constraints = origConstraints
	flexedColumns := 1
	rigidColumns := legendColumns - flexedColumns
	gtx.Constraints.Min.Y = 0
	return tbl.Layout(gtx, len(entries), legendColumns,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(longestDims.Size.Y, constraint)
			}
			if index == 0 {
				return (constraint - (longestDims.Size.X * rigidColumns)) / flexedColumns
			}
			return longestDims.Size.X
		},
		func(gtx C, index int) D {
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, ui.th.ContrastBg, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				func(gtx C) D {
					l := material.Body1(ui.th, "")
					l.MaxLines = 1
					l.Color = ui.th.ContrastFg
					switch index {
					case 0:
						l.Text = "Series"
					case 1:
						l.Text = "Samples"
					case 2:
						l.Text = "Dropped"
					case 3:
						l.Text = "Min"
					case 4:
						l.Text = "Max"
					}
					if index > 0 {
						l.Alignment = text.End
					}
					return l.Layout(gtx)
				},
			)
		},
		func(gtx C, row, col int) D {
			entry := entries[row]
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					c := color.NRGBA{R: 100, G: 100, B: 100, A: 0}
					if row&1 == 0 {
						c.A = 50
					}
					paint.FillShape(gtx.Ops, c, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				func(gtx C) D {
					if col == 0 {
						return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
							layout.Rigid(func(gtx C) D {
								size := image.Pt(gtx.Dp(8), gtx.Dp(8))
								paint.FillShape(gtx.Ops, entry.Color, clip.Ellipse{Max: size}.Op(gtx.Ops))
								return D{Size: size}
							}),
							layout.Rigid(layout.Spacer{Width: 4}.Layout),
							layout.Rigid(func(gtx C) D {
								l := material.Body1(ui.th, entry.Name)
								l.MaxLines = 1
								if entry.Skipped {
									l.Color = color.NRGBA{A: 150}
								}
								return l.Layout(gtx)
							}),
						)
					}
					l := material.Body1(ui.th, "")
					l.MaxLines = 1
					l.Alignment = text.End
					switch col {
					case 1:
						l.Text = strconv.Itoa(entry.Samples)
					case 2:
						l.Text = strconv.Itoa(entry.Dropped)
					case 3:
						l.Text = strconv.FormatFloat(entry.ValueMin, 'f', -1, 64)
					case 4:
						l.Text = strconv.FormatFloat(entry.ValueMax, 'f', -1, 64)
					}
					return l.Layout(gtx)
				},
			)
		},
	)
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Flexed(1, func(gtx C) D {
			return ui.chart.Layout(gtx, ui.th)
		}),
		layout.Rigid(ui.layoutLegend),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	l := material.Body1(ui.th, "No data yet.")
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.openBtn, "Open Document").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body2(ui.th, ui.loadErr).Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if ui.chart != nil {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}
