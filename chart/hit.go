package chart

import (
	"math"

	"gioui.org/f32"
)

// hoverState is the interaction layer's entire state machine: either
// idle (Active false) or highlighting one sample of one series. Pointer
// moves that find a candidate replace the highlight; moves that find
// none, and pointer departure, return to idle.
type hoverState struct {
	Active bool
	Series int
	Sample int
}

// hitTest finds the sample nearest to pos across every series, within
// the given pixel threshold. Distance is Euclidean in pixel space. Ties
// go to the lower series index, then the lower sample index, which the
// strict comparison below gets for free by scanning in that order.
func hitTest(points [][]f32.Point, pos f32.Point, threshold float32) hoverState {
	limit := float64(threshold) * float64(threshold)
	best := math.Inf(1)
	state := hoverState{}
	for si, pts := range points {
		for pi, p := range pts {
			dx := float64(p.X - pos.X)
			dy := float64(p.Y - pos.Y)
			d := dx*dx + dy*dy
			if d <= limit && d < best {
				best = d
				state = hoverState{Active: true, Series: si, Sample: pi}
			}
		}
	}
	return state
}
