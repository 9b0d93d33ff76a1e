package chart

import (
	"testing"

	"gioui.org/f32"
)

func TestHitTestExactSample(t *testing.T) {
	points := [][]f32.Point{
		{f32.Pt(10, 10), f32.Pt(50, 80)},
		{f32.Pt(90, 20)},
	}
	got := hitTest(points, f32.Pt(50, 80), 8)
	if !got.Active {
		t.Fatal("expected a hit at a sample's exact pixel position")
	}
	if got.Series != 0 || got.Sample != 1 {
		t.Errorf("expected series 0 sample 1, got series %d sample %d", got.Series, got.Sample)
	}
}

func TestHitTestNearest(t *testing.T) {
	points := [][]f32.Point{
		{f32.Pt(10, 10)},
		{f32.Pt(20, 10)},
	}
	got := hitTest(points, f32.Pt(18, 10), 8)
	if !got.Active || got.Series != 1 {
		t.Errorf("expected the nearer sample in series 1, got %+v", got)
	}
}

func TestHitTestThreshold(t *testing.T) {
	points := [][]f32.Point{{f32.Pt(10, 10)}}
	if got := hitTest(points, f32.Pt(100, 100), 8); got.Active {
		t.Errorf("expected no hit beyond the threshold, got %+v", got)
	}
	// A sample exactly at the threshold distance still counts.
	if got := hitTest(points, f32.Pt(18, 10), 8); !got.Active {
		t.Error("expected a hit at exactly the threshold distance")
	}
}

func TestHitTestTieBreak(t *testing.T) {
	// Two samples equidistant from the pointer: the lower series index
	// wins, and within a series the lower sample index wins.
	points := [][]f32.Point{
		{f32.Pt(10, 20), f32.Pt(30, 20)},
		{f32.Pt(10, 20)},
	}
	got := hitTest(points, f32.Pt(20, 20), 12)
	if got.Series != 0 || got.Sample != 0 {
		t.Errorf("expected tie to resolve to series 0 sample 0, got %+v", got)
	}
}
