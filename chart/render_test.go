package chart

import (
	"image"
	"image/color"
	"testing"

	"gioui.org/f32"
	"gioui.org/op"
)

func TestCategoryBarsAllowRepeatedCoordinates(t *testing.T) {
	spec := SeriesSpec{
		Name:         "votes",
		CoordKind:    KindCategory,
		Coords:       []float64{0, 0, 1},
		Values:       []float64{4, 6, 9},
		Presentation: PresentationBars,
	}
	vs, err := Validate(spec, KindCategory, func(error) {})
	if err != nil {
		t.Fatalf("expected series to validate, got: %v", err)
	}
	pts := []f32.Point{f32.Pt(50, 20), f32.Pt(50, 10), f32.Pt(150, 5)}
	err = renderSeries(new(op.Ops), vs, pts, PresentationBars, color.NRGBA{A: 255}, image.Pt(200, 100), 1)
	if err != nil {
		t.Errorf("expected repeated category coordinates to render as bars, got: %v", err)
	}
}

func TestCategoryBarsNotSkipped(t *testing.T) {
	var diags []error
	params := Params{
		Selector:    "#catbars",
		ContentName: "votes by option",
		CoordType:   KindCategory,
		ValueType:   KindNumber,
		Categories:  []string{"yes", "no"},
		DataSets: []SeriesSpec{
			{
				Name:         "votes",
				CoordKind:    KindCategory,
				Coords:       []float64{0, 0, 1},
				Values:       []float64{4, 6, 9},
				Presentation: PresentationBars,
			},
		},
	}
	reg := NewRegistry()
	inst, err := reg.CreateMain(params, quietConfig(&diags))
	if err != nil {
		t.Fatalf("expected create to succeed, got: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics for category bars, got %v", diags)
	}
	if legend := inst.Legend(); legend[0].Skipped {
		t.Error("expected category bars with repeated coordinates to render")
	}
}
