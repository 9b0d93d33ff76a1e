package chart

import (
	"testing"
	"time"
)

func TestFormatNumberTick(t *testing.T) {
	for _, tc := range []struct {
		value, step float64
		want        string
	}{
		{value: 2.5, step: 0.5, want: "2.5"},
		{value: 3, step: 0.5, want: "3"},
		{value: 0.25, step: 0.05, want: "0.25"},
		{value: 1000, step: 100, want: "1000"},
		{value: -7.5, step: 2.5, want: "-7.5"},
		{value: 0, step: 10, want: "0"},
		// The tooltip formats coordinates with a 0.001 step so fractional
		// samples keep their decimals.
		{value: 2.5, step: 0.001, want: "2.5"},
		{value: 2, step: 0.001, want: "2"},
	} {
		if got := formatNumberTick(tc.value, tc.step); got != tc.want {
			t.Errorf("formatNumberTick(%v, %v) = %q, want %q", tc.value, tc.step, got, tc.want)
		}
	}
}

func TestFormatTimeTick(t *testing.T) {
	at := time.Date(2021, 3, 5, 14, 30, 45, 0, time.UTC)
	ms := float64(at.UnixMilli())
	for _, tc := range []struct {
		name string
		span float64
		want string
	}{
		{name: "years", span: 3 * 365 * msPerDay, want: "2021"},
		{name: "months", span: 90 * msPerDay, want: "Mar 2021"},
		{name: "days", span: 10 * msPerDay, want: "Mar 5"},
		{name: "hours", span: 5 * 60 * 60 * 1000, want: "Mar 5 14:30"},
		{name: "minutes", span: 20 * 60 * 1000, want: "14:30"},
		{name: "seconds", span: 30 * 1000, want: "14:30:45"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatTimeTick(ms, tc.span); got != tc.want {
				t.Errorf("formatTimeTick with span %v = %q, want %q", tc.span, got, tc.want)
			}
		})
	}
}

func TestFormatTimeTickMilliseconds(t *testing.T) {
	at := time.Date(2021, 3, 5, 14, 30, 45, 250_000_000, time.UTC)
	if got := formatTimeTick(float64(at.UnixMilli()), 500); got != "14:30:45.250" {
		t.Errorf("expected a millisecond label for a sub-second span, got %q", got)
	}
}

func TestAxisTicksSpacing(t *testing.T) {
	s, err := BuildScale(KindNumber, []float64{0, 100}, 0, 400)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	ticks := axisTicks(s, 400, 40, nil)
	if len(ticks) == 0 {
		t.Fatal("expected ticks for a 400px axis")
	}
	if len(ticks) > 10 {
		t.Errorf("expected at most 10 ticks at 40px spacing, got %d", len(ticks))
	}
	for i, tick := range ticks {
		if tick.Pos < 0 || tick.Pos > 400 {
			t.Errorf("tick %d positioned at %v, outside the 400px axis", i, tick.Pos)
		}
		if tick.Label == "" {
			t.Errorf("tick %d has an empty label", i)
		}
	}
}

func TestAxisTicksCategoryLabels(t *testing.T) {
	s, err := BuildScale(KindCategory, []float64{0, 1, 2}, 0, 300)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	categories := []string{"alpha", "beta", "gamma"}
	ticks := axisTicks(s, 300, 40, categories)
	if len(ticks) != 3 {
		t.Fatalf("expected 3 category ticks, got %d", len(ticks))
	}
	for i, tick := range ticks {
		if tick.Label != categories[i] {
			t.Errorf("expected tick %d labeled %q, got %q", i, categories[i], tick.Label)
		}
	}
}
