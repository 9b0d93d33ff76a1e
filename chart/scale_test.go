package chart

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestScaleRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name   string
		kind   Kind
		values []float64
	}{
		{
			name:   "numbers",
			kind:   KindNumber,
			values: []float64{-3.5, 0, 12.25, 97},
		},
		{
			name: "dates",
			kind: KindTime,
			values: []float64{
				float64(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()),
				float64(time.Date(2023, 11, 12, 6, 30, 0, 0, time.UTC).UnixMilli()),
			},
		},
		{
			name:   "categories",
			kind:   KindCategory,
			values: []float64{0, 1, 2, 3},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := BuildScale(tc.kind, tc.values, 0, 640)
			if err != nil {
				t.Fatalf("expected scale to build, got: %v", err)
			}
			span := s.DomainMax - s.DomainMin
			for _, v := range tc.values {
				got := s.ToDomain(s.ToPixel(v))
				if math.Abs(got-v) > span*1e-5 {
					t.Errorf("round trip of %v gave %v (domain span %v)", v, got, span)
				}
			}
		})
	}
}

func TestScaleInvertedRange(t *testing.T) {
	// Value axes map the domain onto a pixel range that runs bottom-up.
	s, err := BuildScale(KindNumber, []float64{10, 30}, 480, 0)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	if got := s.ToPixel(10); got != 480 {
		t.Errorf("expected domain min at pixel 480, got %v", got)
	}
	if got := s.ToPixel(30); got != 0 {
		t.Errorf("expected domain max at pixel 0, got %v", got)
	}
	if got := s.ToDomain(240); math.Abs(got-20) > 1e-6 {
		t.Errorf("expected pixel midpoint to invert to 20, got %v", got)
	}
}

func TestScaleEmptyDomain(t *testing.T) {
	_, err := BuildScale(KindNumber, nil, 0, 100)
	if !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("expected ErrEmptyDomain, got: %v", err)
	}
}

func TestDegenerateDomainWidens(t *testing.T) {
	for _, tc := range []struct {
		name  string
		kind  Kind
		value float64
	}{
		{name: "number", kind: KindNumber, value: 5},
		{name: "number at zero", kind: KindNumber, value: 0},
		{name: "date", kind: KindTime, value: float64(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli())},
		{name: "category", kind: KindCategory, value: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := BuildScale(tc.kind, []float64{tc.value, tc.value, tc.value}, 0, 100)
			if err != nil {
				t.Fatalf("expected degenerate domain to build, got: %v", err)
			}
			if !(s.DomainMin < s.DomainMax) {
				t.Errorf("expected widened domain, got [%v, %v]", s.DomainMin, s.DomainMax)
			}
			if got := s.ToDomain(s.ToPixel(tc.value)); math.Abs(got-tc.value) > (s.DomainMax-s.DomainMin)*1e-6 {
				t.Errorf("expected invertible mapping, round trip of %v gave %v", tc.value, got)
			}
		})
	}
}

func checkTicks(t *testing.T, s Scale, ticks []float64) {
	t.Helper()
	if len(ticks) == 0 {
		t.Fatal("expected at least one tick")
	}
	span := s.DomainMax - s.DomainMin
	for i, v := range ticks {
		if i > 0 && v <= ticks[i-1] {
			t.Errorf("ticks not strictly increasing: tick %d is %v after %v", i, v, ticks[i-1])
		}
		if v < s.DomainMin-span*1e-9 || v > s.DomainMax+span*1e-9 {
			t.Errorf("tick %v outside domain [%v, %v]", v, s.DomainMin, s.DomainMax)
		}
	}
}

func TestNumberTicks(t *testing.T) {
	s, err := BuildScale(KindNumber, []float64{0, 97}, 0, 640)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	ticks := s.Ticks(10)
	checkTicks(t, s, ticks)
	for _, v := range ticks {
		if math.Mod(v, 10) != 0 {
			t.Errorf("expected ticks on multiples of 10, got %v", v)
		}
	}
}

func TestTicksRespectBudget(t *testing.T) {
	s, err := BuildScale(KindNumber, []float64{0, 1000}, 0, 640)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	for _, budget := range []int{2, 3, 5, 10, 25} {
		if got := len(s.Ticks(budget)); got > budget {
			t.Errorf("budget %d produced %d ticks", budget, got)
		}
	}
}

func TestTimeTicksAlignToMonths(t *testing.T) {
	from := time.Date(2021, 3, 5, 13, 0, 0, 0, time.UTC)
	to := time.Date(2023, 8, 20, 2, 0, 0, 0, time.UTC)
	s, err := BuildScale(KindTime, []float64{
		float64(from.UnixMilli()),
		float64(to.UnixMilli()),
	}, 0, 800)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	ticks := s.Ticks(8)
	checkTicks(t, s, ticks)
	for _, v := range ticks {
		tick := time.UnixMilli(int64(v)).UTC()
		if tick.Day() != 1 || tick.Hour() != 0 || tick.Minute() != 0 {
			t.Errorf("expected month-boundary tick, got %v", tick)
		}
	}
}

func TestTimeTicksSubDay(t *testing.T) {
	from := time.Date(2024, 1, 10, 9, 12, 0, 0, time.UTC)
	to := from.Add(6 * time.Hour)
	s, err := BuildScale(KindTime, []float64{
		float64(from.UnixMilli()),
		float64(to.UnixMilli()),
	}, 0, 800)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	ticks := s.Ticks(10)
	checkTicks(t, s, ticks)
	for _, v := range ticks {
		tick := time.UnixMilli(int64(v)).UTC()
		if tick.Minute() != 0 || tick.Second() != 0 {
			t.Errorf("expected hour-aligned tick, got %v", tick)
		}
	}
}

func TestTimeTicksSubSecond(t *testing.T) {
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s, err := BuildScale(KindTime, []float64{
		float64(base.UnixMilli()) + 200,
		float64(base.UnixMilli()) + 700,
	}, 0, 800)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	ticks := s.Ticks(8)
	checkTicks(t, s, ticks)
	if len(ticks) != 6 {
		t.Errorf("expected 6 ticks across a 500ms span at 100ms steps, got %d", len(ticks))
	}
	for _, v := range ticks {
		if math.Mod(v, 100) != 0 {
			t.Errorf("expected ticks on 100ms boundaries, got %v", v)
		}
	}
}

func TestLogTicks(t *testing.T) {
	s, err := BuildScale(KindNumber, []float64{1, 100000}, 0, 640)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	s.Logarithmic = true
	ticks := s.Ticks(10)
	checkTicks(t, s, ticks)
	for _, v := range ticks {
		exp := math.Log10(v)
		if math.Abs(exp-math.Round(exp)) > 1e-9 {
			t.Errorf("expected power-of-ten tick, got %v", v)
		}
	}
}

func TestCategoryTicks(t *testing.T) {
	s, err := BuildScale(KindCategory, []float64{0, 1, 2, 3, 4}, 0, 400)
	if err != nil {
		t.Fatalf("expected scale to build, got: %v", err)
	}
	ticks := s.Ticks(10)
	checkTicks(t, s, ticks)
	if len(ticks) != 5 {
		t.Errorf("expected one tick per category, got %d", len(ticks))
	}
}
