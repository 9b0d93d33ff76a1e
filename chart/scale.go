package chart

import (
	"math"
	"time"
)

// Scale is a bidirectional mapping between a domain interval and a pixel
// interval. Time domains are carried as Unix milliseconds and category
// domains as entry indices, so every kind shares one float64
// representation and one interpolation path.
//
// The pixel range may run in either direction; value axes are typically
// built with RangeMin below RangeMax in pixel terms so that larger values
// sit higher on screen.
type Scale struct {
	Kind                 Kind
	DomainMin, DomainMax float64
	RangeMin, RangeMax   float32
	// Logarithmic applies a log transform to the forward and inverse
	// mappings. Only ever set on value scales with a strictly positive
	// domain.
	Logarithmic bool
}

// BuildScale derives a scale covering every value in vals, mapped onto
// the pixel interval [rangeMin, rangeMax]. Degenerate domains (all values
// equal) are widened so the mapping stays invertible. Building from zero
// values fails with ErrEmptyDomain.
func BuildScale(kind Kind, vals []float64, rangeMin, rangeMax float32) (Scale, error) {
	if len(vals) == 0 {
		return Scale{}, ErrEmptyDomain
	}
	dMin, dMax := vals[0], vals[0]
	for _, v := range vals[1:] {
		dMin = min(dMin, v)
		dMax = max(dMax, v)
	}
	dMin, dMax = widen(kind, dMin, dMax)
	return Scale{
		Kind:      kind,
		DomainMin: dMin,
		DomainMax: dMax,
		RangeMin:  rangeMin,
		RangeMax:  rangeMax,
	}, nil
}

// widen expands a degenerate domain symmetrically: half a day per side
// for time, half a slot for categories, and 1% of magnitude (or an
// absolute 1 at zero) for numbers.
func widen(kind Kind, dMin, dMax float64) (float64, float64) {
	if dMin != dMax {
		return dMin, dMax
	}
	var pad float64
	switch kind {
	case KindTime:
		pad = 12 * 60 * 60 * 1000
	case KindCategory:
		pad = 0.5
	default:
		pad = math.Abs(dMin) * 0.01
		if pad == 0 {
			pad = 1
		}
	}
	return dMin - pad, dMax + pad
}

// ToPixel maps a domain value into the pixel range.
func (s Scale) ToPixel(v float64) float32 {
	var frac float64
	if s.Logarithmic {
		if v < s.DomainMin {
			v = s.DomainMin
		}
		frac = (math.Log(v) - math.Log(s.DomainMin)) / (math.Log(s.DomainMax) - math.Log(s.DomainMin))
	} else {
		frac = (v - s.DomainMin) / (s.DomainMax - s.DomainMin)
	}
	return s.RangeMin + float32(frac)*(s.RangeMax-s.RangeMin)
}

// ToDomain maps a pixel position back into the domain. It is the inverse
// of ToPixel up to floating-point error.
func (s Scale) ToDomain(p float32) float64 {
	frac := float64(p-s.RangeMin) / float64(s.RangeMax-s.RangeMin)
	if s.Logarithmic {
		logMin, logMax := math.Log(s.DomainMin), math.Log(s.DomainMax)
		return math.Exp(logMin + frac*(logMax-logMin))
	}
	return s.DomainMin + frac*(s.DomainMax-s.DomainMin)
}

// Ticks returns at most maxTicks nice domain values in strictly
// increasing order, all within [DomainMin, DomainMax]. Numbers round to
// 1/2/5 steps, times align to calendar boundaries chosen by span, and
// categories tick on entry indices.
func (s Scale) Ticks(maxTicks int) []float64 {
	if maxTicks < 1 {
		maxTicks = 1
	}
	switch s.Kind {
	case KindTime:
		return timeTicks(s.DomainMin, s.DomainMax, maxTicks)
	case KindCategory:
		return categoryTicks(s.DomainMin, s.DomainMax, maxTicks)
	default:
		if s.Logarithmic {
			if ticks := logTicks(s.DomainMin, s.DomainMax, maxTicks); len(ticks) >= 2 {
				return ticks
			}
		}
		return linearTicks(s.DomainMin, s.DomainMax, maxTicks)
	}
}

// niceNum rounds x to a 1/2/5 multiple of a power of ten, rounding to
// the nearest such value when round is set and up otherwise.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	frac := x / math.Pow(10, exp)
	var nice float64
	if round {
		switch {
		case frac < 1.5:
			nice = 1
		case frac < 3:
			nice = 2
		case frac < 7:
			nice = 5
		default:
			nice = 10
		}
	} else {
		switch {
		case frac <= 1:
			nice = 1
		case frac <= 2:
			nice = 2
		case frac <= 5:
			nice = 5
		default:
			nice = 10
		}
	}
	return nice * math.Pow(10, exp)
}

// stepsWithin returns every multiple of step inside [dMin, dMax]. Each
// tick is computed by multiplication rather than accumulation so float
// error doesn't compound across a long axis.
func stepsWithin(dMin, dMax, step float64) []float64 {
	var out []float64
	first := math.Ceil(dMin / step)
	// Absorb float error at the top of the interval.
	limit := dMax + step*1e-9
	for i := 0; ; i++ {
		v := (first + float64(i)) * step
		if v > limit {
			return out
		}
		out = append(out, v)
	}
}

func linearTicks(dMin, dMax float64, maxTicks int) []float64 {
	span := dMax - dMin
	step := niceNum(span/float64(maxTicks), true)
	ticks := stepsWithin(dMin, dMax, step)
	for len(ticks) > maxTicks && len(ticks) > 2 {
		step *= 2
		ticks = stepsWithin(dMin, dMax, step)
	}
	if len(ticks) == 0 {
		ticks = []float64{dMin, dMax}
	}
	return ticks
}

func logTicks(dMin, dMax float64, maxTicks int) []float64 {
	var out []float64
	lo := int(math.Ceil(math.Log10(dMin) - 1e-9))
	hi := int(math.Floor(math.Log10(dMax) + 1e-9))
	stride := 1
	for (hi-lo)/stride+1 > maxTicks {
		stride++
	}
	for e := lo; e <= hi; e += stride {
		out = append(out, math.Pow(10, float64(e)))
	}
	return out
}

func categoryTicks(dMin, dMax float64, maxTicks int) []float64 {
	ticks := stepsWithin(dMin, dMax, 1)
	stride := 1
	for (len(ticks)+stride-1)/stride > maxTicks {
		stride++
	}
	var out []float64
	for i := 0; i < len(ticks); i += stride {
		out = append(out, ticks[i])
	}
	return out
}

const msPerDay = 24 * 60 * 60 * 1000

// subMonthSteps are the candidate tick intervals below one month, in
// milliseconds. Days and weeks divide evenly into the Unix epoch, so
// plain multiples land on UTC midnights.
var subMonthSteps = []int64{
	1, 2, 5, 10, 20, 50, 100, 200, 500,
	1000, 2000, 5000, 15000, 30000,
	60_000, 120_000, 300_000, 900_000, 1_800_000,
	3_600_000, 7_200_000, 10_800_000, 21_600_000, 43_200_000,
	msPerDay, 2 * msPerDay, 7 * msPerDay, 14 * msPerDay,
}

// monthSteps are the candidate tick intervals of a month and coarser,
// counted in months.
var monthSteps = []int{1, 2, 3, 6, 12, 24, 60, 120, 240, 600, 1200}

func timeTicks(dMin, dMax float64, maxTicks int) []float64 {
	target := (dMax - dMin) / float64(maxTicks)
	for _, step := range subMonthSteps {
		if float64(step) >= target {
			if ticks := stepsWithin(dMin, dMax, float64(step)); len(ticks) > 0 {
				return ticks
			}
			break
		}
	}
	for _, months := range monthSteps {
		if float64(months)*30*msPerDay >= target {
			if ticks := monthTicks(dMin, dMax, months); len(ticks) > 0 {
				return ticks
			}
		}
	}
	if ticks := monthTicks(dMin, dMax, monthSteps[len(monthSteps)-1]); len(ticks) > 0 {
		return ticks
	}
	// Domains narrower than the finest calendar step cross no boundary at
	// all; fall back to nice-number ticks over the raw milliseconds.
	return linearTicks(dMin, dMax, maxTicks)
}

// monthTicks emits calendar-aligned ticks every `months` months,
// anchored so that yearly and coarser steps land on January 1.
func monthTicks(dMin, dMax float64, months int) []float64 {
	t := time.UnixMilli(int64(dMin)).UTC()
	idx := t.Year()*12 + int(t.Month()) - 1
	for idx%months != 0 {
		idx--
	}
	var out []float64
	for {
		tick := time.Date(idx/12, time.Month(idx%12+1), 1, 0, 0, 0, 0, time.UTC)
		ms := float64(tick.UnixMilli())
		if ms > dMax {
			return out
		}
		if ms >= dMin {
			out = append(out, ms)
		}
		idx += months
	}
}
