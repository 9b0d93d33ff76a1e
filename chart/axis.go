package chart

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// axisTick is one positioned axis annotation: a pixel offset along the
// scale's range and the label to draw there.
type axisTick struct {
	Pos   float32
	Label string
}

// axisTicks turns a scale's tick set into positioned labels. The tick
// budget is the axis length divided by the minimum label spacing, so
// shrinking the canvas sheds ticks instead of colliding them.
func axisTicks(s Scale, lengthPx, minSpacingPx int, categories []string) []axisTick {
	if minSpacingPx < 1 {
		minSpacingPx = 1
	}
	maxTicks := lengthPx / minSpacingPx
	if maxTicks < 2 {
		maxTicks = 2
	}
	ticks := s.Ticks(maxTicks)
	out := make([]axisTick, 0, len(ticks))
	var step float64
	if len(ticks) > 1 {
		step = ticks[1] - ticks[0]
	}
	for _, v := range ticks {
		out = append(out, axisTick{
			Pos:   s.ToPixel(v),
			Label: formatTick(s, v, step, categories),
		})
	}
	return out
}

func formatTick(s Scale, v, step float64, categories []string) string {
	switch s.Kind {
	case KindTime:
		return formatTimeTick(v, s.DomainMax-s.DomainMin)
	case KindCategory:
		idx := int(math.Round(v))
		if idx >= 0 && idx < len(categories) {
			return categories[idx]
		}
		return strconv.Itoa(idx)
	default:
		return formatNumberTick(v, step)
	}
}

// formatNumberTick renders v with just enough decimals to represent the
// tick step exactly, then strips redundant trailing zeros.
func formatNumberTick(v, step float64) string {
	decimals := 0
	if step > 0 {
		for decimals < 9 {
			scaled := step * math.Pow(10, float64(decimals))
			if math.Abs(scaled-math.Round(scaled)) < 1e-6 {
				break
			}
			decimals++
		}
	}
	out := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimRight(out, ".")
	}
	return out
}

// formatTimeTick picks a granularity-appropriate date format: year-only
// beyond ~2 years of span, month+year beyond ~60 days, day-level beyond
// ~2 days, and clock time below that.
func formatTimeTick(v, spanMS float64) string {
	t := time.UnixMilli(int64(v)).UTC()
	switch {
	case spanMS > 2*365*msPerDay:
		return t.Format("2006")
	case spanMS > 60*msPerDay:
		return t.Format("Jan 2006")
	case spanMS > 2*msPerDay:
		return t.Format("Jan 2")
	case spanMS > 2*60*60*1000:
		return t.Format("Jan 2 15:04")
	case spanMS > 2*60*1000:
		return t.Format("15:04")
	case spanMS > 2*1000:
		return t.Format("15:04:05")
	default:
		return t.Format("15:04:05.000")
	}
}
