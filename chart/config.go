package chart

import (
	"image/color"

	"gioui.org/unit"
)

// Kind identifies the semantic value space of an axis before pixel
// mapping. It is a closed set: every scale and renderer operation
// switches over it exhaustively.
type Kind uint8

const (
	KindNumber Kind = iota
	KindTime
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "date"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Presentation selects the visual encoding of a series' samples.
type Presentation uint8

const (
	// PresentationInherit defers to the chart-wide presentation.
	PresentationInherit Presentation = iota
	PresentationLine
	PresentationPoints
	PresentationBars
)

func (p Presentation) String() string {
	switch p {
	case PresentationInherit:
		return "inherit"
	case PresentationLine:
		return "line"
	case PresentationPoints:
		return "points"
	case PresentationBars:
		return "bars"
	default:
		return "unknown"
	}
}

// SortOrder controls optional reordering of a chart's data sets before
// layout.
type SortOrder uint8

const (
	SortNone SortOrder = iota
	SortByName
	SortByMaxValue
)

var defaultPalette = []color.NRGBA{
	{R: 0xa4, G: 0x63, B: 0x3a, A: 0xff},
	{R: 0x85, G: 0x76, B: 0x25, A: 0xff},
	{R: 0x51, G: 0x85, B: 0x4d, A: 0xff},
	{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff},
	{R: 0x72, G: 0x6c, B: 0xae, A: 0xff},
	{R: 0x97, G: 0x5f, B: 0x91, A: 0xff},
}

// Config carries the recognized chart options. The zero value is usable:
// every field falls back to a documented default.
type Config struct {
	// MinTickSpacing is the minimum distance between adjacent axis
	// ticks. Defaults to 40.
	MinTickSpacing unit.Dp
	// Palette colors series by their position in DataSets. Defaults to a
	// built-in six-color rotation.
	Palette []color.NRGBA
	// Presentation applies to every series that doesn't override it.
	// Defaults to PresentationLine.
	Presentation Presentation
	// HitThreshold is the maximum pointer distance at which a sample is
	// considered hovered. Defaults to 8.
	HitThreshold unit.Dp
	// DisableTooltip suppresses the hover tooltip while leaving
	// highlight state transitions intact.
	DisableTooltip bool
	// AutoLogRatio switches the value scale to logarithmic when the
	// ratio between the largest and smallest positive values meets or
	// exceeds it. Zero disables the automatic switch. Defaults to off.
	AutoLogRatio float64
	// SortDataSets reorders the data sets once, at create/update time.
	SortDataSets SortOrder
	// Diagnostic receives recovered sample-level errors. Defaults to
	// logging via the log package.
	Diagnostic DiagnosticFunc
}

// withDefaults resolves every unset option to its default.
func (c Config) withDefaults() Config {
	if c.MinTickSpacing == 0 {
		c.MinTickSpacing = 40
	}
	if len(c.Palette) == 0 {
		c.Palette = defaultPalette
	}
	if c.Presentation == PresentationInherit {
		c.Presentation = PresentationLine
	}
	if c.HitThreshold == 0 {
		c.HitThreshold = 8
	}
	if c.Diagnostic == nil {
		c.Diagnostic = logDiagnostic
	}
	return c
}

func (c Config) color(seriesIdx int) color.NRGBA {
	return c.Palette[seriesIdx%len(c.Palette)]
}
