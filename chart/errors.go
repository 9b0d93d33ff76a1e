package chart

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrEmptyDomain is returned when a scale is asked to cover zero
	// values. It aborts the entire render pass that triggered it.
	ErrEmptyDomain = errors.New("cannot build a scale over an empty domain")
	// ErrInstanceDestroyed is returned by every operation invoked on an
	// instance after Destroy.
	ErrInstanceDestroyed = errors.New("chart instance has been destroyed")
)

// InvalidSampleError reports a sample that was dropped during series
// validation. Dropping is recoverable: the rest of the series still
// renders, and the error is delivered through the configured diagnostic
// sink rather than failing the render pass.
type InvalidSampleError struct {
	Series string
	Index  int
	Reason string
}

func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("series %q: dropped sample %d: %s", e.Series, e.Index, e.Reason)
}

// UnsupportedPresentationError reports a series whose presentation mode
// cannot be drawn over the chart's coordinate domain, such as bars over
// unevenly spaced numeric coordinates. It is fatal for that series only.
type UnsupportedPresentationError struct {
	Series       string
	Presentation Presentation
	Reason       string
}

func (e *UnsupportedPresentationError) Error() string {
	return fmt.Sprintf("series %q: cannot render as %v: %s", e.Series, e.Presentation, e.Reason)
}

// DiagnosticFunc receives recoverable, sample-level errors. The default
// sink logs them.
type DiagnosticFunc func(err error)

func logDiagnostic(err error) {
	log.Printf("chart: %v", err)
}
