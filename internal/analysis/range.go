// Package analysis holds the numeric kernels the frame orchestrator
// runs each tick: Y-domain computation, momentum classification and
// time-to-value interpolation.
package analysis

import (
	"math"

	"chartenginev1/internal/model"
)

// Margin / minimum-span policy. Exaggerated mode shrinks both so the
// series fills the whole chart height.
const (
	marginFrac      = 0.12
	marginFracExagg = 0.01

	minSpanFrac      = 0.10
	minSpanFracExagg = 0.02

	absSpanFloor = 0.001
)

// defaultDomain is the fallback for empty/degenerate input.
var defaultDomain = model.Domain{Min: 99, Max: 101}

// RangeOpts extends the raw point extent with live/reference values.
type RangeOpts struct {
	Current      float64
	HasCurrent   bool
	Reference    float64
	HasReference bool

	// Exaggerate shrinks margin and minimum span for fill-the-height modes.
	Exaggerate bool
}

// ComputeRange returns the Y-axis domain for the given points, extended
// to include the current and reference values when present. The result
// always satisfies Max > Min.
func ComputeRange(points []model.Sample, opts RangeOpts) model.Domain {
	min, max := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	if opts.HasCurrent && !math.IsNaN(opts.Current) && !math.IsInf(opts.Current, 0) {
		min = math.Min(min, opts.Current)
		max = math.Max(max, opts.Current)
	}
	if opts.HasReference && !math.IsNaN(opts.Reference) && !math.IsInf(opts.Reference, 0) {
		min = math.Min(min, opts.Reference)
		max = math.Max(max, opts.Reference)
	}
	if math.IsInf(min, 1) || math.IsInf(max, -1) {
		return defaultDomain
	}

	marginF, minSpanF := marginFrac, minSpanFrac
	if opts.Exaggerate {
		marginF, minSpanF = marginFracExagg, minSpanFracExagg
	}

	span := max - min
	mid := (min + max) / 2

	// Minimum span is relative to the value level, with an absolute floor
	// for series sitting at zero.
	minSpan := math.Max(math.Abs(mid)*minSpanF, absSpanFloor)
	if span < minSpan {
		return model.Domain{Min: mid - minSpan/2, Max: mid + minSpan/2}
	}

	margin := span * marginF
	return model.Domain{Min: min - margin, Max: max + margin}
}

// CandleRange is ComputeRange over a candle list, using highs and lows.
func CandleRange(candles []model.Candle, live *model.Candle, opts RangeOpts) model.Domain {
	pts := make([]model.Sample, 0, len(candles)*2+2)
	for _, c := range candles {
		pts = append(pts, model.Sample{Time: c.Time, Value: c.Low}, model.Sample{Time: c.Time, Value: c.High})
	}
	if live != nil {
		pts = append(pts, model.Sample{Time: live.Time, Value: live.Low}, model.Sample{Time: live.Time, Value: live.High})
	}
	return ComputeRange(pts, opts)
}
