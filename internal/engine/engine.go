// Package engine is the frame orchestrator: one Engine per mounted
// chart converts the raw per-tick input (samples, live value, pointer,
// flags) into a fully resolved paintable Frame. All animation math —
// smoothing, axis transitions, reveal/pause choreography, morphs,
// hover — happens here; a painter consumes the Frame without deriving
// anything.
package engine

import (
	"math"
	"time"

	"chartenginev1/internal/analysis"
	"chartenginev1/internal/anim"
	"chartenginev1/internal/candles"
	"chartenginev1/internal/hover"
	"chartenginev1/internal/model"
	"chartenginev1/internal/spline"
	"chartenginev1/internal/transition"
)

// Value follow tuning (per-frame fractions).
const (
	valueBaseSpeed  = 0.08
	valueBoostSpeed = 0.35
)

// visEndSnapSec: visible-end gaps below this track the live edge
// exactly; larger gaps drain at the transition package's debt rates.
const visEndSnapSec = 0.25

// pulsePeriodMs is the live-dot pulse cycle length on the animation
// clock.
const pulsePeriodMs = 1200

// Engine owns every long-lived animation cell of one chart instance.
// Single-threaded: Step must not be called concurrently, and ticks are
// atomic — tick N completes fully before tick N+1 begins.
type Engine struct {
	cfg Config

	trans  transition.Manager
	scrub  hover.Resolver
	liveSm candles.LiveSmoother
	agg    *candles.Aggregator

	display    float64 // smoothed live value
	hasDisplay bool
	prevSpan   float64 // previous displayed domain span, for adaptive speed

	lastTick time.Time
	hasTick  bool
	animMs   float64 // visual animation clock, advances by paused dt

	visEnd    float64 // visible "now" in series time
	hasVisEnd bool

	aggHigh float64 // high-water sample time pushed into the aggregator

	stash     []model.Sample // last non-empty data, kept while reveal decays
	stashLive float64
	pauseSnap []model.Sample // snapshot taken on pause entry
	wasPaused bool

	lastHover  *model.HoverPoint
	lastMode   model.Mode
	hasMode    bool
	lastWindow float64

	closed bool

	// OnTransition mirrors the manager's hook for metrics.
	OnTransition func(quantity string)
}

// New creates an engine instance. Configuration contract violations are
// resolved to defaults, never raised.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{cfg: cfg}
	e.trans.ReducedMotion = cfg.ReducedMotion
	e.trans.OnTransition = func(q string) {
		if e.OnTransition != nil {
			e.OnTransition(q)
		}
	}
	return e
}

// Close releases the instance. Subsequent Steps return empty frames.
// Cancellation is simply "stop ticking": no in-flight work exists
// between ticks.
func (e *Engine) Close() {
	e.closed = true
	e.stash = nil
	e.pauseSnap = nil
	e.agg = nil
}

// Step runs one engine tick and returns the paintable frame.
func (e *Engine) Step(in Input, now time.Time) model.Frame {
	if e.closed {
		return model.Frame{Empty: true}
	}

	// dt is clamped so a stall (backgrounded tab, suspended host) never
	// produces a single huge correction step.
	dt := anim.RefFrameMs
	if e.hasTick {
		dt = float64(now.Sub(e.lastTick)) / float64(time.Millisecond)
		if dt < 0 {
			dt = 0
		}
		if dt > e.cfg.MaxTickMs {
			dt = e.cfg.MaxTickMs
		}
	}
	e.lastTick, e.hasTick = now, true

	pausedDt := e.trans.StepPause(in.Paused, dt)
	e.animMs += pausedDt
	nowMs := e.animMs

	samples := e.resolveData(in)
	valid := len(samples) >= 2 && !in.Loading

	// Reveal chases the real data state; stashed frames keep painting
	// while it decays.
	reveal := e.trans.StepReveal(valid, pausedDt)
	if valid {
		e.stash = samples
		e.stashLive = e.liveValue(in, samples)
	} else if len(e.stash) > 0 && reveal > 0 {
		samples = e.stash
	} else {
		e.resetVisual()
		return model.Frame{Empty: true, Reveal: reveal, Pause: e.trans.Pause()}
	}

	e.retargetStructure(in, samples, nowMs)

	// Time geometry: the visible "now" trails the newest sample by the
	// outstanding time-debt. Under normal streaming the per-tick gap is
	// below the snap threshold and the clock tracks exactly; after a
	// resume the switch back to the live buffer leaves a large gap that
	// drains via lerp-to-zero, faster once it exceeds 10s.
	window := e.trans.Window(nowMs)
	latest := model.LastTime(samples)
	if !e.hasVisEnd {
		e.visEnd, e.hasVisEnd = latest, true
	}
	switch gap := latest - e.visEnd; {
	case gap < 0:
		// Buffer replaced with older data: snap backwards.
		e.visEnd = latest
	case gap <= visEndSnapSec:
		e.visEnd = latest
	default:
		sp := transition.DebtDrainSpeed
		if gap > transition.DebtFastThreshold {
			sp = transition.DebtDrainFast
		}
		e.visEnd = anim.Lerp(e.visEnd, latest, sp, pausedDt)
	}
	visibleEnd := e.visEnd
	visibleStart := visibleEnd - window
	visible := model.SliceBetween(samples, visibleStart, visibleEnd)

	// Smoothed live value with adaptive approach speed.
	live := e.liveValue(in, samples)
	if !valid {
		live = e.stashLive
	}
	if !e.hasDisplay {
		e.display, e.hasDisplay = live, true
	} else {
		sp := anim.AdaptiveSpeed(live, e.display, e.prevSpan, valueBaseSpeed, valueBoostSpeed)
		e.display = anim.SnapLerp(e.display, live, sp, pausedDt, e.snapEps())
	}

	morph := e.trans.ModeMorph(nowMs)

	// Candle pipeline runs whenever any candle pixels are visible.
	var visCandles []model.Candle
	var liveCandle *model.Candle
	var liveBirth float64
	if morph > 0 || e.modeTarget(in) == model.ModeCandle {
		visCandles, liveCandle, liveBirth = e.stepCandles(in, samples, visibleStart, visibleEnd, pausedDt, nowMs)
	} else {
		e.liveSm.Reset()
	}

	// Axis domain: transition-owned during structural moves, otherwise
	// continuously following.
	opts := analysis.RangeOpts{
		Current: e.display, HasCurrent: true,
		Reference: in.Reference, HasReference: in.HasReference,
		Exaggerate: e.cfg.Exaggerate,
	}
	var target model.Domain
	if morph >= 0.5 && len(visCandles)+btoi(liveCandle != nil) > 0 {
		target = analysis.CandleRange(visCandles, liveCandle, opts)
	} else {
		target = analysis.ComputeRange(visible, opts)
	}
	dom := e.trans.StepDomain(target, pausedDt, nowMs)
	e.prevSpan = dom.Span()

	frame := model.Frame{
		Value:  e.display,
		Domain: dom,
		Window: model.TimeWindow{Start: visibleStart, End: visibleEnd},

		Points:  visible,
		Candles: visCandles,
		Live:    liveCandle,

		Reveal:     reveal,
		Pause:      e.trans.Pause(),
		TimeDebt:   e.trans.TimeDebt(),
		ModeMorph:  morph,
		Density:    e.trans.Density(nowMs),
		WidthMorph: e.trans.WidthMorph(nowMs),
		LiveBirth:  liveBirth,

		Momentum: analysis.DetectMomentum(visible, e.cfg.Momentum),
	}
	frame.Empty = len(visible) < 2

	// Line geometry in normalized plot space, ending at the smoothed
	// live dot.
	if morph < 1 && !frame.Empty {
		frame.Path = e.buildPath(visible, frame.Window, dom)
	}

	// Staggered fade-ins hang off the shared reveal scalar so elements
	// appear in a fixed order.
	if e.cfg.Flags.Grid {
		frame.GridAlpha = anim.Smoothstep(0.15, 0.7, reveal)
	}
	if e.cfg.Flags.MomentumArrows && frame.Momentum != model.MomentumFlat {
		frame.ArrowAlpha = anim.Smoothstep(0.6, 1.0, reveal)
	}
	if e.cfg.Flags.Fill {
		frame.FillAlpha = anim.Smoothstep(0.3, 0.9, reveal)
	}
	// The live-dot pulse rides the animation clock, so pausing stops it.
	if e.cfg.Flags.Pulse {
		frame.PulseAlpha = reveal * (1 - math.Cos(2*math.Pi*nowMs/pulsePeriodMs)) / 2
	}

	if e.cfg.Flags.Scrub {
		var hp *model.HoverPoint
		hp, frame.HoverOpacity = e.scrub.Step(in.PointerX, frame.Window, dom, visible, pausedDt)
		frame.Hover = hp
		e.notifyHover(hp)
	}

	if e.cfg.Flags.Badge {
		frame.Overlay = e.overlay(dom, frame.Momentum, reveal)
	}

	return frame
}

// resolveData picks the sample source for this tick, snapshotting the
// caller buffer on pause entry to shield against caller-side pruning.
func (e *Engine) resolveData(in Input) []model.Sample {
	if in.Paused && !e.wasPaused {
		e.pauseSnap = append([]model.Sample(nil), in.Samples...)
	}
	e.wasPaused = in.Paused
	if !in.Paused && e.trans.Pause() == 0 {
		e.pauseSnap = nil
	}
	if e.pauseSnap != nil && e.trans.Pause() > 0 {
		return e.pauseSnap
	}
	return in.Samples
}

func (e *Engine) liveValue(in Input, samples []model.Sample) float64 {
	if in.HasLive {
		return in.Live
	}
	if len(samples) > 0 {
		return samples[len(samples)-1].Value
	}
	return 0
}

func (e *Engine) modeTarget(in Input) model.Mode {
	if in.Mode != nil {
		return *in.Mode
	}
	return e.cfg.Mode
}

// retargetStructure arms transitions for any structural target that
// diverged this tick, firing the change callbacks.
func (e *Engine) retargetStructure(in Input, samples []model.Sample, nowMs float64) {
	windowTarget := in.Window
	if windowTarget <= 0 {
		windowTarget = e.cfg.WindowSeconds
	}
	opts := analysis.RangeOpts{
		Current: e.display, HasCurrent: e.hasDisplay,
		Reference: in.Reference, HasReference: in.HasReference,
		Exaggerate: e.cfg.Exaggerate,
	}
	e.trans.RetargetWindow(windowTarget, samples, opts, nowMs)
	if windowTarget != e.lastWindow {
		if e.lastWindow != 0 && e.cfg.Callbacks.OnWindowChanged != nil {
			e.cfg.Callbacks.OnWindowChanged(windowTarget)
		}
		e.lastWindow = windowTarget
	}
	e.trans.RetargetDensity(tickDensityLevel(windowTarget), nowMs)

	mode := e.modeTarget(in)
	e.trans.RetargetMode(mode, nowMs)
	if !e.hasMode {
		e.lastMode, e.hasMode = mode, true
	} else if mode != e.lastMode {
		e.lastMode = mode
		if e.cfg.Callbacks.OnModeChanged != nil {
			e.cfg.Callbacks.OnModeChanged(mode)
		}
	}

	width := in.CandleWidth
	if width <= 0 {
		width = e.cfg.CandleWidth
	}
	if e.agg == nil || width != e.agg.Width() {
		// Width change: rebuild at the new width and pre-compute the
		// destination range from the rebuilt candles.
		rebuilt := candles.Rebuild(samples, width)
		rebuilt.MaxCandles = e.cfg.MaxCandles
		live, hasLive := rebuilt.Live()
		var lc *model.Candle
		if hasLive {
			lc = &live
		}
		dest := analysis.CandleRange(rebuilt.Candles(), lc, opts)
		hasDest := mode == model.ModeCandle && (len(rebuilt.Candles()) > 0 || hasLive)
		e.trans.RetargetCandleWidth(width, dest, hasDest, nowMs)
		e.agg = rebuilt
		e.aggHigh = model.LastTime(samples)
	}
}

// stepCandles keeps the incremental aggregation in sync with the caller
// buffer and advances the live-candle smoother.
func (e *Engine) stepCandles(in Input, samples []model.Sample, visStart, visEnd, dtMs, nowMs float64) ([]model.Candle, *model.Candle, float64) {
	var committed []model.Candle
	var rawLive model.Candle
	var hasLive bool

	if in.Candles != nil {
		committed = in.Candles
		if in.LiveCandle != nil {
			rawLive, hasLive = *in.LiveCandle, true
		}
	} else {
		if model.LastTime(samples) < e.aggHigh {
			// Buffer was replaced or pruned backwards: replay.
			e.agg = candles.Rebuild(samples, e.agg.Width())
			e.agg.MaxCandles = e.cfg.MaxCandles
		} else {
			for _, s := range model.SliceWindow(samples, math.Nextafter(e.aggHigh, math.Inf(1))) {
				e.agg.Push(s)
			}
		}
		e.aggHigh = model.LastTime(samples)
		committed = e.agg.Candles()
		rawLive, hasLive = e.agg.Live()
	}

	width := e.trans.CandleWidth(nowMs)
	if width <= 0 {
		width = e.cfg.CandleWidth
	}

	// Clip to the window, keeping candles that straddle the left edge.
	lo := 0
	for lo < len(committed) && committed[lo].Time+width <= visStart {
		lo++
	}
	hi := len(committed)
	for hi > lo && committed[hi-1].Time > visEnd {
		hi--
	}
	vis := committed[lo:hi]

	if !hasLive {
		e.liveSm.Reset()
		return vis, nil, 0
	}
	smoothed, birth := e.liveSm.Step(rawLive, dtMs)
	return vis, &smoothed, birth
}

// buildPath emits the monotone spline in normalized plot coordinates,
// appending the smoothed live dot at the right edge.
func (e *Engine) buildPath(visible []model.Sample, w model.TimeWindow, dom model.Domain) []model.Segment {
	length := w.Length()
	if length <= 0 || !dom.Valid() {
		return nil
	}
	pts := make([]spline.Point, 0, len(visible)+1)
	for _, s := range visible {
		pts = append(pts, spline.Point{
			X: (s.Time - w.Start) / length,
			Y: dom.Norm(s.Value),
		})
	}
	if n := len(pts); n > 0 && pts[n-1].X < 1 {
		pts = append(pts, spline.Point{X: 1, Y: dom.Norm(e.display)})
	}
	return spline.Monotone(pts)
}

func (e *Engine) overlay(dom model.Domain, mom model.Momentum, reveal float64) *model.Overlay {
	color := e.cfg.Palette.Flat
	switch mom {
	case model.MomentumUp:
		color = e.cfg.Palette.Up
	case model.MomentumDown:
		color = e.cfg.Palette.Down
	}
	return &model.Overlay{
		X:       1,
		Y:       dom.Norm(e.display),
		Text:    e.cfg.FormatValue(e.display),
		Color:   color,
		Opacity: reveal,
	}
}

func (e *Engine) notifyHover(hp *model.HoverPoint) {
	if e.cfg.Callbacks.OnHoverChanged == nil {
		return
	}
	switch {
	case hp == nil && e.lastHover == nil:
		return
	case hp != nil && e.lastHover != nil && *hp == *e.lastHover:
		return
	}
	e.lastHover = hp
	e.cfg.Callbacks.OnHoverChanged(hp)
}

// resetVisual clears the per-frame visual state once reveal has fully
// decayed with no data to stash.
func (e *Engine) resetVisual() {
	e.stash = nil
	e.scrub.Reset()
	e.liveSm.Reset()
	e.hasDisplay = false
	e.hasVisEnd = false
}

func (e *Engine) snapEps() float64 {
	if e.prevSpan <= 0 {
		return 1e-9
	}
	// Half a pixel in axis units, assuming a ~1000px-tall plot.
	return e.prevSpan * 0.0005
}

// tickDensityLevel maps a window length to a grid density level: log2
// of the nice step (1/2/5 ladder targeting ~6 gridlines), so adjacent
// levels crossfade during the density morph.
func tickDensityLevel(window float64) float64 {
	if window <= 0 {
		return 0
	}
	raw := window / 6
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var step float64
	switch n := raw / mag; {
	case n < 1.5:
		step = mag
	case n < 3.5:
		step = 2 * mag
	case n < 7.5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	return math.Log2(step)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
