package transition

import (
	"chartenginev1/internal/analysis"
	"chartenginev1/internal/anim"
	"chartenginev1/internal/model"
)

// Transition durations in ms.
const (
	RangeDur   = 750 // window/width-induced Y-range moves
	WidthDur   = 300 // candle width visual morph
	ModeDur    = 500 // line <-> candle morph
	DensityDur = 350 // tick-density morph
)

// Follow speeds (per reference frame) for continuously tracked values.
const (
	revealSpeed       = 0.08
	pauseSpeed        = 0.15
	domainFollowSpeed = 0.1
)

// Resume catch-up drain rates. Exported: the orchestrator's visual
// clock drains at the same rates as the debt accumulator.
const (
	DebtDrainSpeed    = 0.05
	DebtDrainFast     = 0.2  // once debt exceeds DebtFastThreshold
	DebtFastThreshold = 10.0 // seconds
)

// Manager choreographs every structural quantity of one chart instance.
// Each quantity owns its own timer; multiple transitions run
// concurrently without a shared state machine.
type Manager struct {
	// ReducedMotion collapses all durations and follow speeds so every
	// quantity snaps directly to target.
	ReducedMotion bool

	// OnTransition, when set, is called with the quantity name each time
	// a new transition is armed. Metrics hook.
	OnTransition func(quantity string)

	window       Transition
	windowTarget float64

	rng    DomainTransition
	domain model.Domain
	hasDom bool

	width       Transition
	widthTarget float64

	mode       Transition
	modeTarget float64

	density       Transition
	densityTarget float64

	reveal   float64
	pause    float64
	timeDebt float64 // seconds
}

func (m *Manager) dur(d float64) float64 {
	if m.ReducedMotion {
		return 0
	}
	return d
}

func (m *Manager) speed(s float64) float64 {
	if m.ReducedMotion {
		return 1
	}
	return s
}

func (m *Manager) started(quantity string) {
	if m.OnTransition != nil {
		m.OnTransition(quantity)
	}
}

// RetargetWindow begins a window-length transition toward target
// seconds. The destination Y-range is pre-computed from the data that
// will be visible after the transition, so the range interpolates
// source-to-destination instead of chasing a moving target.
func (m *Manager) RetargetWindow(target float64, data []model.Sample, opts analysis.RangeOpts, now float64) {
	if target == m.windowTarget || target <= 0 {
		return
	}
	from := m.window.ValueLog(now)
	if m.windowTarget == 0 {
		// First window ever: adopt it without animating.
		m.windowTarget = target
		m.window.Begin(target, target, now, 0)
		return
	}
	m.windowTarget = target
	m.window.Begin(from, target, now, m.dur(RangeDur))
	m.started("window")

	if len(data) > 0 {
		visible := model.SliceWindow(data, model.LastTime(data)-target)
		dest := analysis.ComputeRange(visible, opts)
		m.rng.Begin(m.DomainNow(now), dest, now, m.dur(RangeDur))
		m.started("range")
	}
}

// Window returns the displayed window length in seconds, interpolating
// in log space while a transition runs.
func (m *Manager) Window(now float64) float64 {
	return m.window.ValueLog(now)
}

// WindowTarget returns the current target window length.
func (m *Manager) WindowTarget() float64 { return m.windowTarget }

// RetargetRange begins a stand-alone Y-range transition (candle-width
// changes pre-compute their destination range the same way window
// changes do).
func (m *Manager) RetargetRange(dest model.Domain, now float64) {
	m.rng.Begin(m.DomainNow(now), dest, now, m.dur(RangeDur))
	m.started("range")
}

// DomainNow returns the currently displayed domain without advancing
// the follow animation.
func (m *Manager) DomainNow(now float64) model.Domain {
	if m.rng.Active() {
		return m.rng.Value(now)
	}
	if !m.hasDom {
		return model.Domain{Min: 99, Max: 101}
	}
	return m.domain
}

// StepDomain advances the displayed domain toward target. While a range
// transition runs it owns the domain; otherwise min/max follow the
// target continuously, snapping once the gap is below half a mille of
// the span.
func (m *Manager) StepDomain(target model.Domain, dtMs, now float64) model.Domain {
	if !m.hasDom {
		m.domain = target
		m.hasDom = true
		return m.domain
	}
	if m.rng.Active() {
		m.domain = m.rng.Value(now)
		return m.domain
	}
	eps := target.Span() * 0.0005
	sp := m.speed(domainFollowSpeed)
	m.domain.Min = anim.SnapLerp(m.domain.Min, target.Min, sp, dtMs, eps)
	m.domain.Max = anim.SnapLerp(m.domain.Max, target.Max, sp, dtMs, eps)
	if m.domain.Max <= m.domain.Min {
		m.domain = target
	}
	return m.domain
}

// RetargetCandleWidth begins the 300ms width morph. The caller passes
// the destination Y-range computed from candles rebuilt at the new
// width.
func (m *Manager) RetargetCandleWidth(target float64, dest model.Domain, hasDest bool, now float64) {
	if target == m.widthTarget || target <= 0 {
		return
	}
	from := m.width.Value(now)
	if m.widthTarget == 0 {
		m.widthTarget = target
		m.width.Begin(target, target, now, 0)
		return
	}
	m.widthTarget = target
	m.width.Begin(from, target, now, m.dur(WidthDur))
	m.started("width")
	if hasDest {
		m.rng.Begin(m.DomainNow(now), dest, now, m.dur(RangeDur))
		m.started("range")
	}
}

// CandleWidth returns the displayed candle width in seconds.
func (m *Manager) CandleWidth(now float64) float64 { return m.width.Value(now) }

// WidthMorph returns the width transition progress in [0,1] (1 when
// settled).
func (m *Manager) WidthMorph(now float64) float64 {
	if !m.width.Active() {
		return 1
	}
	p := (now - m.width.Start) / m.width.Duration
	return anim.Clamp01(p)
}

// RetargetMode begins the 500ms line/candle morph. Reverse morphs
// (candle back to line) run the same cell from its current position.
func (m *Manager) RetargetMode(mode model.Mode, now float64) {
	target := 0.0
	if mode == model.ModeCandle {
		target = 1
	}
	if target == m.modeTarget {
		return
	}
	m.modeTarget = target
	m.mode.Begin(m.mode.Value(now), target, now, m.dur(ModeDur))
	m.started("mode")
}

// ModeMorph returns the line/candle morph progress (0=line, 1=candle).
func (m *Manager) ModeMorph(now float64) float64 {
	return anim.Clamp01(m.mode.Value(now))
}

// RetargetDensity begins the 350ms tick-density morph toward the given
// density level.
func (m *Manager) RetargetDensity(level, now float64) {
	if level == m.densityTarget {
		return
	}
	m.densityTarget = level
	m.density.Begin(m.density.Value(now), level, now, m.dur(DensityDur))
	m.started("density")
}

// Density returns the displayed tick-density level.
func (m *Manager) Density(now float64) float64 { return m.density.Value(now) }

// StepReveal advances the reveal scalar toward 1 when valid data exists
// and the chart is not loading, toward 0 otherwise.
func (m *Manager) StepReveal(show bool, dtMs float64) float64 {
	target := 0.0
	if show {
		target = 1
	}
	m.reveal = anim.SnapLerp(m.reveal, target, m.speed(revealSpeed), dtMs, 0.001)
	return m.reveal
}

// Reveal returns the current reveal scalar.
func (m *Manager) Reveal() float64 { return m.reveal }

// StepPause advances the pause scalar and the time-debt model.
// It returns the paused dt: per-tick deltas scaled by (1-pause) so
// animations decelerate to a stop instead of freezing. Real time not
// reflected in the visual clock accrues as debt; after resume the debt
// drains via lerp-to-zero, faster once it exceeds 10s.
func (m *Manager) StepPause(paused bool, dtMs float64) (pausedDt float64) {
	target := 0.0
	if paused {
		target = 1
	}
	m.pause = anim.SnapLerp(m.pause, target, m.speed(pauseSpeed), dtMs, 0.001)

	pausedDt = dtMs * (1 - m.pause)
	m.timeDebt += (dtMs - pausedDt) / 1000

	if !paused && m.timeDebt > 0 {
		sp := DebtDrainSpeed
		if m.timeDebt > DebtFastThreshold {
			sp = DebtDrainFast
		}
		m.timeDebt = anim.SnapLerp(m.timeDebt, 0, m.speed(sp), dtMs, 0.0005)
	}
	return pausedDt
}

// Pause returns the pause scalar.
func (m *Manager) Pause() float64 { return m.pause }

// TimeDebt returns the visual clock's lag behind real time, in seconds.
func (m *Manager) TimeDebt() float64 { return m.timeDebt }
