// Package transition implements the structural animation cells of the
// engine: window length, Y-range, candle width, line/candle morph and
// tick-density morph each own an independent timer-driven transition,
// plus the reveal/pause choreography and the pause time-debt model.
package transition

import (
	"math"

	"chartenginev1/internal/anim"
	"chartenginev1/internal/model"
)

// Transition animates one scalar from From to To over Duration.
// A zero Start means inactive; inactive transitions report To exactly,
// so a cell is created lazily on first divergence and self-clears when
// elapsed reaches the duration.
type Transition struct {
	From     float64
	To       float64
	Start    float64 // timestamp in ms; 0 = inactive
	Duration float64 // ms
}

// Begin arms the transition. A non-positive duration snaps immediately.
func (t *Transition) Begin(from, to, now, duration float64) {
	if duration <= 0 || from == to {
		t.From, t.To, t.Start = to, to, 0
		return
	}
	t.From, t.To, t.Start, t.Duration = from, to, now, duration
}

// Active reports whether the transition is still running.
func (t *Transition) Active() bool { return t.Start != 0 }

// Value returns the current displayed value, easing with cosine
// ease-in-out. At completion it snaps exactly to To and deactivates, so
// there is no residual one-frame drift.
func (t *Transition) Value(now float64) float64 {
	if t.Start == 0 {
		return t.To
	}
	p := (now - t.Start) / t.Duration
	if p >= 1 {
		t.Start = 0
		return t.To
	}
	return t.From + (t.To-t.From)*anim.EaseInOutCos(p)
}

// ValueLog interpolates in log space, for window-length zooms where a
// wide-to-narrow transition should feel proportionally even. Falls back
// to linear interpolation when either endpoint is non-positive.
func (t *Transition) ValueLog(now float64) float64 {
	if t.Start == 0 {
		return t.To
	}
	if t.From <= 0 || t.To <= 0 {
		return t.Value(now)
	}
	p := (now - t.Start) / t.Duration
	if p >= 1 {
		t.Start = 0
		return t.To
	}
	e := anim.EaseInOutCos(p)
	lf, lt := math.Log(t.From), math.Log(t.To)
	return math.Exp(lf + (lt-lf)*e)
}

// DomainTransition animates a Y-range from one domain to another,
// min and max moving on the shared timer.
type DomainTransition struct {
	From     model.Domain
	To       model.Domain
	Start    float64
	Duration float64
}

// Begin arms the domain transition.
func (d *DomainTransition) Begin(from, to model.Domain, now, duration float64) {
	if duration <= 0 || from == to {
		d.From, d.To, d.Start = to, to, 0
		return
	}
	d.From, d.To, d.Start, d.Duration = from, to, now, duration
}

// Active reports whether the transition is still running.
func (d *DomainTransition) Active() bool { return d.Start != 0 }

// Value returns the current displayed domain, snapping exactly to the
// destination at completion.
func (d *DomainTransition) Value(now float64) model.Domain {
	if d.Start == 0 {
		return d.To
	}
	p := (now - d.Start) / d.Duration
	if p >= 1 {
		d.Start = 0
		return d.To
	}
	e := anim.EaseInOutCos(p)
	return model.Domain{
		Min: d.From.Min + (d.To.Min-d.From.Min)*e,
		Max: d.From.Max + (d.To.Max-d.From.Max)*e,
	}
}
