// Package hover resolves a raw pointer position into the crosshair
// state: interpolated sample, lerped opacity, and a fade-out tail that
// keeps the last known hover rendering after the pointer leaves.
package hover

import (
	"chartenginev1/internal/analysis"
	"chartenginev1/internal/anim"
	"chartenginev1/internal/model"
)

const (
	opacitySpeed = 0.25

	// liveEdgeFade is the normalized distance from the live edge over
	// which the crosshair fades out, so it never collides with the live
	// dot.
	liveEdgeFade = 0.04
)

// Resolver holds the per-instance scrub state.
type Resolver struct {
	opacity float64
	last    *model.HoverPoint
}

// Step resolves the pointer for one tick. pointerX is the normalized
// horizontal position within the window, or nil when not hovering.
// Returns the hover point to render (nil when nothing should draw) and
// its opacity.
func (r *Resolver) Step(pointerX *float64, window model.TimeWindow, domain model.Domain, points []model.Sample, dtMs float64) (*model.HoverPoint, float64) {
	hovering := pointerX != nil && window.Length() > 0 && len(points) > 0

	if hovering {
		x := anim.Clamp01(*pointerX)
		t := window.Start + x*window.Length()
		if v, ok := analysis.InterpolateAtTime(points, t); ok {
			r.last = &model.HoverPoint{
				Time:  t,
				Value: v,
				X:     x,
				Y:     domain.Norm(v),
			}
		} else {
			hovering = false
		}
	}

	target := 0.0
	if hovering {
		target = 1
	}
	r.opacity = anim.SnapLerp(r.opacity, target, opacitySpeed, dtMs, 0.001)

	if r.opacity == 0 {
		// Fade-out tail finished: drop the cached hover.
		r.last = nil
		return nil, 0
	}

	// Proximity fade: force opacity down as the hover approaches the
	// live edge.
	eff := r.opacity
	if r.last != nil {
		edge := (1 - r.last.X) / liveEdgeFade
		eff *= anim.Clamp01(edge)
	}
	return r.last, eff
}

// Active reports whether a hover point is currently rendered.
func (r *Resolver) Active() bool { return r.last != nil }

// Reset clears all scrub state (data loss, unmount).
func (r *Resolver) Reset() {
	r.opacity = 0
	r.last = nil
}
