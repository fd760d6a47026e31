// Package anim provides the frame-rate-independent smoothing primitives
// every animated quantity in the engine is built on. Speeds are expressed
// as the fraction of the remaining gap closed per reference frame
// (16.67ms), converted to a continuous decay so the fraction of the gap
// closed over a fixed wall-clock duration is the same at any tick rate.
package anim

import "math"

// RefFrameMs is the reference frame duration the speed fractions are
// expressed against (one 60Hz frame).
const RefFrameMs = 16.67

// Lerp moves current toward target, closing `speed` of the gap per
// reference frame, over dtMs of elapsed time.
// speed=1 returns target exactly for any dt; speed=0 returns current.
func Lerp(current, target, speed, dtMs float64) float64 {
	if speed >= 1 {
		return target
	}
	if speed <= 0 || dtMs <= 0 {
		return current
	}
	factor := 1 - math.Pow(1-speed, dtMs/RefFrameMs)
	return current + (target-current)*factor
}

// SnapLerp is Lerp with an exact snap once the remaining gap drops below
// eps, preventing infinite micro-convergence.
func SnapLerp(current, target, speed, dtMs, eps float64) float64 {
	v := Lerp(current, target, speed, dtMs)
	if math.Abs(target-v) < eps {
		return target
	}
	return v
}

// AdaptiveSpeed derives a lerp speed from the size of the jump relative
// to the previous displayed range: big jumps move slowly (no snap-looking
// spikes), small jitter moves fast.
func AdaptiveSpeed(value, display, prevRange, base, boost float64) float64 {
	if prevRange <= 0 {
		return base + boost
	}
	jump := math.Abs(value-display) / prevRange
	if jump > 1 {
		jump = 1
	}
	return base + (1-jump)*boost
}
