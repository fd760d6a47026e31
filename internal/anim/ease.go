package anim

import "math"

// EaseInOutCos is the cosine ease-in-out used by every structural
// transition: (1 - cos(t*pi)) / 2, with t clamped to [0,1].
func EaseInOutCos(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return (1 - math.Cos(t*math.Pi)) / 2
}

// Smoothstep maps x into [0,1] across the [e0,e1] window with zero
// first-derivative at both ends. Consumers use it to stagger their
// fade-ins off a shared reveal scalar.
func Smoothstep(e0, e1, x float64) float64 {
	if e1 <= e0 {
		if x >= e1 {
			return 1
		}
		return 0
	}
	t := (x - e0) / (e1 - e0)
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// Clamp01 clamps x to [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
