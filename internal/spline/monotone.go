// Package spline builds overshoot-free curve geometry from a point
// sequence using Fritsch–Carlson monotone cubic interpolation. Unlike a
// Catmull-Rom fit, the produced curve never exceeds the local min/max of
// its input samples, so a spiky series renders without ringing.
package spline

import (
	"math"

	"chartenginev1/internal/model"
)

// Point is one (x,y) input to the builder.
type Point struct {
	X, Y float64
}

// Monotone returns one cubic Bezier segment per input interval.
// Fewer than 2 points produce nil; exactly 2 produce a straight segment.
func Monotone(pts []Point) []model.Segment {
	n := len(pts)
	if n < 2 {
		return nil
	}
	if n == 2 {
		return []model.Segment{straight(pts[0], pts[1])}
	}

	// Secant slopes between consecutive points.
	secant := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx := pts[i+1].X - pts[i].X
		if dx <= 0 {
			secant[i] = 0
			continue
		}
		secant[i] = (pts[i+1].Y - pts[i].Y) / dx
	}

	// Per-point tangents: endpoint tangents take the adjacent secant,
	// interior tangents average — but drop to zero at any local extremum
	// (slope sign change or zero secant) to preserve monotonicity.
	tangent := make([]float64, n)
	tangent[0] = secant[0]
	tangent[n-1] = secant[n-2]
	for i := 1; i < n-1; i++ {
		if secant[i-1]*secant[i] <= 0 {
			tangent[i] = 0
		} else {
			tangent[i] = (secant[i-1] + secant[i]) / 2
		}
	}

	// Fritsch–Carlson clamp: (m_i/d_i)^2 + (m_{i+1}/d_i)^2 <= 9.
	// When violated, both tangents are rescaled uniformly.
	for i := 0; i < n-1; i++ {
		if secant[i] == 0 {
			tangent[i] = 0
			tangent[i+1] = 0
			continue
		}
		a := tangent[i] / secant[i]
		b := tangent[i+1] / secant[i]
		s := a*a + b*b
		if s > 9 {
			tau := 3 / math.Sqrt(s)
			tangent[i] = tau * a * secant[i]
			tangent[i+1] = tau * b * secant[i]
		}
	}

	segs := make([]model.Segment, 0, n-1)
	for i := 0; i < n-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		h := (p1.X - p0.X) / 3
		segs = append(segs, model.Segment{
			X0: p0.X, Y0: p0.Y,
			X1: p0.X + h, Y1: p0.Y + tangent[i]*h,
			X2: p1.X - h, Y2: p1.Y - tangent[i+1]*h,
			X3: p1.X, Y3: p1.Y,
		})
	}
	return segs
}

// straight emits a single segment with collinear control points.
func straight(p0, p1 Point) model.Segment {
	hx := (p1.X - p0.X) / 3
	hy := (p1.Y - p0.Y) / 3
	return model.Segment{
		X0: p0.X, Y0: p0.Y,
		X1: p0.X + hx, Y1: p0.Y + hy,
		X2: p1.X - hx, Y2: p1.Y - hy,
		X3: p1.X, Y3: p1.Y,
	}
}
