package spline

import (
	"math"
	"testing"

	"chartenginev1/internal/model"
)

func TestMonotone_TwoPointsStraight(t *testing.T) {
	segs := Monotone([]Point{{0, 0}, {10, 5}})
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	s := segs[0]
	// Control points must lie on the chord: no curvature.
	for _, p := range []struct{ x, y float64 }{{s.X1, s.Y1}, {s.X2, s.Y2}} {
		want := p.x * 0.5 // chord slope is 0.5 through the origin
		if math.Abs(p.y-want) > 1e-12 {
			t.Errorf("control (%v,%v) off the chord, want y=%v", p.x, p.y, want)
		}
	}
}

func TestMonotone_TooFewPoints(t *testing.T) {
	if segs := Monotone(nil); segs != nil {
		t.Errorf("nil input: got %v", segs)
	}
	if segs := Monotone([]Point{{1, 1}}); segs != nil {
		t.Errorf("single point: got %v", segs)
	}
}

func TestMonotone_SegmentCount(t *testing.T) {
	pts := []Point{{0, 0}, {1, 2}, {2, 1}, {3, 4}, {4, 4}}
	segs := Monotone(pts)
	if len(segs) != len(pts)-1 {
		t.Fatalf("expected %d segments, got %d", len(pts)-1, len(segs))
	}
	// Segments must chain anchor-to-anchor through the inputs.
	for i, s := range segs {
		if s.X0 != pts[i].X || s.Y0 != pts[i].Y || s.X3 != pts[i+1].X || s.Y3 != pts[i+1].Y {
			t.Errorf("segment %d anchors (%v,%v)-(%v,%v) do not match inputs", i, s.X0, s.Y0, s.X3, s.Y3)
		}
	}
}

// bezierY evaluates the segment's cubic at parameter u.
func bezierY(s model.Segment, u float64) float64 {
	v := 1 - u
	return v*v*v*s.Y0 + 3*v*v*u*s.Y1 + 3*v*u*u*s.Y2 + u*u*u*s.Y3
}

func TestMonotone_NoOvershoot(t *testing.T) {
	// A spike: naive Catmull-Rom would ring above 10 / below 0 here.
	pts := []Point{{0, 0}, {1, 0}, {2, 10}, {3, 0}, {4, 0}}
	segs := Monotone(pts)

	for i, seg := range segs {
		lo := math.Min(seg.Y0, seg.Y3)
		hi := math.Max(seg.Y0, seg.Y3)
		for u := 0.0; u <= 1.0; u += 0.05 {
			y := bezierY(seg, u)
			if y < lo-1e-9 || y > hi+1e-9 {
				t.Fatalf("segment %d overshoots at u=%.2f: y=%v outside [%v,%v]", i, u, y, lo, hi)
			}
		}
	}
}

func TestMonotone_ZeroTangentAtExtremum(t *testing.T) {
	pts := []Point{{0, 0}, {1, 5}, {2, 0}}
	segs := Monotone(pts)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	// The peak's outgoing/incoming control points must be flat.
	if math.Abs(segs[0].Y2-5) > 1e-12 || math.Abs(segs[1].Y1-5) > 1e-12 {
		t.Errorf("tangent at extremum not zero: in=%v out=%v", segs[0].Y2, segs[1].Y1)
	}
}

func TestMonotone_FlatRunStaysFlat(t *testing.T) {
	pts := []Point{{0, 3}, {1, 3}, {2, 3}, {3, 3}}
	for i, s := range Monotone(pts) {
		for _, y := range []float64{s.Y0, s.Y1, s.Y2, s.Y3} {
			if y != 3 {
				t.Fatalf("segment %d: flat input produced y=%v", i, y)
			}
		}
	}
}
