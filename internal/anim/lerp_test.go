package anim

import (
	"math"
	"testing"
)

func TestLerp_Idempotent(t *testing.T) {
	for _, x := range []float64{-50, 0, 0.001, 1234.5} {
		for _, speed := range []float64{0, 0.1, 0.5, 1} {
			if got := Lerp(x, x, speed, 16.67); got != x {
				t.Errorf("Lerp(%v,%v,%v,16.67) = %v, want %v", x, x, speed, got, x)
			}
		}
	}
}

func TestLerp_InstantSnap(t *testing.T) {
	for _, dt := range []float64{1, 16.67, 100, 5000} {
		if got := Lerp(10, 42, 1, dt); got != 42 {
			t.Errorf("speed=1 dt=%v: got %v, want exactly 42", dt, got)
		}
	}
}

func TestLerp_ZeroSpeed(t *testing.T) {
	if got := Lerp(10, 42, 0, 16.67); got != 10 {
		t.Errorf("speed=0: got %v, want 10", got)
	}
}

// Repeated application at dt=16.67 for N steps must land where a single
// application at dt=16.67*N lands.
func TestLerp_FrameRateIndependence(t *testing.T) {
	const n = 12
	const speed = 0.2

	stepped := 0.0
	for i := 0; i < n; i++ {
		stepped = Lerp(stepped, 100, speed, 16.67)
	}
	once := Lerp(0, 100, speed, 16.67*n)

	if math.Abs(stepped-once) > 1e-9 {
		t.Errorf("stepped=%v once=%v, diverged by %v", stepped, once, stepped-once)
	}
}

func TestLerp_MonotoneDecay(t *testing.T) {
	prev := 0.0
	for i := 0; i < 50; i++ {
		next := Lerp(prev, 100, 0.15, 16.67)
		if next <= prev || next > 100 {
			t.Fatalf("step %d: %v -> %v not monotone toward 100", i, prev, next)
		}
		prev = next
	}
}

func TestSnapLerp_SnapsExactly(t *testing.T) {
	v := 99.9999
	if got := SnapLerp(v, 100, 0.3, 16.67, 0.01); got != 100 {
		t.Errorf("got %v, want exact 100", got)
	}
}

func TestAdaptiveSpeed(t *testing.T) {
	// Display far from value (full jump) -> base only.
	if got := AdaptiveSpeed(100, 0, 50, 0.05, 0.3); got != 0.05 {
		t.Errorf("big jump: got %v, want 0.05", got)
	}
	// Display equal to value -> base + boost.
	if got := AdaptiveSpeed(100, 100, 50, 0.05, 0.3); math.Abs(got-0.35) > 1e-12 {
		t.Errorf("no jump: got %v, want 0.35", got)
	}
	// Degenerate previous range falls back to fastest.
	if got := AdaptiveSpeed(100, 0, 0, 0.05, 0.3); got != 0.35 {
		t.Errorf("zero range: got %v, want 0.35", got)
	}
}

func TestEaseInOutCos(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.5, 0.5}, {1, 1}, {2, 1},
	}
	for _, c := range cases {
		if got := EaseInOutCos(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("EaseInOutCos(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	if got := Smoothstep(0.15, 0.7, 0.1); got != 0 {
		t.Errorf("below window: got %v", got)
	}
	if got := Smoothstep(0.15, 0.7, 0.9); got != 1 {
		t.Errorf("above window: got %v", got)
	}
	mid := Smoothstep(0, 1, 0.5)
	if math.Abs(mid-0.5) > 1e-12 {
		t.Errorf("midpoint: got %v, want 0.5", mid)
	}
}
