package engine

import (
	"math"
	"testing"
	"time"

	"chartenginev1/internal/model"
)

const tickDur = 16670 * time.Microsecond

// harness drives an engine with a fake wall clock and a growing buffer.
type harness struct {
	e       *Engine
	now     time.Time
	samples []model.Sample
	t       float64 // series time, seconds
}

func newHarness(cfg Config) *harness {
	return &harness{e: New(cfg), now: time.Unix(1700000000, 0)}
}

// feed appends one sample per tick at ~60Hz series time.
func (h *harness) feed(v float64) {
	h.samples = append(h.samples, model.Sample{Time: h.t, Value: v})
	h.t += 0.01667
}

func (h *harness) step(in Input) model.Frame {
	in.Samples = h.samples
	h.now = h.now.Add(tickDur)
	return h.e.Step(in, h.now)
}

func (h *harness) run(n int, in Input, v func(i int) float64) model.Frame {
	var f model.Frame
	for i := 0; i < n; i++ {
		h.feed(v(i))
		f = h.step(in)
	}
	return f
}

func flat(v float64) func(int) float64 { return func(int) float64 { return v } }

func modePtr(m model.Mode) *model.Mode { return &m }

func TestEngine_EmptyInputSuppressesPainting(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.step(Input{})
	if !f.Empty {
		t.Error("no data: frame should be empty")
	}
	if f.Reveal != 0 {
		t.Errorf("reveal = %v, want 0", f.Reveal)
	}
}

func TestEngine_SinglePointStillEmpty(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.feed(100)
	if f := h.step(Input{}); !f.Empty {
		t.Error("one sample: frame should still be empty")
	}
}

func TestEngine_RevealRampsInWithData(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.feed(100)
	h.feed(101)
	f := h.step(Input{})
	if f.Empty {
		t.Fatal("two samples: frame should paint")
	}
	if f.Reveal <= 0 || f.Reveal >= 1 {
		t.Errorf("first reveal = %v, want in (0,1)", f.Reveal)
	}

	f = h.run(400, Input{}, flat(100))
	if f.Reveal != 1 {
		t.Errorf("settled reveal = %v, want 1", f.Reveal)
	}
	// Staggered consumers are fully in at reveal=1.
	if f.GridAlpha != 1 {
		t.Errorf("grid alpha = %v, want 1", f.GridAlpha)
	}
}

func TestEngine_LoadingHoldsReveal(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.run(100, Input{Loading: true}, flat(100))
	if f.Reveal != 0 {
		t.Errorf("loading: reveal = %v, want 0", f.Reveal)
	}
}

func TestEngine_DomainInvariant(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.run(200, Input{}, func(i int) float64 { return 100 + 10*math.Sin(float64(i)/8) })
	if !f.Domain.Valid() {
		t.Errorf("domain %+v invalid", f.Domain)
	}
	if f.Window.Length() <= 0 {
		t.Errorf("window %+v has no extent", f.Window)
	}
}

func TestEngine_SmoothedValueConverges(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.run(600, Input{}, flat(100))
	if f.Value != 100 {
		t.Errorf("display value = %v, want snapped to 100", f.Value)
	}
	// A step change does not snap on the next frame.
	h.feed(110)
	f = h.step(Input{})
	if f.Value == 110 {
		t.Error("display value snapped instead of smoothing")
	}
}

func TestEngine_PathEndsAtLiveEdge(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.run(200, Input{}, flat(100))
	if len(f.Path) == 0 {
		t.Fatal("expected spline geometry in line mode")
	}
	last := f.Path[len(f.Path)-1]
	if math.Abs(last.X3-1) > 1e-9 {
		t.Errorf("path ends at x=%v, want 1 (live edge)", last.X3)
	}
}

func TestEngine_DataLossStash(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.run(400, Input{}, flat(100))

	// Source empties: the stashed frame keeps painting while reveal
	// reverse-morphs toward 0.
	h.samples = nil
	h.now = h.now.Add(tickDur)
	f := h.e.Step(Input{}, h.now)
	if f.Empty {
		t.Fatal("stash should keep painting after data loss")
	}
	if f.Reveal >= 1 {
		t.Errorf("reveal = %v, want decaying", f.Reveal)
	}

	// Eventually reveal reaches 0 and the chart goes idle.
	for i := 0; i < 1000; i++ {
		h.now = h.now.Add(tickDur)
		f = h.e.Step(Input{}, h.now)
	}
	if !f.Empty || f.Reveal != 0 {
		t.Errorf("after decay: empty=%v reveal=%v", f.Empty, f.Reveal)
	}
}

func TestEngine_WindowTransitionSettlesExactly(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.run(600, Input{Window: 60}, flat(100)) // ~10s of data

	// Select a narrower window; mid-flight the displayed window is
	// strictly between the endpoints.
	var mid model.Frame
	for i := 0; i < 20; i++ {
		h.feed(100)
		mid = h.step(Input{Window: 15})
	}
	w := mid.Window.Length()
	if w <= 15 || w >= 60 {
		t.Errorf("mid-transition window = %v, want in (15,60)", w)
	}

	f := h.run(120, Input{Window: 15}, flat(100)) // past the 750ms duration
	if got := f.Window.Length(); math.Abs(got-15) > 1e-9 {
		t.Errorf("settled window = %v, want exactly 15", got)
	}
}

func TestEngine_WindowCallbackFiresOnce(t *testing.T) {
	var calls []float64
	cfg := DefaultConfig()
	cfg.Callbacks.OnWindowChanged = func(s float64) { calls = append(calls, s) }
	h := newHarness(cfg)

	h.run(50, Input{Window: 60}, flat(100))
	h.run(50, Input{Window: 15}, flat(100))
	h.run(50, Input{Window: 15}, flat(100))

	if len(calls) != 1 || calls[0] != 15 {
		t.Errorf("window callbacks = %v, want exactly [15]", calls)
	}
}

func TestEngine_PauseFreezesWindowThenCatchesUp(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.run(600, Input{}, flat(100))

	// Settle the pause ramp, then measure: the visible end must freeze
	// while samples keep arriving.
	h.run(200, Input{Paused: true}, flat(100))
	f1 := h.run(1, Input{Paused: true}, flat(100))
	f2 := h.run(60, Input{Paused: true}, flat(100))
	if f2.Window.End != f1.Window.End {
		t.Errorf("visible end advanced while paused: %v -> %v", f1.Window.End, f2.Window.End)
	}
	if f2.Pause != 1 {
		t.Errorf("pause = %v, want 1", f2.Pause)
	}

	// Resume: the visible end drains back to the live edge.
	f := h.run(3000, Input{}, flat(100))
	if f.Pause != 0 {
		t.Errorf("pause = %v, want 0 after resume", f.Pause)
	}
	lag := model.LastTime(h.samples) - f.Window.End
	if lag > visEndSnapSec {
		t.Errorf("visible end still lags live edge by %vs after catch-up", lag)
	}
}

func TestEngine_ModeMorphAndCandles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandleWidth = 1
	h := newHarness(cfg)
	h.run(400, Input{}, func(i int) float64 { return 100 + float64(i%7) })

	f := h.run(1, Input{Mode: modePtr(model.ModeCandle)}, flat(100))
	if f.ModeMorph <= 0 || f.ModeMorph >= 1 {
		t.Errorf("morph just started: got %v, want in (0,1)", f.ModeMorph)
	}

	f = h.run(60, Input{Mode: modePtr(model.ModeCandle)}, flat(100)) // past 500ms
	if f.ModeMorph != 1 {
		t.Errorf("settled morph = %v, want 1", f.ModeMorph)
	}
	if len(f.Candles) == 0 {
		t.Error("candle mode: no committed candles in frame")
	}
	if f.Live == nil {
		t.Error("candle mode: no live candle in frame")
	}
	if f.LiveBirth <= 0 {
		t.Errorf("live birth = %v, want > 0", f.LiveBirth)
	}
	for _, c := range f.Candles {
		lo := math.Min(c.Open, c.Close)
		hi := math.Max(c.Open, c.Close)
		if c.Low > lo || c.High < hi {
			t.Errorf("candle %+v violates invariant", c)
		}
	}

	// Reverse morph back to line.
	f = h.run(60, Input{Mode: modePtr(model.ModeLine)}, flat(100))
	if f.ModeMorph != 0 {
		t.Errorf("reverse morph = %v, want 0", f.ModeMorph)
	}
	if len(f.Path) == 0 {
		t.Error("line mode restored: no spline path")
	}
}

func TestEngine_CandleWidthChangeMorphsAndRebuckets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = model.ModeCandle
	h := newHarness(cfg)
	in := func(width float64) Input {
		return Input{Mode: modePtr(model.ModeCandle), CandleWidth: width}
	}
	f := h.run(400, in(1), func(i int) float64 { return 100 + float64(i%7) })
	if f.WidthMorph != 1 {
		t.Fatalf("settled width morph = %v, want 1", f.WidthMorph)
	}
	for _, c := range f.Candles {
		if math.Mod(c.Time, 1) != 0 {
			t.Fatalf("candle %+v not bucketed at width 1", c)
		}
	}

	// Select a wider bucket: the morph runs, then settles exactly, and
	// the committed candles are rebuilt on the new grid.
	h.run(1, in(2), flat(100))
	mid := h.run(5, in(2), flat(100))
	if mid.WidthMorph <= 0 || mid.WidthMorph >= 1 {
		t.Errorf("mid-flight width morph = %v, want in (0,1)", mid.WidthMorph)
	}
	if !mid.Domain.Valid() {
		t.Errorf("mid-flight domain %+v invalid", mid.Domain)
	}

	f = h.run(60, in(2), flat(100)) // past the 300ms duration
	if f.WidthMorph != 1 {
		t.Errorf("settled width morph = %v, want 1", f.WidthMorph)
	}
	if len(f.Candles) < 2 {
		t.Fatalf("only %d candles after rebucket", len(f.Candles))
	}
	for _, c := range f.Candles {
		if math.Mod(c.Time, 2) != 0 {
			t.Errorf("candle %+v not bucketed at width 2", c)
		}
	}
	for i := 1; i < len(f.Candles); i++ {
		if got := f.Candles[i].Time - f.Candles[i-1].Time; got != 2 {
			t.Errorf("candle spacing = %v, want 2", got)
		}
	}
}

func TestEngine_DensityMorphTracksWindow(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.run(600, Input{Window: 60}, flat(100))
	coarse := math.Log2(10) // nice step for a 60s window
	if math.Abs(f.Density-coarse) > 1e-9 {
		t.Fatalf("settled density = %v, want %v", f.Density, coarse)
	}

	// Narrowing the window retargets the density level.
	mid := h.run(10, Input{Window: 15}, flat(100))
	if mid.Density <= 1 || mid.Density >= coarse {
		t.Errorf("mid-morph density = %v, want in (1,%v)", mid.Density, coarse)
	}
	f = h.run(60, Input{Window: 15}, flat(100)) // past the 350ms duration
	if f.Density != 1 {
		t.Errorf("settled density = %v, want exactly 1 (2s step)", f.Density)
	}
}

func TestEngine_ModeCallback(t *testing.T) {
	var modes []model.Mode
	cfg := DefaultConfig()
	cfg.Callbacks.OnModeChanged = func(m model.Mode) { modes = append(modes, m) }
	h := newHarness(cfg)

	h.run(20, Input{}, flat(100))
	h.run(20, Input{Mode: modePtr(model.ModeCandle)}, flat(100))
	h.run(20, Input{Mode: modePtr(model.ModeCandle)}, flat(100))

	if len(modes) != 1 || modes[0] != model.ModeCandle {
		t.Errorf("mode callbacks = %v, want exactly [candle]", modes)
	}
}

func TestEngine_HoverLifecycle(t *testing.T) {
	var events []*model.HoverPoint
	cfg := DefaultConfig()
	cfg.Callbacks.OnHoverChanged = func(hp *model.HoverPoint) { events = append(events, hp) }
	h := newHarness(cfg)
	h.run(400, Input{}, flat(100))

	x := 0.5
	f := h.run(60, Input{PointerX: &x}, flat(100))
	if f.Hover == nil || f.HoverOpacity != 1 {
		t.Fatalf("hover = %+v opacity = %v", f.Hover, f.HoverOpacity)
	}
	if len(events) == 0 {
		t.Error("no hover callbacks fired")
	}

	// Pointer leaves: fade-out tail, then nil.
	f = h.run(1, Input{}, flat(100))
	if f.Hover == nil || f.HoverOpacity >= 1 {
		t.Errorf("fade tail: hover=%v opacity=%v", f.Hover, f.HoverOpacity)
	}
	f = h.run(400, Input{}, flat(100))
	if f.Hover != nil || f.HoverOpacity != 0 {
		t.Errorf("after fade: hover=%v opacity=%v", f.Hover, f.HoverOpacity)
	}
	if events[len(events)-1] != nil {
		t.Error("final hover callback should be nil (cleared)")
	}
}

func TestEngine_OverlayDescriptor(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.run(400, Input{}, func(i int) float64 { return 100 + float64(i) })
	if f.Overlay == nil {
		t.Fatal("badge flag on: expected an overlay descriptor")
	}
	if f.Overlay.Text == "" || f.Overlay.Opacity != 1 {
		t.Errorf("overlay %+v", f.Overlay)
	}
	if f.Momentum != model.MomentumUp {
		t.Errorf("momentum = %v, want up for rising series", f.Momentum)
	}
	if f.Overlay.Color != DefaultConfig().Palette.Up {
		t.Errorf("overlay color = %q, want up color", f.Overlay.Color)
	}
	if f.ArrowAlpha != 1 {
		t.Errorf("arrow alpha = %v, want 1", f.ArrowAlpha)
	}
}

func TestEngine_FlagsDisableSubsystems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Flags = Flags{}
	h := newHarness(cfg)
	x := 0.5
	f := h.run(400, Input{PointerX: &x}, flat(100))
	if f.Overlay != nil || f.Hover != nil || f.GridAlpha != 0 {
		t.Errorf("disabled subsystems leaked into frame: %+v", f)
	}
	if f.FillAlpha != 0 || f.PulseAlpha != 0 {
		t.Errorf("fill/pulse disabled but alphas = %v/%v", f.FillAlpha, f.PulseAlpha)
	}
}

func TestEngine_FillAndPulseAlphas(t *testing.T) {
	h := newHarness(DefaultConfig())
	f := h.run(400, Input{}, flat(100))
	if f.FillAlpha != 1 {
		t.Errorf("settled fill alpha = %v, want 1", f.FillAlpha)
	}

	// The pulse oscillates on the animation clock.
	lo, hi := 1.0, 0.0
	for i := 0; i < 80; i++ {
		f = h.run(1, Input{}, flat(100))
		lo = math.Min(lo, f.PulseAlpha)
		hi = math.Max(hi, f.PulseAlpha)
	}
	if lo >= 0.2 || hi <= 0.8 {
		t.Errorf("pulse range [%v,%v], want a full oscillation", lo, hi)
	}

	// Fully paused, the animation clock stops and the pulse holds.
	h.run(400, Input{Paused: true}, flat(100))
	f1 := h.run(1, Input{Paused: true}, flat(100))
	f2 := h.run(1, Input{Paused: true}, flat(100))
	if f2.PulseAlpha != f1.PulseAlpha {
		t.Errorf("pulse moved while paused: %v -> %v", f1.PulseAlpha, f2.PulseAlpha)
	}
}

func TestEngine_TimeDebtInFrame(t *testing.T) {
	h := newHarness(DefaultConfig())
	if f := h.run(400, Input{}, flat(100)); f.TimeDebt != 0 {
		t.Fatalf("streaming: time debt = %v, want 0", f.TimeDebt)
	}

	f1 := h.run(200, Input{Paused: true}, flat(100))
	if f1.TimeDebt <= 0 {
		t.Fatalf("paused: time debt = %v, want > 0", f1.TimeDebt)
	}
	f2 := h.run(60, Input{Paused: true}, flat(100))
	if f2.TimeDebt <= f1.TimeDebt {
		t.Errorf("debt stopped accruing: %v -> %v", f1.TimeDebt, f2.TimeDebt)
	}

	// Resume: the surfaced debt drains back to exactly zero.
	if f := h.run(3000, Input{}, flat(100)); f.TimeDebt != 0 {
		t.Errorf("after resume: time debt = %v, want 0", f.TimeDebt)
	}
}

func TestEngine_ReducedMotionSnaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReducedMotion = true
	h := newHarness(cfg)
	h.feed(100)
	h.feed(101)
	f := h.step(Input{})
	if f.Reveal != 1 {
		t.Errorf("reduced motion reveal = %v, want immediate 1", f.Reveal)
	}
}

func TestEngine_CloseStopsEngine(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.run(10, Input{}, flat(100))
	h.e.Close()
	if f := h.run(1, Input{}, flat(100)); !f.Empty {
		t.Error("closed engine should emit empty frames")
	}
}

func TestEngine_DtClampBoundsStall(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.run(300, Input{}, flat(100))
	before := h.e.display

	// Simulate a 10s stall, then a spike: the correction applied on the
	// next tick must be bounded by the 50ms clamp, not 10s worth.
	h.now = h.now.Add(10 * time.Second)
	h.feed(200)
	f := h.e.Step(Input{Samples: h.samples}, h.now)
	moved := math.Abs(f.Value - before)
	if moved > 50 {
		t.Errorf("post-stall correction moved display by %v, clamp failed", moved)
	}
}

func TestEngine_CallerSuppliedCandles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = model.ModeCandle
	h := newHarness(cfg)
	h.run(100, Input{}, flat(100))

	supplied := []model.Candle{{Time: 0, Open: 1, High: 2, Low: 0.5, Close: 1.5}}
	live := model.Candle{Time: 5, Open: 1.5, High: 1.6, Low: 1.4, Close: 1.6}
	f := h.run(60, Input{Mode: modePtr(model.ModeCandle), Candles: supplied, LiveCandle: &live}, flat(100))
	if f.Live == nil {
		t.Error("caller-supplied live candle missing from frame")
	}
}
