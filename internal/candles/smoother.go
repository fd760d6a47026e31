package candles

import (
	"chartenginev1/internal/anim"
	"chartenginev1/internal/model"
)

const (
	// liveLerpSpeed is the per-frame approach fraction for each OHLC
	// field of the displayed live candle.
	liveLerpSpeed = 0.25

	// birthMs is the fade-in window after a bucket rollover.
	birthMs = 220.0
)

// LiveSmoother lerps a displayed candle toward the raw live candle so
// the forming wick grows smoothly. On bucket rollover it resets to a
// zero-height candle at the new open and fades back in.
type LiveSmoother struct {
	display model.Candle
	birth   float64 // 0..1 fade-in progress
	active  bool
}

// Step advances the smoother by dtMs toward the raw live candle and
// returns the candle the painter should draw, plus its birth alpha.
func (s *LiveSmoother) Step(raw model.Candle, dtMs float64) (model.Candle, float64) {
	if !s.active || raw.Time != s.display.Time {
		// New bucket: restart as a flat candle at the new open.
		s.display = model.NewCandle(raw.Time, raw.Open)
		s.birth = 0
		s.active = true
	}

	s.display.Open = anim.SnapLerp(s.display.Open, raw.Open, liveLerpSpeed, dtMs, snapEps(raw))
	s.display.High = anim.SnapLerp(s.display.High, raw.High, liveLerpSpeed, dtMs, snapEps(raw))
	s.display.Low = anim.SnapLerp(s.display.Low, raw.Low, liveLerpSpeed, dtMs, snapEps(raw))
	s.display.Close = anim.SnapLerp(s.display.Close, raw.Close, liveLerpSpeed, dtMs, snapEps(raw))
	normalize(&s.display)

	s.birth = anim.Clamp01(s.birth + dtMs/birthMs)
	return s.display, s.birth
}

// Reset clears the smoother (data loss, mode exit).
func (s *LiveSmoother) Reset() {
	*s = LiveSmoother{}
}

// snapEps scales the convergence snap threshold to the candle's size so
// tall candles do not converge forever.
func snapEps(c model.Candle) float64 {
	span := c.High - c.Low
	if span <= 0 {
		return 1e-9
	}
	return span * 1e-4
}

// normalize restores the OHLC invariant after independent lerps: the
// displayed high/low must still contain open and close.
func normalize(c *model.Candle) {
	if c.Open > c.High {
		c.High = c.Open
	}
	if c.Close > c.High {
		c.High = c.Close
	}
	if c.Open < c.Low {
		c.Low = c.Open
	}
	if c.Close < c.Low {
		c.Low = c.Close
	}
}
