// Package candles buckets a tick stream into fixed-width OHLC candles
// plus one live (still forming) candle, and smooths the live candle so
// wick growth animates instead of snapping on every tick.
package candles

import "chartenginev1/internal/model"

// Aggregator builds committed candles incrementally from an ascending
// tick stream. The most recent, not-yet-committed bucket is surfaced
// separately so the painter can render it distinctly.
type Aggregator struct {
	width float64

	committed []model.Candle
	live      model.Candle
	hasLive   bool

	// MaxCandles bounds the committed list (oldest dropped first).
	// Zero means unbounded.
	MaxCandles int
}

// NewAggregator creates an aggregator with the given bucket width in
// seconds. A non-positive width falls back to 1s — a configuration
// contract violation resolved by default, never an error.
func NewAggregator(width float64) *Aggregator {
	if width <= 0 {
		width = 1
	}
	return &Aggregator{width: width}
}

// Width returns the bucket width in seconds.
func (a *Aggregator) Width() float64 { return a.width }

// Push folds one sample into the aggregation. When the sample's time
// reaches the next bucket, the live candle is committed and a fresh one
// opens at the sample's value.
func (a *Aggregator) Push(s model.Sample) {
	bucket := model.BucketStart(s.Time, a.width)

	if !a.hasLive {
		a.live = model.NewCandle(bucket, s.Value)
		a.hasLive = true
		return
	}

	if bucket > a.live.Time {
		a.commit()
		a.live = model.NewCandle(bucket, s.Value)
		return
	}
	if bucket < a.live.Time {
		// Late sample behind the open bucket: fold into the live candle
		// rather than rewriting committed history.
		a.live.Update(s.Value)
		return
	}

	a.live.Update(s.Value)
}

func (a *Aggregator) commit() {
	a.committed = append(a.committed, a.live)
	if a.MaxCandles > 0 && len(a.committed) > a.MaxCandles {
		a.committed = a.committed[len(a.committed)-a.MaxCandles:]
	}
}

// Candles returns the committed candle list. The slice aliases internal
// state and is only valid until the next Push.
func (a *Aggregator) Candles() []model.Candle { return a.committed }

// Live returns the forming candle, if one is open.
func (a *Aggregator) Live() (model.Candle, bool) { return a.live, a.hasLive }

// Rebuild replays a full sample history into a fresh aggregation,
// keeping the configured width. Used when the caller-supplied buffer is
// replaced wholesale or the bucket width changes.
func Rebuild(samples []model.Sample, width float64) *Aggregator {
	a := NewAggregator(width)
	for _, s := range samples {
		a.Push(s)
	}
	return a
}
