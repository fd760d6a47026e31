package model

import "math"

// Candle represents one OHLC bucket of the series.
// Time is the bucket start: floor(sampleTime/width)*width.
// Invariant (by construction in the aggregator):
// Low <= min(Open, Close) <= max(Open, Close) <= High.
type Candle struct {
	Time  float64 `json:"time"` // bucket start, seconds
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// BucketStart returns the aligned bucket start for a sample time.
func BucketStart(t, width float64) float64 {
	if width <= 0 {
		return t
	}
	return math.Floor(t/width) * width
}

// NewCandle starts a bucket from its first sample: O=H=L=C=value.
func NewCandle(bucketStart, value float64) Candle {
	return Candle{Time: bucketStart, Open: value, High: value, Low: value, Close: value}
}

// Update folds one in-bucket sample into the candle.
func (c *Candle) Update(value float64) {
	if value > c.High {
		c.High = value
	}
	if value < c.Low {
		c.Low = value
	}
	c.Close = value
}

// Bullish reports whether the candle closed at or above its open.
func (c *Candle) Bullish() bool {
	return c.Close >= c.Open
}
