package analysis

import "chartenginev1/internal/model"

// MomentumConfig tunes the directional classifier. The defaults are
// calibrated for sub-second tick cadences; at very low tick rates the
// 5-sample tail covers a long wall-clock span and a wider threshold may
// read less noisily.
type MomentumConfig struct {
	Lookback  int     // range calibration window
	Tail      int     // samples the direction delta spans
	Threshold float64 // fraction of the lookback range
}

// DefaultMomentum is the tuning used when the caller passes a zero config.
var DefaultMomentum = MomentumConfig{Lookback: 20, Tail: 5, Threshold: 0.12}

func (c MomentumConfig) orDefault() MomentumConfig {
	if c.Lookback <= 0 {
		c.Lookback = DefaultMomentum.Lookback
	}
	if c.Tail <= 0 {
		c.Tail = DefaultMomentum.Tail
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultMomentum.Threshold
	}
	return c
}

// DetectMomentum classifies the direction of the series tail. The wider
// lookback only calibrates the threshold; direction comes from the delta
// between the value Tail samples back and the latest value.
func DetectMomentum(points []model.Sample, cfg MomentumConfig) model.Momentum {
	cfg = cfg.orDefault()
	n := len(points)
	if n < cfg.Tail {
		return model.MomentumFlat
	}

	start := n - cfg.Lookback
	if start < 0 {
		start = 0
	}
	lo, hi := points[start].Value, points[start].Value
	for _, p := range points[start:] {
		if p.Value < lo {
			lo = p.Value
		}
		if p.Value > hi {
			hi = p.Value
		}
	}
	rng := hi - lo
	if rng == 0 {
		return model.MomentumFlat
	}

	delta := points[n-1].Value - points[n-cfg.Tail].Value
	switch {
	case delta > cfg.Threshold*rng:
		return model.MomentumUp
	case delta < -cfg.Threshold*rng:
		return model.MomentumDown
	default:
		return model.MomentumFlat
	}
}
