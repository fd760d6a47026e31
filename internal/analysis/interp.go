package analysis

import (
	"sort"

	"chartenginev1/internal/model"
)

// InterpolateAtTime linearly interpolates the series value at time t.
// Outside the data's time range it clamps to the first/last value.
// ok is false only for empty input.
func InterpolateAtTime(points []model.Sample, t float64) (value float64, ok bool) {
	n := len(points)
	if n == 0 {
		return 0, false
	}
	if t <= points[0].Time {
		return points[0].Value, true
	}
	if t >= points[n-1].Time {
		return points[n-1].Value, true
	}

	// First index with Time > t; the bracketing pair is [i-1, i].
	i := sort.Search(n, func(i int) bool { return points[i].Time > t })
	a, b := points[i-1], points[i]
	dt := b.Time - a.Time
	if dt <= 0 {
		return a.Value, true
	}
	frac := (t - a.Time) / dt
	return a.Value + (b.Value-a.Value)*frac, true
}
