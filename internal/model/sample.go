package model

// Sample represents a single scalar observation on the series.
// Time is in seconds (fractional); callers must supply time-ascending
// sequences. The engine never mutates a sample.
type Sample struct {
	Time  float64 `json:"time"` // seconds
	Value float64 `json:"value"`
}

// LastTime returns the time of the final sample, or 0 for an empty slice.
func LastTime(points []Sample) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1].Time
}

// SliceWindow returns the sub-slice of points with Time >= start.
// Points must be time-ascending. The result aliases the input.
func SliceWindow(points []Sample, start float64) []Sample {
	return points[lowerBound(points, start):]
}

// SliceBetween returns the sub-slice with start <= Time <= end.
func SliceBetween(points []Sample, start, end float64) []Sample {
	lo := lowerBound(points, start)
	hi := lo
	for hi < len(points) && points[hi].Time <= end {
		hi++
	}
	return points[lo:hi]
}

// lowerBound is the first index with Time >= t.
func lowerBound(points []Sample, t float64) int {
	lo, hi := 0, len(points)
	for lo < hi {
		mid := (lo + hi) / 2
		if points[mid].Time < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
