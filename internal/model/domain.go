package model

// Domain is the Y-axis value range of the chart. Invariant: Max > Min.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (d Domain) Span() float64 {
	return d.Max - d.Min
}

// Norm maps v into [0,1] within the domain (0 at Min, 1 at Max).
func (d Domain) Norm(v float64) float64 {
	span := d.Span()
	if span <= 0 {
		return 0.5
	}
	return (v - d.Min) / span
}

// Valid reports whether the domain is usable for painting.
func (d Domain) Valid() bool {
	return d.Max > d.Min
}
