package model

// Mode selects the series rendering pipeline.
type Mode int

const (
	ModeLine Mode = iota
	ModeCandle
)

func (m Mode) String() string {
	if m == ModeCandle {
		return "candle"
	}
	return "line"
}

// Momentum is the directional classification of the series tail.
type Momentum int

const (
	MomentumFlat Momentum = iota
	MomentumUp
	MomentumDown
)

func (m Momentum) String() string {
	switch m {
	case MomentumUp:
		return "up"
	case MomentumDown:
		return "down"
	default:
		return "flat"
	}
}

// HoverPoint is the resolved crosshair state for a pointer position.
type HoverPoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
	// X is the normalized horizontal position within the time window [0,1].
	X float64 `json:"x"`
	// Y is the normalized vertical position within the domain [0,1].
	Y float64 `json:"y"`
}

// Overlay is the declarative badge descriptor emitted each tick.
// The host applies it to whatever always-on-top element it uses;
// the engine never touches the overlay primitive itself.
type Overlay struct {
	X       float64 `json:"x"` // normalized [0,1] within the window
	Y       float64 `json:"y"` // normalized [0,1] within the domain
	Text    string  `json:"text"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// TimeWindow is the visible horizontal extent in series time.
type TimeWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns End - Start.
func (w TimeWindow) Length() float64 {
	return w.End - w.Start
}

// Frame is the fully resolved paintable state for one engine tick.
// A painter can draw it without re-deriving any animation math.
type Frame struct {
	// Empty is set when fewer than 2 points are visible; the painter
	// should show the idle/loading visual instead of the series.
	Empty bool `json:"empty"`

	Value  float64    `json:"value"` // smoothed display value
	Domain Domain     `json:"domain"`
	Window TimeWindow `json:"window"`

	Points  []Sample  `json:"points,omitempty"`  // visible samples
	Candles []Candle  `json:"candles,omitempty"` // committed visible candles
	Live    *Candle   `json:"live,omitempty"`    // smoothed live candle
	Path    []Segment `json:"path,omitempty"`    // monotone spline geometry

	// Progress scalars, all in [0,1].
	Reveal     float64 `json:"reveal"`
	Pause      float64 `json:"pause"`
	ModeMorph  float64 `json:"modeMorph"` // 0=line, 1=candle
	Density    float64 `json:"density"`   // displayed tick-density level
	WidthMorph float64 `json:"widthMorph"`
	LiveBirth  float64 `json:"liveBirth"` // live-candle birth fade

	// TimeDebt is the visual clock's lag behind real time, in seconds.
	TimeDebt float64 `json:"timeDebt"`

	// Staggered consumer alphas derived from Reveal.
	GridAlpha  float64 `json:"gridAlpha"`
	ArrowAlpha float64 `json:"arrowAlpha"`
	FillAlpha  float64 `json:"fillAlpha"`
	PulseAlpha float64 `json:"pulseAlpha"` // live-dot pulse, oscillating

	Hover        *HoverPoint `json:"hover,omitempty"`
	HoverOpacity float64     `json:"hoverOpacity"`

	Momentum Momentum `json:"momentum"`
	Overlay  *Overlay `json:"overlay,omitempty"`
}

// Segment is one cubic Bezier piece of the rendered curve.
type Segment struct {
	X0, Y0 float64 // start anchor
	X1, Y1 float64 // first control
	X2, Y2 float64 // second control
	X3, Y3 float64 // end anchor
}
