package engine

import (
	"fmt"

	"chartenginev1/internal/analysis"
	"chartenginev1/internal/model"
)

// Flags enables the optional chart subsystems. Each consumer reads its
// own flag; disabled subsystems cost nothing per tick.
type Flags struct {
	Grid           bool `yaml:"grid"`
	MomentumArrows bool `yaml:"momentum_arrows"`
	Fill           bool `yaml:"fill"`
	Badge          bool `yaml:"badge"`
	Scrub          bool `yaml:"scrub"`
	Pulse          bool `yaml:"pulse"`
}

// Palette holds the color tokens the engine stamps onto its overlay
// descriptor. Anything else color-related belongs to the painter.
type Palette struct {
	Up   string `yaml:"up"`
	Down string `yaml:"down"`
	Flat string `yaml:"flat"`
}

// Callbacks are invoked synchronously from Step when the corresponding
// state changes. All may be nil.
type Callbacks struct {
	OnHoverChanged  func(*model.HoverPoint)
	OnWindowChanged func(seconds float64)
	OnModeChanged   func(model.Mode)
}

// Config is the per-instance engine configuration.
type Config struct {
	// WindowSeconds is the default visible window length.
	WindowSeconds float64
	// CandleWidth is the default bucket width for candle mode, seconds.
	CandleWidth float64
	// Mode is the default series kind.
	Mode model.Mode

	// Exaggerate switches the range policy to fill the chart height.
	Exaggerate bool
	// ReducedMotion snaps every animated quantity to its target.
	ReducedMotion bool

	// MaxTickMs clamps dt to bound the correction after a stall.
	MaxTickMs float64
	// MaxCandles bounds the committed candle list.
	MaxCandles int

	Momentum analysis.MomentumConfig
	Flags    Flags
	Palette  Palette

	// FormatValue renders the badge/overlay text. Defaults to "%.2f".
	FormatValue func(float64) string

	Callbacks Callbacks
}

// DefaultConfig returns the engine defaults: 60s line chart with every
// optional subsystem on.
func DefaultConfig() Config {
	return Config{
		WindowSeconds: 60,
		CandleWidth:   5,
		Mode:          model.ModeLine,
		MaxTickMs:     50,
		MaxCandles:    720,
		Flags: Flags{
			Grid: true, MomentumArrows: true, Fill: true,
			Badge: true, Scrub: true, Pulse: true,
		},
		Palette: Palette{Up: "#22c55e", Down: "#ef4444", Flat: "#94a3b8"},
	}
}

// withDefaults resolves contract violations to defaults; misconfiguration
// never crashes the engine.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowSeconds <= 0 {
		c.WindowSeconds = d.WindowSeconds
	}
	if c.CandleWidth <= 0 {
		c.CandleWidth = d.CandleWidth
	}
	if c.MaxTickMs <= 0 {
		c.MaxTickMs = d.MaxTickMs
	}
	if c.MaxCandles <= 0 {
		c.MaxCandles = d.MaxCandles
	}
	if c.Palette == (Palette{}) {
		c.Palette = d.Palette
	}
	if c.FormatValue == nil {
		c.FormatValue = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}
	return c
}

// Input is the raw per-tick state supplied by the host integration.
// The engine only reads it; the caller owns every backing buffer.
type Input struct {
	// Samples is the caller-owned ascending-time buffer.
	Samples []model.Sample

	// Live is the current value, updated independently of the buffer.
	Live    float64
	HasLive bool

	// Reference extends the Y-range (e.g. a session-open line).
	Reference    float64
	HasReference bool

	// Candles/LiveCandle optionally bypass the internal aggregator.
	Candles    []model.Candle
	LiveCandle *model.Candle

	// PointerX is the normalized pointer position within the plot, or
	// nil when not hovering.
	PointerX *float64

	// Structural targets. Window and CandleWidth fall back to the
	// Config defaults when zero; a nil Mode keeps the configured mode.
	Window      float64
	CandleWidth float64
	Mode        *model.Mode

	Paused  bool
	Loading bool
}
