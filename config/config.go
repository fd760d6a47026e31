// Package config loads the chartd host configuration from environment
// variables, with an optional YAML theme file for paint settings.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all host configuration loaded from environment variables.
type Config struct {
	// Listen addresses
	WSAddr      string
	MetricsAddr string

	LogLevel string

	// Engine tick and feed cadence, milliseconds
	FrameIntervalMs int
	FeedIntervalMs  int

	// Chart defaults
	WindowSeconds float64
	CandleWidth   float64
	Mode          string
	Exaggerate    bool
	ReducedMotion bool

	// Feed simulator
	StartPrice float64
	FeedSeed   int64
	RingSize   int

	// Optional YAML theme file (flags + palette)
	ThemePath string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		WSAddr:      getEnv("CHARTD_WS_ADDR", ":8080"),
		MetricsAddr: getEnv("CHARTD_METRICS_ADDR", ":9090"),

		LogLevel: getEnv("CHARTD_LOG_LEVEL", "info"),

		FrameIntervalMs: getEnvInt("CHARTD_FRAME_INTERVAL_MS", 16),
		FeedIntervalMs:  getEnvInt("CHARTD_FEED_INTERVAL_MS", 100),

		WindowSeconds: getEnvFloat("CHARTD_WINDOW_SECONDS", 60),
		CandleWidth:   getEnvFloat("CHARTD_CANDLE_WIDTH", 5),
		Mode:          getEnv("CHARTD_MODE", "line"),
		Exaggerate:    getEnvBool("CHARTD_EXAGGERATE", false),
		ReducedMotion: getEnvBool("CHARTD_REDUCED_MOTION", false),

		StartPrice: getEnvFloat("CHARTD_START_PRICE", 100),
		FeedSeed:   int64(getEnvInt("CHARTD_FEED_SEED", 0)),
		RingSize:   getEnvInt("CHARTD_RING_SIZE", 4096),

		ThemePath: getEnv("CHARTD_THEME", ""),
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid int for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid float for %s: %q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid bool for %s: %q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
