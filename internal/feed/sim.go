// Package feed produces the sample stream for the demo host: a seeded
// random-walk price simulator writing into the engine's ring buffer.
package feed

import (
	"context"
	"math/rand"
	"time"

	"chartenginev1/internal/model"
	"chartenginev1/internal/ringbuf"
)

// Sim is a random-walk price generator. Each step moves the price by up
// to ±0.1%, floored so it never reaches zero.
type Sim struct {
	price float64
	floor float64
	rng   *rand.Rand
	epoch time.Time
}

// NewSim creates a simulator starting at price. A non-zero seed makes
// the walk reproducible.
func NewSim(price float64, seed int64) *Sim {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if price <= 0 {
		price = 100
	}
	return &Sim{
		price: price,
		floor: price * 0.01,
		rng:   rand.New(rand.NewSource(seed)),
		epoch: time.Now(),
	}
}

// Next advances the walk one step and returns the sample stamped at now.
func (s *Sim) Next(now time.Time) model.Sample {
	pct := (s.rng.Float64()*0.2 - 0.1) / 100.0
	s.price += s.price * pct
	if s.price < s.floor {
		s.price = s.floor
	}
	return model.Sample{
		Time:  now.Sub(s.epoch).Seconds(),
		Value: s.price,
	}
}

// Run pushes one sample per interval into the ring until ctx is done.
// Intended to be launched as a goroutine by the host.
func (s *Sim) Run(ctx context.Context, ring *ringbuf.Ring[model.Sample], interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ring.Push(s.Next(now))
		}
	}
}
