// chartd runs the chart engine as a demo host: a simulated price feed
// drives the engine at ~60Hz and every rendered frame is broadcast to
// WebSocket painter clients.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chartenginev1/config"
	"chartenginev1/internal/engine"
	"chartenginev1/internal/feed"
	"chartenginev1/internal/gateway"
	"chartenginev1/internal/logger"
	"chartenginev1/internal/metrics"
	"chartenginev1/internal/model"
	"chartenginev1/internal/ringbuf"
)

func main() {
	cfg := config.Load()
	log := logger.Init("chartd", logger.ParseLevel(cfg.LogLevel))
	log.Info("starting", "ws_addr", cfg.WSAddr, "metrics_addr", cfg.MetricsAddr)

	theme, err := config.LoadTheme(cfg.ThemePath)
	if err != nil {
		log.Error("theme load failed", "path", cfg.ThemePath, "err", err)
		os.Exit(1)
	}

	m := metrics.New()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr)
	metricsSrv.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ring := ringbuf.New[model.Sample](cfg.RingSize)
	sim := feed.NewSim(cfg.StartPrice, cfg.FeedSeed)
	go sim.Run(ctx, ring, time.Duration(cfg.FeedIntervalMs)*time.Millisecond)

	hub := gateway.NewHub(log, m)
	wsMux := http.NewServeMux()
	wsMux.HandleFunc("/ws", hub.ServeWS)
	wsSrv := &http.Server{Addr: cfg.WSAddr, Handler: wsMux}
	go func() {
		if err := wsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ws server failed", "err", err)
			sigCh <- syscall.SIGTERM
		}
	}()

	eng := engine.New(engine.Config{
		WindowSeconds: cfg.WindowSeconds,
		CandleWidth:   cfg.CandleWidth,
		Mode:          *modeFromString(cfg.Mode),
		Exaggerate:    cfg.Exaggerate,
		ReducedMotion: cfg.ReducedMotion,
		Flags:         theme.Flags,
		Palette:       theme.Palette,
	})
	eng.OnTransition = func(quantity string) {
		m.TransitionsTotal.WithLabelValues(quantity).Inc()
	}

	runLoop(ctx, sigCh, log, cfg, m, ring, hub, eng)

	log.Info("shutting down")
	cancel()
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	wsSrv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)
	eng.Close()
	log.Info("stopped")
}

// runLoop is the ~60Hz host tick: drain controls, drain the feed ring,
// step the engine, broadcast the frame. Returns on shutdown signal.
func runLoop(
	ctx context.Context,
	sigCh chan os.Signal,
	log *slog.Logger,
	cfg *config.Config,
	m *metrics.Metrics,
	ring *ringbuf.Ring[model.Sample],
	hub *gateway.Hub,
	eng *engine.Engine,
) {
	ticker := time.NewTicker(time.Duration(cfg.FrameIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	var (
		samples      []model.Sample
		pointerX     *float64
		paused       bool
		window       = cfg.WindowSeconds
		width        = cfg.CandleWidth
		mode         = modeFromString(cfg.Mode)
		lastOverflow uint64
		scratch      []model.Sample
	)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			log.Info("signal received", "signal", sig.String())
			return
		case now := <-ticker.C:
			for drained := false; !drained; {
				select {
				case ctl := <-hub.Controls():
					switch ctl.Type {
					case "pointer":
						pointerX = ctl.PointerX
					case "pause":
						paused = ctl.Paused
					case "window":
						if ctl.Window > 0 {
							window = ctl.Window
						}
					case "mode":
						if pm := gateway.ParseMode(ctl.Mode); pm != nil {
							mode = pm
						}
					case "width":
						if ctl.Width > 0 {
							width = ctl.Width
						}
					}
				default:
					drained = true
				}
			}

			scratch = ring.Drain(scratch[:0])
			if len(scratch) > 0 {
				samples = append(samples, scratch...)
				m.SamplesTotal.Add(float64(len(scratch)))
			}
			if of := ring.Overflow(); of > lastOverflow {
				m.RingOverflow.Add(float64(of - lastOverflow))
				lastOverflow = of
			}
			// Keep a few windows of history so window growth and candle
			// rebuilds have data to work with.
			if keep := window * 8; keep > 0 {
				samples = model.SliceBetween(samples, model.LastTime(samples)-keep, model.LastTime(samples))
			}

			start := time.Now()
			frame := eng.Step(engine.Input{
				Samples:     samples,
				PointerX:    pointerX,
				Window:      window,
				CandleWidth: width,
				Mode:        mode,
				Paused:      paused,
				Loading:     len(samples) == 0,
			}, now)
			m.FrameDur.Observe(time.Since(start).Seconds())
			m.FramesTotal.Inc()
			if frame.Empty {
				m.EmptyFrames.Inc()
			}

			b, err := json.Marshal(frame)
			if err != nil {
				log.Error("frame marshal failed", "err", err)
				continue
			}
			hub.Broadcast(b)
		}
	}
}

func modeFromString(s string) *model.Mode {
	if pm := gateway.ParseMode(s); pm != nil {
		return pm
	}
	m := model.ModeLine
	return &m
}
