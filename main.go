package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	minDelayMs = 1
	maxDelayMs = 10
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		zap.NewExample().Sugar().Fatalw("missing mandatory configuration", "err", err.Error())
	}

	lg, err := newLogger(cfg.Mode)
	if err != nil {
		zap.NewExample().Sugar().Fatalw("can't build logger", "err", err.Error())
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	stats := NewStats()

	pacer, err := NewPacer(minDelayMs, maxDelayMs, rnd)
	if err != nil {
		lg.Fatalw("can't create pacer", "err", err.Error())
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, lg, cfg.MetricsAddr, stats)
	}

	d := NewDriver(lg, &http.Client{}, cfg.APIURL, pacer, rnd, stats)

	lg.Info("starting activity")
	d.Run(ctx)

	s := stats.Snapshot()
	lg.Infow("done",
		"requests", s.Requests,
		"successes", s.Successes,
		"failures", s.Failures,
		"p50_ms", s.P50Ms,
		"p99_ms", s.P99Ms,
	)
}

func serveMetrics(ctx context.Context, lg *zap.SugaredLogger, addr string, stats *Stats) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/stats", stats)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Errorw("can't serve metrics", "err", err.Error())
	}
}
