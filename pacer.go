package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var pacerDelayHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "fizzbuzz_pacer_delay_seconds",
	Help:    "Delay observed by the pacer before each tick",
	Buckets: prometheus.LinearBuckets(0.001, 0.001, 10),
})

// Pacer hands out ticks 0, 1, 2, ... each one preceded by a random delay.
// It is pulled by a single consumer and is not safe for concurrent use.
type Pacer struct {
	rnd   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error

	minDelay int
	maxDelay int
	tick     int
}

func NewPacer(minDelayMs, maxDelayMs int, rnd *rand.Rand) (*Pacer, error) {
	if minDelayMs < 0 || maxDelayMs < 0 {
		return nil, errors.Errorf("negative delay bounds [%d, %d]", minDelayMs, maxDelayMs)
	}
	if minDelayMs > maxDelayMs {
		return nil, errors.Errorf("min delay %dms exceeds max delay %dms", minDelayMs, maxDelayMs)
	}

	return &Pacer{
		rnd:      rnd,
		sleep:    sleepContext,
		minDelay: minDelayMs,
		maxDelay: maxDelayMs,
	}, nil
}

// Next waits for a random delay and returns the next tick. The delay only
// starts once the caller asks for the tick, so the previous tick has been
// fully handled by then. The returned error is always the context's.
func (p *Pacer) Next(ctx context.Context) (int, error) {
	delay := p.calculateDelay()
	if err := p.sleep(ctx, delay); err != nil {
		return 0, err
	}
	pacerDelayHistogram.Observe(delay.Seconds())

	tick := p.tick
	p.tick++

	return tick, nil
}

func (p *Pacer) calculateDelay() time.Duration {
	return time.Duration(randomInt(p.rnd, p.minDelay, p.maxDelay)) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// randomInt returns a uniformly distributed integer in [min, max].
func randomInt(rnd *rand.Rand, min, max int) int {
	return rnd.Intn(max-min+1) + min
}
