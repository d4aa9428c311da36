package main

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordingPacer(t *testing.T, minDelayMs, maxDelayMs int, events *[]string) (*Pacer, *[]time.Duration) {
	t.Helper()

	p, err := NewPacer(minDelayMs, maxDelayMs, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	var delays []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		if events != nil {
			*events = append(*events, "wait")
		}
		return nil
	}

	return p, &delays
}

func TestNewPacerRejectsInvalidBounds(t *testing.T) {
	for _, bounds := range [][2]int{{-1, 5}, {0, -1}, {10, 1}} {
		_, err := NewPacer(bounds[0], bounds[1], rand.New(rand.NewSource(1)))
		assert.Error(t, err, "bounds %v", bounds)
	}
}

func TestPacerDelaysStayInRange(t *testing.T) {
	for _, bounds := range [][2]int{{0, 0}, {1, 10}, {7, 7}, {0, 250}} {
		p, delays := newRecordingPacer(t, bounds[0], bounds[1], nil)

		for i := 0; i < 2000; i++ {
			_, err := p.Next(context.Background())
			require.NoError(t, err)
		}

		for _, d := range *delays {
			assert.GreaterOrEqual(t, d, time.Duration(bounds[0])*time.Millisecond)
			assert.LessOrEqual(t, d, time.Duration(bounds[1])*time.Millisecond)
			assert.Zero(t, d%time.Millisecond, "delays are whole milliseconds")
		}
	}
}

func TestPacerCoversWholeRange(t *testing.T) {
	p, delays := newRecordingPacer(t, 1, 10, nil)

	for i := 0; i < 1000; i++ {
		_, err := p.Next(context.Background())
		require.NoError(t, err)
	}

	seen := map[time.Duration]bool{}
	for _, d := range *delays {
		seen[d] = true
	}
	assert.Len(t, seen, 10)
}

func TestPacerTicksIncreaseByOne(t *testing.T) {
	p, _ := newRecordingPacer(t, 1, 10, nil)

	for want := 0; want < 500; want++ {
		tick, err := p.Next(context.Background())
		require.NoError(t, err)
		require.Equal(t, want, tick)
	}
}

func TestPacerWaitsBeforeEveryTick(t *testing.T) {
	var events []string
	p, _ := newRecordingPacer(t, 1, 10, &events)

	for i := 0; i < 3; i++ {
		tick, err := p.Next(context.Background())
		require.NoError(t, err)
		events = append(events, fmt.Sprintf("tick %d", tick))
	}

	assert.Equal(t, []string{"wait", "tick 0", "wait", "tick 1", "wait", "tick 2"}, events)
}

func TestNewPacerStartsOver(t *testing.T) {
	p, _ := newRecordingPacer(t, 1, 1, nil)
	for i := 0; i < 5; i++ {
		_, err := p.Next(context.Background())
		require.NoError(t, err)
	}

	fresh, _ := newRecordingPacer(t, 1, 1, nil)
	tick, err := fresh.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tick)
}

func TestPacerStopsOnCancelledContext(t *testing.T) {
	p, err := NewPacer(50, 100, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// the aborted wait does not consume a tick
	p.sleep = func(context.Context, time.Duration) error { return nil }
	tick, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tick)
}
