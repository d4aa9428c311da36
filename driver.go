package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const fizzBuzzPath = "/api/v1/fizzbuzz"

var (
	totalRequestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fizzbuzz_requests_total",
		Help: "Fizzbuzz requests by outcome",
	}, []string{"outcome"})

	totalResultsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fizzbuzz_results_total",
		Help: "Fizzbuzz results received",
	})

	requestDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fizzbuzz_request_duration_seconds",
		Help:    "Fizzbuzz request/response cycle duration",
		Buckets: prometheus.DefBuckets,
	})
)

// Response is the success body of the fizzbuzz endpoint.
type Response []string

// Driver turns every pacer tick into one fizzbuzz request. Requests are
// strictly sequential and a failed one never stops the loop.
type Driver struct {
	lg     *zap.SugaredLogger
	client *http.Client
	pacer  *Pacer
	rnd    *rand.Rand
	stats  *Stats

	endpoint string
}

func NewDriver(lg *zap.SugaredLogger, client *http.Client, endpoint string, pacer *Pacer, rnd *rand.Rand, stats *Stats) *Driver {
	return &Driver{
		lg:       lg,
		client:   client,
		pacer:    pacer,
		rnd:      rnd,
		stats:    stats,
		endpoint: endpoint,
	}
}

// Run blocks until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	for {
		tick, err := d.pacer.Next(ctx)
		if err != nil {
			return
		}

		d.iterate(ctx, tick)
	}
}

func (d *Driver) iterate(ctx context.Context, tick int) {
	lg := d.lg.Named(fmt.Sprintf("request#%d", tick))
	params := randomParams(d.rnd)

	start := time.Now()
	resp, err := d.FizzBuzz(ctx, params)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return
	}

	requestDurationHistogram.Observe(elapsed.Seconds())
	d.stats.Record(elapsed, err)

	if err != nil {
		totalRequestsCounter.WithLabelValues(classifyFailure(err)).Inc()
		lg.Errorw("can't fizzbuzz", "query", params.QueryString(), "err", err.Error())

		return
	}

	totalRequestsCounter.WithLabelValues("success").Inc()
	if resp != nil {
		totalResultsCounter.Add(float64(len(resp)))
		lg.Infof("got %d results back", len(resp))
	}
}

// FizzBuzz performs one request/response cycle. The body is parsed as JSON
// whatever the status; a nil Response with a nil error means the server sent
// a null body.
func (d *Driver) FizzBuzz(ctx context.Context, params Params) (Response, error) {
	url := d.endpoint + fizzBuzzPath + "?" + params.QueryString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkFailure{err: errors.Wrap(err, "new request")}
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	res, err := d.client.Do(req)
	if err != nil {
		return nil, &NetworkFailure{err: errors.Wrap(err, "get fizzbuzz")}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkFailure{err: errors.Wrap(err, "read body")}
	}

	d.lg.Debugw("fizzbuzz answered", "request_id", requestID, "status", res.StatusCode)

	if !json.Valid(body) {
		return nil, &DecodeFailure{err: errors.Errorf("invalid json body (status %d)", res.StatusCode)}
	}

	if res.StatusCode != http.StatusOK {
		return nil, newProtocolFailure(res.StatusCode, body)
	}

	var resp Response
	if err = json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeFailure{err: errors.Wrap(err, "decode fizzbuzz response")}
	}

	return resp, nil
}
