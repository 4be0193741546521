// Package loading tracks outbound requests that are still in flight so the
// API can report a global busy indicator.
package loading

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/joestump/superheroes/internal/metrics"
)

// Tracker counts active requests. The zero value is ready to use.
type Tracker struct {
	active atomic.Int64
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Start records one more request in flight.
func (t *Tracker) Start() {
	t.active.Add(1)
	metrics.InFlightRequests.Inc()
}

// Stop records one request finished. The count never drops below zero.
func (t *Tracker) Stop() {
	for {
		cur := t.active.Load()
		if cur <= 0 {
			return
		}
		if t.active.CompareAndSwap(cur, cur-1) {
			metrics.InFlightRequests.Dec()
			return
		}
	}
}

// Active reports the number of requests in flight.
func (t *Tracker) Active() int {
	return int(t.active.Load())
}

// IsLoading reports whether any request is in flight.
func (t *Tracker) IsLoading() bool {
	return t.active.Load() > 0
}

// Transport is an http.RoundTripper that reports every request to a Tracker.
// Linger keeps a finished request counted for a little longer so that short
// bursts read as one continuous busy period.
type Transport struct {
	Base    http.RoundTripper
	Tracker *Tracker
	Linger  time.Duration
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, tracker *Tracker, linger time.Duration) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Tracker: tracker, Linger: linger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.Tracker.Start()
	resp, err := t.Base.RoundTrip(req)
	if t.Linger > 0 {
		time.AfterFunc(t.Linger, t.Tracker.Stop)
	} else {
		t.Tracker.Stop()
	}
	return resp, err
}
