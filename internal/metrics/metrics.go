// Package metrics instruments the client's outgoing HTTP traffic with
// Prometheus collectors and summarizes them for display.
package metrics

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	requestsMetric = "namecard_client_requests_total"
	durationMetric = "namecard_client_request_duration_seconds"
)

// HTTP holds the collectors for outgoing requests. Each instance has its own
// registry, so several clients (or tests) never collide.
type HTTP struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTP() *HTTP {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &HTTP{
		registry: reg,
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: requestsMetric,
				Help: "Outgoing requests to the hosted service by method and status code",
			},
			[]string{"method", "code"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    durationMetric,
				Help:    "Outgoing request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

func (m *HTTP) Registry() *prometheus.Registry { return m.registry }

// RoundTripper wraps next (http.DefaultTransport when nil) with the counter
// and latency collectors.
func (m *HTTP) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.requests,
		promhttp.InstrumentRoundTripperDuration(m.duration, next))
}

// Client returns an *http.Client using the instrumented default transport.
func (m *HTTP) Client() *http.Client {
	return &http.Client{Transport: m.RoundTripper(nil)}
}

type RequestCount struct {
	Method string
	Code   string
	Count  float64
}

func (r RequestCount) String() string {
	return fmt.Sprintf("%s %s: %.0f", r.Method, r.Code, r.Count)
}

// Summary returns the request counts gathered so far, ordered by method and
// code.
func (m *HTTP) Summary() ([]RequestCount, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var out []RequestCount
	for _, fam := range families {
		if fam.GetName() != requestsMetric {
			continue
		}
		for _, metric := range fam.GetMetric() {
			rc := RequestCount{Count: metric.GetCounter().GetValue()}
			for _, lp := range metric.GetLabel() {
				switch lp.GetName() {
				case "method":
					rc.Method = lp.GetValue()
				case "code":
					rc.Code = lp.GetValue()
				}
			}
			out = append(out, rc)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
