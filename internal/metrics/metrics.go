// Package metrics records per-request timings of the API transport.
package metrics

import (
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Collector records request metrics on its own registry so several clients
// in one process do not collide.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	sessionsEnded   prometheus.Counter
}

// NewCollector creates a collector with a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskboard_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "route", "status"},
		),
		sessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_sessions_ended_total",
			Help: "Sessions ended by an unauthorized response",
		}),
	}
	c.registry.MustRegister(c.requestDuration, c.sessionsEnded)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRequest records one finished request. status is 0 when no
// response was received.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.requestDuration.WithLabelValues(method, route, label).Observe(d.Seconds())
}

// SessionEnded records a forced end of session.
func (c *Collector) SessionEnded() {
	c.sessionsEnded.Inc()
}

// RequestStat summarizes requests sharing method, route and status.
type RequestStat struct {
	Method string
	Route  string
	Status string
	Count  uint64
	Total  time.Duration
}

// Snapshot returns the request statistics gathered so far, sorted by
// route, method and status.
func (c *Collector) Snapshot() ([]RequestStat, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, err
	}

	var stats []RequestStat
	for _, mf := range families {
		if mf.GetName() != "taskboard_http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := labelMap(m.GetLabel())
			h := m.GetHistogram()
			stats = append(stats, RequestStat{
				Method: labels["method"],
				Route:  labels["route"],
				Status: labels["status"],
				Count:  h.GetSampleCount(),
				Total:  time.Duration(h.GetSampleSum() * float64(time.Second)),
			})
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Route != stats[j].Route {
			return stats[i].Route < stats[j].Route
		}
		if stats[i].Method != stats[j].Method {
			return stats[i].Method < stats[j].Method
		}
		return stats[i].Status < stats[j].Status
	})
	return stats, nil
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.GetName()] = p.GetValue()
	}
	return m
}
