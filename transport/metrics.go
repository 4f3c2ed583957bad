// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"strconv"
	"time"

	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/transient"
	"github.com/prometheus/client_golang/prometheus"
)

type attemptStartKey struct{}

// Metrics is a plugin that records Prometheus metrics for every HTTP
// request attempt.
//
// Attempts are counted in endpoint_attempts_total and timed in
// endpoint_attempt_duration_seconds. Both are labeled by method, by
// status code ("0" when there was no response) and by the transient
// category of the attempt error ("not" when there was no error).
type Metrics struct {
	Attempts *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

var metricLabels = []string{"method", "status", "category"}

// NewMetrics creates the attempt metrics and registers them with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "endpoint_attempts_total",
			Help: "Total number of HTTP request attempts",
		}, metricLabels),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "endpoint_attempt_duration_seconds",
			Help:    "Duration of HTTP request attempts including body read (in seconds)",
			Buckets: prometheus.DefBuckets,
		}, metricLabels),
	}
	if err := reg.Register(m.Attempts); err != nil {
		return nil, err
	}
	if err := reg.Register(m.Duration); err != nil {
		reg.Unregister(m.Attempts)
		return nil, err
	}
	return m, nil
}

// Register installs the metrics handlers into g.
func (m *Metrics) Register(g *HandlerGroup) {
	g.PushBack(BeforeAttempt, m)
	g.PushBack(AfterAttempt, m)
}

// Handle notes the start time on BeforeAttempt and observes the
// attempt on AfterAttempt.
func (m *Metrics) Handle(evt Event, e *request.Execution) {
	switch evt {
	case BeforeAttempt:
		e.SetValue(attemptStartKey{}, time.Now())
	case AfterAttempt:
		labels := prometheus.Labels{
			"method":   string(e.Spec.Method()),
			"status":   strconv.Itoa(e.StatusCode()),
			"category": transient.Categorize(e.Err).String(),
		}
		m.Attempts.With(labels).Inc()
		if start, ok := e.Value(attemptStartKey{}).(time.Time); ok {
			m.Duration.With(labels).Observe(time.Since(start).Seconds())
		}
	}
}
