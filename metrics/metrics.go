// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics records Prometheus metrics for the block runtime.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command outcomes
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

// Import outcomes
const (
	ImportOK        = "ok"
	ImportMalformed = "malformed"
	ImportInvalid   = "invalid"
)

// Recorder holds the runtime's collectors. A nil *Recorder records nothing.
type Recorder struct {
	commandsTotal   *prometheus.CounterVec
	votesTotal      prometheus.Counter
	learnersTotal   prometheus.Counter
	importsTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pollxblock_commands_total",
				Help: "Handler commands dispatched, by command and outcome",
			},
			[]string{"command", "outcome"},
		),
		votesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pollxblock_votes_total",
				Help: "Votes accepted by answer_poll",
			},
		),
		learnersTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pollxblock_learners_registered_total",
				Help: "Learner tokens issued",
			},
		),
		importsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pollxblock_imports_total",
				Help: "XML imports, by outcome",
			},
			[]string{"outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pollxblock_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// ObserveCommand counts one dispatched command. Unknown names are folded
// into a single label value to keep cardinality bounded.
func (r *Recorder) ObserveCommand(command string, known, rejected bool) {
	if r == nil {
		return
	}
	if !known {
		command = "unknown"
	}
	outcome := OutcomeOK
	if rejected {
		outcome = OutcomeRejected
	}
	r.commandsTotal.WithLabelValues(command, outcome).Inc()
}

func (r *Recorder) IncVote() {
	if r == nil {
		return
	}
	r.votesTotal.Inc()
}

func (r *Recorder) IncLearner() {
	if r == nil {
		return
	}
	r.learnersTotal.Inc()
}

func (r *Recorder) ObserveImport(outcome string) {
	if r == nil {
		return
	}
	r.importsTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveRequest(route string, d time.Duration) {
	if r == nil {
		return
	}
	r.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}
