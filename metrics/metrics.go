// Package metrics exposes Prometheus collectors for pairing and match
// reporting.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "swiss"

// Pairing outcome labels.
const (
	OutcomeOK               = "ok"
	OutcomeRoundNotComplete = "round_not_complete"
	OutcomeExhaustedBye     = "exhausted_bye"
	OutcomeIncompleteMatch  = "incomplete_matching"
	OutcomeTooManyPlayers   = "too_many_players"
	OutcomeError            = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	PairingDuration prometheus.Histogram
	PairingsTotal   *prometheus.CounterVec
	PairingPlayers  prometheus.Histogram
	MatchesReported *prometheus.CounterVec
	HubBroadcasts   *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PairingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pairing_duration_seconds",
			Help:      "Time spent computing the pairings of one round.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		PairingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairings_total",
			Help:      "Pairing requests by outcome.",
		}, []string{"outcome"}),
		PairingPlayers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pairing_players",
			Help:      "Number of players in a paired round.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 12),
		}),
		MatchesReported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_reported_total",
			Help:      "Reported matches by kind.",
		}, []string{"kind"}),
		HubBroadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_events_total",
			Help:      "Realtime events published by type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PairingDuration,
		m.PairingsTotal,
		m.PairingPlayers,
		m.MatchesReported,
		m.HubBroadcasts,
	)
	return m
}

// ObservePairing records one pairing attempt.
func (m *Metrics) ObservePairing(outcome string, players int, elapsed time.Duration) {
	m.PairingsTotal.WithLabelValues(outcome).Inc()
	m.PairingDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.PairingPlayers.Observe(float64(players))
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
