// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus instrumentation for the ledger and the
// HTTP server.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielhkuo/magic-vote/ledger"
)

// Namespace prefixes every metric.
const Namespace = "magic_vote"

func newCounter(name, subsystem, help string, labels []string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

func newGauge(name, subsystem, help string, labels []string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

func newHistogram(name, subsystem, help string, labels []string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

var (
	votesCast = newCounter("votes_cast_total", "ledger",
		"Votes cast, by the candidate they were cast for", []string{"candidate"})
	votesRigged = newCounter("votes_rigged_total", "ledger",
		"Votes relabelled by rigging, by the candidate they were taken from", []string{"candidate"})
	candidateVotes = newGauge("candidate_votes", "ledger",
		"Current vote count per candidate", []string{"candidate"})
	candidateShare = newGauge("candidate_share", "ledger",
		"Current vote share per candidate", []string{"candidate"})

	requestDuration = newHistogram("request_duration_seconds", "http",
		"HTTP request latency", []string{"method", "route"})
)

// ObserveRequest records one served request.
func ObserveRequest(method, route string, d time.Duration) {
	requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Tracker keeps the ledger metrics current.
type Tracker struct {
	ledger      *ledger.Ledger
	events      <-chan ledger.Event
	unsubscribe func()
}

// NewTracker hooks the vote counters into l's mutation path and subscribes
// for gauge refreshes right away so no event between construction and Run
// is missed.
func NewTracker(l *ledger.Ledger) *Tracker {
	l.Observe(count)
	events, unsubscribe := l.Subscribe()
	return &Tracker{ledger: l, events: events, unsubscribe: unsubscribe}
}

// count runs under the ledger lock for every mutation, so the counters stay
// exact even when the subscription drops events.
func count(ev ledger.Event) {
	switch ev.Kind {
	case ledger.EventCast:
		votesCast.WithLabelValues(ev.Vote.CandidateID.String()).Inc()
	case ledger.EventRigged:
		votesRigged.WithLabelValues(ev.From.String()).Inc()
	}
}

// Run refreshes the gauges until ctx is cancelled. Each refresh reads the
// current ledger state, so a dropped event only delays the next one.
func (t *Tracker) Run(ctx context.Context) error {
	defer t.unsubscribe()

	l := t.ledger
	refresh(ctx, l)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-t.events:
			if !ok {
				return nil
			}
			refresh(ctx, l)
		}
	}
}

func refresh(ctx context.Context, l *ledger.Ledger) {
	for _, c := range ledger.Candidates() {
		s, err := l.CurrentShare(ctx, c.ID)
		if err != nil {
			slog.Warn("failed to refresh share metrics", "candidate", c.ID.String(), "error", err)
			return
		}
		candidateVotes.WithLabelValues(c.ID.String()).Set(float64(s.Count))
		candidateShare.WithLabelValues(c.ID.String()).Set(s.Share)
	}
}
