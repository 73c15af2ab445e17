// Package metrics exposes Prometheus collectors for planning and a Resolver
// decorator that feeds them.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

// Plan outcomes used as the "outcome" label.
const (
	OutcomeResolved        = "resolved"
	OutcomeMissingCoverage = "missing_coverage"
	OutcomeInfeasible      = "infeasible"
	OutcomeCanceled        = "canceled"
	OutcomeError           = "error"
)

// Metrics holds the planner collectors registered on one registry.
type Metrics struct {
	plans      *prometheus.CounterVec
	duration   prometheus.Histogram
	candidates prometheus.Counter
	pruned     prometheus.Counter
	providers  prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		plans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unlockpath_plans_total",
				Help: "Number of plan requests by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "unlockpath_plan_duration_seconds",
				Help:    "Time taken to search for unlock paths.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
		),
		candidates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "unlockpath_search_candidates_total",
				Help: "Complete candidate assignments evaluated by the search.",
			},
		),
		pruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "unlockpath_search_pruned_total",
				Help: "Partial assignments cut off by branch and bound.",
			},
		),
		providers: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "unlockpath_plan_providers",
				Help:    "Number of providers on resolved unlock paths.",
				Buckets: prometheus.LinearBuckets(1, 2, 10),
			},
		),
	}
	reg.MustRegister(m.plans, m.duration, m.candidates, m.pruned, m.providers)
	return m
}

// Outcome classifies the result of a Resolve call.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, resolver.ErrMissingCoverage):
		return OutcomeMissingCoverage
	case errors.Is(err, resolver.ErrInfeasible):
		return OutcomeInfeasible
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

// Observe records one finished Resolve call.
func (m *Metrics) Observe(plan resolver.Plan, err error, elapsed time.Duration) {
	m.plans.WithLabelValues(Outcome(err)).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.candidates.Add(float64(plan.Stats.Evaluated))
	m.pruned.Add(float64(plan.Stats.Pruned))
	if err != nil || len(plan.Paths) == 0 {
		return
	}
	m.providers.Observe(float64(len(plan.Paths[0].Providers)))
}

type instrumented struct {
	next    resolver.Resolver
	metrics *Metrics
	now     func() time.Time
}

// Instrument wraps next so that every Resolve call is recorded on m.
func Instrument(next resolver.Resolver, m *Metrics) resolver.Resolver {
	return &instrumented{next: next, metrics: m, now: time.Now}
}

func (i *instrumented) Resolve(ctx context.Context, in resolver.Input) (resolver.Plan, error) {
	start := i.now()
	plan, err := i.next.Resolve(ctx, in)
	i.metrics.Observe(plan, err, i.now().Sub(start))
	return plan, err
}
