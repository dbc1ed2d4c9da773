// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitledger"

var (
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Connect RPCs handled, by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Connect RPC latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	SettlementsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_recorded_total",
		Help:      "Settlements appended, by method.",
	}, []string{"method"})

	RoundsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rounds_closed_total",
		Help:      "Settlement rounds that ended with every balance at zero.",
	})

	InvariantViolations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_invariant_violations_total",
		Help:      "Projections whose balances did not sum to zero.",
	})

	ProjectionCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projection_cache_lookups_total",
		Help:      "Projection cache lookups, by result (hit, miss, shared).",
	}, []string{"result"})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	var errs []error
	for _, c := range []prometheus.Collector{
		RPCRequests,
		RPCDuration,
		SettlementsRecorded,
		RoundsClosed,
		InvariantViolations,
		ProjectionCache,
	} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
