// Package metrics exposes Prometheus counters for the sync pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	syncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guest_registry",
			Name:      "calendar_sync_runs_total",
			Help:      "Count of calendar sync runs by outcome.",
		},
		[]string{"outcome"},
	)

	tripsSynced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guest_registry",
			Name:      "trips_synced_total",
			Help:      "Count of trips created from upstream calendar events.",
		},
	)

	tripsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guest_registry",
			Name:      "trips_updated_total",
			Help:      "Count of trips refreshed from upstream calendar events.",
		},
	)

	fetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guest_registry",
			Name:      "calendar_fetch_failures_total",
			Help:      "Count of calendar feed fetch failures.",
		},
	)

	tasksDerived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guest_registry",
			Name:      "housekeeping_tasks_created_total",
			Help:      "Count of housekeeping tasks created by the derivator.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(syncRuns, tripsSynced, tripsUpdated, fetchFailures, tasksDerived)
	})
}

func IncSyncRun(outcome string) {
	syncRuns.WithLabelValues(outcome).Inc()
}

func AddTripsSynced(n int) {
	tripsSynced.Add(float64(n))
}

func AddTripsUpdated(n int) {
	tripsUpdated.Add(float64(n))
}

func IncFetchFailure() {
	fetchFailures.Inc()
}

func AddTasksDerived(n int) {
	tasksDerived.Add(float64(n))
}
