// Package metrics provides Prometheus metrics for the badge cycle loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// registry holds only badge metrics so the textfile stays small.
var registry = prometheus.NewRegistry()

var (
	factory = promauto.With(registry)

	cyclesTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "inkbadge",
		Name:      "cycles_total",
		Help:      "Cycles started since boot",
	})

	actionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inkbadge",
		Name:      "actions_total",
		Help:      "Resolved actions by name",
	}, []string{"action"})

	stateIndex = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkbadge",
		Subsystem: "state",
		Name:      "index",
		Help:      "Persisted badge index",
	})

	stateLocked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkbadge",
		Subsystem: "state",
		Name:      "locked",
		Help:      "1 when the selection is locked",
	})

	lastCommit = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkbadge",
		Subsystem: "state",
		Name:      "last_commit_timestamp_seconds",
		Help:      "Unix time of the last register write",
	})

	wakeInterval = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkbadge",
		Name:      "wake_interval_seconds",
		Help:      "Wake interval accepted by the RTC",
	})

	faultCode = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkbadge",
		Name:      "fault_code",
		Help:      "Fatal fault ordinal, 0 when running",
	})
)

// Registry returns the registry all badge metrics are registered with.
func Registry() *prometheus.Registry {
	return registry
}

// IncCycles counts a started cycle.
func IncCycles() {
	cyclesTotal.Inc()
}

// IncAction counts a resolved action.
func IncAction(action string) {
	actionsTotal.WithLabelValues(action).Inc()
}

// SetState records the committed register value.
func SetState(index uint8, locked bool, unixTime float64) {
	stateIndex.Set(float64(index))
	if locked {
		stateLocked.Set(1)
	} else {
		stateLocked.Set(0)
	}
	lastCommit.Set(unixTime)
}

// SetWakeInterval records the programmed wake interval.
func SetWakeInterval(seconds float64) {
	wakeInterval.Set(seconds)
}

// SetFault records the fault the loop stopped on.
func SetFault(code uint8) {
	faultCode.Set(float64(code))
}
