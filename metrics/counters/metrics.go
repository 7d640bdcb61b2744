package counters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpi",
	Name:      "request_count",
	Help:      "Total number of handled requests by module, method and status class.",
}, []string{"module", "method", "status"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "ocpi",
	Name:      "request_duration_seconds",
	Help:      "Request handling time by module and method.",
	Buckets:   prometheus.DefBuckets,
}, []string{"module", "method"})

func ObserveRequest(module, method, status string, seconds float64) {
	if len(module) == 0 || len(method) == 0 {
		return
	}
	requestCounts.With(prometheus.Labels{"module": module, "method": method, "status": status}).Inc()
	requestDuration.With(prometheus.Labels{"module": module, "method": method}).Observe(seconds)
}

var patchFailureCounts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpi",
	Name:      "patch_failure_count",
	Help:      "Total number of rejected merge patches by module.",
}, []string{"module"})

func CountPatchFailure(module string) {
	if len(module) == 0 {
		return
	}
	patchFailureCounts.With(prometheus.Labels{"module": module}).Inc()
}

var authResolutionCounts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpi",
	Name:      "auth_resolution_count",
	Help:      "Total number of access token resolutions by outcome.",
}, []string{"outcome"})

func CountAuthResolution(outcome string) {
	if len(outcome) == 0 {
		return
	}
	authResolutionCounts.With(prometheus.Labels{"outcome": outcome}).Inc()
}

var degradedCounts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpi",
	Name:      "degraded_response_count",
	Help:      "Total number of degraded responses by module.",
}, []string{"module"})

func CountDegraded(module string) {
	if len(module) == 0 {
		return
	}
	degradedCounts.With(prometheus.Labels{"module": module}).Inc()
}

var monitorConnectionsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "server",
	Name:      "monitor_connections_active",
	Help:      "Number of active ws monitor connections",
}, []string{"remote"})

func ObserveMonitorConnections(remote string, count int) {
	if len(remote) == 0 {
		return
	}
	monitorConnectionsGauge.With(prometheus.Labels{"remote": remote}).Set(float64(count))
}
