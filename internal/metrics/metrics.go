package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nautilus"

var (
	groupsComposed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "groups_composed_total",
		Help:      "Operation groups built and dry-run successfully, by action.",
	}, []string{"action"})

	simulationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_failures_total",
		Help:      "Dry-run rejections, by action and attempt mode.",
	}, []string{"action", "mode"})

	purchaseFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_fallbacks_total",
		Help:      "Purchases that needed an attempt after the first.",
	})

	bulkChunks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_chunks_total",
		Help:      "Bulk chunks submitted, by result.",
	}, []string{"action", "result"})
)

func init() {
	prometheus.MustRegister(groupsComposed, simulationFailures, purchaseFallbacks, bulkChunks)
}

func GroupComposed(action string) {
	groupsComposed.WithLabelValues(action).Inc()
}

func SimulationFailed(action, mode string) {
	if mode == "" {
		mode = "default"
	}
	simulationFailures.WithLabelValues(action, mode).Inc()
}

func PurchaseFallback() {
	purchaseFallbacks.Inc()
}

func BulkChunk(action string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	bulkChunks.WithLabelValues(action, result).Inc()
}
