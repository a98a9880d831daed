package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess     = "success"
	outcomeConcurrency = "concurrency_failure"
	outcomeConflict    = "conflict"
	outcomeError       = "error"
)

var storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tidepool_identity_store_operations",
	Help: "The number of create, update and delete operations by outcome",
}, []string{"store", "operation", "outcome"})

var failedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tidepool_identity_failed_events",
	Help: "The number of change notifications that could not be sent",
}, []string{"event_type"})

func countOperation(store, operation, outcome string) {
	storeOperations.WithLabelValues(store, operation, outcome).Inc()
}
