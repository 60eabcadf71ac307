// Package metrics exposes Prometheus collectors for corpus runs.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchOutcomesTotal *prometheus.CounterVec
	fetchBytesTotal    *prometheus.CounterVec
	fetchRetriesTotal  prometheus.Counter
	rateGateDelay      prometheus.Histogram
	recordsStoredTotal prometheus.Counter
	mergeClusterSize   prometheus.Histogram

	once sync.Once
)

// Init registers the collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		fetchOutcomesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylecorpus_fetch_outcomes_total",
				Help: "Terminal per-URL fetch outcomes, labeled by domain and outcome.",
			},
			[]string{"domain", "outcome"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylecorpus_fetch_bytes_total",
				Help: "Total raw bytes fetched, labeled by domain.",
			},
			[]string{"domain"},
		)

		fetchRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stylecorpus_fetch_retries_total",
				Help: "Total retry attempts across all URLs.",
			},
		)

		rateGateDelay = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylecorpus_rate_gate_delay_seconds",
				Help:    "Time spent waiting on the global fetch rate gate.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)

		recordsStoredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stylecorpus_records_stored_total",
				Help: "Content records successfully upserted.",
			},
		)

		mergeClusterSize = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylecorpus_merge_cluster_size",
				Help:    "Candidate cluster sizes observed during rule merges.",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
			},
		)
	})
}

// ObserveFetchOutcome records one terminal outcome for a URL.
func ObserveFetchOutcome(domain, outcome string) {
	if fetchOutcomesTotal != nil {
		fetchOutcomesTotal.WithLabelValues(domain, outcome).Inc()
	}
}

// ObserveFetchBytes records raw bytes fetched from a domain.
func ObserveFetchBytes(domain string, n int) {
	if fetchBytesTotal != nil && n > 0 {
		fetchBytesTotal.WithLabelValues(domain).Add(float64(n))
	}
}

// ObserveRetry counts one retry attempt.
func ObserveRetry() {
	if fetchRetriesTotal != nil {
		fetchRetriesTotal.Inc()
	}
}

// ObserveRateGateDelay records time spent blocked on the rate gate.
func ObserveRateGateDelay(d time.Duration) {
	if rateGateDelay != nil && d > 0 {
		rateGateDelay.Observe(d.Seconds())
	}
}

// ObserveRecordStored counts one successful upsert.
func ObserveRecordStored() {
	if recordsStoredTotal != nil {
		recordsStoredTotal.Inc()
	}
}

// ObserveMergeCluster records the size of one merged cluster.
func ObserveMergeCluster(size int) {
	if mergeClusterSize != nil {
		mergeClusterSize.Observe(float64(size))
	}
}
