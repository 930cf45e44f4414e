package snapshot

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusSnapshotCoins     prometheus.Counter
	prometheusSnapshotGroups    prometheus.Counter
	prometheusSnapshotBatches   prometheus.Counter
	prometheusSnapshotBytes     prometheus.Counter
	prometheusSnapshotMaxHeight prometheus.Gauge
	prometheusSnapshotFlush     prometheus.Histogram
	prometheusSnapshotErrors    *prometheus.CounterVec
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusSnapshotCoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxodump",
			Subsystem: "snapshot",
			Name:      "coins",
			Help:      "Number of coins decoded from snapshots",
		},
	)
	prometheusSnapshotGroups = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxodump",
			Subsystem: "snapshot",
			Name:      "groups",
			Help:      "Number of transaction id groups read from snapshots",
		},
	)
	prometheusSnapshotBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxodump",
			Subsystem: "snapshot",
			Name:      "batches",
			Help:      "Number of record batches handed to the sink",
		},
	)
	prometheusSnapshotBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxodump",
			Subsystem: "snapshot",
			Name:      "bytes",
			Help:      "Number of decompressed snapshot bytes consumed",
		},
	)
	prometheusSnapshotMaxHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "utxodump",
			Subsystem: "snapshot",
			Name:      "max_height",
			Help:      "Highest coin height seen in the current snapshot",
		},
	)
	prometheusSnapshotFlush = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "utxodump",
			Subsystem: "snapshot",
			Name:      "flush_seconds",
			Help:      "Time taken by the sink to append one batch",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		},
	)
	prometheusSnapshotErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "utxodump",
			Subsystem: "snapshot",
			Name:      "errors",
			Help:      "Number of failed decodes by error code",
		},
		[]string{
			"code",     // error code of the failure
			"category", // input, storage, context, ...
		},
	)
}
