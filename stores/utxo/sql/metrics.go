package sql

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusSQLSinkRows          prometheus.Counter
	prometheusSQLSinkBatches       prometheus.Counter
	prometheusSQLSinkBatchDuration prometheus.Histogram
	prometheusSQLSinkErrors        *prometheus.CounterVec

	// only init the metrics once
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusSQLSinkRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sql_sink_rows",
			Help: "Number of utxo rows inserted into sql",
		},
	)
	prometheusSQLSinkBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sql_sink_batches",
			Help: "Number of batches committed to sql",
		},
	)
	prometheusSQLSinkBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sql_sink_batch_duration_seconds",
			Help:    "Duration of one batch transaction",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
	)
	prometheusSQLSinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sql_sink_errors",
			Help: "Number of sql sink errors",
		},
		[]string{
			"function", // function raising the error
			"error",    // error returned
		},
	)
}
