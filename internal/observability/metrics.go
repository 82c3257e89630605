package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"svw.info/salvo/internal/ports"
)

var (
	// estimateTotal counts estimator calls by operation and result
	estimateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salvo",
		Subsystem: "search",
		Name:      "estimate_total",
		Help:      "Total estimator calls by operation and result",
	}, []string{"operation", "result"})

	estimateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "salvo",
		Subsystem: "search",
		Name:      "estimate_duration_seconds",
		Help:      "Estimator latency in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	}, []string{"operation"})

	// listed and accepted track joint search effort per call
	searchListed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "salvo",
		Subsystem: "search",
		Name:      "listed_candidates",
		Help:      "Candidate placements listed per joint search",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 10),
	})

	searchAccepted = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "salvo",
		Subsystem: "search",
		Name:      "accepted_arrangements",
		Help:      "Complete arrangements accepted per joint search",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	searchTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salvo",
		Subsystem: "search",
		Name:      "truncated_total",
		Help:      "Joint searches stopped by the node ceiling",
	})

	fallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salvo",
		Subsystem: "search",
		Name:      "fallback_total",
		Help:      "Recommendations that fell back to the independent estimator",
	})
)

// ObserveEstimate records one estimator call.
func ObserveEstimate(operation string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	estimateTotal.WithLabelValues(operation, result).Inc()
	estimateDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveSearch records the effort counters of a joint search.
func ObserveSearch(st ports.Stats) {
	searchListed.Observe(float64(st.Listed))
	searchAccepted.Observe(float64(st.Accepted))
	if st.Truncated {
		searchTruncated.Inc()
	}
}

func ObserveFallback() { fallbackTotal.Inc() }
