package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "workout_planner"

var (
	generationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_total",
		Help:      "Plan generation attempts by terminal outcome.",
	}, []string{"outcome"})
	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Latency of calls to the plan generation collaborator.",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
	})
	workcardsExpanded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workcards_expanded_total",
		Help:      "Workcards returned by plan expansion, split by whether an existing batch was reused.",
	}, []string{"reused"})
	workcardsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workcards_submitted_total",
		Help:      "Workcard submissions, split by whether the call replayed an earlier submit.",
	}, []string{"replay"})
	cascadeDeleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deleted_total",
		Help:      "Documents removed by cascade deletion per collection.",
	}, []string{"collection"})
)

func init() {
	prometheus.MustRegister(generationTotal, generationDuration, workcardsExpanded, workcardsSubmitted, cascadeDeleted)
}

// RecordGeneration counts one finished generation attempt and its latency.
func RecordGeneration(outcome string, elapsed time.Duration) {
	generationTotal.WithLabelValues(outcome).Inc()
	generationDuration.Observe(elapsed.Seconds())
}

// RecordExpansion counts the workcards handed back by one expansion.
func RecordExpansion(count int, reused bool) {
	if count <= 0 {
		return
	}
	workcardsExpanded.WithLabelValues(strconv.FormatBool(reused)).Add(float64(count))
}

// RecordSubmission counts one submit call.
func RecordSubmission(replay bool) {
	workcardsSubmitted.WithLabelValues(strconv.FormatBool(replay)).Inc()
}

// RecordCascadeDeleted counts documents removed from one collection.
func RecordCascadeDeleted(collection string, n int64) {
	if n <= 0 {
		return
	}
	cascadeDeleted.WithLabelValues(collection).Add(float64(n))
}
