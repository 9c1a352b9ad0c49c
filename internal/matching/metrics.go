package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

var (
	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommates_likes_total",
			Help: "Total number of likes recorded",
		},
		[]string{"target_type"},
	)

	duplicateLikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roommates_duplicate_likes_total",
			Help: "Likes rejected because the edge already existed",
		},
	)

	rateLimitedLikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roommates_rate_limited_likes_total",
			Help: "Likes rejected by the per-user rate limit",
		},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roommates_matches_total",
			Help: "Total number of matches created",
		},
	)

	reconcileRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommates_match_reconcile_repairs_total",
			Help: "Match records repaired by the reconciler",
		},
		[]string{"kind"},
	)

	candidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roommates_candidates_returned",
			Help:    "Number of candidates returned per request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

func RecordLike(targetType models.TargetType) {
	likesTotal.WithLabelValues(string(targetType)).Inc()
}

func RecordDuplicateLike() {
	duplicateLikesTotal.Inc()
}

func RecordRateLimitedLike() {
	rateLimitedLikesTotal.Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

func RecordReconcileRepair(kind string, n int) {
	if n > 0 {
		reconcileRepairs.WithLabelValues(kind).Add(float64(n))
	}
}

func RecordCandidates(n int) {
	candidatesReturned.Observe(float64(n))
}
