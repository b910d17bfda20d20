// Package metrics provides Prometheus metrics for the engagement engine:
// counters and histograms for awards, points, achievement unlocks, write
// conflicts, and leaderboard queries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Awards ─────────────────────────────────────────────────────────────────

// AwardsTotal counts credited activity events by type.
var AwardsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "engage",
	Name:      "awards_total",
	Help:      "Total credited activity events.",
}, []string{"activity_type"})

// PointsAwarded counts all points granted, achievement bonuses included.
var PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "engage",
	Name:      "points_awarded_total",
	Help:      "Total points granted, including achievement bonuses.",
})

// AwardConflicts counts version conflicts detected during award commits.
var AwardConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "engage",
	Name:      "award_conflicts_total",
	Help:      "Concurrent-update conflicts retried during awards.",
})

// AwardDuration tracks the full award round-trip in seconds.
var AwardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "engage",
	Name:      "award_duration_seconds",
	Help:      "Award call duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementsUnlocked counts unlocks by rarity.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "engage",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievement unlocks.",
}, []string{"rarity"})

// ─── Leaderboards ───────────────────────────────────────────────────────────

// LeaderboardQueries counts leaderboard reads by window and category.
var LeaderboardQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "engage",
	Name:      "leaderboard_queries_total",
	Help:      "Total leaderboard queries.",
}, []string{"window", "category"})

// LeaderboardDuration tracks leaderboard aggregation time in seconds.
var LeaderboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "engage",
	Name:      "leaderboard_duration_seconds",
	Help:      "Leaderboard aggregation duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
})
