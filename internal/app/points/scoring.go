// Package points implements the scoring, leveling, achievement and
// leaderboard engine. The scoring, level, streak and rule-evaluation
// functions are pure; only the Award and Leaderboard services touch storage.
package points

import (
	"fmt"
	"math"

	"github.com/heritageworks/engage/internal/domain"
)

// ─── Base Point Table ───────────────────────────────────────────────────────
// Closed, compile-time mapping from activity type to base value. Unknown
// types score 0 — not an error, so novel event types never crash scoring.

var basePoints = map[domain.ActivityType]int{
	domain.ActivityDailyLogin:       5,
	domain.ActivityQuizCompletion:   50,
	domain.ActivityGameCompletion:   60,
	domain.ActivityCourseProgress:   20,
	domain.ActivityCourseCompletion: 150,
	domain.ActivityGoalCompleted:    100,
	domain.ActivityExhibitVisit:     15,
	domain.ActivityArtifactReview:   25,
	domain.ActivityEventAttendance:  30,
	domain.ActivityForumPost:        10,
	domain.ActivityForumReply:       5,
}

// BasePoints returns the unmodified point value for an activity type,
// 0 for unrecognized types.
func BasePoints(t domain.ActivityType) int {
	return basePoints[t]
}

// ─── Multipliers ────────────────────────────────────────────────────────────

// difficultyMultipliers is the ordinal difficulty scale.
var difficultyMultipliers = map[string]float64{
	"beginner":     1.0,
	"intermediate": 1.2,
	"advanced":     1.5,
	"expert":       2.0,
}

// performanceMultiplier bands a 0–100 score. Out-of-range values clamp to
// the nearest band rather than erroring.
func performanceMultiplier(score float64) float64 {
	switch {
	case score < 50:
		return 0.8
	case score < 70:
		return 1.0
	case score < 90:
		return 1.2
	default:
		return 1.5
	}
}

// streakMultiplier bands consecutive activity days.
func streakMultiplier(days float64) float64 {
	switch {
	case days < 7:
		return 1.0
	case days < 14:
		return 1.1
	case days < 21:
		return 1.2
	case days < 30:
		return 1.3
	default:
		return 1.5
	}
}

// ─── Scoring Function ───────────────────────────────────────────────────────

// Score computes the points for one activity. Pure and deterministic: no
// side effects, no I/O, identical output for identical input.
//
// Multiplier composition is multiplicative and order-independent: the
// composite starts at 1.0 and each present multiplier is multiplied in.
// Missing metadata fields default to 1.0; adversarial values clamp so the
// result is never negative.
func Score(t domain.ActivityType, meta domain.Metadata) (int64, domain.Breakdown) {
	base := basePoints[t]
	bd := domain.Breakdown{BasePoints: base, Multiplier: 1.0}

	composite := 1.0
	apply := func(label string, m float64) {
		if m < 0 {
			m = 0
		}
		composite *= m
		if m != 1.0 {
			bd.Bonuses = append(bd.Bonuses, domain.Bonus{Label: label, Multiplier: m})
		}
	}

	if diff, ok := meta.String("difficulty"); ok {
		if m, known := difficultyMultipliers[diff]; known && m != 1.0 {
			apply(fmt.Sprintf("difficulty: %s", diff), m)
		}
	}

	if score, ok := meta.Number("score"); ok {
		if m := performanceMultiplier(score); m != 1.0 {
			apply(fmt.Sprintf("performance: %d%%", int(clampScore(score))), m)
		}
	}

	// Time bonus: finished in 80% of the expected time or less.
	if completion, ok := meta.Number("completionTime"); ok {
		if expected, ok := meta.Number("expectedTime"); ok && expected > 0 && completion >= 0 {
			if completion <= 0.8*expected {
				apply("time bonus", 1.3)
			}
		}
	}

	if days, ok := meta.Number("streakDays"); ok && days > 0 {
		if m := streakMultiplier(days); m != 1.0 {
			apply(fmt.Sprintf("streak: %d days", int(days)), m)
		}
	}

	if composite < 0 {
		composite = 0
	}
	bd.Multiplier = composite

	points := int64(math.Round(float64(base) * composite))
	if points < 0 {
		points = 0
	}
	return points, bd
}

// clampScore bounds a performance score to the 0–100 display range.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
