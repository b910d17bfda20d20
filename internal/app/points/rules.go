package points

import "github.com/heritageworks/engage/internal/domain"

// ─── Achievement Rule Engine ────────────────────────────────────────────────
// Achievements are data, not code: every criteria type reduces to one
// value-vs-threshold comparison against a field of the user state. The
// engine is pure and structurally idempotent — an id in the earned set can
// never be returned again, and the Award Engine commits returned unlocks
// atomically with point crediting, so there is no check-then-save window.

// Evaluate returns the achievements from the registry that the user state
// newly qualifies for. Inactive definitions and already-earned ids are
// skipped; each returned definition appears at most once. Order follows the
// registry and is not significant.
func Evaluate(state domain.UserState, registry []domain.AchievementDefinition) []domain.AchievementDefinition {
	var unlocked []domain.AchievementDefinition
	returned := make(map[string]bool)

	for _, def := range registry {
		if !def.Active || returned[def.ID] || state.EarnedIDs[def.ID] {
			continue
		}
		if criterionValue(state, def) >= def.Threshold {
			unlocked = append(unlocked, def)
			returned[def.ID] = true
		}
	}
	return unlocked
}

// criterionValue extracts the user-state field a definition's criteria type
// tests. Unknown criteria types yield -inf semantics via a value that can
// never meet a positive threshold.
func criterionValue(state domain.UserState, def domain.AchievementDefinition) float64 {
	switch def.Criteria {
	case domain.CriteriaActivityCount:
		return float64(state.ActivityCount)
	case domain.CriteriaCategoryCount:
		return float64(state.CountFor(domain.ActivityType(def.Category)))
	case domain.CriteriaStreakLength:
		return float64(state.CurrentStreak)
	case domain.CriteriaLongestStreak:
		return float64(state.LongestStreak)
	case domain.CriteriaScoreAverage:
		// An average only counts once the user has scored activities.
		if state.ScoredCount == 0 {
			return -1
		}
		return state.AverageScore
	case domain.CriteriaTotalPoints:
		return float64(state.TotalPoints)
	case domain.CriteriaLevel:
		return float64(state.Level)
	}
	return -1
}

// BuildUserState assembles the cumulative snapshot the rule engine needs
// from a user's full activity history and profile. The records must already
// include the activity being awarded.
func BuildUserState(p *domain.ScoreProfile, records []domain.ActivityRecord) domain.UserState {
	state := domain.UserState{
		UserID:        p.UserID,
		TotalPoints:   p.TotalPoints,
		Level:         p.Level,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		CountsByType:  make(map[domain.ActivityType]int64),
		EarnedIDs:     p.EarnedIDs(),
	}

	var scoreSum float64
	for _, rec := range records {
		state.ActivityCount++
		state.CountsByType[rec.ActivityType]++
		if s, ok := rec.Metadata.Number("score"); ok {
			scoreSum += clampScore(s)
			state.ScoredCount++
		}
	}
	if state.ScoredCount > 0 {
		state.AverageScore = scoreSum / float64(state.ScoredCount)
	}
	return state
}
