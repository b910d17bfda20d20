package domain

import "time"

// ─── Criteria ───────────────────────────────────────────────────────────────

// CriteriaType selects which field of a UserState an achievement threshold
// is tested against. Criteria are data, not code: the rule engine evaluates
// every criteria type with the same count-vs-threshold comparison.
type CriteriaType string

const (
	// CriteriaActivityCount: total number of awarded activities.
	CriteriaActivityCount CriteriaType = "activity_count"
	// CriteriaCategoryCount: number of activities of a single type
	// (Category names the ActivityType).
	CriteriaCategoryCount CriteriaType = "category_count"
	// CriteriaStreakLength: current consecutive-day streak.
	CriteriaStreakLength CriteriaType = "streak_length"
	// CriteriaLongestStreak: longest consecutive-day streak ever.
	CriteriaLongestStreak CriteriaType = "longest_streak"
	// CriteriaScoreAverage: mean of the "score" metadata over scored
	// activities, 0–100.
	CriteriaScoreAverage CriteriaType = "score_average"
	// CriteriaTotalPoints: lifetime points, pre-bonus for this evaluation.
	CriteriaTotalPoints CriteriaType = "total_points"
	// CriteriaLevel: current level.
	CriteriaLevel CriteriaType = "level"
)

// ─── Rarity ─────────────────────────────────────────────────────────────────

// Rarity is an ordinal scale that sizes the unlock bonus.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Multiplier returns the bonus scaling for a rarity tier.
// Unknown rarities scale 1.0 so externally provisioned definitions with a
// novel tier still award their listed points.
func (r Rarity) Multiplier() float64 {
	switch r {
	case RarityUncommon:
		return 1.25
	case RarityRare:
		return 1.5
	case RarityEpic:
		return 2.0
	case RarityLegendary:
		return 3.0
	}
	return 1.0
}

// ─── Achievement Definition ─────────────────────────────────────────────────

// AchievementDefinition is one declarative achievement criterion.
// Definitions are read-mostly reference data; their lifecycle (provisioning,
// retirement) is managed by an external administrative process.
type AchievementDefinition struct {
	ID          string       `json:"id" toml:"id"`
	Name        string       `json:"name" toml:"name"`
	Description string       `json:"description,omitempty" toml:"description"`
	Criteria    CriteriaType `json:"criteria" toml:"criteria"`
	Threshold   float64      `json:"threshold" toml:"threshold"`
	Category    string       `json:"category,omitempty" toml:"category"`
	Points      int64        `json:"points" toml:"points"`
	Rarity      Rarity       `json:"rarity" toml:"rarity"`
	Active      bool         `json:"active" toml:"active"`
}

// BonusPoints returns the points credited on unlock: the definition's base
// points scaled by rarity.
func (d AchievementDefinition) BonusPoints() int64 {
	return int64(float64(d.Points)*d.Rarity.Multiplier() + 0.5)
}

// EarnedAchievement records one unlock. An (userID, achievementID) pair
// exists at most once across all time.
type EarnedAchievement struct {
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
	BonusPoints   int64     `json:"bonus_points"`
}

// ─── User State ─────────────────────────────────────────────────────────────

// UserState is the cumulative snapshot the rule engine evaluates criteria
// against. It includes the activity being awarded right now, so unlocks take
// effect on the triggering award.
type UserState struct {
	UserID        string
	TotalPoints   int64
	Level         int
	ActivityCount int64
	CountsByType  map[ActivityType]int64
	CurrentStreak int
	LongestStreak int
	AverageScore  float64 // 0 when no activity carried a score
	ScoredCount   int64
	EarnedIDs     map[string]bool
}

// CountFor returns the cumulative count of one activity type.
func (s UserState) CountFor(t ActivityType) int64 {
	if s.CountsByType == nil {
		return 0
	}
	return s.CountsByType[t]
}
