// Package domain holds the core types of the engagement engine:
// score profiles, activity records, achievements, and leaderboards.
// Domain types are pure — no infrastructure dependency.
package domain

import "time"

// ─── Activity Types ─────────────────────────────────────────────────────────

// ActivityType tags a discrete, timestamped user action eligible for points.
// The set is open-ended: unknown types score 0 base points rather than
// failing, so callers may report exploratory activity types safely.
type ActivityType string

const (
	ActivityDailyLogin       ActivityType = "DAILY_LOGIN"
	ActivityQuizCompletion   ActivityType = "QUIZ_COMPLETION"
	ActivityGameCompletion   ActivityType = "GAME_COMPLETION"
	ActivityCourseProgress   ActivityType = "COURSE_PROGRESS"
	ActivityCourseCompletion ActivityType = "COURSE_COMPLETION"
	ActivityGoalCompleted    ActivityType = "GOAL_COMPLETED"
	ActivityExhibitVisit     ActivityType = "EXHIBIT_VISIT"
	ActivityArtifactReview   ActivityType = "ARTIFACT_REVIEW"
	ActivityEventAttendance  ActivityType = "EVENT_ATTENDANCE"
	ActivityForumPost        ActivityType = "FORUM_POST"
	ActivityForumReply       ActivityType = "FORUM_REPLY"
)

// ─── Metadata ───────────────────────────────────────────────────────────────

// Metadata is the opaque key/value bag supplied with an activity event.
// Recognized numeric keys: "score" (0–100), "completionTime", "expectedTime",
// "streakDays". Recognized string keys: "difficulty". Malformed or missing
// fields degrade to neutral multipliers — never an error.
type Metadata map[string]any

// Number extracts a numeric field. JSON decoding produces float64; callers
// constructing Metadata in Go may use any integer or float type.
func (m Metadata) Number(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// String extracts a string field.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ─── Score Breakdown ────────────────────────────────────────────────────────

// Bonus is one named multiplier that contributed to a score.
// Only non-default multipliers are recorded.
type Bonus struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// Breakdown records how an activity's points were computed, for audit and
// UI display. Points == round(BasePoints × Multiplier).
type Breakdown struct {
	BasePoints int     `json:"base_points"`
	Multiplier float64 `json:"multiplier"`
	Bonuses    []Bonus `json:"bonuses,omitempty"`
}

// ─── Score Profile ──────────────────────────────────────────────────────────

// ScoreProfile is the per-user scoring state. It is created zero-valued on a
// user's first activity and mutated only through the Award Engine.
// Invariants: TotalPoints never decreases; Level is always derived from
// TotalPoints; LongestStreak >= CurrentStreak.
type ScoreProfile struct {
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name,omitempty"`
	TotalPoints   int64     `json:"total_points"`
	Level         int       `json:"level"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	ActivityCount int64     `json:"activity_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Version is the optimistic-concurrency token for conditional saves.
	// 0 means the profile has never been persisted.
	Version int64 `json:"version"`

	// Earned holds the user's unlocked achievements, unique per achievement.
	Earned []EarnedAchievement `json:"earned_achievements,omitempty"`
}

// HasAchievement reports whether the profile already earned the achievement.
func (p *ScoreProfile) HasAchievement(id string) bool {
	for _, e := range p.Earned {
		if e.AchievementID == id {
			return true
		}
	}
	return false
}

// EarnedIDs returns the set of earned achievement ids.
func (p *ScoreProfile) EarnedIDs() map[string]bool {
	ids := make(map[string]bool, len(p.Earned))
	for _, e := range p.Earned {
		ids[e.AchievementID] = true
	}
	return ids
}

// ─── Activity Record ────────────────────────────────────────────────────────

// ActivityRecord is the append-only ledger entry for one awarded event.
// Records are immutable after creation; TotalPoints on the profile must
// always reconcile with the sum of PointsEarned plus achievement bonuses.
type ActivityRecord struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	EventID      string       `json:"event_id"` // caller idempotency key
	ActivityType ActivityType `json:"activity_type"`
	Timestamp    time.Time    `json:"timestamp"` // event time, not receipt time
	Metadata     Metadata     `json:"metadata,omitempty"`
	PointsEarned int64        `json:"points_earned"`
	Breakdown    Breakdown    `json:"breakdown"`
}

// ─── Award Result ───────────────────────────────────────────────────────────

// AwardResult is the consolidated outcome of a single Award call.
// TotalPoints and Level are the final values, inclusive of any achievement
// bonuses credited during the same award.
type AwardResult struct {
	UserID            string                  `json:"user_id"`
	PointsEarned      int64                   `json:"points_earned"`
	AchievementPoints int64                   `json:"achievement_points"`
	TotalPoints       int64                   `json:"total_points"`
	Level             int                     `json:"level"`
	LeveledUp         bool                    `json:"leveled_up"`
	CurrentStreak     int                     `json:"current_streak"`
	Achievements      []AchievementDefinition `json:"achievements,omitempty"`
	Breakdown         Breakdown               `json:"breakdown"`
}
