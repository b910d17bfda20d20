package domain

import "time"

// ─── Windows ────────────────────────────────────────────────────────────────

// Window is the time range points are summed over for ranking.
type Window string

const (
	WindowAllTime Window = "allTime"
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
)

// Duration returns the window length, or 0 for the all-time window.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowDaily:
		return 24 * time.Hour
	case WindowWeekly:
		return 7 * 24 * time.Hour
	case WindowMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	switch w {
	case WindowAllTime, WindowDaily, WindowWeekly, WindowMonthly:
		return true
	}
	return false
}

// ─── Categories ─────────────────────────────────────────────────────────────

// Category filters a leaderboard to a family of activity types.
type Category string

const (
	CategoryOverall   Category = "overall"
	CategoryQuizzes   Category = "quizzes"
	CategoryGames     Category = "games"
	CategoryCourses   Category = "courses"
	CategoryCommunity Category = "community"
)

// ActivityTypes returns the activity types a category covers.
// The overall category returns nil, meaning no filter.
func (c Category) ActivityTypes() []ActivityType {
	switch c {
	case CategoryQuizzes:
		return []ActivityType{ActivityQuizCompletion}
	case CategoryGames:
		return []ActivityType{ActivityGameCompletion}
	case CategoryCourses:
		return []ActivityType{ActivityCourseProgress, ActivityCourseCompletion}
	case CategoryCommunity:
		return []ActivityType{ActivityForumPost, ActivityForumReply, ActivityEventAttendance}
	}
	return nil
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryOverall, CategoryQuizzes, CategoryGames, CategoryCourses, CategoryCommunity:
		return true
	}
	return false
}

// ─── Entries ────────────────────────────────────────────────────────────────

// LeaderboardEntry is one ranked row. Entries are derived on demand, never
// persisted. Every entry except the requesting caller's own is anonymized:
// DisplayName is a positional pseudonym and UserID is blank.
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"user_id,omitempty"`
	DisplayName   string  `json:"display_name"`
	Points        int64   `json:"points"`
	Level         int     `json:"level"`
	ActivityCount int64   `json:"activity_count"`
	AverageScore  float64 `json:"average_score,omitempty"`
	IsCurrentUser bool    `json:"is_current_user,omitempty"`
}

// Position answers "where do I rank" for a user, including users outside
// the visible top-N.
type Position struct {
	UserID            string  `json:"user_id"`
	Rank              int     `json:"rank"`
	Points            int64   `json:"points"`
	TotalParticipants int     `json:"total_participants"`
	Percentile        float64 `json:"percentile"`
}

// UserWindowTotal is the raw per-user aggregate a leaderboard is ranked
// from: points and activity count within the window, plus the tie-break
// registration time.
type UserWindowTotal struct {
	UserID        string
	DisplayName   string
	Points        int64
	ActivityCount int64
	AverageScore  float64
	Level         int
	RegisteredAt  time.Time
}
