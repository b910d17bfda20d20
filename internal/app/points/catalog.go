package points

import "github.com/heritageworks/engage/internal/domain"

// ─── Built-in Achievement Catalog ───────────────────────────────────────────
// Seeded into the registry store on first open. Provisioning and retirement
// of definitions beyond this seed is an external administrative concern; the
// engine only ever reads the registry.

// DefaultCatalog returns the built-in achievement definitions.
func DefaultCatalog() []domain.AchievementDefinition {
	return []domain.AchievementDefinition{
		// ── Getting started ────────────────────────────────────────────
		{
			ID: "first_steps", Name: "First Steps",
			Description: "Complete your first activity.",
			Criteria:    domain.CriteriaActivityCount, Threshold: 1,
			Points: 10, Rarity: domain.RarityCommon, Active: true,
		},
		{
			ID: "getting_curious", Name: "Getting Curious",
			Description: "Complete 10 activities.",
			Criteria:    domain.CriteriaActivityCount, Threshold: 10,
			Points: 25, Rarity: domain.RarityCommon, Active: true,
		},
		{
			ID: "regular_visitor", Name: "Regular Visitor",
			Description: "Complete 50 activities.",
			Criteria:    domain.CriteriaActivityCount, Threshold: 50,
			Points: 75, Rarity: domain.RarityUncommon, Active: true,
		},
		{
			ID: "devoted_patron", Name: "Devoted Patron",
			Description: "Complete 250 activities.",
			Criteria:    domain.CriteriaActivityCount, Threshold: 250,
			Points: 200, Rarity: domain.RarityRare, Active: true,
		},

		// ── Quizzes ────────────────────────────────────────────────────
		{
			ID: "quiz_novice", Name: "Quiz Novice",
			Description: "Complete 5 quizzes.",
			Criteria:    domain.CriteriaCategoryCount, Threshold: 5,
			Category:    string(domain.ActivityQuizCompletion),
			Points:      30, Rarity: domain.RarityCommon, Active: true,
		},
		{
			ID: "quiz_master", Name: "Quiz Master",
			Description: "Complete 25 quizzes.",
			Criteria:    domain.CriteriaCategoryCount, Threshold: 25,
			Category:    string(domain.ActivityQuizCompletion),
			Points:      100, Rarity: domain.RarityRare, Active: true,
		},
		{
			ID: "sharp_mind", Name: "Sharp Mind",
			Description: "Maintain an average score of 90 or better.",
			Criteria:    domain.CriteriaScoreAverage, Threshold: 90,
			Points:      150, Rarity: domain.RarityEpic, Active: true,
		},

		// ── Courses ────────────────────────────────────────────────────
		{
			ID: "first_course", Name: "Graduate",
			Description: "Finish your first course.",
			Criteria:    domain.CriteriaCategoryCount, Threshold: 1,
			Category:    string(domain.ActivityCourseCompletion),
			Points:      50, Rarity: domain.RarityUncommon, Active: true,
		},
		{
			ID: "scholar", Name: "Scholar",
			Description: "Finish 10 courses.",
			Criteria:    domain.CriteriaCategoryCount, Threshold: 10,
			Category:    string(domain.ActivityCourseCompletion),
			Points:      250, Rarity: domain.RarityEpic, Active: true,
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_7", Name: "Week Warrior",
			Description: "Be active 7 days in a row.",
			Criteria:    domain.CriteriaStreakLength, Threshold: 7,
			Points:      60, Rarity: domain.RarityUncommon, Active: true,
		},
		{
			ID: "streak_30", Name: "Monthly Devotee",
			Description: "Be active 30 days in a row.",
			Criteria:    domain.CriteriaStreakLength, Threshold: 30,
			Points:      250, Rarity: domain.RarityEpic, Active: true,
		},
		{
			ID: "streak_100", Name: "Centurion",
			Description: "Be active 100 days in a row.",
			Criteria:    domain.CriteriaStreakLength, Threshold: 100,
			Points:      1000, Rarity: domain.RarityLegendary, Active: true,
		},
		{
			ID: "fortnight_best", Name: "Fortnight Force",
			Description: "Reach a longest streak of 14 days.",
			Criteria:    domain.CriteriaLongestStreak, Threshold: 14,
			Points:      100, Rarity: domain.RarityRare, Active: true,
		},

		// ── Progression ────────────────────────────────────────────────
		{
			ID: "level_5", Name: "Rising Star",
			Description: "Reach level 5.",
			Criteria:    domain.CriteriaLevel, Threshold: 5,
			Points:      50, Rarity: domain.RarityUncommon, Active: true,
		},
		{
			ID: "level_10", Name: "Seasoned Explorer",
			Description: "Reach level 10.",
			Criteria:    domain.CriteriaLevel, Threshold: 10,
			Points:      150, Rarity: domain.RarityRare, Active: true,
		},
		{
			ID: "points_10000", Name: "Point Collector",
			Description: "Accumulate 10,000 points.",
			Criteria:    domain.CriteriaTotalPoints, Threshold: 10000,
			Points:      300, Rarity: domain.RarityEpic, Active: true,
		},

		// ── Community ──────────────────────────────────────────────────
		{
			ID: "first_post", Name: "Voice Heard",
			Description: "Write your first forum post.",
			Criteria:    domain.CriteriaCategoryCount, Threshold: 1,
			Category:    string(domain.ActivityForumPost),
			Points:      15, Rarity: domain.RarityCommon, Active: true,
		},
		{
			ID: "event_goer", Name: "Event Goer",
			Description: "Attend 5 museum events.",
			Criteria:    domain.CriteriaCategoryCount, Threshold: 5,
			Category:    string(domain.ActivityEventAttendance),
			Points:      80, Rarity: domain.RarityUncommon, Active: true,
		},
	}
}
