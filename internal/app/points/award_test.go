package points_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/domain"
	"github.com/heritageworks/engage/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ═══════════════════════════════════════════════════════════════════════════
// Award Engine Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAward_FirstActivityCreatesProfile(t *testing.T) {
	db := testDB(t)
	svc := points.NewAwardService(db)
	ctx := context.Background()

	result, err := svc.Award(ctx, points.AwardRequest{
		UserID:       "visitor-1",
		ActivityType: domain.ActivityExhibitVisit,
	})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if result.PointsEarned != 15 {
		t.Errorf("expected 15 points, got %d", result.PointsEarned)
	}

	profile, err := svc.Profile(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalPoints != 15 || profile.Level != 1 {
		t.Errorf("expected 15 points at level 1, got %d/%d", profile.TotalPoints, profile.Level)
	}
	if profile.CurrentStreak != 1 || profile.LongestStreak != 1 {
		t.Errorf("expected streak (1,1), got (%d,%d)", profile.CurrentStreak, profile.LongestStreak)
	}
}

// The worked example end to end: a fresh user completes an advanced quiz at
// score 95. 50 × performance(1.5) × difficulty(1.5) = 113 → level 2.
func TestAward_QuizScenario(t *testing.T) {
	db := testDB(t)
	svc := points.NewAwardService(db)

	result, err := svc.Award(context.Background(), points.AwardRequest{
		UserID:       "scholar-9",
		ActivityType: domain.ActivityQuizCompletion,
		Metadata:     domain.Metadata{"score": 95.0, "difficulty": "advanced"},
	})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if result.PointsEarned != 113 {
		t.Errorf("expected 113 points, got %d", result.PointsEarned)
	}
	if result.TotalPoints != 113 {
		t.Errorf("expected total 113, got %d", result.TotalPoints)
	}
	if result.Level != 2 || !result.LeveledUp {
		t.Errorf("expected level 2 with leveledUp, got %d/%v", result.Level, result.LeveledUp)
	}
}

// The returned totals must include achievement bonuses credited in the same
// award, not the pre-achievement intermediate value.
func TestAward_ResultIncludesAchievementBonus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seed := []domain.AchievementDefinition{{
		ID: "first_steps", Name: "First Steps",
		Criteria: domain.CriteriaActivityCount, Threshold: 1,
		Points: 10, Rarity: domain.RarityCommon, Active: true,
	}}
	if err := db.SeedDefinitions(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := points.NewAwardService(db)
	result, err := svc.Award(ctx, points.AwardRequest{
		UserID:       "scholar-9",
		ActivityType: domain.ActivityQuizCompletion,
		Metadata:     domain.Metadata{"score": 95.0, "difficulty": "advanced"},
	})
	if err != nil {
		t.Fatalf("award: %v", err)
	}

	if len(result.Achievements) != 1 || result.Achievements[0].ID != "first_steps" {
		t.Fatalf("expected first_steps unlock, got %v", result.Achievements)
	}
	if result.AchievementPoints != 10 {
		t.Errorf("expected 10 bonus points, got %d", result.AchievementPoints)
	}
	if result.TotalPoints != 123 {
		t.Errorf("expected final total 123 (113 + 10), got %d", result.TotalPoints)
	}

	// Stored profile matches the returned result.
	profile, err := svc.Profile(ctx, "scholar-9")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalPoints != result.TotalPoints {
		t.Errorf("stored total %d != returned total %d", profile.TotalPoints, result.TotalPoints)
	}
	if !profile.HasAchievement("first_steps") {
		t.Errorf("unlock not recorded on profile")
	}
}

// An achievement is earned at most once, no matter how often its criterion
// keeps being satisfied.
func TestAward_AchievementNeverReawarded(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seed := []domain.AchievementDefinition{{
		ID: "first_steps", Name: "First Steps",
		Criteria: domain.CriteriaActivityCount, Threshold: 1,
		Points: 10, Rarity: domain.RarityCommon, Active: true,
	}}
	if err := db.SeedDefinitions(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := points.NewAwardService(db)
	for i := 0; i < 5; i++ {
		result, err := svc.Award(ctx, points.AwardRequest{
			UserID:       "repeat-user",
			ActivityType: domain.ActivityForumReply,
		})
		if err != nil {
			t.Fatalf("award %d: %v", i, err)
		}
		if i > 0 && len(result.Achievements) != 0 {
			t.Errorf("award %d re-returned achievements: %v", i, result.Achievements)
		}
	}

	profile, _ := svc.Profile(ctx, "repeat-user")
	if len(profile.Earned) != 1 {
		t.Errorf("expected exactly 1 unlock, got %d", len(profile.Earned))
	}
}

func TestAward_DuplicateEventRejected(t *testing.T) {
	db := testDB(t)
	svc := points.NewAwardService(db)
	ctx := context.Background()

	req := points.AwardRequest{
		UserID:       "visitor-2",
		ActivityType: domain.ActivityQuizCompletion,
		EventID:      "event-abc",
	}
	if _, err := svc.Award(ctx, req); err != nil {
		t.Fatalf("first award: %v", err)
	}

	_, err := svc.Award(ctx, req)
	if !errors.Is(err, domain.ErrDuplicateEvent) {
		t.Fatalf("expected ErrDuplicateEvent, got %v", err)
	}

	// The duplicate must not have credited anything.
	profile, _ := svc.Profile(ctx, "visitor-2")
	if profile.TotalPoints != 50 || profile.ActivityCount != 1 {
		t.Errorf("duplicate changed state: %d points, %d activities",
			profile.TotalPoints, profile.ActivityCount)
	}
}

func TestAward_EmptyUserRejected(t *testing.T) {
	svc := points.NewAwardService(testDB(t))
	_, err := svc.Award(context.Background(), points.AwardRequest{
		ActivityType: domain.ActivityDailyLogin,
	})
	if !errors.Is(err, domain.ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
}

func TestAward_StreakAcrossDays(t *testing.T) {
	db := testDB(t)
	svc := points.NewAwardService(db)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.Award(ctx, points.AwardRequest{
			UserID:       "streaker",
			ActivityType: domain.ActivityDailyLogin,
			Timestamp:    base.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("award day %d: %v", i, err)
		}
	}

	profile, _ := svc.Profile(ctx, "streaker")
	if profile.CurrentStreak != 3 || profile.LongestStreak != 3 {
		t.Errorf("expected streak (3,3), got (%d,%d)",
			profile.CurrentStreak, profile.LongestStreak)
	}

	// Skip a day: streak resets, longest is retained.
	_, err := svc.Award(ctx, points.AwardRequest{
		UserID:       "streaker",
		ActivityType: domain.ActivityDailyLogin,
		Timestamp:    base.AddDate(0, 0, 4),
	})
	if err != nil {
		t.Fatalf("award after gap: %v", err)
	}
	profile, _ = svc.Profile(ctx, "streaker")
	if profile.CurrentStreak != 1 || profile.LongestStreak != 3 {
		t.Errorf("expected streak (1,3) after gap, got (%d,%d)",
			profile.CurrentStreak, profile.LongestStreak)
	}
}

// A backfilled event carries a past event time. It may extend history but
// must never regress the stored current streak.
func TestAward_BackdatedEventKeepsStreak(t *testing.T) {
	db := testDB(t)
	svc := points.NewAwardService(db)
	ctx := context.Background()

	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		if _, err := svc.Award(ctx, points.AwardRequest{
			UserID:       "historian",
			ActivityType: domain.ActivityDailyLogin,
			Timestamp:    base.AddDate(0, 0, i),
		}); err != nil {
			t.Fatalf("award day %d: %v", i, err)
		}
	}

	// A late delivery dated well in the past.
	if _, err := svc.Award(ctx, points.AwardRequest{
		UserID:       "historian",
		ActivityType: domain.ActivityExhibitVisit,
		Timestamp:    base.AddDate(0, 0, -40),
	}); err != nil {
		t.Fatalf("backdated award: %v", err)
	}

	profile, err := svc.Profile(ctx, "historian")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.CurrentStreak != 2 || profile.LongestStreak != 2 {
		t.Errorf("backdated event changed streak: got (%d,%d), want (2,2)",
			profile.CurrentStreak, profile.LongestStreak)
	}
}

// Reconciliation invariant: after any sequence of awards, including
// concurrent ones, the profile total equals the sum of activity points plus
// the sum of unlock bonuses.
func TestAward_ConcurrentReconciliation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seed := []domain.AchievementDefinition{
		{
			ID: "five", Name: "Five",
			Criteria: domain.CriteriaActivityCount, Threshold: 5,
			Points: 40, Rarity: domain.RarityUncommon, Active: true,
		},
		{
			ID: "ten", Name: "Ten",
			Criteria: domain.CriteriaActivityCount, Threshold: 10,
			Points: 100, Rarity: domain.RarityRare, Active: true,
		},
	}
	if err := db.SeedDefinitions(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := points.NewAwardService(db)
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Award(ctx, points.AwardRequest{
				UserID:       "contended",
				ActivityType: domain.ActivityForumPost,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent award: %v", err)
		}
	}

	profile, err := svc.Profile(ctx, "contended")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	records, err := svc.Activities(ctx, "contended", time.Time{})
	if err != nil {
		t.Fatalf("activities: %v", err)
	}

	if len(records) != workers {
		t.Fatalf("expected %d records, got %d", workers, len(records))
	}

	var ledger int64
	for _, rec := range records {
		ledger += rec.PointsEarned
	}
	for _, e := range profile.Earned {
		ledger += e.BonusPoints
	}
	if profile.TotalPoints != ledger {
		t.Errorf("reconciliation broken: profile %d != ledger %d",
			profile.TotalPoints, ledger)
	}
	if profile.ActivityCount != workers {
		t.Errorf("expected activity count %d, got %d", workers, profile.ActivityCount)
	}
	// Both threshold achievements unlocked exactly once.
	if len(profile.Earned) != 2 {
		t.Errorf("expected 2 unlocks, got %d (%v)", len(profile.Earned), profile.Earned)
	}
}

// The streak multiplier falls back to the profile's current streak when the
// caller does not report streakDays.
func TestAward_StreakMultiplierFromProfile(t *testing.T) {
	db := testDB(t)
	svc := points.NewAwardService(db)
	ctx := context.Background()

	// Build a 7-day streak, then award once more on the last day.
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if _, err := svc.Award(ctx, points.AwardRequest{
			UserID:       "devotee",
			ActivityType: domain.ActivityDailyLogin,
			Timestamp:    base.AddDate(0, 0, i),
		}); err != nil {
			t.Fatalf("award day %d: %v", i, err)
		}
	}

	result, err := svc.Award(ctx, points.AwardRequest{
		UserID:       "devotee",
		ActivityType: domain.ActivityQuizCompletion,
		Timestamp:    base.AddDate(0, 0, 6).Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if result.PointsEarned != 55 { // 50 × 1.1 (7-day streak band)
		t.Errorf("expected 55 points with streak multiplier, got %d", result.PointsEarned)
	}
}

func TestProfile_NotFound(t *testing.T) {
	svc := points.NewAwardService(testDB(t))
	_, err := svc.Profile(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
