package points_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/domain"
)

// award is a fixture shorthand for crediting one activity.
func award(t *testing.T, svc *points.AwardService, userID string, typ domain.ActivityType, ts time.Time, meta domain.Metadata) {
	t.Helper()
	_, err := svc.Award(context.Background(), points.AwardRequest{
		UserID:       userID,
		ActivityType: typ,
		Timestamp:    ts,
		Metadata:     meta,
	})
	if err != nil {
		t.Fatalf("award %s/%s: %v", userID, typ, err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Leaderboard Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestLeaderboard_AllTimeOrdering(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	// alice 100, bob 60, carol 15.
	award(t, awards, "alice", domain.ActivityGoalCompleted, now, nil)
	award(t, awards, "bob", domain.ActivityGameCompletion, now, nil)
	award(t, awards, "carol", domain.ActivityExhibitVisit, now, nil)

	entries, err := boards.Top(context.Background(), points.LeaderboardQuery{
		Window:   domain.WindowAllTime,
		Category: domain.CategoryOverall,
	})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantPoints := []int64{100, 60, 15}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d: rank %d", i, e.Rank)
		}
		if e.Points != wantPoints[i] {
			t.Errorf("entry %d: points %d, want %d", i, e.Points, wantPoints[i])
		}
	}
}

func TestLeaderboard_Anonymization(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	award(t, awards, "alice", domain.ActivityGoalCompleted, now, nil)
	award(t, awards, "bob", domain.ActivityGameCompletion, now, nil)
	award(t, awards, "carol", domain.ActivityExhibitVisit, now, nil)

	// bob views the board: his own entry keeps real identity, the rest
	// are positional pseudonyms with no user id leaked.
	entries, err := boards.Top(context.Background(), points.LeaderboardQuery{
		Window:   domain.WindowAllTime,
		ViewerID: "bob",
	})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	for i, e := range entries {
		if e.UserID == "bob" {
			if !e.IsCurrentUser {
				t.Errorf("viewer entry not flagged")
			}
			continue
		}
		if e.IsCurrentUser {
			t.Errorf("entry %d flagged as current user", i)
		}
		if e.UserID != "" {
			t.Errorf("entry %d leaks user id %q", i, e.UserID)
		}
		if want := fmt.Sprintf("Player %d", i+1); e.DisplayName != want {
			t.Errorf("entry %d: display name %q, want %q", i, e.DisplayName, want)
		}
	}

	// No viewer: everyone is anonymized.
	entries, err = boards.Top(context.Background(), points.LeaderboardQuery{
		Window: domain.WindowAllTime,
	})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	for i, e := range entries {
		if e.UserID != "" || e.IsCurrentUser {
			t.Errorf("entry %d not anonymized: %+v", i, e)
		}
	}
}

// Equal points break by higher activity count, then earlier registration,
// then user id. The order must be stable across reads.
func TestLeaderboard_TieBreaks(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	// busy earns 50 in five forum posts; quick earns 50 in one quiz.
	for i := 0; i < 5; i++ {
		award(t, awards, "busy", domain.ActivityForumPost, now.Add(time.Duration(i)*time.Minute), nil)
	}
	award(t, awards, "quick", domain.ActivityQuizCompletion, now, nil)

	for run := 0; run < 3; run++ {
		entries, err := boards.Top(context.Background(), points.LeaderboardQuery{
			Window:   domain.WindowAllTime,
			ViewerID: "busy",
		})
		if err != nil {
			t.Fatalf("top: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Points != entries[1].Points {
			t.Fatalf("fixture broken: points differ %d/%d", entries[0].Points, entries[1].Points)
		}
		if entries[0].UserID != "busy" {
			t.Errorf("run %d: higher activity count should rank first", run)
		}
	}
}

func TestLeaderboard_Windows(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	award(t, awards, "recent", domain.ActivityQuizCompletion, now.Add(-time.Hour), nil)
	award(t, awards, "lastweek", domain.ActivityQuizCompletion, now.Add(-5*24*time.Hour), nil)
	award(t, awards, "lastyear", domain.ActivityQuizCompletion, now.Add(-300*24*time.Hour), nil)

	cases := []struct {
		window domain.Window
		want   int
	}{
		{domain.WindowDaily, 1},
		{domain.WindowWeekly, 2},
		{domain.WindowMonthly, 2},
		{domain.WindowAllTime, 3},
	}
	for _, tc := range cases {
		entries, err := boards.Top(context.Background(), points.LeaderboardQuery{Window: tc.window})
		if err != nil {
			t.Fatalf("%s: %v", tc.window, err)
		}
		if len(entries) != tc.want {
			t.Errorf("%s: expected %d entries, got %d", tc.window, tc.want, len(entries))
		}
	}
}

func TestLeaderboard_CategoryFilter(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	award(t, awards, "quizzer", domain.ActivityQuizCompletion, now, nil)
	award(t, awards, "poster", domain.ActivityForumPost, now, nil)
	award(t, awards, "learner", domain.ActivityCourseCompletion, now, nil)

	entries, err := boards.Top(context.Background(), points.LeaderboardQuery{
		Window:   domain.WindowAllTime,
		Category: domain.CategoryQuizzes,
		ViewerID: "quizzer",
	})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "quizzer" {
		t.Errorf("quizzes category: expected only quizzer, got %+v", entries)
	}

	entries, err = boards.Top(context.Background(), points.LeaderboardQuery{
		Window:   domain.WindowAllTime,
		Category: domain.CategoryCommunity,
		ViewerID: "poster",
	})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "poster" {
		t.Errorf("community category: expected only poster, got %+v", entries)
	}
}

func TestLeaderboard_LimitTruncates(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		award(t, awards, fmt.Sprintf("user-%d", i), domain.ActivityDailyLogin, now, nil)
	}

	entries, err := boards.Top(context.Background(), points.LeaderboardQuery{
		Window: domain.WindowAllTime,
		Limit:  2,
	})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}

	// A configured default applies when the caller asks for nothing.
	boards.SetDefaultLimit(3)
	entries, err = boards.Top(context.Background(), points.LeaderboardQuery{
		Window: domain.WindowAllTime,
	})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected configured default of 3 entries, got %d", len(entries))
	}
}

func TestLeaderboard_InvalidInputs(t *testing.T) {
	boards := points.NewLeaderboardService(testDB(t))

	_, err := boards.Top(context.Background(), points.LeaderboardQuery{Window: "fortnightly"})
	if !errors.Is(err, domain.ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}

	_, err = boards.Top(context.Background(), points.LeaderboardQuery{
		Window:   domain.WindowAllTime,
		Category: "sports",
	})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestPosition_RankAndPercentile(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	// gold 100, silver 60, bronze 15.
	award(t, awards, "gold", domain.ActivityGoalCompleted, now, nil)
	award(t, awards, "silver", domain.ActivityGameCompletion, now, nil)
	award(t, awards, "bronze", domain.ActivityExhibitVisit, now, nil)

	pos, err := boards.Position(context.Background(), "silver", domain.WindowAllTime, domain.CategoryOverall)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if pos.Rank != 2 || pos.TotalParticipants != 3 {
		t.Errorf("expected rank 2 of 3, got %d of %d", pos.Rank, pos.TotalParticipants)
	}
	if pos.Points != 60 {
		t.Errorf("expected 60 points, got %d", pos.Points)
	}
	if pos.Percentile != 50.0 {
		t.Errorf("expected percentile 50, got %g", pos.Percentile)
	}
}

// A user outside the visible top-N still gets an exact position.
func TestPosition_BeyondTopN(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	for i := 0; i < 12; i++ {
		award(t, awards, fmt.Sprintf("leader-%02d", i), domain.ActivityGoalCompleted, now, nil)
	}
	award(t, awards, "straggler", domain.ActivityForumReply, now, nil) // 5 points

	entries, err := boards.Top(context.Background(), points.LeaderboardQuery{Window: domain.WindowAllTime})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != points.DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", points.DefaultLimit, len(entries))
	}

	pos, err := boards.Position(context.Background(), "straggler", domain.WindowAllTime, domain.CategoryOverall)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if pos.Rank != 13 || pos.TotalParticipants != 13 {
		t.Errorf("expected rank 13 of 13, got %d of %d", pos.Rank, pos.TotalParticipants)
	}
	if pos.Percentile != 0.0 {
		t.Errorf("expected percentile 0, got %g", pos.Percentile)
	}
}

// A registered user with no activity in the window ranks at the bottom of
// the field instead of erroring; an unknown user errors.
func TestPosition_NoWindowActivity(t *testing.T) {
	db := testDB(t)
	awards := points.NewAwardService(db)
	boards := points.NewLeaderboardService(db)
	now := time.Now().UTC()

	award(t, awards, "active", domain.ActivityQuizCompletion, now, nil)
	award(t, awards, "dormant", domain.ActivityQuizCompletion, now.Add(-10*24*time.Hour), nil)

	pos, err := boards.Position(context.Background(), "dormant", domain.WindowDaily, domain.CategoryOverall)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if pos.Rank != 2 || pos.TotalParticipants != 2 {
		t.Errorf("expected rank 2 of 2, got %d of %d", pos.Rank, pos.TotalParticipants)
	}
	if pos.Points != 0 {
		t.Errorf("expected 0 window points, got %d", pos.Points)
	}

	_, err = boards.Position(context.Background(), "ghost", domain.WindowAllTime, domain.CategoryOverall)
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}
