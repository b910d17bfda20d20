package points

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/heritageworks/engage/internal/domain"
	"github.com/heritageworks/engage/internal/infra/metrics"
)

// ─── Leaderboard Aggregator ─────────────────────────────────────────────────
// Ranks users over a time window and category. Reads never lock against
// concurrent awards; a rank computed a moment before an award lands is
// acceptable and expected.

// DefaultLimit is the top-N size when the caller does not ask for one.
const DefaultLimit = 10

// MaxLimit caps the top-N size.
const MaxLimit = 100

// leaderboardStore is the read-side slice of the store the aggregator needs.
type leaderboardStore interface {
	domain.ActivityStore
	domain.ProfileStore
}

// LeaderboardService computes ranked, anonymized leaderboards.
type LeaderboardService struct {
	store        leaderboardStore
	now          func() time.Time
	defaultLimit int
}

// NewLeaderboardService creates a leaderboard aggregator.
func NewLeaderboardService(store leaderboardStore) *LeaderboardService {
	return &LeaderboardService{store: store, now: time.Now, defaultLimit: DefaultLimit}
}

// SetDefaultLimit overrides the top-N size used when callers do not ask
// for one. Non-positive values are ignored.
func (s *LeaderboardService) SetDefaultLimit(n int) {
	if n > 0 {
		s.defaultLimit = n
	}
}

// LeaderboardQuery selects a window, category and size, plus the viewer
// whose own entry is rendered with real identity.
type LeaderboardQuery struct {
	Window   domain.Window
	Category domain.Category
	Limit    int
	ViewerID string // empty = fully anonymized board
}

// Top returns the ranked top-N for a window and category.
//
// Ranking rule: points descending. Ties break deterministically by higher
// activity count in the window, then earlier profile registration, then
// user id — never by map or aggregation order. Every entry except the
// viewer's own is anonymized to a positional "Player N" pseudonym.
func (s *LeaderboardService) Top(ctx context.Context, q LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	start := time.Now()
	totals, err := s.totals(ctx, q.Window, q.Category)
	if err != nil {
		return nil, err
	}
	rankTotals(totals)

	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if len(totals) > limit {
		totals = totals[:limit]
	}

	entries := make([]domain.LeaderboardEntry, len(totals))
	for i, t := range totals {
		e := domain.LeaderboardEntry{
			Rank:          i + 1,
			Points:        t.Points,
			Level:         t.Level,
			ActivityCount: t.ActivityCount,
			AverageScore:  t.AverageScore,
		}
		if q.ViewerID != "" && t.UserID == q.ViewerID {
			e.UserID = t.UserID
			e.DisplayName = displayName(t)
			e.IsCurrentUser = true
		} else {
			e.DisplayName = fmt.Sprintf("Player %d", i+1)
		}
		entries[i] = e
	}

	metrics.LeaderboardQueries.WithLabelValues(string(q.Window), string(q.Category)).Inc()
	metrics.LeaderboardDuration.Observe(time.Since(start).Seconds())
	return entries, nil
}

// Position returns a user's rank, field size and percentile for a window
// and category, even when the user falls outside any top-N: the rank is the
// number of participants strictly ahead, plus one.
func (s *LeaderboardService) Position(ctx context.Context, userID string, window domain.Window, category domain.Category) (*domain.Position, error) {
	totals, err := s.totals(ctx, window, category)
	if err != nil {
		return nil, err
	}

	var mine *domain.UserWindowTotal
	for i := range totals {
		if totals[i].UserID == userID {
			mine = &totals[i]
			break
		}
	}
	if mine == nil {
		// No activity in the window. A user with a profile still gets a
		// position at the bottom of the field; an unknown user is an error.
		profile, err := s.store.LoadProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		totals = append(totals, domain.UserWindowTotal{
			UserID:       profile.UserID,
			Level:        profile.Level,
			RegisteredAt: profile.CreatedAt,
		})
		mine = &totals[len(totals)-1]
	}

	ahead := 0
	for i := range totals {
		if totals[i].UserID != mine.UserID && aheadOf(totals[i], *mine) {
			ahead++
		}
	}

	total := len(totals)
	rank := ahead + 1
	percentile := 0.0
	if total > 1 {
		percentile = float64(total-rank) / float64(total-1) * 100.0
	}

	return &domain.Position{
		UserID:            userID,
		Rank:              rank,
		Points:            mine.Points,
		TotalParticipants: total,
		Percentile:        percentile,
	}, nil
}

// totals loads raw per-user aggregates for one window and category.
// The all-time window ranks stored profile totals (bonuses included);
// bounded windows fold the activity ledger.
func (s *LeaderboardService) totals(ctx context.Context, window domain.Window, category domain.Category) ([]domain.UserWindowTotal, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidWindow, window)
	}
	if category == "" {
		category = domain.CategoryOverall
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}

	if window == domain.WindowAllTime && category == domain.CategoryOverall {
		return s.store.AllTimeTotals(ctx)
	}

	since := time.Time{}
	if d := window.Duration(); d > 0 {
		since = s.now().Add(-d)
	}
	return s.store.WindowTotals(ctx, since, category.ActivityTypes())
}

// rankTotals sorts aggregates into final rank order.
func rankTotals(totals []domain.UserWindowTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return aheadOf(totals[i], totals[j])
	})
}

// aheadOf reports whether a ranks strictly ahead of b.
func aheadOf(a, b domain.UserWindowTotal) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.ActivityCount != b.ActivityCount {
		return a.ActivityCount > b.ActivityCount
	}
	if !a.RegisteredAt.Equal(b.RegisteredAt) {
		return a.RegisteredAt.Before(b.RegisteredAt)
	}
	return a.UserID < b.UserID
}

func displayName(t domain.UserWindowTotal) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.UserID
}
