package points

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heritageworks/engage/internal/domain"
	"github.com/heritageworks/engage/internal/infra/metrics"
)

// ─── Award Engine ───────────────────────────────────────────────────────────
// Orchestrates one "award points for activity X" request: score the
// activity, append the immutable record, recompute streaks and level,
// evaluate achievement unlocks, and persist everything as a single unit.
//
// Two concurrent awards for the same user must not both read the
// pre-update profile and then both write. Serialization is layered: an
// in-process mutex per user id, plus a version-conditioned commit at the
// store with retry-on-conflict for writers outside this process.

// awardRetries bounds how often a conflicted award is recomputed from a
// fresh read before giving up.
const awardRetries = 3

// AwardRequest is one activity event to credit.
type AwardRequest struct {
	UserID       string              `json:"user_id"`
	DisplayName  string              `json:"display_name,omitempty"`
	ActivityType domain.ActivityType `json:"activity_type"`

	// EventID is the caller's stable idempotency key for this logical
	// event. Retrying a failed award with the same EventID can never
	// double-credit. Generated when empty.
	EventID string `json:"event_id,omitempty"`

	// Timestamp is the event time, not receipt time. Defaults to now.
	Timestamp time.Time       `json:"timestamp,omitempty"`
	Metadata  domain.Metadata `json:"metadata,omitempty"`
}

// AwardService is the only writer of score profiles and activity records.
type AwardService struct {
	store domain.AwardStore
	locks userLocks
}

// NewAwardService creates the award engine on top of a store.
func NewAwardService(store domain.AwardStore) *AwardService {
	return &AwardService{store: store}
}

// Award credits one activity event and returns the consolidated result.
// The returned totals are final — inclusive of achievement bonuses credited
// in the same call. On failure nothing is credited; the caller retries the
// whole call with the same EventID.
func (s *AwardService) Award(ctx context.Context, req AwardRequest) (*domain.AwardResult, error) {
	if req.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}
	if req.EventID == "" {
		req.EventID = uuid.NewString()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	unlock := s.locks.lock(req.UserID)
	defer unlock()

	start := time.Now()
	var result *domain.AwardResult
	var err error
	for attempt := 0; attempt < awardRetries; attempt++ {
		result, err = s.attempt(ctx, req)
		if !errors.Is(err, domain.ErrVersionConflict) {
			break
		}
		metrics.AwardConflicts.Inc()
	}
	if err != nil {
		return nil, err
	}

	metrics.AwardsTotal.WithLabelValues(string(req.ActivityType)).Inc()
	metrics.PointsAwarded.Add(float64(result.PointsEarned + result.AchievementPoints))
	metrics.AwardDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// attempt runs one full award computation from a fresh read. A stale delta
// is never reapplied: a conflicted attempt is discarded wholesale.
func (s *AwardService) attempt(ctx context.Context, req AwardRequest) (*domain.AwardResult, error) {
	profile, err := s.store.LoadProfile(ctx, req.UserID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		profile = newProfile(req)
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}
	expectedVersion := profile.Version
	oldLevel := profile.Level

	// The streak multiplier defaults to the profile's current streak when
	// the caller did not report one.
	meta := req.Metadata
	if _, ok := meta.Number("streakDays"); !ok && profile.CurrentStreak > 0 {
		meta = cloneMeta(meta)
		meta["streakDays"] = float64(profile.CurrentStreak)
	}

	earned, bd := Score(req.ActivityType, meta)

	record := domain.ActivityRecord{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		EventID:      req.EventID,
		ActivityType: req.ActivityType,
		Timestamp:    req.Timestamp,
		Metadata:     req.Metadata,
		PointsEarned: earned,
		Breakdown:    bd,
	}

	history, err := s.store.Activities(ctx, req.UserID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load activity history: %w", err)
	}
	history = append(history, record)

	// The streak is measured as of the newest activity on record, not the
	// incoming event's timestamp: a backfilled event carries a past event
	// time and must never regress the stored current streak.
	asOf := record.Timestamp
	timestamps := make([]time.Time, len(history))
	for i, rec := range history {
		timestamps[i] = rec.Timestamp
		if rec.Timestamp.After(asOf) {
			asOf = rec.Timestamp
		}
	}
	streak := ComputeStreak(timestamps, asOf)

	newTotal := profile.TotalPoints + earned
	profile.TotalPoints = newTotal
	profile.Level = Level(newTotal)
	profile.CurrentStreak = streak.Current
	profile.LongestStreak = streak.Longest
	profile.ActivityCount++
	profile.UpdatedAt = time.Now().UTC()
	if req.DisplayName != "" {
		profile.DisplayName = req.DisplayName
	}

	// Evaluate achievements against the state including this activity.
	registry, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	state := BuildUserState(profile, history)
	unlockedDefs := Evaluate(state, registry)

	var unlocks []domain.EarnedAchievement
	var bonusTotal int64
	for _, def := range unlockedDefs {
		bonus := def.BonusPoints()
		bonusTotal += bonus
		unlocks = append(unlocks, domain.EarnedAchievement{
			AchievementID: def.ID,
			EarnedAt:      profile.UpdatedAt,
			BonusPoints:   bonus,
		})
	}

	// Fold bonuses in before the final level so the result reflects the
	// post-achievement total, not the intermediate value.
	newTotal += bonusTotal
	profile.TotalPoints = newTotal
	profile.Level = Level(newTotal)
	profile.Earned = append(profile.Earned, unlocks...)

	if err := s.store.CommitAward(ctx, profile, expectedVersion, record, unlocks); err != nil {
		return nil, err
	}

	for _, def := range unlockedDefs {
		metrics.AchievementsUnlocked.WithLabelValues(string(def.Rarity)).Inc()
	}

	return &domain.AwardResult{
		UserID:            req.UserID,
		PointsEarned:      earned,
		AchievementPoints: bonusTotal,
		TotalPoints:       newTotal,
		Level:             profile.Level,
		LeveledUp:         profile.Level > oldLevel,
		CurrentStreak:     streak.Current,
		Achievements:      unlockedDefs,
		Breakdown:         bd,
	}, nil
}

// Profile returns a user's score profile for display, with derived
// progress fields left to the caller (PointsToNextLevel, LevelProgress).
func (s *AwardService) Profile(ctx context.Context, userID string) (*domain.ScoreProfile, error) {
	return s.store.LoadProfile(ctx, userID)
}

// Activities returns a user's activity records with timestamp >= since,
// oldest first.
func (s *AwardService) Activities(ctx context.Context, userID string, since time.Time) ([]domain.ActivityRecord, error) {
	return s.store.Activities(ctx, userID, since)
}

// Streak recomputes a user's streak from the activity ledger as of now.
func (s *AwardService) Streak(ctx context.Context, userID string) (Streak, error) {
	days, err := s.store.ActivityDays(ctx, userID)
	if err != nil {
		return Streak{}, fmt.Errorf("load activity days: %w", err)
	}
	return ComputeStreak(days, time.Now().UTC()), nil
}

// newProfile initializes the zero-valued profile created on first activity.
func newProfile(req AwardRequest) *domain.ScoreProfile {
	return &domain.ScoreProfile{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Level:       1,
		CreatedAt:   time.Now().UTC(),
	}
}

func cloneMeta(meta domain.Metadata) domain.Metadata {
	out := make(domain.Metadata, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	return out
}
