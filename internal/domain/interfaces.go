package domain

import (
	"context"
	"time"
)

// ─── Store Contracts ────────────────────────────────────────────────────────
// The engine defines operations and invariants; any storage layer that
// upholds them can back it. The sqlite package provides the reference
// implementation.

// ProfileStore persists score profiles with optimistic concurrency.
type ProfileStore interface {
	// LoadProfile returns the profile, or ErrProfileNotFound for a
	// never-seen user.
	LoadProfile(ctx context.Context, userID string) (*ScoreProfile, error)

	// SaveProfile writes the profile conditioned on the stored version
	// matching expectedVersion (0 = must not exist yet). A mismatch
	// returns ErrVersionConflict.
	SaveProfile(ctx context.Context, p *ScoreProfile, expectedVersion int64) error
}

// ActivityStore is the append-only activity ledger.
type ActivityStore interface {
	// Activities returns a user's records with timestamp >= since,
	// oldest first. A zero since returns the full history.
	Activities(ctx context.Context, userID string, since time.Time) ([]ActivityRecord, error)

	// ActivityDays returns the distinct UTC calendar days on which the
	// user had at least one activity, sorted ascending.
	ActivityDays(ctx context.Context, userID string) ([]time.Time, error)

	// WindowTotals aggregates points per user over records with
	// timestamp >= since, optionally filtered to the given activity
	// types (nil = unfiltered). Order is unspecified; ranking and
	// tie-breaking are the aggregator's job.
	WindowTotals(ctx context.Context, since time.Time, types []ActivityType) ([]UserWindowTotal, error)

	// AllTimeTotals aggregates from stored profiles (lifetime points,
	// bonuses included) rather than from the activity ledger.
	AllTimeTotals(ctx context.Context) ([]UserWindowTotal, error)
}

// AchievementRegistry serves read-mostly achievement definitions.
// Administrative CRUD on definitions is out of scope.
type AchievementRegistry interface {
	// ListActive returns all active achievement definitions.
	ListActive(ctx context.Context) ([]AchievementDefinition, error)
}

// AwardStore combines the stores the Award Engine needs, plus the atomic
// commit: profile save, activity append, and achievement unlocks succeed or
// fail as a single unit. No activity record may exist without its points
// reflected in the profile, and vice versa.
type AwardStore interface {
	ProfileStore
	ActivityStore
	AchievementRegistry

	// CommitAward atomically persists the updated profile (conditioned on
	// expectedVersion), the new activity record, and any unlocks earned in
	// the same award. Returns ErrVersionConflict on a concurrent update and
	// ErrDuplicateEvent when the record's (userID, eventID) pair was
	// already credited.
	CommitAward(ctx context.Context, p *ScoreProfile, expectedVersion int64, rec ActivityRecord, unlocks []EarnedAchievement) error
}
