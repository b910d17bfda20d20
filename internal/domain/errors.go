package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Pure computations
// (scoring, leveling, streaks, rule evaluation) never return errors; they
// clamp and default instead. Only store-level failures cross the Award
// Engine's boundary.

var (
	// ErrProfileNotFound is returned by read paths for a never-seen user.
	// The Award Engine treats absence as the signal to initialize a
	// zero-valued profile, not as a failure.
	ErrProfileNotFound = errors.New("score profile not found")

	// ErrVersionConflict signals a concurrent write detected by the
	// profile store's conditional update. Awards retry from a fresh read.
	ErrVersionConflict = errors.New("profile version conflict")

	// ErrDuplicateEvent signals that an activity with the same idempotency
	// key was already credited. The original award stands; retries must
	// not double-credit.
	ErrDuplicateEvent = errors.New("activity event already credited")

	// ErrAchievementNotFound is returned when an achievement id is not in
	// the registry.
	ErrAchievementNotFound = errors.New("achievement definition not found")

	// ErrInvalidWindow is returned for an unknown leaderboard window.
	ErrInvalidWindow = errors.New("invalid leaderboard window")

	// ErrInvalidCategory is returned for an unknown leaderboard category.
	ErrInvalidCategory = errors.New("invalid leaderboard category")

	// ErrEmptyUserID is returned when an award names no user.
	ErrEmptyUserID = errors.New("user id must not be empty")
)
