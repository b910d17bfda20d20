package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/heritageworks/engage/internal/domain"
)

// ─── Score Profiles ─────────────────────────────────────────────────────────

// LoadProfile returns a user's profile with its earned achievements,
// or domain.ErrProfileNotFound for a never-seen user.
func (d *DB) LoadProfile(ctx context.Context, userID string) (*domain.ScoreProfile, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT user_id, display_name, total_points, level, current_streak,
		        longest_streak, activity_count, created_at, updated_at, version
		 FROM profiles WHERE user_id = ?`, userID)

	var p domain.ScoreProfile
	var createdAt, updatedAt int64
	err := row.Scan(&p.UserID, &p.DisplayName, &p.TotalPoints, &p.Level,
		&p.CurrentStreak, &p.LongestStreak, &p.ActivityCount,
		&createdAt, &updatedAt, &p.Version)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	earned, err := d.earnedAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Earned = earned
	return &p, nil
}

// SaveProfile writes the profile conditioned on the stored version matching
// expectedVersion (0 = the profile must not exist yet). A mismatch returns
// domain.ErrVersionConflict.
func (d *DB) SaveProfile(ctx context.Context, p *domain.ScoreProfile, expectedVersion int64) error {
	return d.saveProfileTx(ctx, d.db, p, expectedVersion)
}

// execer covers *sql.DB and *sql.Tx so profile saves run standalone or
// inside an award transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (d *DB) saveProfileTx(ctx context.Context, ex execer, p *domain.ScoreProfile, expectedVersion int64) error {
	if expectedVersion == 0 {
		res, err := ex.ExecContext(ctx,
			`INSERT OR IGNORE INTO profiles
			 (user_id, display_name, total_points, level, current_streak,
			  longest_streak, activity_count, created_at, updated_at, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			p.UserID, p.DisplayName, p.TotalPoints, p.Level, p.CurrentStreak,
			p.LongestStreak, p.ActivityCount,
			p.CreatedAt.Unix(), p.UpdatedAt.Unix())
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return domain.ErrVersionConflict // created concurrently
		}
		p.Version = 1
		return nil
	}

	res, err := ex.ExecContext(ctx,
		`UPDATE profiles SET display_name = ?, total_points = ?, level = ?,
		        current_streak = ?, longest_streak = ?, activity_count = ?,
		        updated_at = ?, version = version + 1
		 WHERE user_id = ? AND version = ?`,
		p.DisplayName, p.TotalPoints, p.Level, p.CurrentStreak,
		p.LongestStreak, p.ActivityCount, p.UpdatedAt.Unix(),
		p.UserID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrVersionConflict
	}
	p.Version = expectedVersion + 1
	return nil
}

// earnedAchievements loads a user's unlock ledger, oldest first.
func (d *DB) earnedAchievements(ctx context.Context, userID string) ([]domain.EarnedAchievement, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT achievement_id, earned_at, bonus_points
		 FROM unlocks WHERE user_id = ? ORDER BY earned_at, achievement_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query unlocks: %w", err)
	}
	defer rows.Close()

	var earned []domain.EarnedAchievement
	for rows.Next() {
		var e domain.EarnedAchievement
		var at int64
		if err := rows.Scan(&e.AchievementID, &at, &e.BonusPoints); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		e.EarnedAt = time.Unix(at, 0).UTC()
		earned = append(earned, e)
	}
	return earned, rows.Err()
}
