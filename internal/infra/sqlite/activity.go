package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/heritageworks/engage/internal/domain"
)

// ─── Activity Ledger ────────────────────────────────────────────────────────
// Append-only: records are inserted once inside an award transaction and
// never mutated. Metadata and score breakdown are stored as JSON text.

// CommitAward atomically persists one award: the activity record, the
// updated profile (version-conditioned), and any achievement unlocks.
// Everything succeeds or nothing does, so a cancelled or failed award never
// leaves a record without its points reflected in the profile.
func (d *DB) CommitAward(ctx context.Context, p *domain.ScoreProfile, expectedVersion int64, rec domain.ActivityRecord, unlocks []domain.EarnedAchievement) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin award tx: %w", err)
	}
	defer tx.Rollback()

	// Idempotency: a second insert with the same (user_id, event_id) is a
	// duplicate delivery of the same logical event.
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	bd, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO activities
		 (id, user_id, event_id, activity_type, ts, metadata, points_earned, breakdown)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.EventID, string(rec.ActivityType),
		rec.Timestamp.Unix(), string(meta), rec.PointsEarned, string(bd))
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDuplicateEvent
	}

	if err := d.saveProfileTx(ctx, tx, p, expectedVersion); err != nil {
		return err
	}

	for _, u := range unlocks {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO unlocks (user_id, achievement_id, earned_at, bonus_points)
			 VALUES (?, ?, ?, ?)`,
			p.UserID, u.AchievementID, u.EarnedAt.Unix(), u.BonusPoints)
		if err != nil {
			return fmt.Errorf("insert unlock %s: %w", u.AchievementID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit award tx: %w", err)
	}
	return nil
}

// Activities returns a user's records with timestamp >= since, oldest
// first. A zero since returns the full history.
func (d *DB) Activities(ctx context.Context, userID string, since time.Time) ([]domain.ActivityRecord, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, user_id, event_id, activity_type, ts, metadata, points_earned, breakdown
		 FROM activities WHERE user_id = ? AND ts >= ? ORDER BY ts, id`,
		userID, unixOrZero(since))
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ActivityDays returns the distinct UTC calendar days with at least one
// activity, sorted ascending.
func (d *DB) ActivityDays(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT DISTINCT date(ts, 'unixepoch') FROM activities
		 WHERE user_id = ? ORDER BY 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query activity days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		day, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", s, err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// ─── Window Aggregation ─────────────────────────────────────────────────────

// WindowTotals aggregates points per user over activities with
// timestamp >= since, optionally filtered to the given activity types.
// Rows join profile fields needed for display and tie-breaking; order is
// unspecified.
func (d *DB) WindowTotals(ctx context.Context, since time.Time, types []domain.ActivityType) ([]domain.UserWindowTotal, error) {
	query := `SELECT a.user_id,
	                 COALESCE(p.display_name, ''),
	                 SUM(a.points_earned),
	                 COUNT(*),
	                 COALESCE(AVG(json_extract(a.metadata, '$.score')), 0),
	                 COALESCE(p.level, 1),
	                 COALESCE(p.created_at, 0)
	          FROM activities a
	          LEFT JOIN profiles p ON p.user_id = a.user_id
	          WHERE a.ts >= ?`
	args := []any{unixOrZero(since)}

	if len(types) > 0 {
		placeholders := strings.Repeat("?,", len(types))
		query += ` AND a.activity_type IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, t := range types {
			args = append(args, string(t))
		}
	}
	query += ` GROUP BY a.user_id`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query window totals: %w", err)
	}
	defer rows.Close()
	return scanTotals(rows)
}

// AllTimeTotals aggregates from stored profiles, so lifetime rankings
// include achievement bonuses.
func (d *DB) AllTimeTotals(ctx context.Context) ([]domain.UserWindowTotal, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT p.user_id, p.display_name, p.total_points, p.activity_count,
		        COALESCE(s.avg_score, 0), p.level, p.created_at
		 FROM profiles p
		 LEFT JOIN (SELECT user_id, AVG(json_extract(metadata, '$.score')) AS avg_score
		            FROM activities GROUP BY user_id) s ON s.user_id = p.user_id`)
	if err != nil {
		return nil, fmt.Errorf("query all-time totals: %w", err)
	}
	defer rows.Close()
	return scanTotals(rows)
}

// ─── Scan Helpers ───────────────────────────────────────────────────────────

func scanActivity(rows *sql.Rows) (domain.ActivityRecord, error) {
	var rec domain.ActivityRecord
	var ts int64
	var meta, bd string
	err := rows.Scan(&rec.ID, &rec.UserID, &rec.EventID, &rec.ActivityType,
		&ts, &meta, &rec.PointsEarned, &bd)
	if err != nil {
		return rec, fmt.Errorf("scan activity: %w", err)
	}
	rec.Timestamp = time.Unix(ts, 0).UTC()
	if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
		return rec, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(bd), &rec.Breakdown); err != nil {
		return rec, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return rec, nil
}

func scanTotals(rows *sql.Rows) ([]domain.UserWindowTotal, error) {
	var totals []domain.UserWindowTotal
	for rows.Next() {
		var t domain.UserWindowTotal
		var registered int64
		err := rows.Scan(&t.UserID, &t.DisplayName, &t.Points, &t.ActivityCount,
			&t.AverageScore, &t.Level, &registered)
		if err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		t.RegisteredAt = time.Unix(registered, 0).UTC()
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
