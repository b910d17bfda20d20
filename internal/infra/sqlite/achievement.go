package sqlite

import (
	"context"
	"fmt"

	"github.com/heritageworks/engage/internal/domain"
)

// ─── Achievement Registry ───────────────────────────────────────────────────
// Read-mostly reference data. The engine only reads; seeding and overlay
// loading happen at startup, administrative CRUD beyond that is external.

// SeedDefinitions inserts definitions that do not exist yet. Existing rows
// are left untouched, so administrative edits survive restarts.
func (d *DB) SeedDefinitions(ctx context.Context, defs []domain.AchievementDefinition) error {
	for _, def := range defs {
		_, err := d.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO achievement_defs
			 (id, name, description, criteria, threshold, category, points, rarity, active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			def.ID, def.Name, def.Description, string(def.Criteria), def.Threshold,
			def.Category, def.Points, string(def.Rarity), boolInt(def.Active))
		if err != nil {
			return fmt.Errorf("seed achievement %s: %w", def.ID, err)
		}
	}
	return nil
}

// ReplaceDefinition upserts one definition. Used by the startup overlay
// file, which is authoritative for the definitions it names.
func (d *DB) ReplaceDefinition(ctx context.Context, def domain.AchievementDefinition) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO achievement_defs
		 (id, name, description, criteria, threshold, category, points, rarity, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.Name, def.Description, string(def.Criteria), def.Threshold,
		def.Category, def.Points, string(def.Rarity), boolInt(def.Active))
	if err != nil {
		return fmt.Errorf("replace achievement %s: %w", def.ID, err)
	}
	return nil
}

// ListActive returns all active achievement definitions, stable by id.
func (d *DB) ListActive(ctx context.Context) ([]domain.AchievementDefinition, error) {
	return d.listDefinitions(ctx, `WHERE active = 1`)
}

// ListDefinitions returns every definition, active or not.
func (d *DB) ListDefinitions(ctx context.Context) ([]domain.AchievementDefinition, error) {
	return d.listDefinitions(ctx, ``)
}

func (d *DB) listDefinitions(ctx context.Context, where string) ([]domain.AchievementDefinition, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, description, criteria, threshold, category, points, rarity, active
		 FROM achievement_defs `+where+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var defs []domain.AchievementDefinition
	for rows.Next() {
		var def domain.AchievementDefinition
		var active int
		err := rows.Scan(&def.ID, &def.Name, &def.Description, &def.Criteria,
			&def.Threshold, &def.Category, &def.Points, &def.Rarity, &active)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		def.Active = active != 0
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
