package points

import "math"

// ─── Level Function ─────────────────────────────────────────────────────────
// Level(p) = floor(sqrt(p/50)) + 1. Sub-linear on purpose: each successive
// level costs quadratically more points, which keeps long-run progression
// meaningful. PointsForLevel is the exact algebraic inverse, so
// Level(PointsForLevel(L)) == L for every L >= 1.

// Level returns the level for a point total. Pure, total, monotonic
// non-decreasing; negative inputs are treated as 0.
func Level(totalPoints int64) int {
	if totalPoints <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(totalPoints)/50.0)) + 1
}

// PointsForLevel returns the minimum point total required to reach a level:
// 50 × (L−1)². Levels below 1 cost 0.
func PointsForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return 50 * n * n
}

// PointsToNextLevel returns how many more points are needed to reach the
// next level from the given total.
func PointsToNextLevel(totalPoints int64) int64 {
	needed := PointsForLevel(Level(totalPoints) + 1)
	remaining := needed - totalPoints
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// LevelProgress returns progress toward the next level as a 0.0–100.0
// percentage, for progress-bar math.
func LevelProgress(totalPoints int64) float64 {
	lvl := Level(totalPoints)
	floor := PointsForLevel(lvl)
	ceil := PointsForLevel(lvl + 1)
	span := ceil - floor
	if span <= 0 {
		return 100.0
	}
	pct := float64(totalPoints-floor) / float64(span) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
