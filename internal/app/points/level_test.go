package points_test

import (
	"testing"

	"github.com/heritageworks/engage/internal/app/points"
)

// ═══════════════════════════════════════════════════════════════════════════
// Level Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestLevel_KnownValues(t *testing.T) {
	cases := []struct {
		points int64
		want   int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{113, 2}, // floor(sqrt(113/50)) + 1 = floor(1.50) + 1
		{199, 2},
		{200, 3},
		{449, 3},
		{450, 4},
		{5000, 11},
	}
	for _, c := range cases {
		if got := points.Level(c.points); got != c.want {
			t.Errorf("Level(%d): expected %d, got %d", c.points, c.want, got)
		}
	}
}

func TestLevel_NegativeTreatedAsZero(t *testing.T) {
	if got := points.Level(-100); got != 1 {
		t.Errorf("expected level 1 for negative points, got %d", got)
	}
}

func TestLevel_Monotonic(t *testing.T) {
	prev := points.Level(0)
	for p := int64(1); p <= 100000; p += 7 {
		lvl := points.Level(p)
		if lvl < prev {
			t.Fatalf("Level decreased: Level(%d)=%d < %d", p, lvl, prev)
		}
		prev = lvl
	}
}

// Level(PointsForLevel(L)) == L must hold for every L >= 1.
func TestLevel_InverseRoundTrip(t *testing.T) {
	for lvl := 1; lvl <= 200; lvl++ {
		threshold := points.PointsForLevel(lvl)
		if got := points.Level(threshold); got != lvl {
			t.Errorf("Level(PointsForLevel(%d)) = Level(%d) = %d", lvl, threshold, got)
		}
		// One point below the threshold must be the previous level.
		if lvl > 1 {
			if got := points.Level(threshold - 1); got != lvl-1 {
				t.Errorf("Level(%d) = %d, expected %d", threshold-1, got, lvl-1)
			}
		}
	}
}

func TestPointsForLevel_KnownValues(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 0},
		{2, 50},
		{3, 200},
		{4, 450},
		{10, 4050},
		{0, 0},
		{-5, 0},
	}
	for _, c := range cases {
		if got := points.PointsForLevel(c.level); got != c.want {
			t.Errorf("PointsForLevel(%d): expected %d, got %d", c.level, c.want, got)
		}
	}
}

func TestPointsToNextLevel(t *testing.T) {
	// At 113 points (level 2), level 3 needs 200.
	if got := points.PointsToNextLevel(113); got != 87 {
		t.Errorf("expected 87 points to next level, got %d", got)
	}
	if got := points.PointsToNextLevel(0); got != 50 {
		t.Errorf("expected 50 points to level 2, got %d", got)
	}
}

func TestLevelProgress_Bounds(t *testing.T) {
	for _, p := range []int64{0, 49, 50, 113, 200, 12345} {
		pct := points.LevelProgress(p)
		if pct < 0 || pct > 100 {
			t.Errorf("LevelProgress(%d) = %v out of range", p, pct)
		}
	}
	if pct := points.LevelProgress(50); pct != 0 {
		t.Errorf("expected 0%% at a fresh level boundary, got %v", pct)
	}
}
