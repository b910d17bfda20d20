package points

import (
	"sort"
	"time"
)

// ─── Streak Tracker ─────────────────────────────────────────────────────────
// Pure function over caller-supplied timestamps. Day boundaries are UTC
// calendar dates; callers feeding local-time events should normalize first.

// Streak holds the derived consecutive-day counters.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreak derives current/longest consecutive-day runs from activity
// timestamps.
//
// Current walks backward from asOf, counting consecutive days with at least
// one activity until the first gap; if asOf itself has no activity, current
// is 0. Longest is the maximum run length anywhere in the history. A gap of
// exactly one day breaks a run — no partial credit.
func ComputeStreak(timestamps []time.Time, asOf time.Time) Streak {
	if len(timestamps) == 0 {
		return Streak{}
	}

	// Reduce to distinct calendar days.
	seen := make(map[time.Time]bool, len(timestamps))
	for _, ts := range timestamps {
		seen[dayOf(ts)] = true
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var s Streak

	// Longest: max run of consecutive days over the full history.
	run := 1
	s.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}

	// Current: walk backward from asOf.
	day := dayOf(asOf)
	for seen[day] {
		s.Current++
		day = day.AddDate(0, 0, -1)
	}

	return s
}

// dayOf truncates a timestamp to its UTC calendar date.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
