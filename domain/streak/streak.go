// Package streak computes login streak statistics from a user's raw login
// history.
package streak

import (
	"sort"
	"time"
)

// Stats summarizes a user's login streak and badge progression.
type Stats struct {
	Current         int    `json:"current_streak"`
	Longest         int    `json:"longest_streak"`
	NextBadge       string `json:"next_badge"`
	DaysToNextBadge int    `json:"days_to_next_badge"`
}

// badgeThreshold maps a streak length to the badge it unlocks.
type badgeThreshold struct {
	days  int
	badge string
}

// The ladder is fixed and ascending. Ruby is terminal.
var ladder = []badgeThreshold{
	{7, "Silver"},
	{14, "Gold"},
	{21, "Diamond"},
}

const terminalBadge = "Ruby"

// Calculate reduces an unordered login history to streak statistics.
// Timestamps are truncated to calendar days and deduplicated, so several
// logins on the same day count once. The current streak is live only when
// the most recent login day is today or yesterday relative to now. The walk
// increments exactly once per consecutive day.
func Calculate(logins []time.Time, now time.Time) Stats {
	days := uniqueDays(logins)
	if len(days) == 0 {
		return Stats{
			Current:         0,
			Longest:         0,
			NextBadge:       ladder[0].badge,
			DaysToNextBadge: ladder[0].days,
		}
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// The trailing run is the current streak only while it is still alive:
	// the last login day must be today or yesterday.
	current := 0
	today := day(now)
	last := days[len(days)-1]
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		current = run
	}

	next, remaining := nextBadge(longest)
	return Stats{
		Current:         current,
		Longest:         longest,
		NextBadge:       next,
		DaysToNextBadge: remaining,
	}
}

// nextBadge returns the first unmet rung of the ladder and the shortfall.
// When every rung is met the terminal badge is reported with zero remaining.
func nextBadge(longest int) (string, int) {
	for _, rung := range ladder {
		if longest < rung.days {
			return rung.badge, rung.days - longest
		}
	}
	return terminalBadge, 0
}

// Badges returns the badges unlocked by a longest streak, in ladder order.
// The terminal badge is included once every rung is met.
func Badges(longest int) []string {
	var earned []string
	for _, rung := range ladder {
		if longest >= rung.days {
			earned = append(earned, rung.badge)
		}
	}
	if len(earned) == len(ladder) {
		earned = append(earned, terminalBadge)
	}
	return earned
}

// uniqueDays truncates timestamps to their calendar day, deduplicates and
// sorts ascending.
func uniqueDays(logins []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(logins))
	days := make([]time.Time, 0, len(logins))
	for _, t := range logins {
		d := day(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// day truncates a timestamp to midnight UTC of its calendar day.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
