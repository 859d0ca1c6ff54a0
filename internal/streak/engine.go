// Package streak implements the consistency bookkeeping: consecutive-day
// completion counters and the weekly progress window.
//
// Next is the pure rule; Service applies it to stored users, serializing
// updates per owner so concurrent completions cannot interleave the
// read-then-write.
package streak

import "time"

// Data is the streak state for one user.
//
// WeeklyProgress is indexed by weekday, 0=Sunday..6=Saturday.
type Data struct {
	Current        int       `json:"currentStreak"`
	Longest        int       `json:"longestStreak"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	WeeklyProgress [7]bool   `json:"weeklyProgress"`
}

// Next derives the streak state after a completion on today.
//
// Day granularity is calendar days in today's location, not elapsed hours:
//   - same day: no-op, so repeated completions within a day cannot
//     re-increment the streak
//   - next day: streak extends by one
//   - a gap of more than one day: streak resets to 1
//   - today before the last active date (clock skew or an out-of-order
//     call): treated as same-day, never decremented
//
// Longest is a high-water mark and never decreases. The weekday slot for
// today is marked; slots carried over from before the current week (weeks
// start Sunday) are cleared first so the window does not accumulate stale
// days.
func Next(s Data, today time.Time) Data {
	diff := daysBetween(s.LastActiveDate, today)
	if diff <= 0 {
		return s
	}

	if diff == 1 {
		s.Current++
	} else {
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}

	if dayStart(s.LastActiveDate).Before(weekStart(today)) {
		s.WeeklyProgress = [7]bool{}
	}
	s.WeeklyProgress[today.Weekday()] = true
	s.LastActiveDate = today
	return s
}

// daysBetween returns the number of calendar days from a to b, negative if b
// precedes a. Both dates are read in b's location and re-anchored at UTC
// midnights before subtracting, so the result is an exact multiple of 24h
// even when the span crosses a DST transition.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return int(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)).Hours() / 24)
}

// dayStart truncates t to midnight in its own location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekStart truncates t to the most recent Sunday midnight.
func weekStart(t time.Time) time.Time {
	return dayStart(t).AddDate(0, 0, -int(t.Weekday()))
}
