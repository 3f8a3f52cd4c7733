package study

import "time"

// DateLayout is the calendar-day format stored in Progress.LastStreakDate.
const DateLayout = "2006-01-02"

// DateOf formats the calendar day of t in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ApplyStreak advances or resets the daily streak for a dashboard load at now.
// It is pure: p is not modified.
//
//	same day       -> counters unchanged
//	previous day   -> streak + 1
//	anything else  -> streak reset to 1 (gap, future date, unparsable)
//
// maxStreak always ends >= focusStreak. lastStreakDate is always set to today,
// so a record skewed into the future heals on the next load.
func ApplyStreak(p Progress, now time.Time) Progress {
	today := DateOf(now)
	out := p

	switch daysBetween(p.LastStreakDate, today) {
	case 0:
	case 1:
		out.FocusStreak = p.FocusStreak + 1
	default:
		out.FocusStreak = 1
	}
	if out.FocusStreak > out.MaxStreak {
		out.MaxStreak = out.FocusStreak
	}
	if p.MaxStreak > out.MaxStreak {
		out.MaxStreak = p.MaxStreak
	}

	out.LastActive = now.UTC()
	out.LastStreakDate = today
	out.UpdatedAt = now.UTC()
	return out
}

// daysBetween returns the whole calendar days from "from" to "to", or -1 when
// either date is unparsable or from is after to.
func daysBetween(from, to string) int {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return -1
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return -1
	}
	if f.After(t) {
		return -1
	}
	return int(t.Sub(f).Hours() / 24)
}
