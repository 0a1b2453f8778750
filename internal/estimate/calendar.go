package estimate

import "time"

// MonthLayout formats month labels such as "Mar-2017".
const MonthLayout = "Jan-2006"

const day = 24 * time.Hour

// IsEndOfMonth reports whether t (in UTC, time of day ignored) is the last
// calendar day of its month.
func IsEndOfMonth(t time.Time) bool {
	t = t.UTC()
	return t.Day() == lastDayOfMonth(t).Day()
}

// DaysUntilMonthEnd returns the whole days from t until the last instant of its
// month. It returns 0 on the last day of the month.
func DaysUntilMonthEnd(t time.Time) int {
	t = t.UTC()
	end := firstOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
	return int(end.Sub(t) / day)
}

// FormatMonth returns the month label of t in UTC.
func FormatMonth(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// isNextMonth reports whether next falls in the calendar month right after cur.
func isNextMonth(cur, next time.Time) bool {
	following := firstOfMonth(cur.UTC()).AddDate(0, 1, 0)
	n := next.UTC()
	return n.Year() == following.Year() && n.Month() == following.Month()
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(t time.Time) time.Time {
	// Day 0 of the following month normalises to the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
