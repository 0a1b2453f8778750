package estimate

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsEndOfMonth_LastDays(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Time{
		date(2017, time.January, 31),
		date(2017, time.February, 28),
		date(2016, time.February, 29),
		date(2000, time.February, 29),
		date(2017, time.April, 30),
		date(2017, time.December, 31),
		time.Date(2017, time.March, 31, 23, 59, 59, 0, time.UTC),
	} {
		if !IsEndOfMonth(d) {
			t.Fatalf("IsEndOfMonth(%s)=false want true", d)
		}
	}
}

func TestIsEndOfMonth_EveryOtherDay(t *testing.T) {
	t.Parallel()

	for _, year := range []int{2016, 2017, 1900, 2000} {
		for d := date(year, time.January, 1); d.Year() == year; d = d.AddDate(0, 0, 1) {
			want := d.AddDate(0, 0, 1).Month() != d.Month()
			if got := IsEndOfMonth(d); got != want {
				t.Fatalf("IsEndOfMonth(%s)=%v want %v", d.Format(time.DateOnly), got, want)
			}
		}
	}
}

func TestIsEndOfMonth_UsesUTC(t *testing.T) {
	t.Parallel()

	// 2017-04-01 01:00 in UTC+2 is still March 31 in UTC.
	loc := time.FixedZone("UTC+2", 2*60*60)
	d := time.Date(2017, time.April, 1, 1, 0, 0, 0, loc)
	if !IsEndOfMonth(d) {
		t.Fatalf("IsEndOfMonth(%s)=false want true", d)
	}
}

func TestDaysUntilMonthEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Time
		want int
	}{
		{date(2017, time.March, 31), 0},
		{date(2017, time.March, 30), 1},
		{date(2017, time.March, 20), 11},
		{date(2017, time.March, 28), 3},
		{date(2017, time.April, 15), 15},
		{date(2017, time.May, 8), 23},
		{date(2017, time.February, 1), 27},
		{date(2016, time.February, 1), 28},
		{time.Date(2017, time.March, 20, 18, 30, 0, 0, time.UTC), 11},
		{time.Date(2017, time.March, 31, 23, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range tests {
		if got := DaysUntilMonthEnd(tc.in); got != tc.want {
			t.Fatalf("DaysUntilMonthEnd(%s)=%d want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatMonth(t *testing.T) {
	t.Parallel()

	if got, want := FormatMonth(date(2017, time.March, 28)), "Mar-2017"; got != want {
		t.Fatalf("FormatMonth=%q want %q", got, want)
	}
	if got := FormatMonth(date(2018, time.September, 1)); len(got) != 8 {
		t.Fatalf("len(FormatMonth)=%d want 8", len(got))
	}
}

func TestIsNextMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cur, next time.Time
		want      bool
	}{
		{date(2017, time.March, 20), date(2017, time.April, 15), true},
		{date(2017, time.January, 31), date(2017, time.February, 1), true},
		{date(2017, time.December, 15), date(2018, time.January, 3), true},
		{date(2017, time.March, 30), date(2017, time.June, 15), false},
		{date(2017, time.March, 1), date(2017, time.March, 30), false},
		{date(2017, time.April, 1), date(2017, time.March, 30), false},
		{date(2017, time.March, 20), date(2018, time.April, 15), false},
	}
	for _, tc := range tests {
		if got := isNextMonth(tc.cur, tc.next); got != tc.want {
			t.Fatalf("isNextMonth(%s, %s)=%v want %v", tc.cur.Format(time.DateOnly), tc.next.Format(time.DateOnly), got, tc.want)
		}
	}
}
