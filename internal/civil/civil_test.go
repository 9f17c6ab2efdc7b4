package civil

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type dateTime struct {
	Year                 int64
	Month, Day           int
	Hour, Minute, Second int
}

func TestFromDateTime(t *testing.T) {
	cases := []struct {
		in   dateTime
		want int64
	}{
		{dateTime{1970, 1, 1, 0, 0, 0}, 0},
		{dateTime{1969, 12, 31, 23, 59, 59}, -1},
		{dateTime{2000, 2, 29, 12, 0, 0}, 951825600},
		{dateTime{1914, 11, 8, 0, 0, 0}, -1740355200},
		{dateTime{2038, 1, 19, 3, 14, 8}, 1 << 31},
		{dateTime{1, 1, 1, 0, 0, 0}, -62135596800},

		// Out-of-range fields carry.
		{dateTime{2020, 13, 1, 0, 0, 0}, 1609459200},
		{dateTime{2021, 3, 0, 0, 0, 0}, 1614470400},
		{dateTime{2021, 1, 1, 24, 0, 0}, 1609545600},
		{dateTime{2021, 1, 1, 0, 0, -1}, 1609459199},
		{dateTime{2021, 0, 1, 0, 0, 0}, 1606780800},

		// Saturation.
		{dateTime{math.MaxInt64, 1, 1, 0, 0, 0}, math.MaxInt64},
		{dateTime{math.MinInt64, 1, 1, 0, 0, 0}, math.MinInt64},
	}
	for _, c := range cases {
		got := FromDateTime(c.in.Year, c.in.Month, c.in.Day, c.in.Hour, c.in.Minute, c.in.Second)
		if got != c.want {
			t.Errorf("FromDateTime(%+v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToDateTime(t *testing.T) {
	for _, unix := range []int64{
		0, -1, 1, 951825600, -1740355200, -62135596800, 253402300799,
		-2334101314, 4102444800, 1 << 40, -(1 << 40),
	} {
		var got dateTime
		got.Year, got.Month, got.Day, got.Hour, got.Minute, got.Second = ToDateTime(unix)

		tm := time.Unix(unix, 0).UTC()
		want := dateTime{int64(tm.Year()), int(tm.Month()), tm.Day(), tm.Hour(), tm.Minute(), tm.Second()}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ToDateTime(%d) mismatch (-want +got):\n%s", unix, diff)
		}
		if back := FromDateTime(got.Year, got.Month, got.Day, got.Hour, got.Minute, got.Second); back != unix {
			t.Errorf("FromDateTime(ToDateTime(%d)) = %d", unix, back)
		}
		if y := YearOf(unix); y != got.Year {
			t.Errorf("YearOf(%d) = %d, want %d", unix, y, got.Year)
		}
	}
}

func TestDays_MatchesTimePackage(t *testing.T) {
	start := time.Date(1600, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Year() < 2401; d = d.AddDate(0, 0, 13) {
		days := DaysFromCivil(int64(d.Year()), int(d.Month()), d.Day())
		if want := d.Unix() / SecondsPerDay; days != want {
			t.Fatalf("DaysFromCivil(%s) = %d, want %d", d.Format(time.DateOnly), days, want)
		}
		y, m, dd := CivilFromDays(days)
		if y != int64(d.Year()) || m != int(d.Month()) || dd != d.Day() {
			t.Fatalf("CivilFromDays(%d) = %d-%d-%d, want %s", days, y, m, dd, d.Format(time.DateOnly))
		}
		if wd := Weekday(days); wd != int(d.Weekday()) {
			t.Fatalf("Weekday(%s) = %d, want %d", d.Format(time.DateOnly), wd, d.Weekday())
		}
	}
}

func TestIsLeapYear(t *testing.T) {
	cases := map[int64]bool{
		1900: false,
		2000: true,
		2020: true,
		2021: false,
		2100: false,
		-4:   true,
		0:    true,
	}
	for year, want := range cases {
		if got := IsLeapYear(year); got != want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}
}

func TestNthWeekday(t *testing.T) {
	cases := []struct {
		year              int64
		month, n, weekday int
		want              int
	}{
		// Second Sunday of March 2024.
		{2024, 3, 2, 0, 10},
		// First Sunday of November 2024.
		{2024, 11, 1, 0, 3},
		// Last Sunday of March and October 2021.
		{2021, 3, 5, 0, 28},
		{2021, 10, 5, 0, 31},
		// Fourth Thursday of March 2024.
		{2024, 3, 4, 4, 28},
		// Last Saturday of February in a leap year.
		{2020, 2, 5, 6, 29},
		// Fifth Wednesday does not exist in February 2021.
		{2021, 2, 5, 3, 24},
		// First day of the month is the weekday.
		{2021, 8, 1, 0, 1},
	}
	for _, c := range cases {
		if got := NthWeekday(c.year, c.month, c.n, c.weekday); got != c.want {
			t.Errorf("NthWeekday(%d, %d, %d, %d) = %d, want %d", c.year, c.month, c.n, c.weekday, got, c.want)
		}
	}
}

func TestSaturating(t *testing.T) {
	if got := SaturatingAdd(math.MaxInt64, 1); got != math.MaxInt64 {
		t.Errorf("SaturatingAdd(MaxInt64, 1) = %d", got)
	}
	if got := SaturatingAdd(math.MinInt64, -1); got != math.MinInt64 {
		t.Errorf("SaturatingAdd(MinInt64, -1) = %d", got)
	}
	if got := SaturatingAdd(-5, 3); got != -2 {
		t.Errorf("SaturatingAdd(-5, 3) = %d", got)
	}
	if got := SaturatingMul(math.MaxInt64/2, 3); got != math.MaxInt64 {
		t.Errorf("SaturatingMul(MaxInt64/2, 3) = %d", got)
	}
	if got := SaturatingMul(math.MinInt64/2, 3); got != math.MinInt64 {
		t.Errorf("SaturatingMul(MinInt64/2, 3) = %d", got)
	}
	if got := SaturatingMul(-7, 3); got != -21 {
		t.Errorf("SaturatingMul(-7, 3) = %d", got)
	}
}
