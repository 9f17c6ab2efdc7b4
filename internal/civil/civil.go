// Package civil converts between proleptic Gregorian date-times and Unix
// seconds without depending on time.Location.
//
// All functions ignore leap seconds and accept any input: out-of-range
// months and days are normalised and results saturate at the int64 range.
package civil

import "math"

const (
	SecondsPerMinute = 60
	SecondsPerHour   = 60 * SecondsPerMinute
	SecondsPerDay    = 24 * SecondsPerHour

	daysPer400Years = 365*400 + 97

	// SecondsPer400Years is the length of a full Gregorian cycle. Calendar
	// dates and weekdays repeat with this period.
	SecondsPer400Years = daysPer400Years * SecondsPerDay

	// daysFromEpochToShiftedEpoch is the number of days from 0000-03-01 to
	// 1970-01-01.
	daysFromEpochToShiftedEpoch = 719468

	// maxYear bounds the year accepted by DaysFromCivil. Any year beyond it
	// is outside the int64 second range anyway.
	maxYear = 1 << 40
)

// IsLeapYear reports whether year is a leap year.
func IsLeapYear(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month (1-12) of year.
func DaysInMonth(year int64, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

// DaysFromCivil returns the number of days between 1970-01-01 and the given
// date. Months outside 1-12 carry into the year and days outside the month
// carry into the following or preceding months.
func DaysFromCivil(year int64, month, day int) int64 {
	m := int64(month) - 1
	year = SaturatingAdd(year, floorDiv(m, 12))
	m = m - floorDiv(m, 12)*12 + 1
	year = clamp(year, -maxYear, maxYear)

	// Count from March so that the leap day is the last day of the year.
	if m <= 2 {
		year--
	}
	era := floorDiv(year, 400)
	yoe := year - era*400
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp + 2) / 5
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPer400Years + doe - daysFromEpochToShiftedEpoch + int64(day) - 1
}

// CivilFromDays is the inverse of DaysFromCivil.
func CivilFromDays(days int64) (year int64, month, day int) {
	z := days + daysFromEpochToShiftedEpoch
	era := floorDiv(z, daysPer400Years)
	doe := z - era*daysPer400Years
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = int(doy - (153*mp+2)/5 + 1)
	if mp < 10 {
		month = int(mp + 3)
	} else {
		month = int(mp - 9)
	}
	year = yoe + era*400
	if month <= 2 {
		year++
	}
	return year, month, day
}

// Weekday returns the day of the week of the given day count since
// 1970-01-01, where 0=Sunday, 1=Monday, ..., 6=Saturday.
func Weekday(days int64) int {
	// 1970-01-01 was a Thursday.
	return int(floorMod(days+4, 7))
}

// NthWeekday returns the day of month of the n-th occurrence of weekday in
// the given month, counting from 1. An n of 5 or more means the last
// occurrence of weekday in the month.
func NthWeekday(year int64, month, n, weekday int) int {
	first := DaysFromCivil(year, month, 1)
	day := 1 + int(floorMod(int64(weekday-Weekday(first)), 7))
	day += 7 * (n - 1)
	for last := DaysInMonth(year, month); day > last; {
		day -= 7
	}
	return day
}

// FromDateTime converts a given date and time to a Unix timestamp, i.e. the
// number of seconds since 1970-01-01 00:00:00 UTC.
func FromDateTime(year int64, month, day, hour, minute, second int) int64 {
	days := DaysFromCivil(year, month, day)
	secs := SaturatingMul(days, SecondsPerDay)
	secs = SaturatingAdd(secs, SaturatingMul(int64(hour), SecondsPerHour))
	secs = SaturatingAdd(secs, SaturatingMul(int64(minute), SecondsPerMinute))
	return SaturatingAdd(secs, int64(second))
}

// ToDateTime splits a Unix timestamp into its civil date and time of day.
func ToDateTime(unix int64) (year int64, month, day, hour, minute, second int) {
	days := floorDiv(unix, SecondsPerDay)
	rem := int(unix - days*SecondsPerDay)
	year, month, day = CivilFromDays(days)
	return year, month, day, rem / SecondsPerHour, rem % SecondsPerHour / SecondsPerMinute, rem % SecondsPerMinute
}

// YearOf returns the calendar year containing unix.
func YearOf(unix int64) int64 {
	year, _, _ := CivilFromDays(floorDiv(unix, SecondsPerDay))
	return year
}

// SaturatingAdd returns a+b clamped to the int64 range.
func SaturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

// SaturatingMul returns a*b clamped to the int64 range. b must be positive.
func SaturatingMul(a, b int64) int64 {
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	if a < math.MinInt64/b {
		return math.MinInt64
	}
	return a * b
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
