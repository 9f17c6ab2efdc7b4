package tzrule

import (
	"sort"

	"github.com/ngrash/go-tzif/internal/civil"
)

// Event is a transition produced by a rule.
type Event struct {
	// Unix is the UTC instant of the transition.
	Unix int64
	// Name, Offset and IsDST describe local time from Unix on.
	Name   string
	Offset int32
	IsDST  bool
}

// day returns the day (since 1970-01-01) on which d falls in year.
func (d DateRule) day(year int64) int64 {
	jan1 := civil.DaysFromCivil(year, 1, 1)
	switch d.Kind {
	case JulianNoLeap:
		n := int64(d.Day - 1)
		if civil.IsLeapYear(year) && d.Day >= 60 {
			n++
		}
		return jan1 + n
	case JulianZero:
		return jan1 + int64(d.Day)
	default:
		return civil.DaysFromCivil(year, d.Month, civil.NthWeekday(year, d.Month, d.Week, d.Weekday))
	}
}

// instant returns the UTC instant at which d occurs in year, d.Time being
// local time at the given offset.
func (d DateRule) instant(year int64, offset int32) int64 {
	t := civil.SaturatingMul(d.day(year), civil.SecondsPerDay)
	return civil.SaturatingAdd(t, int64(d.Time)-int64(offset))
}

// Transitions returns the UTC instants at which daylight saving time starts
// and ends in year. The start time is given in standard time, the end time
// in daylight saving time. Both are zero if r has no DST.
func (r Rule) Transitions(year int64) (start, end int64) {
	if !r.HasDST() {
		return 0, 0
	}
	return r.Start.instant(year, r.StdOffset), r.End.instant(year, r.DSTOffset)
}

// Events returns the transitions of r in the given years, ordered by
// instant. Of two transitions at the same instant the end of DST comes
// first, so that the later one wins.
func (r Rule) Events(fromYear, toYear int64) []Event {
	if !r.HasDST() || toYear < fromYear {
		return nil
	}
	var evs []Event
	for y := fromYear; y <= toYear; y++ {
		start, end := r.Transitions(y)
		evs = append(evs,
			Event{Unix: start, Name: r.DSTName, Offset: r.DSTOffset, IsDST: true},
			Event{Unix: end, Name: r.StdName, Offset: r.StdOffset},
		)
	}
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Unix != evs[j].Unix {
			return evs[i].Unix < evs[j].Unix
		}
		return !evs[i].IsDST && evs[j].IsDST
	})
	return evs
}

// Lookup returns the local time type in effect at unix.
func (r Rule) Lookup(unix int64) (name string, offset int32, isDST bool) {
	if !r.HasDST() {
		return r.StdName, r.StdOffset, false
	}

	// Dates repeat every 400 years, so evaluate within one cycle.
	t := unix % civil.SecondsPer400Years
	if t < 0 {
		t += civil.SecondsPer400Years
	}

	year := civil.YearOf(t)
	evs := r.Events(year-2, year+1)
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Unix <= t {
			return evs[i].Name, evs[i].Offset, evs[i].IsDST
		}
	}
	return r.StdName, r.StdOffset, false
}
