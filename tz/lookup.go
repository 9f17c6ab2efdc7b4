package tz

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/ngrash/go-tzif/internal/civil"
)

// searchAfter returns the index of the first of n ascending values greater
// than unix, or n if there is none.
func searchAfter(n int, value func(int) int64, unix int64) int {
	return sort.Search(n, func(i int) bool { return value(i) > unix })
}

func (z *Zone) typeOffset(i int) Offset {
	t := z.types[i]
	return Offset{UTCOffset: t.UTCOffset, Designation: t.Designation, IsDST: t.IsDST}
}

// Lookup returns the offset in effect at the instant unix.
//
// Transitions take effect at their instant. Instants before the first
// transition use the first local time type. From the last transition on
// the footer rule applies; without a usable rule the last type stays in
// effect.
func (z *Zone) Lookup(unix int64) Offset {
	o, _ := z.lookup(unix)
	return o
}

// LookupStrict is like Lookup but fails with ErrExtrapolationUnavailable
// for instants that would be governed by a malformed footer rule.
func (z *Zone) LookupStrict(unix int64) (Offset, error) {
	o, err := z.lookup(unix)
	if err != nil {
		return o, fmt.Errorf("%s at %d: %w", z.name, unix, err)
	}
	return o, nil
}

// LookupTime is Lookup for a time.Time.
func (z *Zone) LookupTime(t time.Time) Offset {
	return z.Lookup(t.Unix())
}

func (z *Zone) lookup(unix int64) (Offset, error) {
	n := len(z.transitions)
	i := searchAfter(n, func(i int) int64 { return z.transitions[i].Unix }, unix)
	switch {
	case n > 0 && i == 0:
		return z.typeOffset(0), nil
	case i < n:
		return z.typeOffset(z.transitions[i-1].Type), nil
	}

	// At or after the last transition, or no transitions at all.
	last := 0
	if n > 0 {
		last = z.transitions[n-1].Type
	}
	if z.rule != nil {
		name, offset, isDST := z.rule.Lookup(unix)
		return Offset{UTCOffset: offset, Designation: name, IsDST: isDST}, nil
	}
	if z.ruleErr != nil {
		return z.typeOffset(last), ErrExtrapolationUnavailable
	}
	return z.typeOffset(last), nil
}

// LocalTime returns the offset in effect at unix and the local date and
// time it produces.
func (z *Zone) LocalTime(unix int64) (DateTime, Offset) {
	o := z.Lookup(unix)
	return DateTimeOf(civil.SaturatingAdd(unix, int64(o.UTCOffset))), o
}

// TransitionEvent is a change of offset at the instant Unix.
type TransitionEvent struct {
	Unix   int64
	Before Offset
	After  Offset
}

// Transitions returns the offset changes in the interval (from, to],
// explicit ones as well as those generated by the footer rule. Instants at
// which nothing changes are omitted. The result grows with the number of
// years in the interval.
func (z *Zone) Transitions(from, to int64) []TransitionEvent {
	if to <= from {
		return nil
	}
	var instants []int64
	n := len(z.transitions)
	for i := searchAfter(n, func(i int) int64 { return z.transitions[i].Unix }, from); i < n && z.transitions[i].Unix <= to; i++ {
		instants = append(instants, z.transitions[i].Unix)
	}

	if z.rule != nil && z.rule.HasDST() {
		ruleFrom := from
		if n > 0 {
			ruleFrom = max(from, z.transitions[n-1].Unix)
		}
		if ruleFrom < to {
			for _, ev := range z.rule.Events(civil.YearOf(ruleFrom)-1, civil.YearOf(to)+1) {
				if ev.Unix > ruleFrom && ev.Unix <= to {
					instants = append(instants, ev.Unix)
				}
			}
		}
	}

	slices.Sort(instants)
	instants = slices.Compact(instants)

	var evs []TransitionEvent
	for _, t := range instants {
		ev := TransitionEvent{Unix: t, Before: z.Lookup(t - 1), After: z.Lookup(t)}
		if ev.Before != ev.After {
			evs = append(evs, ev)
		}
	}
	return evs
}
