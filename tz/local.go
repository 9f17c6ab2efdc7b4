package tz

import (
	"fmt"
	"sort"

	"github.com/ngrash/go-tzif/internal/civil"
)

// DateTime is a local date and time without zone information. Fields
// outside their usual range are normalised, so {2024, 1, 32, ...} is
// February 1.
type DateTime struct {
	Year   int64
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// DateTimeOf returns the date and time of unix seconds read as local time.
func DateTimeOf(secs int64) DateTime {
	var d DateTime
	d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second = civil.ToDateTime(secs)
	return d
}

// seconds returns d as seconds since 1970-01-01 00:00:00 local time.
func (d DateTime) seconds() int64 {
	return civil.FromDateTime(d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// GapPolicy selects how LookupLocal treats local times skipped by a
// transition.
type GapPolicy int

const (
	// GapReport returns a Gap result with the offsets before and after
	// the gap.
	GapReport GapPolicy = iota
	// GapReject fails with ErrNonexistentLocalTime.
	GapReject
)

func (p GapPolicy) String() string {
	switch p {
	case GapReport:
		return "report"
	case GapReject:
		return "reject"
	}
	return fmt.Sprintf("GapPolicy(%d)", int(p))
}

// ParseGapPolicy parses the String form of a GapPolicy.
func ParseGapPolicy(s string) (GapPolicy, error) {
	switch s {
	case "report":
		return GapReport, nil
	case "reject":
		return GapReject, nil
	}
	return 0, fmt.Errorf("unknown gap policy %q", s)
}

// Kind classifies a local time.
type Kind int

const (
	// Unique local times map to exactly one instant.
	Unique Kind = iota
	// Gap local times were skipped and map to no instant.
	Gap
	// Overlap local times were repeated and map to two instants.
	Overlap
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Gap:
		return "gap"
	case Overlap:
		return "overlap"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Candidate is a possible reading of a local time.
type Candidate struct {
	Offset
	// Unix is the local time minus UTCOffset.
	Unix int64
}

// LocalResult is the result of LookupLocal.
//
// Unique results have one candidate. Overlap results have one candidate
// per instant, earliest first. Gap results have two candidates that do not
// round-trip: the first applies the offset in effect before the gap, the
// second the offset after it.
type LocalResult struct {
	Kind       Kind
	Candidates []Candidate
}

// LookupLocal resolves a local date and time.
func (z *Zone) LookupLocal(dt DateTime, policy GapPolicy) (LocalResult, error) {
	local := dt.seconds()
	lo := civil.SaturatingAdd(local, -int64(z.maxOffset))
	hi := civil.SaturatingAdd(local, -int64(z.minOffset))

	events := z.Transitions(lo, hi)

	offsets := map[int32]bool{z.Lookup(lo).UTCOffset: true}
	for _, ev := range events {
		offsets[ev.After.UTCOffset] = true
	}
	var res LocalResult
	seen := map[int64]bool{}
	for o := range offsets {
		unix := civil.SaturatingAdd(local, -int64(o))
		if seen[unix] {
			continue
		}
		if got := z.Lookup(unix); got.UTCOffset == o {
			seen[unix] = true
			res.Candidates = append(res.Candidates, Candidate{Offset: got, Unix: unix})
		}
	}
	sort.Slice(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Unix < res.Candidates[j].Unix
	})

	switch len(res.Candidates) {
	case 0:
	case 1:
		res.Kind = Unique
		return res, nil
	default:
		res.Kind = Overlap
		return res, nil
	}

	for _, ev := range events {
		before := civil.SaturatingAdd(ev.Unix, int64(ev.Before.UTCOffset))
		after := civil.SaturatingAdd(ev.Unix, int64(ev.After.UTCOffset))
		if before <= local && local < after {
			if policy == GapReject {
				return LocalResult{}, fmt.Errorf("%w: %v in %s", ErrNonexistentLocalTime, dt, z.name)
			}
			return LocalResult{
				Kind: Gap,
				Candidates: []Candidate{
					{Offset: ev.Before, Unix: civil.SaturatingAdd(local, -int64(ev.Before.UTCOffset))},
					{Offset: ev.After, Unix: civil.SaturatingAdd(local, -int64(ev.After.UTCOffset))},
				},
			}, nil
		}
	}

	// Only reachable when saturation at the ends of the int64 range
	// breaks the round trip.
	o := z.Lookup(local)
	unix := civil.SaturatingAdd(local, -int64(o.UTCOffset))
	return LocalResult{Kind: Unique, Candidates: []Candidate{{Offset: z.Lookup(unix), Unix: unix}}}, nil
}
