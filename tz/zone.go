// Package tz resolves UTC offsets of a time zone described by a TZif file.
//
// A Zone is built once with Parse and is immutable afterwards; it may be
// used from multiple goroutines without synchronization.
package tz

import (
	"bytes"
	"fmt"

	"github.com/ngrash/go-tzif/tzif"
	"github.com/ngrash/go-tzif/tzrule"
)

// LocalTimeType is a local time type of a zone.
type LocalTimeType struct {
	UTCOffset   int32
	IsDST       bool
	Designation string

	// IsStd and IsUT are the standard/wall and UT/local indicators. They
	// are informational and never change lookups.
	IsStd bool
	IsUT  bool
}

// Transition is an explicit transition of a zone. Type indexes the zone's
// local time types.
type Transition struct {
	Unix int64
	Type int
}

// LeapSecond is a leap second record. Correction is the total correction
// in effect from Unix on.
type LeapSecond struct {
	Unix       int64
	Correction int32
}

// Offset is the result of resolving an instant.
type Offset struct {
	UTCOffset   int32
	Designation string
	IsDST       bool
}

func (o Offset) String() string {
	dst := ""
	if o.IsDST {
		dst = " DST"
	}
	return fmt.Sprintf("%s %s%s", formatUTCOffset(o.UTCOffset), o.Designation, dst)
}

func formatUTCOffset(secs int32) string {
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	s := fmt.Sprintf("%c%02d:%02d", sign, secs/3600, secs%3600/60)
	if secs%60 != 0 {
		s += fmt.Sprintf(":%02d", secs%60)
	}
	return s
}

// Zone is a decoded time zone.
type Zone struct {
	name    string
	version tzif.Version

	transitions  []Transition
	types        []LocalTimeType
	designations []byte
	leapSeconds  []LeapSecond

	footer  string
	rule    *tzrule.Rule
	ruleErr error

	// Bounds of all offsets the zone can resolve to.
	minOffset, maxOffset int32
}

// Options control Parse.
type Options struct {
	// StrictRule makes an unparsable footer rule a parse error. By default
	// the zone falls back to the last explicit local time type and reports
	// the problem through RuleError and LookupStrict.
	StrictRule bool
}

// Parse decodes a TZif file into a Zone. Errors are of type *ParseError.
func Parse(name string, data []byte) (*Zone, error) {
	return ParseWithOptions(name, data, Options{})
}

// ParseWithOptions is like Parse with explicit options.
func ParseWithOptions(name string, data []byte, opts Options) (*Zone, error) {
	z, err := parse(name, data, opts)
	if err != nil {
		return nil, &ParseError{Zone: name, Err: err}
	}
	return z, nil
}

func parse(name string, data []byte, opts Options) (*Zone, error) {
	d, err := tzif.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := tzif.Validate(d); err != nil {
		return nil, err
	}
	h, block := d.Retained()

	z := &Zone{
		name:         name,
		version:      d.Version,
		designations: block.TimeZoneDesignation,
	}

	z.types = make([]LocalTimeType, h.Typecnt)
	for i, r := range block.LocalTimeTypeRecord {
		desig := block.TimeZoneDesignation[r.Idx:]
		z.types[i] = LocalTimeType{
			UTCOffset:   r.Utoff,
			IsDST:       r.Dst,
			Designation: string(desig[:bytes.IndexByte(desig, 0)]),
		}
		if len(block.StandardWallIndicators) > 0 {
			z.types[i].IsStd = block.StandardWallIndicators[i]
		}
		if len(block.UTLocalIndicators) > 0 {
			z.types[i].IsUT = block.UTLocalIndicators[i]
		}
	}

	if len(block.TransitionTimes) > 0 {
		z.transitions = make([]Transition, len(block.TransitionTimes))
		for i, t := range block.TransitionTimes {
			z.transitions[i] = Transition{Unix: t, Type: int(block.TransitionTypes[i])}
		}
	}

	if len(block.LeapSecondRecords) > 0 {
		z.leapSeconds = make([]LeapSecond, len(block.LeapSecondRecords))
		for i, r := range block.LeapSecondRecords {
			z.leapSeconds[i] = LeapSecond{Unix: r.Occur, Correction: r.Corr}
		}
	}

	if d.Version.HasV2Block() && len(d.V2Footer.TZString) > 0 {
		z.footer = string(d.V2Footer.TZString)
		r, err := tzrule.Parse(z.footer)
		switch {
		case err == nil:
			z.rule = &r
		case opts.StrictRule:
			return nil, fmt.Errorf("footer: %w", err)
		default:
			z.ruleErr = err
		}
	}

	z.minOffset, z.maxOffset = z.types[0].UTCOffset, z.types[0].UTCOffset
	for _, t := range z.types {
		z.includeOffset(t.UTCOffset)
	}
	if z.rule != nil {
		z.includeOffset(z.rule.StdOffset)
		if z.rule.HasDST() {
			z.includeOffset(z.rule.DSTOffset)
		}
	}
	return z, nil
}

func (z *Zone) includeOffset(o int32) {
	z.minOffset = min(z.minOffset, o)
	z.maxOffset = max(z.maxOffset, o)
}

// Name returns the name the zone was parsed with.
func (z *Zone) Name() string { return z.name }

func (z *Zone) String() string { return z.name }

// Version returns the TZif version of the source file.
func (z *Zone) Version() tzif.Version { return z.version }

// ExplicitTransitions returns a copy of the transitions stored in the file.
func (z *Zone) ExplicitTransitions() []Transition {
	return append([]Transition(nil), z.transitions...)
}

// Types returns a copy of the local time types.
func (z *Zone) Types() []LocalTimeType {
	return append([]LocalTimeType(nil), z.types...)
}

// Designations returns a copy of the raw designation table.
func (z *Zone) Designations() []byte {
	return bytes.Clone(z.designations)
}

// LeapSeconds returns a copy of the leap second records.
func (z *Zone) LeapSeconds() []LeapSecond {
	return append([]LeapSecond(nil), z.leapSeconds...)
}

// Footer returns the TZ string of the footer, empty if there is none.
func (z *Zone) Footer() string { return z.footer }

// Rule returns the parsed footer rule.
func (z *Zone) Rule() (tzrule.Rule, bool) {
	if z.rule == nil {
		return tzrule.Rule{}, false
	}
	return *z.rule, true
}

// RuleError returns the error that occurred parsing the footer, if any.
func (z *Zone) RuleError() error { return z.ruleErr }

// LeapCorrection returns the leap second correction in effect at unix. It
// is informational only: lookups ignore leap seconds.
func (z *Zone) LeapCorrection(unix int64) int32 {
	i := searchAfter(len(z.leapSeconds), func(i int) int64 { return z.leapSeconds[i].Unix }, unix)
	if i == 0 {
		return 0
	}
	return z.leapSeconds[i-1].Correction
}
