// Package tzrule parses and evaluates POSIX TZ strings as found in the
// footer of TZif version 2+ files, including the extensions of RFC 9636
// Section 3.3.1.
//
// A rule has the form
//
//	std offset [dst [offset] [,start[/time],end[/time]]]
//
// for example "CET-1CEST,M3.5.0,M10.5.0/3".
package tzrule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ngrash/go-tzif/internal/civil"
)

// ErrMalformedRule is wrapped by every error returned by Parse.
var ErrMalformedRule = errors.New("malformed recurrence rule")

const (
	// maxOffsetHours bounds the hours of a UTC offset.
	maxOffsetHours = 24
	// maxTimeHours bounds the hours of a transition time.
	maxTimeHours = 167

	// defaultTime is the transition time used when a date has none.
	defaultTime = 2 * civil.SecondsPerHour
)

// DateKind tells how a DateRule selects its day.
type DateKind int

const (
	// JulianNoLeap is the Jn form: day n (1-365), February 29 is never
	// counted.
	JulianNoLeap DateKind = iota + 1
	// JulianZero is the n form: zero-based day n (0-365), leap days
	// counted.
	JulianZero
	// MonthWeekDay is the Mm.w.d form: weekday d of week w of month m.
	MonthWeekDay
)

func (k DateKind) String() string {
	switch k {
	case JulianNoLeap:
		return "JulianNoLeap"
	case JulianZero:
		return "JulianZero"
	case MonthWeekDay:
		return "MonthWeekDay"
	}
	return fmt.Sprintf("DateKind(%d)", int(k))
}

// DateRule is one end of the daylight saving time period.
type DateRule struct {
	Kind DateKind

	// Day is n for JulianNoLeap and JulianZero.
	Day int

	// Month (1-12), Week (1-5, 5 meaning the last) and Weekday (0-6,
	// 0 meaning Sunday) are set for MonthWeekDay.
	Month   int
	Week    int
	Weekday int

	// Time is the local time of day of the transition in seconds. It may
	// be negative or exceed a day.
	Time int32
}

// Rule is a parsed TZ string. Offsets are in seconds east of UTC, the
// opposite sign of the POSIX notation.
type Rule struct {
	StdName   string
	StdOffset int32

	// DSTName is empty for rules without daylight saving time, in which
	// case the remaining fields are zero.
	DSTName   string
	DSTOffset int32
	Start     DateRule
	End       DateRule
}

// HasDST reports whether r has a daylight saving time period.
func (r Rule) HasDST() bool {
	return r.DSTName != ""
}

// String formats r as a TZ string.
func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(formatName(r.StdName))
	sb.WriteString(formatOffset(-r.StdOffset))
	if !r.HasDST() {
		return sb.String()
	}
	sb.WriteString(formatName(r.DSTName))
	if r.DSTOffset != r.StdOffset+civil.SecondsPerHour {
		sb.WriteString(formatOffset(-r.DSTOffset))
	}
	for _, d := range []DateRule{r.Start, r.End} {
		sb.WriteByte(',')
		switch d.Kind {
		case JulianNoLeap:
			fmt.Fprintf(&sb, "J%d", d.Day)
		case JulianZero:
			fmt.Fprintf(&sb, "%d", d.Day)
		case MonthWeekDay:
			fmt.Fprintf(&sb, "M%d.%d.%d", d.Month, d.Week, d.Weekday)
		}
		if d.Time != defaultTime {
			sb.WriteByte('/')
			sb.WriteString(formatOffset(d.Time))
		}
	}
	return sb.String()
}

func formatName(name string) string {
	for _, c := range name {
		if !isAlpha(c) {
			return "<" + name + ">"
		}
	}
	return name
}

func formatOffset(secs int32) string {
	var sb strings.Builder
	if secs < 0 {
		sb.WriteByte('-')
		secs = -secs
	}
	h, m, s := secs/civil.SecondsPerHour, secs%civil.SecondsPerHour/civil.SecondsPerMinute, secs%civil.SecondsPerMinute
	fmt.Fprintf(&sb, "%d", h)
	if m != 0 || s != 0 {
		fmt.Fprintf(&sb, ":%02d", m)
	}
	if s != 0 {
		fmt.Fprintf(&sb, ":%02d", s)
	}
	return sb.String()
}

// Parse parses a TZ string.
func Parse(text string) (Rule, error) {
	g, err := tzParser.ParseString("", text)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrMalformedRule, text, err)
	}
	r, err := g.rule()
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrMalformedRule, text, err)
	}
	return r, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Rule {
	r, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return r
}

func (g *tzGrammar) rule() (Rule, error) {
	var (
		r   Rule
		err error
	)
	if r.StdName, err = g.Std.designation(); err != nil {
		return r, fmt.Errorf("std designation: %w", err)
	}
	if r.StdOffset, err = g.StdOff.seconds(maxOffsetHours); err != nil {
		return r, fmt.Errorf("std offset: %w", err)
	}
	r.StdOffset = -r.StdOffset
	if g.DST == nil {
		return r, nil
	}

	if r.DSTName, err = g.DST.Name.designation(); err != nil {
		return r, fmt.Errorf("dst designation: %w", err)
	}
	r.DSTOffset = r.StdOffset + civil.SecondsPerHour
	if g.DST.Off != nil {
		if r.DSTOffset, err = g.DST.Off.seconds(maxOffsetHours); err != nil {
			return r, fmt.Errorf("dst offset: %w", err)
		}
		r.DSTOffset = -r.DSTOffset
	}
	if g.DST.Start == nil || g.DST.End == nil {
		return r, errors.New("dst requires start and end rules")
	}
	if r.Start, err = g.DST.Start.dateRule(); err != nil {
		return r, fmt.Errorf("start rule: %w", err)
	}
	if r.End, err = g.DST.End.dateRule(); err != nil {
		return r, fmt.Errorf("end rule: %w", err)
	}
	return r, nil
}

func (g *nameGrammar) designation() (string, error) {
	name := g.Alpha
	if g.Quoted != "" {
		name = g.Quoted[1 : len(g.Quoted)-1]
		for _, c := range name {
			if !isAlpha(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' {
				return "", fmt.Errorf("invalid character %q in %q", c, name)
			}
		}
	}
	if len(name) < 3 {
		return "", fmt.Errorf("%q is shorter than 3 characters", name)
	}
	return name, nil
}

func isAlpha(c rune) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

// seconds returns the signed value of hh[:mm[:ss]] in seconds.
func (g *offsetGrammar) seconds(maxHours int) (int32, error) {
	h, err := number(g.Hours, 0, maxHours)
	if err != nil {
		return 0, fmt.Errorf("hours: %w", err)
	}
	var m, s int
	if g.Minutes != "" {
		if m, err = number(g.Minutes, 0, 59); err != nil {
			return 0, fmt.Errorf("minutes: %w", err)
		}
	}
	if g.Seconds != "" {
		if s, err = number(g.Seconds, 0, 59); err != nil {
			return 0, fmt.Errorf("seconds: %w", err)
		}
	}
	secs := int32(h*civil.SecondsPerHour + m*civil.SecondsPerMinute + s)
	if g.Sign == "-" {
		secs = -secs
	}
	return secs, nil
}

func (g *dateGrammar) dateRule() (DateRule, error) {
	var (
		d   = DateRule{Time: defaultTime}
		err error
	)
	switch ds := g.Date; {
	case ds.Julian != "":
		d.Kind = JulianNoLeap
		if d.Day, err = number(ds.Julian, 1, 365); err != nil {
			return d, fmt.Errorf("julian day: %w", err)
		}
	case ds.MWD != nil:
		d.Kind = MonthWeekDay
		if d.Month, err = number(ds.MWD.Month, 1, 12); err != nil {
			return d, fmt.Errorf("month: %w", err)
		}
		if d.Week, err = number(ds.MWD.Week, 1, 5); err != nil {
			return d, fmt.Errorf("week: %w", err)
		}
		if d.Weekday, err = number(ds.MWD.Weekday, 0, 6); err != nil {
			return d, fmt.Errorf("weekday: %w", err)
		}
	default:
		d.Kind = JulianZero
		if d.Day, err = number(ds.Zero, 0, 365); err != nil {
			return d, fmt.Errorf("day: %w", err)
		}
	}
	if g.Time != nil {
		if d.Time, err = g.Time.seconds(maxTimeHours); err != nil {
			return d, fmt.Errorf("time: %w", err)
		}
	}
	return d, nil
}

func number(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}
