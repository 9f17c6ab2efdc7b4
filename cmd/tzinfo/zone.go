package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ngrash/go-tzif/tz"
	"github.com/ngrash/go-tzif/tzrule"
)

// formatInstant formats unix seconds as RFC 3339 in UTC.
func formatInstant(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// parseInstant accepts unix seconds or an RFC 3339 timestamp.
func parseInstant(s string) (int64, error) {
	if s == "" {
		return time.Now().Unix(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return unix, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("instant %q: want unix seconds or RFC 3339", s)
	}
	return t.Unix(), nil
}

// parseDateTime accepts YYYY-MM-DDTHH:MM[:SS] with any year.
func parseDateTime(s string) (tz.DateTime, error) {
	var dt tz.DateTime
	date, clock, ok := strings.Cut(s, "T")
	if !ok {
		date, clock, ok = strings.Cut(s, " ")
	}
	if !ok {
		return dt, fmt.Errorf("local time %q: want YYYY-MM-DDTHH:MM[:SS]", s)
	}
	// A leading minus belongs to the year.
	neg := strings.HasPrefix(date, "-")
	parts := strings.Split(strings.TrimPrefix(date, "-"), "-")
	if len(parts) != 3 {
		return dt, fmt.Errorf("local date %q: want YYYY-MM-DD", date)
	}
	year, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return dt, fmt.Errorf("local date %q: %w", date, err)
	}
	if neg {
		year = -year
	}
	dt.Year = year
	if dt.Month, err = strconv.Atoi(parts[1]); err != nil {
		return dt, fmt.Errorf("local date %q: %w", date, err)
	}
	if dt.Day, err = strconv.Atoi(parts[2]); err != nil {
		return dt, fmt.Errorf("local date %q: %w", date, err)
	}

	fields := strings.Split(clock, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return dt, fmt.Errorf("local time %q: want HH:MM[:SS]", clock)
	}
	dst := []*int{&dt.Hour, &dt.Minute, &dt.Second}
	for i, f := range fields {
		if *dst[i], err = strconv.Atoi(f); err != nil {
			return dt, fmt.Errorf("local time %q: %w", clock, err)
		}
	}
	return dt, nil
}

// LookupCmd resolves an instant.
type LookupCmd struct {
	Zone   string `arg:"" help:"Zone name or TZif file"`
	At     string `arg:"" optional:"" help:"Unix seconds or RFC 3339 timestamp, defaults to now"`
	Strict bool   `help:"Fail where a malformed footer rule would have applied"`
}

func (c *LookupCmd) Run(e *env) error {
	z, err := e.zone(c.Zone)
	if err != nil {
		return err
	}
	unix, err := parseInstant(c.At)
	if err != nil {
		return err
	}
	if c.Strict {
		if _, err := z.LookupStrict(unix); err != nil {
			return err
		}
	}
	local, o := z.LocalTime(unix)
	fmt.Fprintf(e.out, "zone     %s\n", z.Name())
	fmt.Fprintf(e.out, "instant  %s (%d)\n", formatInstant(unix), unix)
	fmt.Fprintf(e.out, "offset   %s\n", o)
	fmt.Fprintf(e.out, "local    %s\n", local)
	return nil
}

// LocalCmd resolves a local date and time and reports gaps and overlaps.
type LocalCmd struct {
	Zone string `arg:"" help:"Zone name or TZif file"`
	Time string `arg:"" help:"Local time as YYYY-MM-DDTHH:MM[:SS]"`
	Gap  string `help:"Gap policy (report, reject), overrides the configured policy"`
}

func (c *LocalCmd) Run(e *env) error {
	z, err := e.zone(c.Zone)
	if err != nil {
		return err
	}
	dt, err := parseDateTime(c.Time)
	if err != nil {
		return err
	}
	policy := e.cfg.Policy()
	if c.Gap != "" {
		if policy, err = tz.ParseGapPolicy(c.Gap); err != nil {
			return err
		}
	}
	res, err := z.LookupLocal(dt, policy)
	if errors.Is(err, tz.ErrNonexistentLocalTime) {
		fmt.Fprintf(e.out, "%s %s\n", dt, tz.Gap)
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s %s\n", dt, res.Kind)
	for _, cand := range res.Candidates {
		fmt.Fprintf(e.out, "  %s  %s (%d)\n", cand.Offset, formatInstant(cand.Unix), cand.Unix)
	}
	return nil
}

// TransitionsCmd lists the offset changes of a zone.
type TransitionsCmd struct {
	Zone string `arg:"" help:"Zone name or TZif file"`
	From int64  `help:"First year" default:"1970"`
	To   int64  `help:"Last year" default:"2037"`
}

func (c *TransitionsCmd) Run(e *env) error {
	if c.To < c.From {
		return fmt.Errorf("--to %d is before --from %d", c.To, c.From)
	}
	z, err := e.zone(c.Zone)
	if err != nil {
		return err
	}
	from := time.Date(int(c.From), time.January, 1, 0, 0, 0, 0, time.UTC).Unix() - 1
	to := time.Date(int(c.To)+1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix() - 1
	for _, ev := range z.Transitions(from, to) {
		fmt.Fprintf(e.out, "%s  %s -> %s\n", formatInstant(ev.Unix), ev.Before, ev.After)
	}
	return nil
}

// RuleCmd parses a TZ rule string on its own.
type RuleCmd struct {
	Rule string `arg:"" help:"TZ rule string, for example CET-1CEST,M3.5.0,M10.5.0/3"`
	Year int64  `help:"Year to print the transitions of, defaults to the current year"`
}

func (c *RuleCmd) Run(e *env) error {
	r, err := tzrule.Parse(c.Rule)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "rule   %s\n", r)
	fmt.Fprintf(e.out, "std    %s\n", tz.Offset{UTCOffset: r.StdOffset, Designation: r.StdName})
	if !r.HasDST() {
		return nil
	}
	fmt.Fprintf(e.out, "dst    %s\n", tz.Offset{UTCOffset: r.DSTOffset, Designation: r.DSTName, IsDST: true})

	year := c.Year
	if year == 0 {
		year = int64(time.Now().Year())
	}
	start, end := r.Transitions(year)
	fmt.Fprintf(e.out, "start  %s (%d)\n", formatInstant(start), start)
	fmt.Fprintf(e.out, "end    %s (%d)\n", formatInstant(end), end)
	return nil
}
