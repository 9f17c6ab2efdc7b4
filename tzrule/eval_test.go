package tzrule

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzif/internal/civil"
	"github.com/ngrash/go-tzif/tzif"
)

func TestRule_Transitions(t *testing.T) {
	cases := []struct {
		rule       string
		year       int64
		start, end int64
	}{
		// 2024-03-10 07:00 UTC, 2024-11-03 06:00 UTC.
		{"EST5EDT,M3.2.0,M11.1.0", 2024, 1710054000, 1730613600},
		// 2021-03-28 01:00 UTC, 2021-10-31 01:00 UTC.
		{"CET-1CEST,M3.5.0,M10.5.0/3", 2021, 1616893200, 1635642000},
		// 2024-03-29 00:00 UTC, 2024-10-26 23:00 UTC.
		{"IST-2IDT,M3.4.4/26,M10.5.0", 2024, 1711670400, 1729983600},
	}
	for _, c := range cases {
		r := MustParse(c.rule)
		start, end := r.Transitions(c.year)
		if start != c.start || end != c.end {
			t.Errorf("%s: Transitions(%d) = (%d, %d), want (%d, %d)", c.rule, c.year, start, end, c.start, c.end)
		}
	}

	if start, end := MustParse("UTC0").Transitions(2024); start != 0 || end != 0 {
		t.Errorf("Transitions() without DST = (%d, %d), want (0, 0)", start, end)
	}
}

func TestDateRule_Julian(t *testing.T) {
	cases := []struct {
		d     DateRule
		year  int64
		month int
		day   int
	}{
		// J60 is always March 1.
		{DateRule{Kind: JulianNoLeap, Day: 60}, 2020, 3, 1},
		{DateRule{Kind: JulianNoLeap, Day: 60}, 2021, 3, 1},
		{DateRule{Kind: JulianNoLeap, Day: 59}, 2020, 2, 28},
		{DateRule{Kind: JulianNoLeap, Day: 365}, 2020, 12, 31},
		// Zero-based days count February 29.
		{DateRule{Kind: JulianZero, Day: 59}, 2020, 2, 29},
		{DateRule{Kind: JulianZero, Day: 59}, 2021, 3, 1},
		{DateRule{Kind: JulianZero, Day: 365}, 2020, 12, 31},
		{DateRule{Kind: JulianZero, Day: 0}, 2021, 1, 1},
	}
	for _, c := range cases {
		got := c.d.day(c.year)
		if want := civil.DaysFromCivil(c.year, c.month, c.day); got != want {
			y, m, d := civil.CivilFromDays(got)
			t.Errorf("%+v in %d: got %d-%02d-%02d, want %d-%02d-%02d", c.d, c.year, y, m, d, c.year, c.month, c.day)
		}
	}
}

// goLocation returns Go's interpretation of a TZ string, loaded from a
// TZif file that consists of the footer only.
func goLocation(t *testing.T, rule string) *time.Location {
	t.Helper()
	h := tzif.Header{Version: tzif.V2, Typecnt: 1, Charcnt: 4}
	block := tzif.DataBlock[int64]{
		LocalTimeTypeRecord: []tzif.LocalTimeTypeRecord{{}},
		TimeZoneDesignation: []byte("UTC\x00"),
	}
	d := tzif.Data{
		Version:  tzif.V2,
		V1Header: h,
		V1Data:   tzif.DataBlock[int32]{LocalTimeTypeRecord: block.LocalTimeTypeRecord, TimeZoneDesignation: block.TimeZoneDesignation},
		V2Header: h,
		V2Data:   block,
		V2Footer: tzif.Footer{TZString: []byte(rule)},
	}
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	loc, err := time.LoadLocationFromTZData(rule, buf.Bytes())
	if err != nil {
		t.Fatalf("LoadLocationFromTZData: %v", err)
	}
	return loc
}

type period struct {
	Name   string
	Offset int32
	IsDST  bool
}

func TestRule_Lookup_MatchesTimePackage(t *testing.T) {
	// Go evaluates rules per UTC year, so none of these rules have
	// transitions close to the turn of the year.
	rules := []string{
		"EST5EDT,M3.2.0,M11.1.0",
		"CET-1CEST,M3.5.0,M10.5.0/3",
		"IST-2IDT,M3.4.4/26,M10.5.0",
		"NZST-12NZDT,M9.5.0,M4.1.0/3",
		"<-02>2<-01>,M3.5.0/-1,M10.5.0/0",
		"AEST-10AEDT,M10.1.0,M4.1.0/3",
		"<+1030>-10:30<+11>-11,M10.1.0,M4.1.0",
		"XXX3:30:15YYY2:00,J60/1:02:03,300/-4",
	}
	from := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	to := time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	const step = 7*civil.SecondsPerHour + 13*civil.SecondsPerMinute

	for _, rule := range rules {
		t.Run(rule, func(t *testing.T) {
			r := MustParse(rule)
			loc := goLocation(t, rule)

			check := func(unix int64) {
				t.Helper()
				var got period
				got.Name, got.Offset, got.IsDST = r.Lookup(unix)

				tm := time.Unix(unix, 0).In(loc)
				name, offset := tm.Zone()
				want := period{name, int32(offset), tm.IsDST()}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("Lookup(%d) mismatch (-want +got):\n%s", unix, diff)
				}
			}
			for unix := from; unix < to; unix += step {
				check(unix)
			}
			for year := int64(1970); year < 2100; year++ {
				start, end := r.Transitions(year)
				for _, unix := range []int64{start - 1, start, start + 1, end - 1, end, end + 1} {
					check(unix)
				}
			}
		})
	}
}

func TestRule_Lookup_Boundaries(t *testing.T) {
	r := MustParse("EST5EDT,M3.2.0,M11.1.0")
	start, end := r.Transitions(2024)
	cases := []struct {
		unix int64
		want period
	}{
		{start - 1, period{"EST", -18000, false}},
		{start, period{"EDT", -14400, true}},
		{end - 1, period{"EDT", -14400, true}},
		{end, period{"EST", -18000, false}},
	}
	for _, c := range cases {
		var got period
		got.Name, got.Offset, got.IsDST = r.Lookup(c.unix)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("Lookup(%d) mismatch (-want +got):\n%s", c.unix, diff)
		}
	}
}

func TestRule_Lookup_AllYearDST(t *testing.T) {
	r := MustParse("EST5EDT,0/0,J365/25")
	for year := int64(1990); year < 2030; year++ {
		for _, unix := range []int64{
			civil.FromDateTime(year, 1, 1, 0, 0, 0),
			civil.FromDateTime(year, 1, 1, 5, 0, 0),
			civil.FromDateTime(year, 7, 1, 0, 0, 0),
			civil.FromDateTime(year, 12, 31, 23, 59, 59),
		} {
			if name, _, isDST := r.Lookup(unix); !isDST {
				t.Fatalf("Lookup(%d) = %s, want DST all year", unix, name)
			}
		}
	}
}

func TestRule_Lookup_Periodic(t *testing.T) {
	r := MustParse("CET-1CEST,M3.5.0,M10.5.0/3")
	base := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC).Unix()
	for _, cycles := range []int64{-100000, -1000, -1, 1, 1000, 100000} {
		var want, got period
		want.Name, want.Offset, want.IsDST = r.Lookup(base)
		got.Name, got.Offset, got.IsDST = r.Lookup(base + cycles*civil.SecondsPer400Years)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Lookup() %d cycles away mismatch (-want +got):\n%s", cycles, diff)
		}
	}

	for _, unix := range []int64{math.MinInt64, math.MinInt64 + 1, math.MaxInt64 - 1, math.MaxInt64} {
		if name, _, _ := r.Lookup(unix); name != "CET" && name != "CEST" {
			t.Errorf("Lookup(%d) = %q", unix, name)
		}
	}
}

func TestRule_Events(t *testing.T) {
	r := MustParse("NZST-12NZDT,M9.5.0,M4.1.0/3")
	evs := r.Events(2023, 2024)
	if len(evs) != 4 {
		t.Fatalf("Events() returned %d events, want 4", len(evs))
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Unix < evs[i-1].Unix {
			t.Errorf("Events() not sorted at %d: %d < %d", i, evs[i].Unix, evs[i-1].Unix)
		}
	}
	// April comes before September in the southern hemisphere.
	if evs[0].IsDST || !evs[1].IsDST {
		t.Errorf("Events() = %+v, want end of DST first", evs)
	}

	// The end of one year meets the start of the next.
	all := MustParse("EST5EDT,0/0,J365/25").Events(2023, 2024)
	if all[1].Unix != all[2].Unix || all[1].IsDST || !all[2].IsDST {
		t.Errorf("Events() = %+v, want end before start at equal instants", all)
	}
}
