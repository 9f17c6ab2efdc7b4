package tzrule

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mwd(month, week, weekday int, time int32) DateRule {
	return DateRule{Kind: MonthWeekDay, Month: month, Week: week, Weekday: weekday, Time: time}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Rule
	}{
		{
			in:   "UTC0",
			want: Rule{StdName: "UTC"},
		},
		{
			in:   "HST10",
			want: Rule{StdName: "HST", StdOffset: -36000},
		},
		{
			in:   "<+0330>-3:30",
			want: Rule{StdName: "+0330", StdOffset: 12600},
		},
		{
			in:   "<-03>3",
			want: Rule{StdName: "-03", StdOffset: -10800},
		},
		{
			in: "EST5EDT,M3.2.0,M11.1.0",
			want: Rule{
				StdName: "EST", StdOffset: -18000,
				DSTName: "EDT", DSTOffset: -14400,
				Start: mwd(3, 2, 0, 7200),
				End:   mwd(11, 1, 0, 7200),
			},
		},
		{
			in: "CET-1CEST,M3.5.0,M10.5.0/3",
			want: Rule{
				StdName: "CET", StdOffset: 3600,
				DSTName: "CEST", DSTOffset: 7200,
				Start: mwd(3, 5, 0, 7200),
				End:   mwd(10, 5, 0, 10800),
			},
		},
		{
			// Hours beyond 24 in the transition time.
			in: "IST-2IDT,M3.4.4/26,M10.5.0",
			want: Rule{
				StdName: "IST", StdOffset: 7200,
				DSTName: "IDT", DSTOffset: 10800,
				Start: mwd(3, 4, 4, 26*3600),
				End:   mwd(10, 5, 0, 7200),
			},
		},
		{
			// Negative transition time.
			in: "<-02>2<-01>,M3.5.0/-1,M10.5.0/0",
			want: Rule{
				StdName: "-02", StdOffset: -7200,
				DSTName: "-01", DSTOffset: -3600,
				Start: mwd(3, 5, 0, -3600),
				End:   mwd(10, 5, 0, 0),
			},
		},
		{
			in: "NZST-12NZDT,M9.5.0,M4.1.0/3",
			want: Rule{
				StdName: "NZST", StdOffset: 43200,
				DSTName: "NZDT", DSTOffset: 46800,
				Start: mwd(9, 5, 0, 7200),
				End:   mwd(4, 1, 0, 10800),
			},
		},
		{
			// DST all year.
			in: "EST5EDT,0/0,J365/25",
			want: Rule{
				StdName: "EST", StdOffset: -18000,
				DSTName: "EDT", DSTOffset: -14400,
				Start: DateRule{Kind: JulianZero, Day: 0, Time: 0},
				End:   DateRule{Kind: JulianNoLeap, Day: 365, Time: 25 * 3600},
			},
		},
		{
			in: "XXX3:30:15YYY2:00,J60/1:02:03,300/-4",
			want: Rule{
				StdName: "XXX", StdOffset: -(3*3600 + 30*60 + 15),
				DSTName: "YYY", DSTOffset: -7200,
				Start: DateRule{Kind: JulianNoLeap, Day: 60, Time: 3723},
				End:   DateRule{Kind: JulianZero, Day: 300, Time: -4 * 3600},
			},
		},
		{
			in: "AAA+08BBB-09,M08.01.06/+167,M09.05.00/-167",
			want: Rule{
				StdName: "AAA", StdOffset: -8 * 3600,
				DSTName: "BBB", DSTOffset: 9 * 3600,
				Start: mwd(8, 1, 6, 167*3600),
				End:   mwd(9, 5, 0, -167*3600),
			},
		},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", c.in, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", c.in, diff)
		}

		again, err := Parse(got.String())
		if err != nil {
			t.Errorf("Parse(%q) of formatted rule failed: %v", got.String(), err)
			continue
		}
		if diff := cmp.Diff(got, again); diff != "" {
			t.Errorf("formatted rule %q mismatch (-want +got):\n%s", got.String(), diff)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"EST",
		"E5",
		"<AB>5",
		"<A B>5",
		"<+03",
		"EST25",
		"EST5:60",
		"EST5:00:60",
		"EST5x",
		"EST5EDT",
		"EST5EDT,M3.2.0",
		"EST5EDT,M3.2.0,",
		"EST5EDT,M3.2.0,M11.1.0,",
		"EST5EDT,M13.2.0,M11.1.0",
		"EST5EDT,M0.2.0,M11.1.0",
		"EST5EDT,M3.6.0,M11.1.0",
		"EST5EDT,M3.0.0,M11.1.0",
		"EST5EDT,M3.2.7,M11.1.0",
		"EST5EDT,J0,J365",
		"EST5EDT,J366,J365",
		"EST5EDT,0,366",
		"EST5EDT,M3.2.0/168,M11.1.0",
		"EST5EDT,M3.2.0/2:60,M11.1.0",
		"EST5EDT25,M3.2.0,M11.1.0",
		"EST5 ",
		"EST5EDT;M3.2.0,M11.1.0",
		"EST99999999999999999999",
	} {
		_, err := Parse(in)
		if !errors.Is(err, ErrMalformedRule) {
			t.Errorf("Parse(%q) error = %v, want %v", in, err, ErrMalformedRule)
		}
	}
}

func TestRule_String(t *testing.T) {
	cases := map[string]string{
		"EST5EDT4,M3.2.0/02:00:00,M11.1.0/2": "EST5EDT,M3.2.0,M11.1.0",
		"<+0330>-03:30":                      "<+0330>-3:30",
		"UTC+0":                              "UTC0",
	}
	for in, want := range cases {
		r, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", in, err)
			continue
		}
		if got := r.String(); got != want {
			t.Errorf("Parse(%q).String() = %q, want %q", in, got, want)
		}
	}
}
