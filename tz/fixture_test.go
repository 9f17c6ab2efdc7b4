package tz

import (
	"bytes"
	"testing"
	"time"

	"github.com/ngrash/go-tzif/tzif"
)

type fixtureType struct {
	offset int32
	dst    bool
	name   string
}

// fixture describes a zone to be encoded as a TZif file.
type fixture struct {
	version tzif.Version
	types   []fixtureType
	times   []int64
	idx     []uint8
	footer  string
	leaps   []tzif.LeapSecondRecord[int64]
}

func (f fixture) encode(t testing.TB) []byte {
	t.Helper()
	var (
		desig []byte
		recs  []tzif.LocalTimeTypeRecord
		pos   = map[string]int{}
	)
	for _, typ := range f.types {
		p, ok := pos[typ.name]
		if !ok {
			p = len(desig)
			pos[typ.name] = p
			desig = append(append(desig, typ.name...), 0)
		}
		recs = append(recs, tzif.LocalTimeTypeRecord{Utoff: typ.offset, Dst: typ.dst, Idx: uint8(p)})
	}
	h := tzif.Header{
		Version: f.version,
		Leapcnt: uint32(len(f.leaps)),
		Timecnt: uint32(len(f.times)),
		Typecnt: uint32(len(f.types)),
		Charcnt: uint32(len(desig)),
	}
	block := tzif.DataBlock[int64]{
		TransitionTimes:     f.times,
		TransitionTypes:     f.idx,
		LocalTimeTypeRecord: recs,
		TimeZoneDesignation: desig,
		LeapSecondRecords:   f.leaps,
	}

	var d tzif.Data
	if f.version.HasV2Block() {
		d = tzif.Data{
			Version:  f.version,
			V1Header: tzif.Header{Version: f.version},
			V2Header: h,
			V2Data:   block,
			V2Footer: tzif.Footer{TZString: []byte(f.footer)},
		}
	} else {
		v1 := tzif.DataBlock[int32]{
			TransitionTypes:     f.idx,
			LocalTimeTypeRecord: recs,
			TimeZoneDesignation: desig,
		}
		for _, tt := range f.times {
			v1.TransitionTimes = append(v1.TransitionTimes, int32(tt))
		}
		for _, l := range f.leaps {
			v1.LeapSecondRecords = append(v1.LeapSecondRecords, tzif.LeapSecondRecord[int32]{Occur: int32(l.Occur), Corr: l.Corr})
		}
		d = tzif.Data{Version: f.version, V1Header: h, V1Data: v1}
	}

	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func (f fixture) zone(t testing.TB, name string) *Zone {
	t.Helper()
	z, err := Parse(name, f.encode(t))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", name, err)
	}
	return z
}

// brussels follows the history of Europe/Brussels, which Europe/Amsterdam
// links to, up to 1983.
var brussels = fixture{
	version: tzif.V2,
	types: []fixtureType{
		{1050, false, "LMT"},
		{1050, false, "BMT"},
		{0, false, "WET"},
		{3600, false, "CET"},
		{7200, true, "CEST"},
	},
	times: []int64{
		-2840140800, // 1880-01-01
		-2450995200, // 1892-05-01
		-1740355200, // 1914-11-08
		354675600,   // 1981-03-29
		370400400,   // 1981-09-27
		386125200,   // 1982-03-28
		401850000,   // 1982-09-26
		417574800,   // 1983-03-27
		433299600,   // 1983-09-25
	},
	idx:    []uint8{1, 2, 3, 4, 3, 4, 3, 4, 3},
	footer: "CET-1CEST,M3.5.0,M10.5.0/3",
}

// newYork has explicit US transitions for 2007-2010 and the rule after.
var newYork = fixture{
	version: tzif.V2,
	types: []fixtureType{
		{-17762, false, "LMT"},
		{-14400, true, "EDT"},
		{-18000, false, "EST"},
	},
	times: []int64{
		-2717650800, // 1883-11-18
		1173596400, 1194156000,
		1205046000, 1225605600,
		1236495600, 1257055200,
		1268550000, 1289109600,
	},
	idx:    []uint8{2, 1, 2, 1, 2, 1, 2, 1, 2},
	footer: "EST5EDT,M3.2.0,M11.1.0",
}

// auckland has no explicit transitions; the rule covers all time.
var auckland = fixture{
	version: tzif.V3,
	types: []fixtureType{
		{43200, false, "NZST"},
	},
	footer: "NZST-12NZDT,M9.5.0,M4.1.0/3",
}

// honolulu is the example from RFC 9636 Appendix B.2.
var honolulu = fixture{
	version: tzif.V2,
	types: []fixtureType{
		{-37886, false, "LMT"},
		{-37800, false, "HST"},
		{-34200, true, "HDT"},
		{-34200, true, "HWT"},
		{-34200, true, "HPT"},
		{-36000, false, "HST"},
	},
	times: []int64{
		-2334101314,
		-1157283000,
		-1155436200,
		-880198200,
		-769395600,
		-765376200,
		-712150200,
	},
	idx:    []uint8{1, 2, 1, 3, 4, 1, 5},
	footer: "HST10",
}

// goLocation loads the same bytes with the time package.
func goLocation(t testing.TB, name string, data []byte) *time.Location {
	t.Helper()
	loc, err := time.LoadLocationFromTZData(name, data)
	if err != nil {
		t.Fatalf("LoadLocationFromTZData(%q): %v", name, err)
	}
	return loc
}

func goOffset(loc *time.Location, unix int64) Offset {
	tm := time.Unix(unix, 0).In(loc)
	name, offset := tm.Zone()
	return Offset{UTCOffset: int32(offset), Designation: name, IsDST: tm.IsDST()}
}
