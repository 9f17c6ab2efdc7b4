package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ngrash/go-tzif/tzif"
)

// DumpCmd prints the raw structures of a TZif file.
type DumpCmd struct {
	File string `arg:"" help:"TZif file" type:"existingfile"`
	V1   bool   `help:"Always print the version 1 header and data"`
}

func (c *DumpCmd) Run(e *env) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()
	data, err := tzif.DecodeData(f)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	d := dumper{w: e.out}
	if data.Version == tzif.V1 || c.V1 {
		printHeader(d, data.V1Header)
		printBlock(d, data.V1Header.Version, data.V1Data)
	}
	if data.Version.HasV2Block() {
		printHeader(d, data.V2Header)
		printBlock(d, data.V2Header.Version, data.V2Data)
		d.println("Footer")
		d.println("  TZString =", string(data.V2Footer.TZString))
		d.println()
	}
	if len(data.Trailing) > 0 {
		d.println("remaining data:", len(data.Trailing), "bytes")
	}
	if err := tzif.Validate(data); err != nil {
		d.println("invalid:")
		for _, line := range strings.Split(err.Error(), "\n") {
			d.println(" ", line)
		}
	}
	return nil
}

type dumper struct {
	w io.Writer
}

func (d dumper) println(a ...any) {
	fmt.Fprintln(d.w, a...)
}

func (d dumper) printf(format string, a ...any) {
	fmt.Fprintf(d.w, format, a...)
}

func printHeader(d dumper, h tzif.Header) {
	d.println("Header")
	d.println("  version =", h.Version)
	d.println("  isutcnt =", h.Isutcnt)
	d.println("  isstdcnt =", h.Isstdcnt)
	d.println("  leapcnt =", h.Leapcnt)
	d.println("  timecnt =", h.Timecnt)
	d.println("  typecnt =", h.Typecnt)
	d.println("  charcnt =", h.Charcnt)
	d.println()
}

func printBlock[T tzif.Time](d dumper, v tzif.Version, b tzif.DataBlock[T]) {
	d.println("Data block", v)
	d.printf("  TransitionTimes (%d) = %v\n", len(b.TransitionTimes), b.TransitionTimes)
	d.printf("  TransitionTypes (%d) = %v\n", len(b.TransitionTypes), b.TransitionTypes)
	d.printf("  LocalTimeTypeRecord (%d) = %+v\n", len(b.LocalTimeTypeRecord), b.LocalTimeTypeRecord)
	d.printf("  TimeZoneDesignation (%d) = %q\n", len(b.TimeZoneDesignation), strings.Split(strings.TrimSuffix(string(b.TimeZoneDesignation), "\x00"), "\x00"))
	d.printf("  LeapSecondRecords (%d) = %+v\n", len(b.LeapSecondRecords), b.LeapSecondRecords)
	d.printf("  StandardWallIndicators (%d) = %v\n", len(b.StandardWallIndicators), b.StandardWallIndicators)
	d.printf("  UTLocalIndicators (%d) = %v\n", len(b.UTLocalIndicators), b.UTLocalIndicators)
	d.println()
}
