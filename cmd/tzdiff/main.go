// Command tzdiff compares two TZif files, both structurally and by the
// offsets they resolve to.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzif/tz"
	"github.com/ngrash/go-tzif/tzif"
)

var (
	fromFlag = flag.Int("from", 1800, "first year to compare offsets in")
	toFlag   = flag.Int("to", 2100, "last year to compare offsets in")
	maxFlag  = flag.Int("max", 20, "maximum number of offset differences to print")
)

func main() {
	flag.Parse()
	if err := run(os.Stdout, flag.Args(), *fromFlag, *toFlag, *maxFlag); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(w io.Writer, args []string, fromYear, toYear, limit int) error {
	if len(args) != 2 {
		return fmt.Errorf("Usage: tzdiff [flags] <tzdata file A> <tzdata file B>")
	}

	af, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	bf, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	adata, err := tzif.Decode(af)
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}
	bdata, err := tzif.Decode(bf)
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[1], err)
	}

	if diff := cmp.Diff(adata, bdata); diff != "" {
		fmt.Fprintln(w, "files are different: -A +B")
		fmt.Fprintln(w, diff)
	} else {
		fmt.Fprintln(w, "files are identical")
		return nil
	}

	az, err := tz.Parse(args[0], af)
	if err != nil {
		return err
	}
	bz, err := tz.Parse(args[1], bf)
	if err != nil {
		return err
	}
	from := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	to := time.Date(toYear+1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	diffs := offsetDiffs(az, bz, from, to)
	if len(diffs) == 0 {
		fmt.Fprintf(w, "offsets are identical from %d to %d\n", fromYear, toYear)
		return nil
	}
	fmt.Fprintf(w, "offsets differ at %d instants from %d to %d\n", len(diffs), fromYear, toYear)
	for i, d := range diffs {
		if i == limit {
			fmt.Fprintln(w, "...")
			break
		}
		fmt.Fprintf(w, "  %s  %s  %s\n", time.Unix(d.unix, 0).UTC().Format(time.RFC3339), d.a, d.b)
	}
	return nil
}

type offsetDiff struct {
	unix int64
	a, b tz.Offset
}

// offsetDiffs compares a and b at from and at every transition of either
// zone in [from, to). Each result starts an interval in which they differ.
func offsetDiffs(a, b *tz.Zone, from, to int64) []offsetDiff {
	instants := []int64{from}
	for _, ev := range a.Transitions(from, to-1) {
		instants = append(instants, ev.Unix)
	}
	for _, ev := range b.Transitions(from, to-1) {
		instants = append(instants, ev.Unix)
	}

	slices.Sort(instants)
	instants = slices.Compact(instants)

	var diffs []offsetDiff
	for _, t := range instants {
		if oa, ob := a.Lookup(t), b.Lookup(t); oa != ob {
			diffs = append(diffs, offsetDiff{unix: t, a: oa, b: ob})
		}
	}
	return diffs
}
