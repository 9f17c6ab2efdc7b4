package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ngrash/go-tzif/tzdb/bundle"
)

// ListCmd prints the zone names of the source.
type ListCmd struct {
	Aliases bool `short:"a" help:"Print the names with identical content next to each zone"`
}

func (c *ListCmd) Run(e *env) error {
	r, err := e.registry()
	if err != nil {
		return err
	}
	if v := r.Version(); v != "" {
		fmt.Fprintf(e.out, "# version %s\n", v)
	}
	for _, name := range r.Names() {
		if aliases := r.Aliases(name); c.Aliases && len(aliases) > 0 {
			fmt.Fprintf(e.out, "%s = %s\n", name, strings.Join(aliases, " "))
			continue
		}
		fmt.Fprintln(e.out, name)
	}
	return nil
}

// CheckCmd loads every zone of the source and reports failures.
type CheckCmd struct {
	Metrics bool `help:"Print the load counters in Prometheus text format"`
}

func (c *CheckCmd) Run(e *env) error {
	r, err := e.registry()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	m := bundle.NewMetrics(reg)

	zones, loadErr := r.LoadAll(e.logger, m, e.cfg.ZoneOptions())
	degraded := 0
	for _, z := range zones {
		if z.RuleError() != nil {
			degraded++
		}
	}
	failed := r.Len() - len(zones)
	fmt.Fprintf(e.out, "%d zones, %d loaded, %d degraded, %d failed\n", r.Len(), len(zones), degraded, failed)

	if c.Metrics {
		families, err := reg.Gather()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(e.out, mf); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
	}

	if loadErr != nil {
		return errors.New("some zones failed to load")
	}
	return nil
}
