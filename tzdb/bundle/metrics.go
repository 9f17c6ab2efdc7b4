package bundle

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngrash/go-tzif/internal/logging"
	"github.com/ngrash/go-tzif/tz"
)

const namespace = "tzbundle"

// Metrics counts the outcome of LoadAll. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ZonesLoaded   prometheus.Counter
	ZonesDegraded prometheus.Counter
	ZoneErrors    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg, if reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ZonesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zones_loaded_total",
			Help:      "Total zones parsed successfully.",
		}),
		ZonesDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zones_degraded_total",
			Help:      "Total zones parsed with an unusable footer rule.",
		}),
		ZoneErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_errors_total",
			Help:      "Total zones that failed to parse by error kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.ZonesLoaded, m.ZonesDegraded, m.ZoneErrors)
	}
	return m
}

func (m *Metrics) loaded(z *tz.Zone) {
	if m == nil {
		return
	}
	m.ZonesLoaded.Inc()
	if z.RuleError() != nil {
		m.ZonesDegraded.Inc()
	}
}

func (m *Metrics) failed(err error) {
	if m == nil {
		return
	}
	m.ZoneErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind returns a short label for a parse error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, tz.ErrMalformedHeader):
		return "header"
	case errors.Is(err, tz.ErrUnsupportedVersion):
		return "version"
	case errors.Is(err, tz.ErrTruncatedBody):
		return "truncated"
	case errors.Is(err, tz.ErrNonMonotonicTransitions):
		return "monotonic"
	case errors.Is(err, tz.ErrIndexOutOfRange):
		return "index"
	case errors.Is(err, tz.ErrMalformedRule):
		return "rule"
	}
	return "other"
}

// LoadAll parses every zone. Failures are logged and counted and do not
// stop the others from loading; they are returned joined.
func (r *Registry) LoadAll(logger *slog.Logger, m *Metrics, opts tz.Options) (map[string]*tz.Zone, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	zones := make(map[string]*tz.Zone, len(r.names))
	var errs []error
	for _, name := range r.names {
		z, err := tz.ParseWithOptions(name, r.zones[name], opts)
		if err != nil {
			logging.ZoneError(logger, name, err, "kind", ErrorKind(err))
			m.failed(err)
			errs = append(errs, err)
			continue
		}
		if rerr := z.RuleError(); rerr != nil {
			logging.ZoneWarning(logger, name, rerr, "footer", z.Footer())
		} else {
			logging.ZoneLoaded(logger, name, "transitions", len(z.ExplicitTransitions()))
		}
		m.loaded(z)
		zones[name] = z
	}
	logger.Info("zones_loaded", "version", r.version, "loaded", len(zones), "failed", len(errs))
	return zones, errors.Join(errs...)
}
