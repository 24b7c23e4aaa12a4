package collector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks lookup outcomes
type Metrics struct {
	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the lookup metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "City lookups by outcome",
		}, []string{"outcome"}),
		duration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "weather_lookup_duration_seconds",
			Help:    "Time taken by a city lookup including the icon download",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) observe(r Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome(r)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func outcome(r Result) string {
	switch {
	case r.NotFound:
		return "not_found"
	case r.Canceled():
		return "canceled"
	case r.Err != nil:
		return "error"
	default:
		return "found"
	}
}
