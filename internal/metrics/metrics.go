// Package metrics exposes the diagnostics §7 calls for (start-point
// counts, maximum observed drainage, tiles/bytes written)
// as Prometheus collectors, grounded on the same
// prometheus.NewGaugeFunc/MustRegister idiom the rest of the example
// corpus uses for its webserver instrumentation.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sink is an optional diagnostics sink: a container build works exactly
// the same whether or not a Sink is wired in, per §7's "their absence
// does not affect correctness."
type Sink struct {
	StartPoints  prometheus.Gauge
	MaxDrainage  prometheus.Gauge
	TilesWritten prometheus.Counter
	BytesWritten prometheus.Counter
}

// NewSink builds a Sink and registers its collectors against reg. Pass
// prometheus.NewRegistry() for an isolated registry (tests, one-off
// CLI runs) or prometheus.DefaultRegisterer to expose it on the default
// /metrics handler.
func NewSink(reg prometheus.Registerer) *Sink {
	s := &Sink{
		StartPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geomg",
			Name:      "start_points_total",
			Help:      "Number of flow-forest start points (coastline and border cells) found by the most recent build.",
		}),
		MaxDrainage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geomg",
			Name:      "max_drainage",
			Help:      "Largest accumulated drainage value observed across all flow-tree roots in the most recent build.",
		}),
		TilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geomg",
			Name:      "tiles_written_total",
			Help:      "Total number of compressed tiles written to containers by this process.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geomg",
			Name:      "bytes_written_total",
			Help:      "Total compressed bytes written to containers by this process.",
		}),
	}
	reg.MustRegister(s.StartPoints, s.MaxDrainage, s.TilesWritten, s.BytesWritten)
	return s
}
