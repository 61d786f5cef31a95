package tablegen

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records load timings and table sizes.
type Metrics struct {
	duration *prometheus.HistogramVec
	rows     *prometheus.GaugeVec
}

// NewMetrics creates the load metrics and registers them with reg. Metrics
// already registered by another dataset are shared.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tablegen_load_seconds",
		Help:    "Time spent loading or initializing a data table.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "phase"})
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tablegen_table_rows",
		Help: "Number of rows loaded into a data table.",
	}, []string{"table"})

	var err error
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if rows, err = register(reg, rows); err != nil {
		return nil, err
	}
	return &Metrics{duration: duration, rows: rows}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(table, phase string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(table, phase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) setRows(table string, n int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(table).Set(float64(n))
}
