// Package promreporter publishes benchmark statistics as Prometheus gauges.
package promreporter

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/violenttestpen/microbench"
)

const (
	metricsNamespace = "microbench"
	labelBenchmark   = "benchmark"
	labelSource      = "source"
	labelStat        = "stat"
)

// Reporter sets gauges from each reported Snapshot.
// Each report overwrites values of the same benchmark name.
type Reporter struct {
	Seconds    *prometheus.GaugeVec
	Iterations *prometheus.GaugeVec
}

var _ microbench.Reporter = (*Reporter)(nil)

// New creates a Reporter and registers its collectors.
func New(reg prometheus.Registerer) (*Reporter, error) {
	r := &Reporter{
		Seconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "elapsed_seconds",
				Help:      "Elapsed time statistics per benchmark iteration, variance in seconds squared",
			},
			[]string{labelBenchmark, labelSource, labelStat},
		),
		Iterations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "iterations",
				Help:      "Number of completed benchmark iterations",
			},
			[]string{labelBenchmark, labelSource},
		),
	}
	for _, c := range []prometheus.Collector{r.Seconds, r.Iterations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Report implements microbench.Reporter interface.
func (r *Reporter) Report(s microbench.Snapshot) error {
	for _, src := range s.Sources {
		kind := string(src.Kind)
		for stat, value := range map[string]float64{
			"min":      src.Min,
			"max":      src.Max,
			"sum":      src.Sum,
			"mean":     src.Mean,
			"variance": src.Variance,
		} {
			r.Seconds.WithLabelValues(s.Name, kind, stat).Set(value)
		}
		r.Iterations.WithLabelValues(s.Name, kind).Set(float64(src.Iterations))
	}
	return nil
}

// TextReporter writes each Snapshot in Prometheus text exposition format.
type TextReporter struct {
	W   io.Writer
	reg *prometheus.Registry
	r   *Reporter
}

var _ microbench.Reporter = (*TextReporter)(nil)

// NewText creates a TextReporter backed by a private registry.
func NewText(w io.Writer) (*TextReporter, error) {
	reg := prometheus.NewRegistry()
	r, err := New(reg)
	if err != nil {
		return nil, err
	}
	return &TextReporter{W: w, reg: reg, r: r}, nil
}

// Report implements microbench.Reporter interface.
// Only metrics of the given Snapshot are written.
func (t *TextReporter) Report(s microbench.Snapshot) error {
	t.r.Seconds.Reset()
	t.r.Iterations.Reset()
	if err := t.r.Report(s); err != nil {
		return err
	}

	families, err := t.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(t.W, mf); err != nil {
			return err
		}
	}
	return nil
}
