package promreporter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/violenttestpen/microbench"
	"github.com/violenttestpen/microbench/promreporter"
)

func TestReporter(t *testing.T) {
	assert, require := assert.New(t), require.New(t)

	reg := prometheus.NewRegistry()
	r, err := promreporter.New(reg)
	require.NoError(err)

	var acc microbench.Accumulator
	for _, x := range []float64{2, 4, 6} {
		acc.Update(x)
	}
	require.NoError(r.Report(microbench.Snapshot{
		Name:    "fib",
		Sources: []microbench.SourceStats{acc.Stats(microbench.Real)},
	}))

	assert.InDelta(2.0, testutil.ToFloat64(r.Seconds.WithLabelValues("fib", "real", "min")), 1e-9)
	assert.InDelta(6.0, testutil.ToFloat64(r.Seconds.WithLabelValues("fib", "real", "max")), 1e-9)
	assert.InDelta(12.0, testutil.ToFloat64(r.Seconds.WithLabelValues("fib", "real", "sum")), 1e-9)
	assert.InDelta(4.0, testutil.ToFloat64(r.Seconds.WithLabelValues("fib", "real", "mean")), 1e-9)
	assert.InDelta(8.0/3.0, testutil.ToFloat64(r.Seconds.WithLabelValues("fib", "real", "variance")), 1e-9)
	assert.InDelta(3.0, testutil.ToFloat64(r.Iterations.WithLabelValues("fib", "real")), 1e-9)
	assert.Equal(5, testutil.CollectAndCount(r.Seconds))

	_, err = promreporter.New(reg)
	assert.Error(err)
}

func TestReportWith(t *testing.T) {
	assert, require := assert.New(t), require.New(t)

	reading := 0.0
	b, err := microbench.New(
		microbench.WithName("step"),
		microbench.WithClock("fake", func() (float64, error) { return reading, nil }),
	)
	require.NoError(err)
	require.NoError(b.Start())
	reading = 0.5
	require.NoError(b.Stop())

	r, err := promreporter.New(prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(b.ReportWith(r))
	assert.InDelta(0.5, testutil.ToFloat64(r.Seconds.WithLabelValues("step", "fake", "mean")), 1e-9)
	assert.InDelta(1.0, testutil.ToFloat64(r.Iterations.WithLabelValues("step", "fake")), 1e-9)
}

func TestTextReporter(t *testing.T) {
	assert, require := assert.New(t), require.New(t)

	var buf bytes.Buffer
	r, err := promreporter.NewText(&buf)
	require.NoError(err)

	var acc microbench.Accumulator
	acc.Update(1.5)
	require.NoError(r.Report(microbench.Snapshot{Name: "first", Sources: []microbench.SourceStats{acc.Stats(microbench.Real)}}))
	out := buf.String()
	assert.Contains(out, "# TYPE microbench_elapsed_seconds gauge")
	assert.Contains(out, `microbench_elapsed_seconds{benchmark="first",source="real",stat="mean"} 1.5`)
	assert.Contains(out, `microbench_iterations{benchmark="first",source="real"} 1`)

	buf.Reset()
	require.NoError(r.Report(microbench.Snapshot{Name: "second", Sources: []microbench.SourceStats{acc.Stats(microbench.CPU)}}))
	out = buf.String()
	assert.Contains(out, `microbench_iterations{benchmark="second",source="cpu"} 1`)
	assert.False(strings.Contains(out, `benchmark="first"`))
}
