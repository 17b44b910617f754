package microbench_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/violenttestpen/microbench"
)

func TestAccumulatorEmpty(t *testing.T) {
	assert := assert.New(t)

	var a microbench.Accumulator
	assert.EqualValues(0, a.Iterations())
	assert.Equal(0.0, a.Min())
	assert.Equal(0.0, a.Max())
	assert.Equal(0.0, a.Sum())
	assert.Equal(0.0, a.Mean())
	assert.Equal(0.0, a.Variance())
	assert.False(math.IsNaN(a.Stats(microbench.Real).Stdev()))
}

func TestAccumulatorScenario(t *testing.T) {
	assert := assert.New(t)

	var a microbench.Accumulator
	for _, x := range []float64{0.08, 0.09, 0.07} {
		a.Update(x)
	}
	assert.EqualValues(3, a.Iterations())
	assert.InDelta(0.07, a.Min(), 1e-12)
	assert.InDelta(0.09, a.Max(), 1e-12)
	assert.InDelta(0.24, a.Sum(), 1e-12)
	assert.InDelta(0.08, a.Mean(), 1e-12)
	assert.InDelta(0.0000667, a.Variance(), 1e-7)
	assert.InDelta(0.02/3, a.Variance()*100, 1e-9)
}

func TestAccumulatorFirstSample(t *testing.T) {
	assert := assert.New(t)

	var a microbench.Accumulator
	a.Update(0)
	a.Update(0.5)
	assert.Equal(0.0, a.Min())
	assert.Equal(0.5, a.Max())

	a.Reset()
	a.Update(-2)
	assert.Equal(-2.0, a.Min())
	assert.Equal(-2.0, a.Max())
	assert.Equal(0.0, a.Variance())

	a.Reset()
	a.Update(3)
	a.Update(1)
	assert.Equal(1.0, a.Min())
	assert.Equal(3.0, a.Max())
}

func TestAccumulatorTwoPass(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 7, 100, 5000} {
		samples := make([]float64, n)
		for i := range samples {
			samples[i] = 0.001 + rng.ExpFloat64()*0.05
		}

		var a microbench.Accumulator
		for _, x := range samples {
			a.Update(x)
		}

		minimum, maximum, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, x := range samples {
			minimum, maximum, sum = math.Min(minimum, x), math.Max(maximum, x), sum+x
		}
		mean := sum / float64(n)
		var ss float64
		for _, x := range samples {
			ss += (x - mean) * (x - mean)
		}
		variance := ss / float64(n)

		assert.EqualValues(t, n, a.Iterations())
		assert.Equal(t, minimum, a.Min())
		assert.Equal(t, maximum, a.Max())
		assert.InDelta(t, sum, a.Sum(), 1e-9)
		assert.InDelta(t, mean, a.Mean(), 1e-12)
		assert.InDelta(t, variance, a.Variance(), 1e-12)
		assert.GreaterOrEqual(t, a.Variance(), 0.0)
		assert.InDelta(t, a.Sum()/float64(n), a.Mean(), 1e-12)
	}
}

func TestAccumulatorOrderIndependent(t *testing.T) {
	assert := assert.New(t)

	samples := []float64{0.3, 0.1, 0.25, 0.9, 0.05, 0.4}
	var forward, backward microbench.Accumulator
	for i := range samples {
		forward.Update(samples[i])
		backward.Update(samples[len(samples)-1-i])
	}
	assert.InDelta(forward.Sum(), backward.Sum(), 1e-12)
	assert.InDelta(forward.Mean(), backward.Mean(), 1e-12)
	assert.InDelta(forward.Variance(), backward.Variance(), 1e-12)
	assert.Equal(forward.Min(), backward.Min())
	assert.Equal(forward.Max(), backward.Max())
}

func TestSnapshotSource(t *testing.T) {
	assert := assert.New(t)

	var a microbench.Accumulator
	a.Update(4)
	a.Update(2)
	s := microbench.Snapshot{Sources: []microbench.SourceStats{a.Stats(microbench.CPU)}}

	st, ok := s.Source(microbench.CPU)
	assert.True(ok)
	assert.Equal(3.0, st.Mean)
	assert.Equal(1.0, st.Stdev())
	assert.EqualValues(2, s.Iterations())

	st, ok = s.Source(microbench.Real)
	assert.False(ok)
	assert.Equal(microbench.Real, st.Kind)
	assert.EqualValues(0, microbench.Snapshot{}.Iterations())
}
