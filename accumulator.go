package microbench

import "math"

// Accumulator collects running statistics of a stream of samples.
// Mean and variance use Welford's online algorithm, so no sample is retained.
// The zero value is an empty Accumulator.
type Accumulator struct {
	min        float64
	max        float64
	sum        float64
	mean       float64
	m2         float64
	variance   float64
	iterations uint64
}

// Update folds a sample into the aggregate.
func (a *Accumulator) Update(x float64) {
	if a.iterations == 0 || x < a.min {
		a.min = x
	}
	if a.iterations == 0 || x > a.max {
		a.max = x
	}
	a.sum += x

	a.iterations++
	n := float64(a.iterations)
	delta := x - a.mean
	a.mean += delta / n
	delta2 := x - a.mean
	a.m2 += delta * delta2
	a.variance = a.m2 / n
}

// Reset discards all samples.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Min returns the smallest sample, or zero if empty.
func (a Accumulator) Min() float64 {
	return a.min
}

// Max returns the largest sample, or zero if empty.
func (a Accumulator) Max() float64 {
	return a.max
}

// Sum returns the total of all samples.
func (a Accumulator) Sum() float64 {
	return a.sum
}

// Mean returns the arithmetic mean, or zero if empty.
func (a Accumulator) Mean() float64 {
	return a.mean
}

// Variance returns the population variance, or zero if empty.
func (a Accumulator) Variance() float64 {
	return a.variance
}

// Iterations returns the number of samples.
func (a Accumulator) Iterations() uint64 {
	return a.iterations
}

// Stats returns current statistics labeled with a time source.
func (a Accumulator) Stats(kind TimeSourceKind) SourceStats {
	return SourceStats{
		Kind:       kind,
		Min:        a.min,
		Max:        a.max,
		Sum:        a.sum,
		Mean:       a.mean,
		Variance:   a.variance,
		Iterations: a.iterations,
	}
}

// SourceStats contains a reading of one time source's Accumulator.
type SourceStats struct {
	Kind       TimeSourceKind `json:"source"`
	Min        float64        `json:"min"`
	Max        float64        `json:"max"`
	Sum        float64        `json:"sum"`
	Mean       float64        `json:"mean"`
	Variance   float64        `json:"variance"`
	Iterations uint64         `json:"iterations"`
}

// Stdev returns the population standard deviation.
func (s SourceStats) Stdev() float64 {
	return math.Sqrt(s.Variance)
}

// Snapshot contains statistics of every tracked time source, in tracking order.
type Snapshot struct {
	Name    string        `json:"name,omitempty"`
	Sources []SourceStats `json:"sources"`
}

// Source returns statistics of a time source.
func (s Snapshot) Source(kind TimeSourceKind) (SourceStats, bool) {
	for _, src := range s.Sources {
		if src.Kind == kind {
			return src, true
		}
	}
	return SourceStats{Kind: kind}, false
}

// Iterations returns the number of completed iterations.
func (s Snapshot) Iterations() uint64 {
	if len(s.Sources) == 0 {
		return 0
	}
	return s.Sources[0].Iterations
}
