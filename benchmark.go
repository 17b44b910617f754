// Package microbench measures repeated code sections and keeps running statistics
// of their duration on one or more time sources.
//
// A Benchmark is not safe for concurrent use.
// Each Start must be followed by Stop from the same goroutine.
package microbench

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/violenttestpen/microbench/internal/logging"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var logger = logging.New("microbench")

// Errors.
var (
	ErrInvalidState = errors.New("stop called without matching start")
	ErrNilBenchmark = errors.New("nil Benchmark")
)

// Option configures a Benchmark.
type Option func(b *Benchmark) error

// WithName sets the benchmark name carried in snapshots.
func WithName(name string) Option {
	return func(b *Benchmark) error {
		b.name = name
		return nil
	}
}

// WithSources tracks built-in time sources.
// It replaces DefaultSources; duplicate kinds are tracked once.
func WithSources(kinds ...TimeSourceKind) Option {
	return func(b *Benchmark) error {
		for _, kind := range kinds {
			clock, err := builtinClock(kind)
			if err != nil {
				return &SourceError{Kind: kind, Err: err}
			}
			b.track(kind, clock)
		}
		return nil
	}
}

// WithClock tracks a time source read from a custom Clock.
// If the kind is already tracked, its Clock is replaced.
func WithClock(kind TimeSourceKind, clock Clock) Option {
	return func(b *Benchmark) error {
		if clock == nil {
			return &SourceError{Kind: kind, Err: ErrUnsupportedSource}
		}
		b.track(kind, clock)
		return nil
	}
}

// Benchmark accumulates elapsed time of Start/Stop iterations.
type Benchmark struct {
	name    string
	kinds   []TimeSourceKind
	clocks  map[TimeSourceKind]Clock
	acc     map[TimeSourceKind]*Accumulator
	pending map[TimeSourceKind]float64
	started bool
}

// New creates a cleared Benchmark.
// Without WithSources or WithClock, DefaultSources are tracked.
func New(opts ...Option) (*Benchmark, error) {
	b := &Benchmark{
		clocks:  map[TimeSourceKind]Clock{},
		acc:     map[TimeSourceKind]*Accumulator{},
		pending: map[TimeSourceKind]float64{},
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if len(b.kinds) == 0 {
		if err := WithSources(DefaultSources...)(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Benchmark) track(kind TimeSourceKind, clock Clock) {
	if _, ok := b.clocks[kind]; !ok {
		b.kinds = append(b.kinds, kind)
		b.acc[kind] = &Accumulator{}
	}
	b.clocks[kind] = clock
}

// Name returns the benchmark name.
func (b *Benchmark) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Sources returns tracked time sources in tracking order.
func (b *Benchmark) Sources() []TimeSourceKind {
	if b == nil {
		return nil
	}
	return append([]TimeSourceKind(nil), b.kinds...)
}

// Clear discards all accumulated statistics and any pending Start.
func (b *Benchmark) Clear() {
	if b == nil {
		return
	}
	for _, kind := range b.kinds {
		b.acc[kind].Reset()
		delete(b.pending, kind)
	}
	b.started = false
	logger.Debug("cleared", zap.String("benchmark", b.name))
}

func (b *Benchmark) readClocks() (map[TimeSourceKind]float64, error) {
	readings := make(map[TimeSourceKind]float64, len(b.kinds))
	var errs []error
	for _, kind := range b.kinds {
		value, err := b.clocks[kind]()
		if err != nil {
			errs = append(errs, &SourceError{Kind: kind, Err: err})
			continue
		}
		readings[kind] = value
	}
	return readings, multierr.Combine(errs...)
}

// Start records the current reading of every tracked clock.
// Calling Start again before Stop overwrites the pending readings.
// If a clock cannot be read, no Start is pending afterwards.
func (b *Benchmark) Start() error {
	if b == nil {
		return ErrNilBenchmark
	}
	b.started = false
	readings, err := b.readClocks()
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	b.pending = readings
	b.started = true
	return nil
}

// Stop reads every tracked clock again and adds the elapsed time since Start to each time source.
// Without a pending Start, it returns ErrInvalidState and statistics are unchanged.
// If a clock cannot be read, no time source is updated and the pending Start remains.
func (b *Benchmark) Stop() error {
	if b == nil {
		return ErrNilBenchmark
	}
	if !b.started {
		logger.Debug("Stop without Start", zap.String("benchmark", b.name))
		return ErrInvalidState
	}
	readings, err := b.readClocks()
	if err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	for _, kind := range b.kinds {
		b.acc[kind].Update(readings[kind] - b.pending[kind])
	}
	b.started = false
	return nil
}

// Measure runs fn between Start and Stop.
func (b *Benchmark) Measure(fn func()) error {
	if err := b.Start(); err != nil {
		return err
	}
	fn()
	return b.Stop()
}

func (b *Benchmark) accumulator(kind TimeSourceKind) Accumulator {
	if b == nil {
		return Accumulator{}
	}
	if a := b.acc[kind]; a != nil {
		return *a
	}
	return Accumulator{}
}

// Min returns the shortest elapsed time of a time source, in seconds.
// It returns zero for an untracked source or before the first iteration.
func (b *Benchmark) Min(kind TimeSourceKind) float64 {
	return b.accumulator(kind).Min()
}

// Max returns the longest elapsed time of a time source, in seconds.
func (b *Benchmark) Max(kind TimeSourceKind) float64 {
	return b.accumulator(kind).Max()
}

// Sum returns the total elapsed time of a time source, in seconds.
func (b *Benchmark) Sum(kind TimeSourceKind) float64 {
	return b.accumulator(kind).Sum()
}

// Mean returns the mean elapsed time of a time source, in seconds.
func (b *Benchmark) Mean(kind TimeSourceKind) float64 {
	return b.accumulator(kind).Mean()
}

// Variance returns the population variance of elapsed time of a time source.
func (b *Benchmark) Variance(kind TimeSourceKind) float64 {
	return b.accumulator(kind).Variance()
}

// Iterations returns the number of completed iterations on a time source.
func (b *Benchmark) Iterations(kind TimeSourceKind) uint64 {
	return b.accumulator(kind).Iterations()
}

// Snapshot returns current statistics of every tracked time source.
func (b *Benchmark) Snapshot() (s Snapshot) {
	if b == nil {
		return s
	}
	s.Name = b.name
	s.Sources = make([]SourceStats, 0, len(b.kinds))
	for _, kind := range b.kinds {
		s.Sources = append(s.Sources, b.acc[kind].Stats(kind))
	}
	return s
}

// Report writes a table of current statistics to standard output.
func (b *Benchmark) Report() error {
	return b.ReportWith(TableReporter{W: color.Output})
}

// ReportWith passes current statistics to a reporter.
func (b *Benchmark) ReportWith(r Reporter) error {
	if b == nil {
		return ErrNilBenchmark
	}
	return r.Report(b.Snapshot())
}
