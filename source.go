package microbench

import (
	"errors"
	"time"
)

// TimeSourceKind identifies a clock basis tracked by a Benchmark.
type TimeSourceKind string

// Built-in time sources.
const (
	// Real is wall-clock time, read from the monotonic clock.
	Real TimeSourceKind = "real"
	// CPU is user plus system CPU time consumed by the current process.
	CPU TimeSourceKind = "cpu"
	// ChildCPU is user plus system CPU time of terminated and waited-for child processes.
	ChildCPU TimeSourceKind = "children"
)

// DefaultSources are tracked when no source is configured.
var DefaultSources = []TimeSourceKind{Real, CPU}

// Clock returns a reading in seconds.
// Readings must not decrease between calls within a process.
type Clock func() (float64, error)

// ErrUnsupportedSource indicates a time source without a Clock on this platform.
var ErrUnsupportedSource = errors.New("unsupported time source")

var processEpoch = time.Now()

// RealClock reads the monotonic wall clock.
func RealClock() (float64, error) {
	return time.Since(processEpoch).Seconds(), nil
}

// builtinClock returns the Clock of a built-in time source.
func builtinClock(kind TimeSourceKind) (Clock, error) {
	switch kind {
	case Real:
		return RealClock, nil
	case CPU:
		return ProcessCPUClock, nil
	case ChildCPU:
		if childCPUClock == nil {
			break
		}
		return childCPUClock, nil
	}
	return nil, ErrUnsupportedSource
}

// ParseSourceKinds converts source names to built-in time sources.
func ParseSourceKinds(names []string) ([]TimeSourceKind, error) {
	var kinds []TimeSourceKind
	for _, name := range names {
		kind := TimeSourceKind(name)
		if _, err := builtinClock(kind); err != nil {
			return nil, &SourceError{Kind: kind, Err: err}
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// SourceError associates an error with a time source.
type SourceError struct {
	Kind TimeSourceKind
	Err  error
}

func (se *SourceError) Error() string {
	return string(se.Kind) + ": " + se.Err.Error()
}

func (se *SourceError) Unwrap() error {
	return se.Err
}
