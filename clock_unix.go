//go:build !windows

package microbench

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var childCPUClock Clock = ChildCPUClock

func rusageSeconds(who int) (float64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(who, &ru); err != nil {
		return 0, fmt.Errorf("getrusage: %w", err)
	}
	return timevalSeconds(ru.Utime) + timevalSeconds(ru.Stime), nil
}

func timevalSeconds(tv unix.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}

// ProcessCPUClock reads the CPU time consumed by the current process.
func ProcessCPUClock() (float64, error) {
	return rusageSeconds(unix.RUSAGE_SELF)
}

// ChildCPUClock reads the CPU time consumed by waited-for child processes.
func ChildCPUClock() (float64, error) {
	return rusageSeconds(unix.RUSAGE_CHILDREN)
}
