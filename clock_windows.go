//go:build windows

package microbench

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// FILETIME counts 100-nanosecond ticks.
const hundredNSTicks = 100

var childCPUClock Clock

func filetimeSeconds(ft windows.Filetime) float64 {
	ticks := int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)
	return float64(ticks*hundredNSTicks) / 1e9
}

// ProcessCPUClock reads the CPU time consumed by the current process.
func ProcessCPUClock() (float64, error) {
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(windows.CurrentProcess(), &creation, &exit, &kernel, &user); err != nil {
		return 0, fmt.Errorf("GetProcessTimes: %w", err)
	}
	return filetimeSeconds(user) + filetimeSeconds(kernel), nil
}
