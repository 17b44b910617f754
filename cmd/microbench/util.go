package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

const (
	progressDoneRune    = "█"
	progressPendingRune = "▒"
)

var denominators = []time.Duration{time.Hour, time.Minute, time.Second, time.Millisecond, time.Microsecond, time.Nanosecond}
var units = []string{"h", "m", "s", "ms", "µs", "ns"}

// getMeasurementMetrics chooses the largest unit that keeps a timing in seconds at or above 1.
func getMeasurementMetrics(seconds float64) (float64, string) {
	timing := time.Duration(seconds * float64(time.Second))
	for i, denominator := range denominators {
		if timing/denominator > 0 {
			return denominator.Seconds(), units[i]
		}
	}
	return time.Nanosecond.Seconds(), units[len(units)-1]
}

// formatSeconds formats a timing with two decimals in its measurement unit.
func formatSeconds(seconds float64) string {
	denominator, unit := getMeasurementMetrics(seconds)
	return fmt.Sprintf("%.2f %s", seconds/denominator, unit)
}

func clearCurrentTerminalLine(w io.Writer) {
	w.Write([]byte("\r\033[K"))
}

// progressLine renders a progress bar of the given width followed by ETA.
func progressLine(line string, width int, progress float64, eta time.Duration) string {
	width -= len(line) + 2 + 12
	if width < 0 {
		width = 0
	}
	progress = math.Max(0, math.Min(1, progress))
	progressChunks := int(progress * float64(width))
	bar := strings.Repeat(progressDoneRune, progressChunks) +
		strings.Repeat(progressPendingRune, width-progressChunks)

	eta = eta.Round(time.Second)
	return fmt.Sprintf("%s %s ETA %02d:%02d:%02d", line, bar,
		int64(eta.Hours()), int64(eta.Minutes())%60, int64(eta.Seconds())%60)
}
