// Command microbench runs commands repeatedly and reports running statistics of their duration.
// Without a command, it benchmarks a recursive Fibonacci computation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/rickb777/plural"
	"github.com/urfave/cli/v2"
	"github.com/violenttestpen/microbench"
	"github.com/violenttestpen/microbench/internal/logging"
	"github.com/violenttestpen/microbench/promreporter"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var logger = logging.New("main")

var runsPlural = plural.FromOne("%d run", "%d runs")

var (
	runs     int
	warmup   int
	setupCmd string
	format   string
	fibN     int
	cmdOpts  = commandOptions{Shell: defaultShell()}
	noColor  bool
	progress bool
	statusFd int
)

// benchmarkResult is a finished benchmark of one workload.
type benchmarkResult struct {
	name    string
	primary microbench.SourceStats
	snap    microbench.Snapshot
}

func newReporter(w io.Writer) (microbench.Reporter, error) {
	switch format {
	case "table":
		return microbench.TableReporter{W: w}, nil
	case "csv":
		return microbench.CSVReporter{W: w}, nil
	case "prometheus":
		return promreporter.NewText(w)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// statusStream returns where progress and result lines go.
// Only the table format shares standard output with them.
func statusStream() (io.Writer, *os.File) {
	if format == "table" {
		return color.Output, os.Stdout
	}
	return color.Error, os.Stderr
}

// ratio returns a/b, or zero when b is zero.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// trackedSources returns configured time sources,
// defaulting to real time plus the CPU time of whoever does the work.
func trackedSources(names []string, commands bool) ([]microbench.TimeSourceKind, error) {
	if len(names) > 0 {
		return microbench.ParseSourceKinds(names)
	}
	if commands {
		if kinds, err := microbench.ParseSourceKinds([]string{"real", "children"}); err == nil {
			return kinds, nil
		}
	}
	return microbench.DefaultSources, nil
}

func runBenchmark(ctx context.Context, w workload, kinds []microbench.TimeSourceKind, status io.Writer) (*benchmarkResult, error) {
	if warmup > 0 {
		if progress {
			fmt.Fprint(status, "Performing warmup runs")
		}
		for i := 0; i < warmup; i++ {
			if err := w.run(ctx); err != nil {
				return nil, err
			}
		}
		logger.Debug("warmup done", zap.String("benchmark", w.name), zap.Int("runs", warmup))
	}

	b, err := microbench.New(microbench.WithName(w.name), microbench.WithSources(kinds...))
	if err != nil {
		return nil, err
	}

	if progress {
		clearCurrentTerminalLine(status)
		fmt.Fprint(status, "Initial time measurement")
	}
	for i := 0; i < runs; i++ {
		if err := b.Start(); err != nil {
			return nil, err
		}
		if err := w.run(ctx); err != nil {
			return nil, err
		}
		if err := b.Stop(); err != nil {
			return nil, err
		}

		if progress {
			estimate := b.Mean(kinds[0])
			eta := time.Duration(estimate * float64(runs-i-1) * float64(time.Second))
			width, _, _ := term.GetSize(statusFd)
			clearCurrentTerminalLine(status)
			line := fmt.Sprintf("Current estimate: %s ", color.GreenString(formatSeconds(estimate)))
			fmt.Fprint(status, progressLine(line, width, float64(i+1)/float64(runs), eta))
		}
	}
	if progress {
		clearCurrentTerminalLine(status)
	}

	snap := b.Snapshot()
	return &benchmarkResult{name: w.name, primary: snap.Sources[0], snap: snap}, nil
}

func printResult(w io.Writer, result *benchmarkResult) {
	fmt.Fprintf(w, "  Time (%s ± %s):\t%s ± %s",
		color.GreenString("mean"),
		color.GreenString("σ"),
		color.GreenString(formatSeconds(result.primary.Mean)),
		color.GreenString(formatSeconds(result.primary.Stdev())))
	for _, src := range result.snap.Sources[1:] {
		fmt.Fprintf(w, "\t[%s: %s]", src.Kind, color.CyanString(formatSeconds(src.Mean)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Range (%s … %s):\t%s … %s\t%s\n",
		color.CyanString("min"),
		color.RedString("max"),
		color.CyanString(formatSeconds(result.primary.Min)),
		color.RedString(formatSeconds(result.primary.Max)),
		color.HiBlackString(runsPlural.FormatInt(int(result.primary.Iterations))))
}

func printSummary(w io.Writer, results []*benchmarkResult) {
	fmt.Fprintln(w, "Summary")

	sort.SliceStable(results, func(i, j int) bool { return results[i].primary.Mean < results[j].primary.Mean })
	fastest := results[0]
	fmt.Fprintf(w, "  '%s' ran\n", color.CyanString(fastest.name))
	for _, result := range results[1:] {
		meanMultiplier := ratio(result.primary.Mean, fastest.primary.Mean)
		posStdevMultiplier := ratio(result.primary.Mean+result.primary.Stdev(), fastest.primary.Mean+fastest.primary.Stdev()) - meanMultiplier
		negStdevMultiplier := 0.0
		if low := fastest.primary.Mean - fastest.primary.Stdev(); low > 0 {
			negStdevMultiplier = meanMultiplier - (result.primary.Mean-result.primary.Stdev())/low
		}
		fmt.Fprintf(w, "    %s ± %s times faster than '%s'\n",
			color.GreenString("%.2f", meanMultiplier),
			color.GreenString("%.2f", math.Abs(posStdevMultiplier)+math.Abs(negStdevMultiplier)),
			color.RedString(result.name))
	}
}

func run(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancel()

	if runs <= 0 {
		return errors.New("--runs must be positive")
	}
	reporter, err := newReporter(color.Output)
	if err != nil {
		return err
	}
	status, statusFile := statusStream()
	statusFd = int(statusFile.Fd())
	progress = term.IsTerminal(statusFd)

	var workloads []workload
	for _, cmdline := range c.Args().Slice() {
		w, err := cmdOpts.commandWorkload(cmdline)
		if err != nil {
			return err
		}
		workloads = append(workloads, w)
	}
	kinds, err := trackedSources(c.StringSlice("source"), len(workloads) > 0)
	if err != nil {
		return err
	}
	if len(workloads) == 0 {
		workloads = append(workloads, fibWorkload(fibN))
	}

	if setupCmd != "" {
		logger.Info("setup", zap.String("cmdline", setupCmd))
		if err := cmdOpts.runSetup(ctx, setupCmd); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}

	var errs []error
	results := make([]*benchmarkResult, 0, len(workloads))
	for i, w := range workloads {
		fmt.Fprintf(status, "Benchmark #%d: %s\n", i+1, w.name)
		result, err := runBenchmark(ctx, w, kinds, status)
		if err != nil {
			logger.Error("benchmark failed", zap.String("benchmark", w.name), zap.Error(err))
			fmt.Fprintln(status, "An error occurred during benchmark:", err)
			errs = append(errs, fmt.Errorf("%s: %w", w.name, err))
			continue
		}
		if format == "table" {
			printResult(status, result)
		}
		if err := reporter.Report(result.snap); err != nil {
			return err
		}
		fmt.Fprintln(status)
		results = append(results, result)
	}

	if len(results) > 1 && format == "table" {
		printSummary(status, results)
	}
	return multierr.Combine(errs...)
}

var app = &cli.App{
	Name:      "microbench",
	Usage:     "Run commands repeatedly and report min, max, sum, mean and variance of their duration.",
	ArgsUsage: "[command...]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:        "runs",
			Usage:       "Number of measured `rounds` per benchmark.",
			Value:       10,
			Destination: &runs,
			EnvVars:     []string{"MICROBENCH_RUNS"},
		},
		&cli.IntFlag{
			Name:        "warmup",
			Usage:       "Number of `rounds` to warmup.",
			Destination: &warmup,
			EnvVars:     []string{"MICROBENCH_WARMUP"},
		},
		&cli.StringFlag{
			Name:        "setup",
			Usage:       "Command to run before all benchmarks.",
			Destination: &setupCmd,
		},
		&cli.StringFlag{
			Name:        "shell",
			Aliases:     []string{"S"},
			Usage:       "The intermediate `shell` to run benchmarks in.",
			Value:       defaultShell(),
			Destination: &cmdOpts.Shell,
			EnvVars:     []string{"MICROBENCH_SHELL"},
		},
		&cli.BoolFlag{
			Name:        "no-shell",
			Aliases:     []string{"N"},
			Usage:       "Run benchmarks without an intermediate shell.",
			Destination: &cmdOpts.NoShell,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Report `format`: table, csv or prometheus.",
			Value:       "table",
			Destination: &format,
			EnvVars:     []string{"MICROBENCH_FORMAT"},
		},
		&cli.StringSliceFlag{
			Name:    "source",
			Usage:   "Time `source` to track: real, cpu or children. Repeatable.",
			EnvVars: []string{"MICROBENCH_SOURCES"},
		},
		&cli.IntFlag{
			Name:        "fib",
			Usage:       "Fibonacci `index` computed when no command is given.",
			Value:       35,
			Destination: &fibN,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable coloured output.",
			Destination: &noColor,
		},
	},
	Before: func(c *cli.Context) error {
		if noColor {
			color.NoColor = true
		}
		return nil
	},
	Action: run,
}

func main() {
	if err := app.Run(os.Args); err != nil {
		logger.Fatal("microbench", zap.Error(err))
	}
}
