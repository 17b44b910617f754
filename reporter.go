package microbench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reporter renders a Snapshot.
type Reporter interface {
	Report(s Snapshot) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(s Snapshot) error

// Report implements Reporter interface.
func (f ReporterFunc) Report(s Snapshot) error {
	return f(s)
}

const (
	tableTitle      = "Micro benchmark report"
	tableLabelWidth = 10
	tableCellWidth  = 13
)

// TableReporter writes a boxed plain-text table with one column per time source.
// Cells keep their width for values below 100 seconds; larger values widen their row.
//
//	/--------------------------------------\
//	|        Micro benchmark report        |
//	|--------------------------------------|
//	|  source  |    real     |     cpu     |
//	|   min    |  0.0626740  |  0.0625000  |
//	|   max    |  0.0746470  |  0.0743000  |
//	|   sum    |  0.6480160  |  0.6470000  |
//	|   mean   |  0.0648016  |  0.0647000  |
//	|   var    |  0.0000125  |  0.0000122  |
//	|   it     |         10  |         10  |
//	\--------------------------------------/
type TableReporter struct {
	W io.Writer
}

var _ Reporter = TableReporter{}

// Report implements Reporter interface.
func (r TableReporter) Report(s Snapshot) error {
	inner := tableLabelWidth + len(s.Sources)*(tableCellWidth+1)
	title := center(tableTitle, inner)

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "/%s\\\n", strings.Repeat("-", inner))
	fmt.Fprintf(&b, "|%s|\n", title)
	fmt.Fprintf(&b, "|%s|\n", strings.Repeat("-", inner))

	b.WriteString("|" + center("source", tableLabelWidth))
	for _, src := range s.Sources {
		b.WriteString("|" + center(string(src.Kind), tableCellWidth))
	}
	b.WriteString("|\n")

	row := func(label string, value func(src SourceStats) string) {
		fmt.Fprintf(&b, "|   %-7s", label)
		for _, src := range s.Sources {
			fmt.Fprintf(&b, "|  %s  ", value(src))
		}
		b.WriteString("|\n")
	}
	row("min", func(src SourceStats) string { return fmt.Sprintf("%9.7f", src.Min) })
	row("max", func(src SourceStats) string { return fmt.Sprintf("%9.7f", src.Max) })
	row("sum", func(src SourceStats) string { return fmt.Sprintf("%9.7f", src.Sum) })
	row("mean", func(src SourceStats) string { return fmt.Sprintf("%9.7f", src.Mean) })
	row("var", func(src SourceStats) string { return fmt.Sprintf("%9.7f", src.Variance) })
	row("it", func(src SourceStats) string { return fmt.Sprintf("%9d", src.Iterations) })

	fmt.Fprintf(&b, "\\%s/\n", strings.Repeat("-", inner))

	_, err := io.WriteString(r.W, b.String())
	return err
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

// csvFields lists CSV columns of each time source.
// Header and data lines are both derived from this list.
var csvFields = []struct {
	Name   string
	Format func(src SourceStats) string
}{
	{"min", func(src SourceStats) string { return fmt.Sprintf("%f", src.Min) }},
	{"max", func(src SourceStats) string { return fmt.Sprintf("%f", src.Max) }},
	{"sum", func(src SourceStats) string { return fmt.Sprintf("%f", src.Sum) }},
	{"mean", func(src SourceStats) string { return fmt.Sprintf("%f", src.Mean) }},
	{"variance", func(src SourceStats) string { return fmt.Sprintf("%f", src.Variance) }},
	{"iterations", func(src SourceStats) string { return strconv.FormatUint(src.Iterations, 10) }},
}

// CSVReporter writes a header line and a data line.
// Each time source contributes columns <source>_min, <source>_max, <source>_sum,
// <source>_mean, <source>_variance and <source>_iterations, in tracking order.
type CSVReporter struct {
	W io.Writer
}

var _ Reporter = CSVReporter{}

// Report implements Reporter interface.
func (r CSVReporter) Report(s Snapshot) error {
	header := make([]string, 0, len(s.Sources)*len(csvFields))
	record := make([]string, 0, len(s.Sources)*len(csvFields))
	for _, src := range s.Sources {
		for _, field := range csvFields {
			header = append(header, string(src.Kind)+"_"+field.Name)
			record = append(record, field.Format(src))
		}
	}

	w := csv.NewWriter(r.W)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
