package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"simple/internal/domain"
	"simple/internal/execution"
)

const lineWidth = 45

// Formatter formats and displays run output
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a new Formatter writing to w
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) line(smb string) {
	fmt.Fprintln(f.w, strings.Repeat(smb, lineWidth))
}

// PrintHeader prints the banner shown before a run
func (f *Formatter) PrintHeader(version string) {
	f.line("=")
	fmt.Fprintf(f.w, "|  Simple Test Automation Framework v%s  |\n", version)
	f.line("=")
}

// PrintFooter prints the phase counts, the summary and the exit status of a run
func (f *Formatter) PrintFooter(report *execution.Report) {
	stat, exit := report.Stat, report.Exit
	f.line("-")
	fmt.Fprintf(f.w, "Loaded:    %d classes\n", stat.Loaded)
	fmt.Fprintf(f.w, "Prepared:  %d tests\n", stat.Prepared)
	fmt.Fprintf(f.w, "Planned:   %d tests\n", stat.Planned)
	fmt.Fprintf(f.w, "Executed:  %d tests\n", stat.Executed)
	passedColor.Fprintf(f.w, "Passed:    %d tests\n", exit.Summary.Passed)
	brokenColor.Fprintf(f.w, "Broken:    %d tests\n", exit.Summary.Broken)
	failedColor.Fprintf(f.w, "Failed:    %d tests\n", exit.Summary.Failed)
	f.line("-")
	fmt.Fprintf(f.w, "Duration:  %.2fs\n", report.Duration.Seconds())
	fmt.Fprintf(f.w, "Exit code: %d\n", exit.Status)
	f.line("-")
}

// PrintLastRun prints the metadata of a stored run followed by its
// unresolved failures grouped by class
func (f *Formatter) PrintLastRun(output *domain.RunOutput) {
	meta := output.Meta

	color.New(color.FgCyan).Fprintln(f.w, "Last Run")
	row := func(name string, c *color.Color, value any) {
		fmt.Fprintf(f.w, "│ %-18s │ ", name)
		c.Fprintf(f.w, "%-36v │\n", value)
	}
	white := color.New(color.FgWhite)

	fmt.Fprintln(f.w, "┌────────────────────┬──────────────────────────────────────┐")
	row("Run", white, meta.RunID)
	row("Timestamp", white, meta.Timestamp)
	row("Workers", white, meta.Workers)
	row("Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	row("Executed", white, meta.Stat.Executed)
	row("Passed", passedColor, meta.Summary.Passed)
	row("Broken", brokenColor, meta.Summary.Broken)
	row("Failed", failedColor, meta.Summary.Failed)
	row("Exit code", white, meta.Status)
	fmt.Fprintln(f.w, "└────────────────────┴──────────────────────────────────────┘")

	unresolved := output.Unresolved()
	fmt.Fprintln(f.w)
	if len(unresolved) == 0 {
		passedColor.Fprintln(f.w, "✓ No unresolved failures")
		return
	}
	failedColor.Fprintf(f.w, "✗ %d unresolved failure(s)\n", len(unresolved))

	var classes []string
	byClass := make(map[string][]domain.TestFailure)
	for _, fl := range unresolved {
		if _, ok := byClass[fl.ClassName]; !ok {
			classes = append(classes, fl.ClassName)
		}
		byClass[fl.ClassName] = append(byClass[fl.ClassName], fl)
	}
	for i, class := range classes {
		lastClass := i == len(classes)-1
		color.New(color.FgCyan).Fprintf(f.w, "%s%s\n", branch(lastClass), class)
		failures := byClass[class]
		for j, fl := range failures {
			fmt.Fprintf(f.w, "%s%s", indent(lastClass), branch(j == len(failures)-1))
			statusColor(fl.Status).Fprintf(f.w, "%s (%s)\n", fl.TestName, fl.Status)
		}
	}
}

// PrintSuiteList prints the prepared tests grouped by class. Tests in failed
// are marked with [F].
func (f *Formatter) PrintSuiteList(tests []domain.PreparedTest, failed map[domain.Properties]struct{}) {
	var classes []string
	byClass := make(map[string][]domain.Properties)
	for _, t := range tests {
		name := t.Properties.ClassName
		if _, ok := byClass[name]; !ok {
			classes = append(classes, name)
		}
		byClass[name] = append(byClass[name], t.Properties)
	}

	passedColor.Fprintf(f.w, "Found %d test(s) in %d class(es):\n", len(tests), len(classes))
	marker := " " + failedColor.Sprint("[F]")

	for i, class := range classes {
		lastClass := i == len(classes)-1
		classMark := ""
		for _, p := range byClass[class] {
			if _, ok := failed[p]; ok {
				classMark = marker
				break
			}
		}
		fmt.Fprintf(f.w, "%s%s%s\n", branch(lastClass), color.CyanString(class), classMark)

		cases := byClass[class]
		for j, p := range cases {
			mark := ""
			if _, ok := failed[p]; ok {
				mark = marker
			}
			fmt.Fprintf(f.w, "%s%s%s%s\n", indent(lastClass), branch(j == len(cases)-1), color.YellowString(p.TestName), mark)
		}
	}
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func indent(lastParent bool) string {
	if lastParent {
		return "    "
	}
	return "│   "
}
