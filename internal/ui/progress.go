package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"simple/internal/domain"
	"simple/internal/execution"
)

// ProgressReporter renders a progress bar with running passed, broken and
// failed counts. The total grows when the analyze policy re-queues tests.
type ProgressReporter struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	total   int
	summary domain.Summary
}

// NewProgressReporter creates a progress bar for count tests; Planned resets
// the count once the plan is known
func NewProgressReporter(w io.Writer, count int) *ProgressReporter {
	if count < 1 {
		count = 1
	}
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(domain.Summary{})),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
	return &ProgressReporter{bar: bar, total: count}
}

func describe(s domain.Summary) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", s.Passed) +
		" | " +
		color.YellowString("broken: %d", s.Broken) +
		" | " +
		color.RedString("failed: %d]", s.Failed)
}

// Planned implements execution.PlanObserver
func (p *ProgressReporter) Planned(n int) {
	if n < 1 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = n
	p.bar.ChangeMax(n)
	_ = p.bar.RenderBlank()
}

// Report implements execution.ReporterFactory
func (p *ProgressReporter) Report(int, domain.Properties) execution.Reporter {
	return progressTest{p}
}

type progressTest struct {
	p *ProgressReporter
}

func (progressTest) TestStarted(domain.Properties) {}

func (t progressTest) TestFinished(result domain.TestResult) {
	t.p.add(domain.Classify(result))
}

func (p *ProgressReporter) add(status domain.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summary.Add(status)
	done := p.summary.Passed + p.summary.Broken + p.summary.Failed
	if done > p.total {
		p.total = done
		p.bar.ChangeMax(done)
	}
	p.bar.Describe(describe(p.summary))
	p.bar.Set(done)
}

// Summary returns the counts seen so far, one per finished attempt
func (p *ProgressReporter) Summary() domain.Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summary
}

// Finish completes the progress bar
func (p *ProgressReporter) Finish() {
	p.bar.Finish()
}
