package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"simple/internal/domain"
	"simple/internal/logging"
)

// maxStackLines is how many stack lines the details pane shows
const maxStackLines = 10

// FailureViewer displays the failures of the last run in an interactive TUI.
// Toggling a failure resolved is saved immediately.
type FailureViewer struct {
	saver OutputSaver
	log   *logging.Logger
	out   io.Writer
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(saver OutputSaver, out io.Writer, log *logging.Logger) *FailureViewer {
	return &FailureViewer{saver: saver, out: out, log: log}
}

// View runs the TUI until the user quits
func (fv *FailureViewer) View(output *domain.RunOutput) error {
	if len(output.Details) == 0 {
		passedColor.Fprintln(fv.out, "✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := range output.Details {
		list.AddItem(listItemText(output.Details[i], i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(headerText(output))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(output.Details) {
			failure := output.Details[index]
			statsView.SetText(formatFailureStats(failure))
			detailsView.SetText(formatFailureDetails(failure))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'r', 'R':
				index := list.GetCurrentItem()
				if index >= 0 && index < len(output.Details) {
					fv.toggle(output, index)
					list.SetItemText(index, listItemText(output.Details[index], index), "")
					updateHeader()
					updateDetails()
				}
				return nil
			case 'q':
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// toggle flips the resolved flag of one failure and saves the output
func (fv *FailureViewer) toggle(output *domain.RunOutput, index int) {
	output.Details[index].Resolved = !output.Details[index].Resolved
	if err := fv.saver.SaveOutput(output); err != nil {
		fv.log.Error("failed to save resolved status", "error", err)
	}
}

func headerText(output *domain.RunOutput) string {
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, q quit ",
		len(output.Details), len(output.Unresolved()))
}

func listItemText(failure domain.TestFailure, index int) string {
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, failure.Properties())
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, failure.Properties())
}

// formatFailureStats formats the one-line header of the details pane
func formatFailureStats(failure domain.TestFailure) string {
	tag := "yellow"
	if failure.Status == domain.StatusFailed {
		tag = "red"
	}
	return fmt.Sprintf("[cyan]test:[white] [yellow]%s[white]  [cyan]status:[white] [%s]%s[white]  [cyan]worker:[white] %d\n",
		failure.Properties(), tag, failure.Status, failure.Worker)
}

// formatFailureDetails formats a failure for display using tview color tags
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", failure.Properties())
	fmt.Fprintf(&b, "[cyan]Stage:[white] %s\n\n", failure.Stage)
	if failure.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}
	if len(failure.StackTrace) > 0 {
		b.WriteString("[yellow]Stack Trace:[white]\n")
		for i, line := range failure.StackTrace {
			if i == maxStackLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(failure.StackTrace)-maxStackLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}
	return b.String()
}
