package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"mspec/internal/domain"
	"mspec/internal/storage"
)

const maxTraceLines = 15

// FailureViewer displays failed specifications of a run in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer. Resolved flags are written back to st.
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// failureList is the subset of a report shown by the viewer
type failureList struct {
	report  *domain.RunReport
	indexes []int // Positions of failed records in report.Results
}

func newFailureList(report *domain.RunReport) *failureList {
	return &failureList{report: report, indexes: report.Failures()}
}

func (f *failureList) len() int {
	return len(f.indexes)
}

func (f *failureList) at(i int) *domain.ResultRecord {
	return &f.report.Results[f.indexes[i]]
}

func (f *failureList) toggle(i int) {
	rec := f.at(i)
	rec.Resolved = !rec.Resolved
}

func (f *failureList) unresolved() int {
	count := 0
	for i := range f.indexes {
		if !f.at(i).Resolved {
			count++
		}
	}
	return count
}

// View displays failures in an interactive TUI
func (fv *FailureViewer) View(report *domain.RunReport) error {
	failures := newFailureList(report)
	if failures.len() == 0 {
		color.Green("✓ No specification failures found!")
		return nil
	}

	app := tview.NewApplication()

	// Failed specifications (left side)
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := 0; i < failures.len(); i++ {
		list.AddItem(listItemText(i, failures.at(i)), "", 0, nil)
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

	// List on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	updateHeader := func() {
		headerView.SetText(headerText(report.RunID, failures.len(), failures.unresolved()))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= failures.len() {
			return
		}
		rec := failures.at(index)
		statsView.SetText(formatFailureStats(rec))
		detailsView.SetText(formatFailureDetails(rec)).ScrollToBeginning()
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < failures.len() {
					failures.toggle(index)
					list.SetItemText(index, listItemText(index, failures.at(index)), "")
					updateHeader()
					updateDetails()
					saveErr = fv.storage.Update(report)
				}
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
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

func headerText(runID string, total, unresolved int) string {
	return fmt.Sprintf(" Run %s: %d failed, %d unresolved | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ",
		shortRunID(runID), total, unresolved)
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

// listItemText renders a list entry using tview color tags
func listItemText(index int, rec *domain.ResultRecord) string {
	name := domain.Humanize(rec.Name)
	if rec.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

func formatFailureStats(rec *domain.ResultRecord) string {
	status := "[red]unresolved[white]"
	if rec.Resolved {
		status = "[green]resolved[white]"
	}
	return fmt.Sprintf("[cyan]spec:[white] [yellow]%s[white]::[yellow]%s[white]\n[cyan]status:[white] %s\n",
		tview.Escape(rec.Context), tview.Escape(rec.Name), status)
}

// formatFailureDetails formats a failure for display using tview color tags
func formatFailureDetails(rec *domain.ResultRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(domain.Humanize(rec.Name)))
	fmt.Fprintf(&b, "[cyan]Context: %s[white]\n\n", tview.Escape(rec.Context))

	if rec.StackTrace == "" {
		b.WriteString("[gray]No failure detail was recorded[white]\n")
		return b.String()
	}

	lines := strings.Split(strings.TrimRight(rec.StackTrace, "\n"), "\n")
	b.WriteString("[yellow]Failure:[white]\n")
	for i, line := range lines {
		if i == maxTraceLines {
			fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(lines)-maxTraceLines)
			break
		}
		fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
	}
	return b.String()
}
