package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"mspec/internal/domain"
	"mspec/internal/runner"
)

// ConsoleListener streams run progress to a terminal
type ConsoleListener struct {
	out        io.Writer
	showTraces bool
}

// NewConsoleListener creates a ConsoleListener. With showTraces, the stack
// trace of every failed specification is printed when its result is reported.
func NewConsoleListener(out io.Writer, showTraces bool) *ConsoleListener {
	return &ConsoleListener{out: out, showTraces: showTraces}
}

// WriteLine prints progress text, colored by category
func (l *ConsoleListener) WriteLine(text string, category runner.Category) {
	switch category {
	case runner.CategoryInfo:
		text = color.CyanString("%s", text)
	case runner.CategoryWarning:
		text = color.YellowString("%s", text)
	case runner.CategoryError:
		text = color.RedString("%s", text)
	}
	fmt.Fprintln(l.out, text)
}

// TestFinished prints the trace of a failed result when traces are enabled
func (l *ConsoleListener) TestFinished(result domain.TestResult) {
	if !l.showTraces || result.State != domain.TestStateFailed || result.StackTrace == "" {
		return
	}
	fmt.Fprintln(l.out, color.RedString("✗ %s::%s", result.Context, result.Name))
	for _, line := range strings.Split(strings.TrimRight(result.StackTrace, "\n"), "\n") {
		fmt.Fprintf(l.out, "    %s\n", line)
	}
	fmt.Fprintln(l.out)
}
