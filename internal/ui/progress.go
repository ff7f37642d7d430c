package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"mspec/internal/domain"
	"mspec/internal/runner"
)

// ProgressListener replaces streamed progress text with a progress bar
// counting finished specifications. Warnings and errors are still printed.
type ProgressListener struct {
	bar    *progressbar.ProgressBar
	out    io.Writer
	passed int
	failed int
}

// NewProgressListener creates a progress bar for count specifications.
// A negative count renders an indeterminate spinner.
func NewProgressListener(count int, out io.Writer) *ProgressListener {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressListener{bar: bar, out: out}
}

func describe(passed, failed int) string {
	return color.CyanString("Running specs: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// WriteLine drops regular output and prints warnings and errors
func (p *ProgressListener) WriteLine(text string, category runner.Category) {
	switch category {
	case runner.CategoryWarning:
		fmt.Fprintln(p.out, color.YellowString("%s", text))
	case runner.CategoryError:
		fmt.Fprintln(p.out, color.RedString("%s", text))
	}
}

// TestFinished advances the bar and its passed/failed counters
func (p *ProgressListener) TestFinished(result domain.TestResult) {
	if result.State == domain.TestStateFailed {
		p.failed++
	} else {
		p.passed++
	}
	_ = p.bar.Set(p.passed + p.failed)
	p.bar.Describe(describe(p.passed, p.failed))
}

// Counts returns the passed and failed counters
func (p *ProgressListener) Counts() (passed, failed int) {
	return p.passed, p.failed
}

// Finish completes the progress bar
func (p *ProgressListener) Finish() {
	_ = p.bar.Finish()
}
