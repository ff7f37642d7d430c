package ui

import (
	"strings"

	"github.com/fatih/color"

	"mspec/internal/domain"
	"mspec/internal/runner"
)

// ResultFormatterFactory picks the progress formatter for a verification result
type ResultFormatterFactory struct{}

// NewResultFormatterFactory creates a new ResultFormatterFactory
func NewResultFormatterFactory() *ResultFormatterFactory {
	return &ResultFormatterFactory{}
}

// FormatterFor returns the formatter matching the result
func (f *ResultFormatterFactory) FormatterFor(result domain.VerificationResult) runner.ResultFormatter {
	if result.Passed {
		return passedFormatter{}
	}
	return failedFormatter{err: result.Err}
}

type passedFormatter struct{}

// FormatResult renders "  » should ..."
func (passedFormatter) FormatResult(spec domain.Specification) string {
	return "  » " + spec.DisplayText()
}

type failedFormatter struct {
	err error
}

// FormatResult renders "  » should ... (FAIL)" followed by the first line of the failure
func (f failedFormatter) FormatResult(spec domain.Specification) string {
	text := color.RedString("  » %s (FAIL)", spec.DisplayText())
	if f.err == nil {
		return text
	}
	summary, _, _ := strings.Cut(f.err.Error(), "\n")
	if summary = strings.TrimSpace(summary); summary == "" {
		return text
	}
	return text + "\n" + color.RedString("      %s", summary)
}
