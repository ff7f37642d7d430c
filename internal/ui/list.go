package ui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"mspec/internal/discovery"
	"mspec/internal/domain"
)

// PrintAssemblyList prints assemblies and their contexts as a tree, optionally with specifications.
// failedContexts is optional; contexts in this set are marked with [F] in red (from last run).
func PrintAssemblyList(w io.Writer, projectPath string, assemblies []*domain.Assembly, showSpecs bool, failedContexts map[string]struct{}) {
	contexts := 0
	for _, asm := range assemblies {
		contexts += len(asm.Contexts)
	}
	fmt.Fprintln(w, color.GreenString("Found %d assembly file(s) with %d context(s):\n", len(assemblies), contexts))

	for i, asm := range assemblies {
		// Get relative path for cleaner display
		relPath, err := filepath.Rel(projectPath, asm.Path)
		if err != nil {
			relPath = asm.Path
		}
		fmt.Fprintln(w, color.CyanString("%s (%s)", asm.Name, relPath))

		for j, ctx := range asm.Contexts {
			lastCtx := j == len(asm.Contexts)-1
			failMarker := ""
			if _, ok := failedContexts[ctx.FullName()]; ok {
				failMarker = " " + color.RedString("[F]")
			}
			fmt.Fprintf(w, "%s%s%s\n", connector(lastCtx), ctx.FullName(), failMarker)
			fmt.Fprintf(w, "%s    %s\n", indent(lastCtx), color.WhiteString("%s", discovery.DescriptionName(ctx)))

			if !showSpecs {
				continue
			}
			if len(ctx.Specs) == 0 {
				fmt.Fprintf(w, "%s%s%s\n", indent(lastCtx), connector(true), color.RedString("(no specifications)"))
				continue
			}
			for k, spec := range ctx.Specs {
				label := spec.Name
				if spec.When != "" {
					label = fmt.Sprintf("%s (when %s)", label, spec.When)
				}
				fmt.Fprintf(w, "%s%s%s\n", indent(lastCtx), connector(k == len(ctx.Specs)-1), color.YellowString("%s", label))
			}
		}

		// Add spacing between assemblies (except for the last one)
		if i < len(assemblies)-1 {
			fmt.Fprintln(w)
		}
	}
}

// FailedContexts returns the contexts with at least one unresolved failure in report
func FailedContexts(report *domain.RunReport) map[string]struct{} {
	failed := make(map[string]struct{})
	if report == nil {
		return failed
	}
	for _, rec := range report.Results {
		if rec.Failed() && !rec.Resolved {
			failed[rec.Context] = struct{}{}
		}
	}
	return failed
}
