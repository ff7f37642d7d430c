package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mspec/internal/domain"
)

// PrintSummary prints the statistics of a run followed by a tree of its failures
func PrintSummary(w io.Writer, report *domain.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Specification Run")
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	t.AppendRows([]table.Row{
		{"Run ID", report.RunID},
		{"Assemblies", len(report.Assemblies)},
		{"Specifications", len(report.Results)},
		{"Passed", report.Passed()},
		{"Failed", report.Failed()},
		{"Duration", fmt.Sprintf("%.2fs", report.DurationSeconds)},
		{"Verdict", report.State},
		{"Timestamp", report.Timestamp},
	})
	t.Render()

	fmt.Fprintln(w)
	switch {
	case len(report.Results) == 0:
		fmt.Fprintln(w, color.YellowString("No specifications were run"))
	case report.Failed() == 0:
		fmt.Fprintln(w, color.GreenString("✓ All specifications passed!"))
	default:
		fmt.Fprintln(w, color.RedString("✗ %d of %d specification(s) failed", report.Failed(), len(report.Results)))
		fmt.Fprintln(w)
		printFailureTree(w, report.Results)
	}
}

// treeNode is a namespace segment, or a context when it has failures
type treeNode struct {
	name     string
	children map[string]*treeNode
	failures []string
}

func newTreeNode(name string) *treeNode {
	return &treeNode{name: name, children: make(map[string]*treeNode)}
}

// printFailureTree prints failed specifications grouped by namespace segments of their context
func printFailureTree(w io.Writer, results []domain.ResultRecord) {
	root := newTreeNode("")
	for _, rec := range results {
		if !rec.Failed() {
			continue
		}
		current := root
		for _, part := range strings.Split(rec.Context, ".") {
			if part == "" {
				continue
			}
			if current.children[part] == nil {
				current.children[part] = newTreeNode(part)
			}
			current = current.children[part]
		}
		current.failures = append(current.failures, rec.Name)
	}
	printTreeNode(w, root, "")
}

func printTreeNode(w io.Writer, node *treeNode, prefix string) {
	// Sort children for consistent output
	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := len(keys) + len(node.failures)
	i := 0
	for _, name := range node.failures {
		i++
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector(i == entries), color.RedString("%s", name))
	}
	for _, key := range keys {
		i++
		child := node.children[key]
		last := i == entries
		if len(child.failures) > 0 {
			fmt.Fprintf(w, "%s%s%s\n", prefix, connector(last), color.YellowString("%s", child.name))
		} else {
			fmt.Fprintf(w, "%s%s%s\n", prefix, connector(last), color.CyanString("%s", child.name))
		}
		printTreeNode(w, child, prefix+indent(last))
	}
}

func connector(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func indent(last bool) string {
	if last {
		return "    "
	}
	return "│   "
}
