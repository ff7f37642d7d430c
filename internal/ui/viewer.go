package ui

import "mspec/internal/domain"

// Viewer displays the failures of a run in an interactive TUI
type Viewer interface {
	View(report *domain.RunReport) error
}
