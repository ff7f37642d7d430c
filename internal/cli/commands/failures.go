package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mspec/internal/config"
	"mspec/internal/storage"
	"mspec/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config      *config.Config
	openStorage StorageOpener
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config, openStorage StorageOpener) *FailuresCommand {
	return &FailuresCommand{
		config:      cfg,
		openStorage: openStorage,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := fc.config.LoadEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	st, closeFn, err := fc.openStorage(fc.config)
	if err != nil {
		return fmt.Errorf("failed to open results storage: %w", err)
	}
	defer closeFn()

	report, err := st.Load()
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("No stored run found, use 'mspec run' first"))
		return nil
	}
	if err != nil {
		return err
	}

	return ui.NewFailureViewer(st).View(report)
}
