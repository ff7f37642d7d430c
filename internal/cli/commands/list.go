package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mspec/internal/config"
	"mspec/internal/discovery"
	"mspec/internal/storage"
	"mspec/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config      *config.Config
	scanner     *discovery.Scanner
	openStorage StorageOpener
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, scanner *discovery.Scanner, openStorage StorageOpener) *ListCommand {
	return &ListCommand{
		config:      cfg,
		scanner:     scanner,
		openStorage: openStorage,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if err := lc.config.LoadEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	assemblies, err := loadAssemblies(lc.scanner, lc.config, args)
	if err != nil {
		return err
	}
	if len(assemblies) == 0 {
		fmt.Fprintln(out, color.YellowString("No assembly manifests found"))
		return nil
	}

	// Mark contexts that failed in the last run, if one is stored
	var failed map[string]struct{}
	if st, closeFn, err := lc.openStorage(lc.config); err == nil {
		defer closeFn()
		report, err := st.Load()
		if err != nil && !errors.Is(err, storage.ErrNoRuns) {
			fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("Could not read last run: %v", err))
		}
		failed = ui.FailedContexts(report)
	}

	ui.PrintAssemblyList(out, lc.config.ProjectPath, assemblies, lc.config.Flags.ShowSpecs, failed)
	return nil
}
