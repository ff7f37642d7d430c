package commands

import (
	"mspec/internal/cli"
	"mspec/internal/config"
	"mspec/internal/discovery"
	"mspec/internal/storage"

	"github.com/spf13/cobra"
)

// StorageOpener opens the run storage selected by the configuration
type StorageOpener func(cfg *config.Config) (storage.Storage, func() error, error)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	scanner := discovery.NewScanner(cfg.AssemblyPattern, cfg.PathsToIgnore)

	return &Commands{
		Run:      NewRunCommand(cfg, scanner, storage.Open),
		List:     NewListCommand(cfg, scanner, storage.Open),
		Failures: NewFailuresCommand(cfg, storage.Open),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		flags.Apply(cfg)
		return nil
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ProjectPath, "project", "C", "", "Project directory (holds .env and the last run)")
	rootCmd.PersistentFlags().BoolVar(&flags.Verbose, "verbose", false, "Log shell commands and run progress to stderr")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run [manifest...]",
		Short:   "Run behavior specifications",
		Long:    "Discover assembly manifests and run their specifications, one context at a time",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringVarP(&flags.SpecPath, "spec-path", "s", "", "Path to the folder where manifest discovery should start")
	runCmd.Flags().StringVarP(&flags.Namespace, "namespace", "n", "", "Run only contexts in this namespace")
	runCmd.Flags().StringVarP(&flags.Member, "member", "m", "", "Run a single context ('Type') or the context owning a spec ('Type::spec')")
	runCmd.Flags().DurationVar(&flags.SpecTimeout, "timeout", 0, "Timeout for each spec, establish and cleanup command (default 5m)")
	runCmd.Flags().BoolVarP(&flags.Progress, "progress", "p", false, "Show a progress bar instead of streaming spec output")
	runCmd.Flags().BoolVar(&flags.ShowTraces, "traces", false, "Print the failure output of every failed spec")
	runCmd.Flags().BoolVar(&flags.PartialReport, "partial-report", false, "Report finished specs of a context even when its run is aborted")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics for the run to this file")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered contexts",
		Long:    "Scan and list all assembly manifests and their contexts without running them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.SpecPath, "spec-path", "s", "", "Path to the folder where manifest discovery should start")
	listCmd.Flags().BoolVarP(&flags.ShowSpecs, "specs", "c", false, "List specifications under each context")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View failed specifications interactively",
		Long:    "Display failed specifications from the last run in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(failuresCmd)
}
