package main

import (
	"errors"
	"fmt"
	"os"

	"mspec/internal/cli"
	"mspec/internal/cli/commands"
	"mspec/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "mspec",
		Short:         "Behavior specification runner",
		Long:          `Runs context/specification style behavior specs declared in YAML assembly manifests. Each context is established once, its specifications are verified by shell commands, and it is cleaned up afterwards.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrSpecificationsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
