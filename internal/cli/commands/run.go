package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mspec/internal/cli"
	"mspec/internal/config"
	"mspec/internal/discovery"
	"mspec/internal/domain"
	"mspec/internal/execution"
	"mspec/internal/metrics"
	"mspec/internal/runner"
	"mspec/internal/ui"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ErrSpecificationsFailed is returned by run when at least one specification failed
var ErrSpecificationsFailed = errors.New("specifications failed")

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	scanner     *discovery.Scanner
	openStorage StorageOpener
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, scanner *discovery.Scanner, openStorage StorageOpener) *RunCommand {
	return &RunCommand{
		config:      cfg,
		scanner:     scanner,
		openStorage: openStorage,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	flags := rc.config.Flags
	logger := cli.NewLogger(cmd.ErrOrStderr(), flags.Verbose)

	if err := rc.config.LoadEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	if flags.Namespace != "" && flags.Member != "" {
		return errors.New("--namespace and --member cannot be combined")
	}
	var member domain.Member
	if flags.Member != "" {
		m, err := discovery.ParseMember(flags.Member)
		if err != nil {
			return err
		}
		member = m
	}

	assemblies, err := loadAssemblies(rc.scanner, rc.config, args)
	if err != nil {
		return err
	}
	if len(assemblies) == 0 {
		fmt.Fprintln(out, color.YellowString("No assembly manifests found"))
		return nil
	}

	// Progress total is only known when whole assemblies run
	total := -1
	if flags.Namespace == "" && flags.Member == "" {
		total = 0
		for _, asm := range assemblies {
			for _, ctx := range asm.Contexts {
				total += len(ctx.Specs)
			}
		}
	}

	var listener runner.Listener
	var progress *ui.ProgressListener
	if flags.Progress {
		progress = ui.NewProgressListener(total, out)
		listener = progress
	} else {
		listener = ui.NewConsoleListener(out, flags.ShowTraces)
	}

	runID := uuid.NewString()
	logger.Debug("starting run", "run_id", runID, "assemblies", len(assemblies))

	start := time.Now()
	state := domain.RunStateNoTests
	var (
		names   []string
		results []domain.TestResult
		runErr  error
	)
	for _, asm := range assemblies {
		names = append(names, asm.Name)
		asmState, asmResults, err := rc.runAssembly(listener, asm, member, logger)
		state = state.Combine(asmState)
		results = append(results, asmResults...)
		if err != nil {
			runErr = fmt.Errorf("assembly %s: %w", asm.Name, err)
			break
		}
	}
	if progress != nil {
		progress.Finish()
	}

	report := domain.NewRunReport(runID, state, names, results, time.Since(start))
	if err := rc.persist(report, logger); err != nil {
		return err
	}
	if flags.MetricsFile != "" {
		if err := metrics.WriteTextfile(flags.MetricsFile); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	ui.PrintSummary(out, report)

	if runErr != nil {
		return runErr
	}
	if state == domain.RunStateFailure {
		if flags.OpenFailures {
			if err := rc.openFailures(report); err != nil {
				return err
			}
		}
		return ErrSpecificationsFailed
	}
	return nil
}

// runAssembly runs one assembly with its own shell and records its metrics
func (rc *RunCommand) runAssembly(listener runner.Listener, asm *domain.Assembly, member domain.Member, logger *slog.Logger) (domain.RunState, []domain.TestResult, error) {
	shell := execution.NewShell(rc.config, asm, logger.With("assembly", asm.Name))
	r := runner.New(
		discovery.NewExplorer(execution.NewBinder(shell)),
		execution.NewVerifier(shell),
		ui.NewResultFormatterFactory(),
		runner.WithPartialReport(rc.config.Flags.PartialReport),
	)

	collector := runner.NewCollector()
	tee := runner.Tee(listener, collector)

	start := time.Now()
	var (
		state domain.RunState
		err   error
	)
	switch {
	case rc.config.Flags.Namespace != "":
		state, err = r.RunNamespace(tee, asm, rc.config.Flags.Namespace)
	case member.Kind != domain.MemberUnknown:
		state, err = r.RunMember(tee, asm, member)
	default:
		state, err = r.RunAssembly(tee, asm)
	}

	metrics.RecordRun(asm.Name, state, collector.Results(), time.Since(start))
	logger.Debug("assembly finished", "assembly", asm.Name, "state", state.String(), "results", len(collector.Results()))
	return state, collector.Results(), err
}

func (rc *RunCommand) persist(report *domain.RunReport, logger *slog.Logger) error {
	st, closeFn, err := rc.openStorage(rc.config)
	if err != nil {
		return fmt.Errorf("failed to open results storage: %w", err)
	}
	defer closeFn()

	if err := st.Save(report); err != nil {
		return fmt.Errorf("failed to save run results: %w", err)
	}
	logger.Debug("run saved", "run_id", report.RunID)
	return nil
}

func (rc *RunCommand) openFailures(report *domain.RunReport) error {
	st, closeFn, err := rc.openStorage(rc.config)
	if err != nil {
		return fmt.Errorf("failed to open results storage: %w", err)
	}
	defer closeFn()

	// Reload so records carry their storage identity
	stored, err := st.Load()
	if err != nil {
		stored = report
	}
	return ui.NewFailureViewer(st).View(stored)
}

// loadAssemblies loads the manifests named in args, or every manifest found under the spec path
func loadAssemblies(scanner *discovery.Scanner, cfg *config.Config, args []string) ([]*domain.Assembly, error) {
	paths := args
	if len(paths) == 0 {
		found, err := scanner.Scan(cfg.GetSpecPath())
		if err != nil {
			return nil, err
		}
		paths = found
	}

	assemblies := make([]*domain.Assembly, 0, len(paths))
	for _, path := range paths {
		asm, err := discovery.LoadAssembly(path)
		if err != nil {
			return nil, err
		}
		assemblies = append(assemblies, asm)
	}
	return assemblies, nil
}
