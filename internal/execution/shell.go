package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"mspec/internal/config"
	"mspec/internal/domain"
)

// CommandResult is the outcome of one shell command
type CommandResult struct {
	Output   string        // Combined stdout and stderr
	ExitCode int           // -1 when the command timed out
	TimedOut bool          // Whether the command hit the configured timeout
	Duration time.Duration // Time taken to execute
}

// Succeeded reports whether the command exited with status zero in time
func (r CommandResult) Succeeded() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// Shell runs commands for one assembly
type Shell struct {
	shell   string
	dir     string
	env     []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewShell creates a Shell running commands in the assembly's directory with the assembly's env
func NewShell(cfg *config.Config, asm *domain.Assembly, logger *slog.Logger) *Shell {
	dir := cfg.ProjectPath
	if asm.Path != "" {
		dir = filepath.Dir(asm.Path)
	}

	// Start with current environment, assembly variables win
	env := os.Environ()
	keys := make([]string, 0, len(asm.Env))
	for k := range asm.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, asm.Env[k]))
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Shell{
		shell:   cfg.Shell,
		dir:     dir,
		env:     env,
		timeout: cfg.SpecTimeout,
		logger:  logger,
	}
}

// Run executes command through the shell.
// A non-zero exit or a timeout is reported in the result; the error is
// reserved for commands that could not be run at all.
func (s *Shell) Run(command string) (CommandResult, error) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.shell, "-c", command)
	cmd.Env = s.env
	cmd.Dir = s.dir
	cmd.WaitDelay = time.Second

	s.logger.Debug("running command", "command", command, "dir", s.dir)
	start := time.Now()
	output, err := cmd.CombinedOutput()
	result := CommandResult{
		Output:   string(output),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("run %s -c %q: %w", s.shell, command, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	s.logger.Debug("command finished",
		"command", command,
		"exit_code", result.ExitCode,
		"timed_out", result.TimedOut,
		"duration", result.Duration,
	)
	return result, nil
}

// Timeout returns the per-command timeout, zero when disabled
func (s *Shell) Timeout() time.Duration {
	return s.timeout
}
