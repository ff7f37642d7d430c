package execution

import (
	"fmt"
	"strings"

	"mspec/internal/domain"
)

// CommandContext runs a context's establish and cleanup commands as its one-time hooks
type CommandContext struct {
	shell     *Shell
	establish string
	cleanup   string
}

// BeforeAll runs the establish command
func (c *CommandContext) BeforeAll() error {
	return c.run("establish", c.establish)
}

// AfterAll runs the cleanup command
func (c *CommandContext) AfterAll() error {
	return c.run("cleanup", c.cleanup)
}

func (c *CommandContext) run(stage, command string) error {
	if command == "" {
		return nil
	}
	res, err := c.shell.Run(command)
	if err != nil {
		return err
	}
	if res.TimedOut {
		return fmt.Errorf("%s timed out after %s: %s", stage, c.shell.Timeout(), command)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s exited with status %d: %s", stage, res.ExitCode, strings.TrimSpace(res.Output))
	}
	return nil
}

// Binder binds command hooks to declared contexts
type Binder struct {
	shell *Shell
}

// NewBinder creates a Binder whose hooks run through shell
func NewBinder(shell *Shell) *Binder {
	return &Binder{shell: shell}
}

// Bind returns the hooks of ctx
func (b *Binder) Bind(_ *domain.Assembly, ctx domain.ContextType) domain.Context {
	return &CommandContext{
		shell:     b.shell,
		establish: ctx.Establish,
		cleanup:   ctx.Cleanup,
	}
}
