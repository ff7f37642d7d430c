package execution

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"mspec/internal/domain"
)

// CommandVerifier verifies a specification by running its command
type CommandVerifier struct {
	shell *Shell
}

// NewVerifier creates a new CommandVerifier
func NewVerifier(shell *Shell) *CommandVerifier {
	return &CommandVerifier{shell: shell}
}

// Verify runs the specification's command. Exit status zero passes; a non-zero
// exit or a timeout fails with the command output as detail.
func (v *CommandVerifier) Verify(desc *domain.Description, spec domain.Specification) (domain.VerificationResult, error) {
	res, err := v.shell.Run(spec.Command)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if res.Succeeded() {
		return domain.VerificationResult{Passed: true}, nil
	}
	return domain.VerificationResult{Passed: false, Err: v.failure(spec, res)}, nil
}

func (v *CommandVerifier) failure(spec domain.Specification, res CommandResult) error {
	summary := "exit status " + strconv.Itoa(res.ExitCode)
	if res.TimedOut {
		summary = "timed out after " + v.shell.Timeout().String()
	}

	output := strings.TrimSpace(res.Output)
	if output == "" {
		return errors.Errorf("%s: %s", summary, spec.Command)
	}
	return errors.Errorf("%s: %s\n%s", summary, spec.Command, output)
}
