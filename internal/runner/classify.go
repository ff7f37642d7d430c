package runner

import (
	"fmt"

	"mspec/internal/domain"
)

// Classify converts a verification result into the result reported to listeners.
// The stack trace is the %+v rendering of the failure so wrapped errors keep their stack.
func Classify(spec domain.Specification, result domain.VerificationResult) domain.TestResult {
	tr := domain.TestResult{
		Name:    spec.Name,
		Context: spec.Context,
		State:   domain.TestStatePassed,
	}
	if result.Passed {
		return tr
	}

	tr.State = domain.TestStateFailed
	if result.Err != nil {
		tr.StackTrace = fmt.Sprintf("%+v", result.Err)
	}
	return tr
}
