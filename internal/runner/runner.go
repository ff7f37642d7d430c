// Package runner drives specification descriptions through their lifecycle
// and reduces the results of their specifications to one run verdict.
//
// A run is strictly sequential: descriptions, their context hooks and their
// specifications execute in declaration order on the calling goroutine.
// Errors returned by the explorer, the verifier or a context hook abort the
// run and are returned to the caller unchanged apart from wrapping; failing
// specifications are never errors.
package runner

import (
	"errors"
	"fmt"

	"mspec/internal/domain"
)

// SpecificationRunner runs descriptions found by an Explorer
type SpecificationRunner struct {
	explorer      Explorer
	verifier      Verifier
	formatters    FormatterFactory
	partialReport bool
}

// Option configures a SpecificationRunner
type Option func(*SpecificationRunner)

// WithPartialReport makes a run that aborts with an error still report the
// results collected before the error to the listener.
func WithPartialReport(enabled bool) Option {
	return func(r *SpecificationRunner) {
		r.partialReport = enabled
	}
}

// New creates a SpecificationRunner
func New(explorer Explorer, verifier Verifier, formatters FormatterFactory, opts ...Option) *SpecificationRunner {
	r := &SpecificationRunner{
		explorer:   explorer,
		verifier:   verifier,
		formatters: formatters,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunAssembly runs every description declared in the assembly
func (r *SpecificationRunner) RunAssembly(listener Listener, asm *domain.Assembly) (domain.RunState, error) {
	descriptions, err := r.explorer.FindDescriptionsIn(asm)
	if err != nil {
		return domain.RunStateFailure, fmt.Errorf("find descriptions in %s: %w", asm.Name, err)
	}
	return r.RunDescriptions(listener, descriptions)
}

// RunNamespace runs the descriptions of the assembly declared in namespace
func (r *SpecificationRunner) RunNamespace(listener Listener, asm *domain.Assembly, namespace string) (domain.RunState, error) {
	descriptions, err := r.explorer.FindDescriptionsInNamespace(asm, namespace)
	if err != nil {
		return domain.RunStateFailure, fmt.Errorf("find descriptions in %s namespace %s: %w", asm.Name, namespace, err)
	}
	return r.RunDescriptions(listener, descriptions)
}

// RunMember runs the single description a member resolves to.
// A type member maps to its own description, a field member to the
// description owning the field. Anything unresolvable yields no tests.
func (r *SpecificationRunner) RunMember(listener Listener, asm *domain.Assembly, member domain.Member) (domain.RunState, error) {
	var (
		desc *domain.Description
		err  error
	)
	switch member.Kind {
	case domain.MemberType:
		desc, err = r.explorer.FindDescriptionForType(asm, member.Type)
	case domain.MemberField:
		desc, err = r.explorer.FindDescriptionForField(asm, member.Type, member.Field)
	default:
		return domain.RunStateNoTests, nil
	}
	if err != nil {
		return domain.RunStateFailure, fmt.Errorf("find description for %s: %w", member, err)
	}
	if desc == nil {
		return domain.RunStateNoTests, nil
	}
	return r.RunDescriptions(listener, []*domain.Description{desc})
}

// RunDescriptions runs descriptions in order and returns the run verdict.
//
// Descriptions without specifications are skipped without output or hooks.
// Finished results are reported to the listener only after every description
// has run. On error the verdict is RunStateFailure.
func (r *SpecificationRunner) RunDescriptions(listener Listener, descriptions []*domain.Description) (domain.RunState, error) {
	if len(descriptions) == 0 {
		return domain.RunStateNoTests, nil
	}

	var results []domain.TestResult
	for _, desc := range descriptions {
		if desc == nil || len(desc.Specifications) == 0 {
			continue
		}
		collected, err := r.runDescription(listener, desc)
		results = append(results, collected...)
		if err != nil {
			if r.partialReport {
				r.report(listener, results)
			}
			return domain.RunStateFailure, err
		}
	}

	if len(results) == 0 {
		return domain.RunStateNoTests, nil
	}
	return r.report(listener, results), nil
}

// runDescription brackets the description's specifications with its context
// hooks. The after-all hook runs whenever the before-all hook succeeded.
func (r *SpecificationRunner) runDescription(listener Listener, desc *domain.Description) (results []domain.TestResult, err error) {
	listener.WriteLine(desc.Name, CategoryOutput)
	if err := desc.RunContextBeforeAll(); err != nil {
		return nil, fmt.Errorf("establish context %s: %w", desc.Type, err)
	}
	defer func() {
		if cleanupErr := desc.RunContextAfterAll(); cleanupErr != nil {
			err = errors.Join(err, fmt.Errorf("cleanup context %s: %w", desc.Type, cleanupErr))
			return
		}
		if err == nil {
			listener.WriteLine("", CategoryOutput)
		}
	}()

	lastWhen := ""
	for _, spec := range desc.Specifications {
		if spec.HasWhenClause() && spec.WhenClause != lastWhen {
			lastWhen = spec.WhenClause
			listener.WriteLine(fmt.Sprintf("\n  When %s", spec.WhenClause), CategoryOutput)
		}

		result, err := r.verifier.Verify(desc, spec)
		if err != nil {
			return results, fmt.Errorf("verify %s::%s: %w", desc.Type, spec.Name, err)
		}
		listener.WriteLine(r.formatters.FormatterFor(result).FormatResult(spec), CategoryOutput)
		results = append(results, Classify(spec, result))
	}
	return results, nil
}

// report sends every result to the listener and computes the verdict
func (r *SpecificationRunner) report(listener Listener, results []domain.TestResult) domain.RunState {
	failure := false
	for _, result := range results {
		listener.TestFinished(result)
		failure = failure || result.State == domain.TestStateFailed
	}
	if failure {
		return domain.RunStateFailure
	}
	return domain.RunStateSuccess
}
