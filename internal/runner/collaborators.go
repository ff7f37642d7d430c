package runner

import "mspec/internal/domain"

// Explorer finds descriptions declared in an assembly.
// Find*For* return a nil description when nothing matches.
type Explorer interface {
	FindDescriptionsIn(asm *domain.Assembly) ([]*domain.Description, error)
	FindDescriptionsInNamespace(asm *domain.Assembly, namespace string) ([]*domain.Description, error)
	FindDescriptionForType(asm *domain.Assembly, typeName string) (*domain.Description, error)
	FindDescriptionForField(asm *domain.Assembly, typeName, field string) (*domain.Description, error)
}

// Verifier executes one specification of a description.
// A failing specification is a result, not an error; errors are reserved for
// failures of the verifier itself.
type Verifier interface {
	Verify(desc *domain.Description, spec domain.Specification) (domain.VerificationResult, error)
}

// ResultFormatter renders a specification's outcome as progress text
type ResultFormatter interface {
	FormatResult(spec domain.Specification) string
}

// FormatterFactory picks the formatter for a verification result
type FormatterFactory interface {
	FormatterFor(result domain.VerificationResult) ResultFormatter
}

// Category classifies progress text written to a listener
type Category int

const (
	CategoryOutput Category = iota
	CategoryInfo
	CategoryWarning
	CategoryError
)

// Listener receives progress text and finished results while a run proceeds
type Listener interface {
	WriteLine(text string, category Category)
	TestFinished(result domain.TestResult)
}
