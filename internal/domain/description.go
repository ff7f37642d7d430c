package domain

// Context owns the one-time setup and teardown of a Description.
type Context interface {
	BeforeAll() error
	AfterAll() error
}

// Description is an ordered group of specifications sharing one context
type Description struct {
	Name           string // Display identity, e.g. "Cart, when adding an item"
	Type           string // Fully qualified context type, e.g. "Shop.Cart.when_adding_an_item"
	Namespace      string
	Specifications []Specification
	Context        Context
}

// RunContextBeforeAll runs the one-time setup of the description's context
func (d *Description) RunContextBeforeAll() error {
	if d.Context == nil {
		return nil
	}
	return d.Context.BeforeAll()
}

// RunContextAfterAll runs the one-time teardown of the description's context
func (d *Description) RunContextAfterAll() error {
	if d.Context == nil {
		return nil
	}
	return d.Context.AfterAll()
}

// Specification is a single case belonging to exactly one Description
type Specification struct {
	Name       string // Field name, used to correlate results
	It         string // Human readable behaviour, e.g. "should increase the count"
	WhenClause string // Grouping label, empty when the case has none
	Command    string // Body executed by the verifier
	Context    string // Type of the owning description
}

// HasWhenClause reports whether the specification carries a grouping label
func (s Specification) HasWhenClause() bool {
	return s.WhenClause != ""
}

// DisplayText returns the text shown for the specification in progress output
func (s Specification) DisplayText() string {
	if s.It != "" {
		return s.It
	}
	return Humanize(s.Name)
}
