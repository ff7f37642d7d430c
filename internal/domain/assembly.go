package domain

import "strings"

// Assembly is a loaded specification manifest
type Assembly struct {
	Name     string            `yaml:"assembly"`
	Env      map[string]string `yaml:"env,omitempty"`
	Contexts []ContextType     `yaml:"contexts"`

	Path string `yaml:"-"` // File the assembly was loaded from
}

// ContextType declares a Description
type ContextType struct {
	Namespace string      `yaml:"namespace"`
	Name      string      `yaml:"name"`
	Subject   string      `yaml:"subject,omitempty"`
	Establish string      `yaml:"establish,omitempty"` // Runs once before the specs
	Cleanup   string      `yaml:"cleanup,omitempty"`   // Runs once after the specs
	Specs     []SpecField `yaml:"specs"`
}

// FullName returns the namespace-qualified type name
func (c ContextType) FullName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// SpecField declares a Specification
type SpecField struct {
	Name string `yaml:"name"`
	It   string `yaml:"it,omitempty"`
	When string `yaml:"when,omitempty"`
	Run  string `yaml:"run"`
}

// Humanize turns an identifier like "when_adding_an_item" into "when adding an item"
func Humanize(identifier string) string {
	return strings.TrimSpace(strings.ReplaceAll(identifier, "_", " "))
}
