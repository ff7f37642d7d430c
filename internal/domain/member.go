package domain

// MemberKind identifies what a single-member location points at
type MemberKind int

const (
	MemberUnknown MemberKind = iota
	MemberType               // A context type, runs its description
	MemberField              // A specification field, runs its owning description
)

// Member is the location of a single type or field to run
type Member struct {
	Kind  MemberKind
	Type  string // Fully qualified context type
	Field string // Specification name, set only for MemberField
}

// String returns the textual location, "Namespace.Type" or "Namespace.Type::field"
func (m Member) String() string {
	if m.Kind == MemberField {
		return m.Type + "::" + m.Field
	}
	return m.Type
}
