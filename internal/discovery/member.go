package discovery

import (
	"fmt"
	"strings"

	"mspec/internal/domain"
)

// ParseMember parses a single-member location.
// "Namespace.Type" selects a context type and "Namespace.Type::field" a specification field.
func ParseMember(location string) (domain.Member, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.Member{}, fmt.Errorf("empty member location")
	}

	typeName, field, isField := strings.Cut(location, "::")
	if typeName == "" {
		return domain.Member{}, fmt.Errorf("member location %q has no type", location)
	}
	if !isField {
		return domain.Member{Kind: domain.MemberType, Type: typeName}, nil
	}
	if field == "" || strings.Contains(field, "::") {
		return domain.Member{}, fmt.Errorf("member location %q has an invalid field", location)
	}
	return domain.Member{Kind: domain.MemberField, Type: typeName, Field: field}, nil
}
