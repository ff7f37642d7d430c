package discovery

import (
	"mspec/internal/domain"
)

// ContextBinder supplies the hooks of a declared context
type ContextBinder interface {
	Bind(asm *domain.Assembly, ctx domain.ContextType) domain.Context
}

// Explorer turns assembly declarations into descriptions
type Explorer struct {
	binder ContextBinder
}

// NewExplorer creates a new Explorer. A nil binder produces descriptions without hooks.
func NewExplorer(binder ContextBinder) *Explorer {
	return &Explorer{binder: binder}
}

// FindDescriptionsIn returns every description of the assembly in declaration order
func (e *Explorer) FindDescriptionsIn(asm *domain.Assembly) ([]*domain.Description, error) {
	descriptions := make([]*domain.Description, 0, len(asm.Contexts))
	for _, ctx := range asm.Contexts {
		descriptions = append(descriptions, e.describe(asm, ctx))
	}
	return descriptions, nil
}

// FindDescriptionsInNamespace returns the descriptions declared exactly in namespace
func (e *Explorer) FindDescriptionsInNamespace(asm *domain.Assembly, namespace string) ([]*domain.Description, error) {
	var descriptions []*domain.Description
	for _, ctx := range asm.Contexts {
		if ctx.Namespace == namespace {
			descriptions = append(descriptions, e.describe(asm, ctx))
		}
	}
	return descriptions, nil
}

// FindDescriptionForType returns the description of a fully qualified context type, or nil
func (e *Explorer) FindDescriptionForType(asm *domain.Assembly, typeName string) (*domain.Description, error) {
	for _, ctx := range asm.Contexts {
		if ctx.FullName() == typeName {
			return e.describe(asm, ctx), nil
		}
	}
	return nil, nil
}

// FindDescriptionForField returns the description owning a specification field, or nil
func (e *Explorer) FindDescriptionForField(asm *domain.Assembly, typeName, field string) (*domain.Description, error) {
	for _, ctx := range asm.Contexts {
		if ctx.FullName() != typeName {
			continue
		}
		for _, spec := range ctx.Specs {
			if spec.Name == field {
				return e.describe(asm, ctx), nil
			}
		}
		return nil, nil
	}
	return nil, nil
}

func (e *Explorer) describe(asm *domain.Assembly, ctx domain.ContextType) *domain.Description {
	fullName := ctx.FullName()
	desc := &domain.Description{
		Name:           DescriptionName(ctx),
		Type:           fullName,
		Namespace:      ctx.Namespace,
		Specifications: make([]domain.Specification, 0, len(ctx.Specs)),
	}
	for _, field := range ctx.Specs {
		desc.Specifications = append(desc.Specifications, domain.Specification{
			Name:       field.Name,
			It:         field.It,
			WhenClause: field.When,
			Command:    field.Run,
			Context:    fullName,
		})
	}
	if e.binder != nil {
		desc.Context = e.binder.Bind(asm, ctx)
	}
	return desc
}

// DescriptionName returns "Subject, humanized type" or the humanized type when there is no subject
func DescriptionName(ctx domain.ContextType) string {
	name := domain.Humanize(ctx.Name)
	if ctx.Subject == "" {
		return name
	}
	return ctx.Subject + ", " + name
}
