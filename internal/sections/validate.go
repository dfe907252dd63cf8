package sections

import (
	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/fields"
	"github.com/goliatone/go-pagebuilder/internal/schema"
)

// Violation is a field error attributed to its section.
type Violation struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validator runs field validation for whole sections.
type Validator struct {
	registry *fields.Registry
	resolver *content.Resolver
}

// NewValidator creates a validator. Nil arguments fall back to the built-in
// field kinds and the default lookup chain.
func NewValidator(registry *fields.Registry, resolver *content.Resolver) *Validator {
	if registry == nil {
		registry = fields.DefaultRegistry()
	}
	if resolver == nil {
		resolver = content.NewResolver()
	}
	return &Validator{registry: registry, resolver: resolver}
}

// Resolver returns the lookup chain used by the validator.
func (v *Validator) Resolver() *content.Resolver {
	return v.resolver
}

// Registry returns the field kinds used by the validator.
func (v *Validator) Registry() *fields.Registry {
	return v.registry
}

// Validate checks every field of the section in field order. Disabled optional
// sections produce no violations.
func (v *Validator) Validate(section schema.SectionDefinition, c content.Content) []Violation {
	if !Resolve(v.resolver, section, c).Enabled {
		return nil
	}

	var out []Violation
	for _, field := range section.Fields {
		value := v.Value(section.Key, field, c)
		subject := fields.Subject{
			SectionName: section.DisplayName(),
			Implicit:    section.Implicit,
			Field:       field,
		}
		for _, violation := range v.registry.Validate(subject, value) {
			out = append(out, Violation{
				Section: section.Key,
				Field:   field.Key,
				Code:    violation.Code,
				Message: violation.Message,
			})
		}
	}
	return out
}

// Value resolves a field and falls back to its kind's empty value.
func (v *Validator) Value(sectionKey string, field schema.FieldDefinition, c content.Content) any {
	if match, ok := v.resolver.Lookup(c, sectionKey, field.Key); ok {
		return match.Value
	}
	return v.registry.Empty(field.Type)
}
