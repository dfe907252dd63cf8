package sections

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/schema"
)

var (
	ErrSectionRequired = errors.New("sections: required sections cannot be disabled")
	ErrUnknownSection  = errors.New("sections: unknown section")
	ErrUnknownField    = errors.New("sections: unknown field")
)

// SetField stores value under the section using the section's current
// enablement for a newly created section object. With sectionKey "" the
// value is written flat for legacy forms.
func SetField(resolver *content.Resolver, s schema.TemplateConfigSchema, c content.Content, sectionKey, fieldKey string, value any) (content.Content, error) {
	if sectionKey == "" {
		return content.SetField(c, "", fieldKey, value, false), nil
	}
	section, ok := s.Section(sectionKey)
	if !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownSection, sectionKey)
	}
	if _, ok := section.Field(fieldKey); !ok {
		return c, fmt.Errorf("%w: %s.%s", ErrUnknownField, sectionKey, fieldKey)
	}
	enabled := Resolve(resolver, section, c).Enabled
	return content.SetField(c, sectionKey, fieldKey, value, enabled), nil
}

// SetEnabled toggles an optional section. Disabling a required section fails.
func SetEnabled(s schema.TemplateConfigSchema, c content.Content, sectionKey string, enabled bool) (content.Content, error) {
	section, ok := s.Section(sectionKey)
	if !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownSection, sectionKey)
	}
	if section.Required && !enabled {
		return c, fmt.Errorf("%w: %s", ErrSectionRequired, sectionKey)
	}
	return content.SetEnabled(c, sectionKey, enabled), nil
}
