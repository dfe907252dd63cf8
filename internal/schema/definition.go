package schema

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Keys may not contain dots: "section.field" is reserved for the dot-notation
// content shape.
var keyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// DefinitionError carries per-path problems found in an authored schema.
type DefinitionError struct {
	Errors validation.Errors
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDefinitionInvalid.Error(), e.Errors.Error())
}

func (e *DefinitionError) Unwrap() error {
	return ErrDefinitionInvalid
}

// ValidateDefinition checks a schema produced by the template editor. Page
// rendering never calls this: stored schemas are read leniently by Parse.
func ValidateDefinition(s TemplateConfigSchema) error {
	errs := validation.Errors{}
	sectionKeys := make(map[string]struct{}, len(s.Sections))

	for i, section := range s.Sections {
		path := fmt.Sprintf("sections.%d", i)
		if err := validateSection(section); err != nil {
			errs[path] = err
			continue
		}
		if _, dup := sectionKeys[section.Key]; dup {
			errs[path] = validation.Errors{
				"key": validation.NewError("pagebuilder.schema.section_key_duplicate", fmt.Sprintf("section key %q is already used", section.Key)),
			}
			continue
		}
		sectionKeys[section.Key] = struct{}{}
	}

	if len(errs) > 0 {
		return &DefinitionError{Errors: errs}
	}
	return nil
}

func validateSection(section SectionDefinition) error {
	s := section
	if err := validation.ValidateStruct(&s,
		validation.Field(&s.Key,
			validation.Required.ErrorObject(validation.NewError("pagebuilder.schema.section_key_required", ErrSectionKeyRequired.Error())),
			validation.Match(keyPattern),
		),
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Order, validation.Min(0)),
	); err != nil {
		return err
	}

	fieldErrs := validation.Errors{}
	fieldKeys := make(map[string]struct{}, len(s.Fields))
	for i, field := range s.Fields {
		path := fmt.Sprintf("fields.%d", i)
		if err := validateField(field); err != nil {
			fieldErrs[path] = err
			continue
		}
		if _, dup := fieldKeys[field.Key]; dup {
			fieldErrs[path] = validation.Errors{
				"key": validation.NewError("pagebuilder.schema.field_key_duplicate", fmt.Sprintf("field key %q is already used", field.Key)),
			}
			continue
		}
		fieldKeys[field.Key] = struct{}{}
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

func validateField(field FieldDefinition) error {
	f := field
	known := make([]any, 0, len(KnownFieldTypes()))
	for _, fieldType := range KnownFieldTypes() {
		known = append(known, fieldType)
	}

	err := validation.ValidateStruct(&f,
		validation.Field(&f.Key,
			validation.Required.ErrorObject(validation.NewError("pagebuilder.schema.field_key_required", ErrFieldKeyRequired.Error())),
			validation.Match(keyPattern),
		),
		validation.Field(&f.Type,
			validation.Required,
			validation.In(known...).ErrorObject(validation.NewError("pagebuilder.schema.field_type_unknown", ErrUnknownFieldType.Error())),
		),
		validation.Field(&f.Label, validation.Required),
		validation.Field(&f.MinSlides, validation.Min(0)),
		validation.Field(&f.MaxSlides, validation.Min(0)),
		validation.Field(&f.MinFAQs, validation.Min(0)),
		validation.Field(&f.MaxFAQs, validation.Min(0)),
		validation.Field(&f.MinRows, validation.Min(0)),
		validation.Field(&f.MaxRows, validation.Min(0)),
		validation.Field(&f.Columns, validation.When(f.Type == FieldTable, validation.Each(validation.By(validateColumn)))),
	)
	if err != nil {
		return err
	}

	if min, max, ok := f.Bounds(); ok && max > 0 && min > max {
		return validation.Errors{
			"bounds": validation.NewError("pagebuilder.schema.bounds_out_of_order", fmt.Sprintf("%s (%d > %d)", ErrBoundsOutOfOrder.Error(), min, max)),
		}
	}
	return nil
}

func validateColumn(value any) error {
	column, ok := value.(Column)
	if !ok {
		return nil
	}
	return validation.ValidateStruct(&column,
		validation.Field(&column.Key, validation.Required, validation.Match(keyPattern)),
		validation.Field(&column.Label, validation.Required),
	)
}
