package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/schema"
)

const (
	CodeRequired = "required"
	CodeMinItems = "min_items"
	CodeMaxItems = "max_items"
)

// Subject is the field being validated together with the section that owns it.
type Subject struct {
	SectionName string
	// Implicit marks the legacy main section, whose messages carry no prefix.
	Implicit bool
	// EnforceMax reports maximum cardinality violations. The registry sets it
	// when built WithMaxBounds.
	EnforceMax bool
	Field      schema.FieldDefinition
}

// Violation is one failed rule for a field.
type Violation struct {
	Code    string
	Message string
}

// Kind owns validation and the empty value of one field type.
type Kind interface {
	Type() schema.FieldType
	Empty() any
	Validate(subject Subject, value any) []Violation
}

type scalarKind struct {
	fieldType schema.FieldType
}

func (k scalarKind) Type() schema.FieldType { return k.fieldType }

func (scalarKind) Empty() any { return "" }

func (scalarKind) Validate(subject Subject, value any) []Violation {
	if !subject.Field.Required {
		return nil
	}
	if !content.IsPresent(value) {
		return []Violation{requiredViolation(subject)}
	}
	if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
		return []Violation{requiredViolation(subject)}
	}
	return nil
}

type presenceKind struct {
	fieldType schema.FieldType
	empty     any
}

func (k presenceKind) Type() schema.FieldType { return k.fieldType }

func (k presenceKind) Empty() any { return k.empty }

func (presenceKind) Validate(subject Subject, value any) []Violation {
	return validatePresence(subject, value)
}

// listKind checks cardinality. minRequiresFlag keeps the table rule where the
// minimum only applies to fields explicitly marked required.
type listKind struct {
	fieldType       schema.FieldType
	items           string
	minRequiresFlag bool
}

func (k listKind) Type() schema.FieldType { return k.fieldType }

func (listKind) Empty() any { return []any{} }

func (k listKind) Validate(subject Subject, value any) []Violation {
	min, max, _ := subject.Field.Bounds()
	count := content.ListLength(value)

	enforceMin := subject.Field.Required
	if !k.minRequiresFlag {
		enforceMin = enforceMin || min > 0
	}

	var out []Violation
	if enforceMin && count < min {
		out = append(out, Violation{
			Code:    CodeMinItems,
			Message: fmt.Sprintf("%s requires at least %d %s (currently has %d)", subjectLabel(subject), min, k.items, count),
		})
	}
	if subject.EnforceMax && max > 0 && count > max {
		out = append(out, Violation{
			Code:    CodeMaxItems,
			Message: fmt.Sprintf("%s allows at most %d %s (currently has %d)", subjectLabel(subject), max, k.items, count),
		})
	}
	return out
}

func validatePresence(subject Subject, value any) []Violation {
	if subject.Field.Required && !content.HasData(value) {
		return []Violation{requiredViolation(subject)}
	}
	return nil
}

func requiredViolation(subject Subject) Violation {
	return Violation{
		Code:    CodeRequired,
		Message: fmt.Sprintf("%s is required", subjectLabel(subject)),
	}
}

func subjectLabel(subject Subject) string {
	label := fmt.Sprintf("%q", subject.Field.DisplayLabel())
	if subject.Implicit || subject.SectionName == "" {
		return label
	}
	return subject.SectionName + ": " + label
}

// BuiltinKinds returns the kinds for every known field type.
func BuiltinKinds() []Kind {
	return []Kind{
		scalarKind{fieldType: schema.FieldText},
		scalarKind{fieldType: schema.FieldTextarea},
		scalarKind{fieldType: schema.FieldURL},
		scalarKind{fieldType: schema.FieldRichText},
		presenceKind{fieldType: schema.FieldImage, empty: ""},
		presenceKind{fieldType: schema.FieldCheckbox, empty: false},
		listKind{fieldType: schema.FieldSlider, items: "slides"},
		listKind{fieldType: schema.FieldFAQ, items: "FAQs"},
		listKind{fieldType: schema.FieldTable, items: "rows", minRequiresFlag: true},
	}
}
