package fields_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-pagebuilder/internal/fields"
	"github.com/goliatone/go-pagebuilder/internal/schema"
)

func slides(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{"id": "s", "order": i}
	}
	return out
}

func TestSliderCardinalityBoundary(t *testing.T) {
	reg := fields.DefaultRegistry()
	subject := fields.Subject{
		SectionName: "Hero",
		Field:       schema.FieldDefinition{Key: "slides", Type: schema.FieldSlider, Label: "Slides", MinSlides: schema.IntPtr(2)},
	}

	violations := reg.Validate(subject, slides(1))
	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %v", violations)
	}
	msg := violations[0].Message
	if !strings.Contains(msg, "requires at least 2 slides") || !strings.Contains(msg, "currently has 1") {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg != `Hero: "Slides" requires at least 2 slides (currently has 1)` {
		t.Fatalf("unexpected message format %q", msg)
	}
	if violations[0].Code != fields.CodeMinItems {
		t.Fatalf("unexpected code %q", violations[0].Code)
	}

	if violations := reg.Validate(subject, slides(2)); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestListMaximumIsNotEnforcedByDefault(t *testing.T) {
	reg := fields.DefaultRegistry()
	subject := fields.Subject{
		SectionName: "Hero",
		Field:       schema.FieldDefinition{Key: "slides", Type: schema.FieldSlider, Label: "Slides"},
	}
	if violations := reg.Validate(subject, slides(11)); len(violations) != 0 {
		t.Fatalf("expected 11 slides to pass without max bounds, got %v", violations)
	}
	if reg.MaxBounds() {
		t.Fatalf("expected max bounds off by default")
	}
}

func TestListMaximum(t *testing.T) {
	reg := fields.DefaultRegistry(fields.WithMaxBounds(true))
	subject := fields.Subject{
		SectionName: "FAQ",
		Field:       schema.FieldDefinition{Key: "items", Type: schema.FieldFAQ, Label: "Questions", MaxFAQs: schema.IntPtr(2)},
	}
	violations := reg.Validate(subject, slides(3))
	if len(violations) != 1 || violations[0].Code != fields.CodeMaxItems {
		t.Fatalf("expected max violation, got %v", violations)
	}
	if violations[0].Message != `FAQ: "Questions" allows at most 2 FAQs (currently has 3)` {
		t.Fatalf("unexpected message %q", violations[0].Message)
	}
}

func TestListMinimumRules(t *testing.T) {
	reg := fields.DefaultRegistry()
	cases := []struct {
		name  string
		field schema.FieldDefinition
		want  int
	}{
		{"optional slider uses default min", schema.FieldDefinition{Key: "s", Type: schema.FieldSlider, Label: "S"}, 1},
		{"slider with zero min", schema.FieldDefinition{Key: "s", Type: schema.FieldSlider, Label: "S", MinSlides: schema.IntPtr(0)}, 0},
		{"required slider with zero min", schema.FieldDefinition{Key: "s", Type: schema.FieldSlider, Label: "S", Required: true, MinSlides: schema.IntPtr(0)}, 0},
		{"optional faq", schema.FieldDefinition{Key: "f", Type: schema.FieldFAQ, Label: "F"}, 1},
		{"optional table ignores min", schema.FieldDefinition{Key: "t", Type: schema.FieldTable, Label: "T", MinRows: schema.IntPtr(3)}, 0},
		{"required table", schema.FieldDefinition{Key: "t", Type: schema.FieldTable, Label: "T", Required: true}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := reg.Validate(fields.Subject{SectionName: "Sec", Field: tc.field}, []any{})
			if len(got) != tc.want {
				t.Fatalf("expected %d violations, got %v", tc.want, got)
			}
		})
	}
}

func TestTableRowsMessage(t *testing.T) {
	reg := fields.DefaultRegistry()
	subject := fields.Subject{
		SectionName: "Pricing",
		Field:       schema.FieldDefinition{Key: "plans", Type: schema.FieldTable, Label: "Plans", Required: true, MinRows: schema.IntPtr(2)},
	}
	got := reg.Validate(subject, []map[string]any{{"id": "r1"}})
	if len(got) != 1 || got[0].Message != `Pricing: "Plans" requires at least 2 rows (currently has 1)` {
		t.Fatalf("unexpected violations %v", got)
	}
}

func TestScalarRequired(t *testing.T) {
	reg := fields.DefaultRegistry()
	field := schema.FieldDefinition{Key: "title", Type: schema.FieldText, Label: "Title", Required: true}
	for _, value := range []any{nil, "", "   ", false, 0} {
		got := reg.Validate(fields.Subject{SectionName: "Hero", Field: field}, value)
		if len(got) != 1 || got[0].Message != `Hero: "Title" is required` {
			t.Fatalf("value %#v: unexpected violations %v", value, got)
		}
	}
	if got := reg.Validate(fields.Subject{SectionName: "Hero", Field: field}, "Welcome"); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}

	field.Required = false
	if got := reg.Validate(fields.Subject{SectionName: "Hero", Field: field}, ""); len(got) != 0 {
		t.Fatalf("expected optional field to pass, got %v", got)
	}
}

func TestImplicitSectionOmitsPrefix(t *testing.T) {
	reg := fields.DefaultRegistry()
	got := reg.Validate(fields.Subject{
		SectionName: "main",
		Implicit:    true,
		Field:       schema.FieldDefinition{Key: "b", Type: schema.FieldText, Label: "B", Required: true},
	}, "")
	if len(got) != 1 || got[0].Message != `"B" is required` {
		t.Fatalf("unexpected violations %v", got)
	}
}

func TestImageAndCheckboxPresence(t *testing.T) {
	reg := fields.DefaultRegistry()
	image := schema.FieldDefinition{Key: "img", Type: schema.FieldImage, Label: "Image", Required: true}
	if got := reg.Validate(fields.Subject{SectionName: "Hero", Field: image}, map[string]any{}); len(got) != 1 {
		t.Fatalf("expected empty asset to fail, got %v", got)
	}
	asset := map[string]any{"id": "a1", "url": "/a.png", "filename": "a.png"}
	if got := reg.Validate(fields.Subject{SectionName: "Hero", Field: image}, asset); len(got) != 0 {
		t.Fatalf("expected asset to pass, got %v", got)
	}

	checkbox := schema.FieldDefinition{Key: "agree", Type: schema.FieldCheckbox, Label: "Agree", Required: true}
	if got := reg.Validate(fields.Subject{SectionName: "Form", Field: checkbox}, false); len(got) != 1 {
		t.Fatalf("expected unchecked required box to fail, got %v", got)
	}
}

func TestUnknownTypeFallsBackToPresence(t *testing.T) {
	reg := fields.DefaultRegistry()
	field := schema.FieldDefinition{Key: "x", Type: "carousel", Label: "X", Required: true}
	if got := reg.Validate(fields.Subject{SectionName: "S", Field: field}, nil); len(got) != 1 {
		t.Fatalf("expected required violation, got %v", got)
	}
	if got := reg.Validate(fields.Subject{SectionName: "S", Field: field}, []any{1}); len(got) != 0 {
		t.Fatalf("expected data to satisfy unknown type, got %v", got)
	}
	if reg.Empty("carousel") != "" {
		t.Fatalf("expected empty string default for unknown type")
	}
}

type colorKind struct{}

func (colorKind) Type() schema.FieldType { return "Color" }
func (colorKind) Empty() any             { return "#000000" }
func (colorKind) Validate(subject fields.Subject, value any) []fields.Violation {
	text, _ := value.(string)
	if !strings.HasPrefix(text, "#") {
		return []fields.Violation{{Code: "format", Message: subject.Field.Label + " must be a hex color"}}
	}
	return nil
}

func TestRegisterCustomKind(t *testing.T) {
	reg := fields.DefaultRegistry().Clone()
	reg.MustRegister(colorKind{})

	kind, ok := reg.Get(" color ")
	if !ok || kind.Empty() != "#000000" {
		t.Fatalf("expected color kind to be registered")
	}
	got := reg.Validate(fields.Subject{Field: schema.FieldDefinition{Key: "c", Type: "color", Label: "Accent"}}, "red")
	if len(got) != 1 || got[0].Code != "format" {
		t.Fatalf("unexpected violations %v", got)
	}
	if _, ok := fields.DefaultRegistry().Get("color"); ok {
		t.Fatalf("expected default registry unaffected")
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	var nilReg *fields.Registry
	if err := nilReg.Register(colorKind{}); !errors.Is(err, fields.ErrNilRegistry) {
		t.Fatalf("expected ErrNilRegistry, got %v", err)
	}
	if err := fields.NewRegistry().Register(nil); !errors.Is(err, fields.ErrNilKind) {
		t.Fatalf("expected ErrNilKind, got %v", err)
	}
}
