package validation_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/validation"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

type recordedEntry struct {
	msg  string
	args []any
}

type recordingLogger struct {
	debug []recordedEntry
}

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(msg string, args ...any) {
	l.debug = append(l.debug, recordedEntry{msg: msg, args: args})
}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Fatal(string, ...any) {}
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

func landingSchema() schema.TemplateConfigSchema {
	return schema.TemplateConfigSchema{Sections: []schema.SectionDefinition{
		{
			Key:   "faq",
			Name:  "FAQ",
			Order: schema.IntPtr(2),
			Fields: []schema.FieldDefinition{
				{Key: "items", Type: schema.FieldFAQ, Label: "Questions", MinFAQs: schema.IntPtr(2)},
			},
		},
		{
			Key:      "hero",
			Name:     "Hero",
			Order:    schema.IntPtr(0),
			Required: true,
			Fields: []schema.FieldDefinition{
				{Key: "title", Type: schema.FieldText, Label: "Title", Required: true},
				{Key: "slides", Type: schema.FieldSlider, Label: "Slides", MinSlides: schema.IntPtr(2)},
			},
		},
		{
			Key:  "promo",
			Name: "Promo",
			Fields: []schema.FieldDefinition{
				{Key: "headline", Type: schema.FieldText, Label: "Headline", Required: true},
			},
		},
	}}
}

func TestEngineOrdersErrorsBySectionThenField(t *testing.T) {
	engine := validation.NewEngine()
	doc := content.Content{
		"hero": map[string]any{"slides": []any{map[string]any{"id": "s1"}}},
		"faq":  map[string]any{"enabled": true, "items": []any{map[string]any{"id": "q1"}}},
	}

	report := engine.Validate(landingSchema(), doc)
	want := []string{
		`Hero: "Title" is required`,
		`Hero: "Slides" requires at least 2 slides (currently has 1)`,
		`FAQ: "Questions" requires at least 2 FAQs (currently has 1)`,
	}
	if report.IsValid {
		t.Fatalf("expected invalid report")
	}
	if !reflect.DeepEqual(report.Errors, want) {
		t.Fatalf("unexpected errors:\n got %v\nwant %v", report.Errors, want)
	}
	if len(report.Issues) != 3 || report.Issues[2].Section != "faq" || report.Issues[2].Field != "items" {
		t.Fatalf("unexpected issues %#v", report.Issues)
	}
}

func TestEngineMaxBoundsAreOptIn(t *testing.T) {
	s := schema.TemplateConfigSchema{Sections: []schema.SectionDefinition{{
		Key:      "hero",
		Name:     "Hero",
		Required: true,
		Fields:   []schema.FieldDefinition{{Key: "slides", Type: schema.FieldSlider, Label: "Slides"}},
	}}}
	items := make([]any, 11)
	for i := range items {
		items[i] = map[string]any{"id": "s"}
	}
	doc := content.Content{"hero": map[string]any{"slides": items}}

	report := validation.NewEngine().Validate(s, doc)
	if !report.IsValid || len(report.Errors) != 0 {
		t.Fatalf("expected 11 slides to be valid by default, got %#v", report)
	}

	report = validation.NewEngine(validation.WithMaxBounds(true)).Validate(s, doc)
	want := []string{`Hero: "Slides" allows at most 10 slides (currently has 11)`}
	if report.IsValid || !reflect.DeepEqual(report.Errors, want) {
		t.Fatalf("expected max violation, got %#v", report)
	}
}

func TestEngineIsIdempotentAndPure(t *testing.T) {
	engine := validation.NewEngine()
	doc := content.Content{
		"hero":       map[string]any{"title": ""},
		"promo.note": "x",
	}
	snapshot := content.Clone(doc)

	first := engine.Validate(landingSchema(), doc)
	second := engine.Validate(landingSchema(), doc)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical reports, got %#v and %#v", first, second)
	}
	if !reflect.DeepEqual(doc, snapshot) {
		t.Fatalf("expected content untouched")
	}
}

func TestEngineLegacySchemaScenario(t *testing.T) {
	parsed, issues, err := schema.Parse([]byte(`{"fields": [
		{"key": "a", "type": "text", "label": "A"},
		{"key": "b", "type": "text", "label": "B", "required": true},
		{"key": "c", "type": "textarea", "label": "C"}
	]}`))
	if err != nil || len(issues) != 0 {
		t.Fatalf("unexpected parse result: %v %v", err, issues)
	}

	report := validation.NewEngine().Validate(parsed, content.Content{"a": "x"})
	if report.IsValid {
		t.Fatalf("expected invalid report")
	}
	if len(report.Errors) != 1 || report.Errors[0] != `"B" is required` {
		t.Fatalf("unexpected errors %v", report.Errors)
	}
}

func TestEngineEmptyInputs(t *testing.T) {
	engine := validation.NewEngine()
	report := engine.Validate(schema.TemplateConfigSchema{}, nil)
	if !report.IsValid || len(report.Errors) != 0 || report.Errors == nil {
		t.Fatalf("expected valid report with empty errors, got %#v", report)
	}
	if report.Err() != nil {
		t.Fatalf("expected nil error for valid report")
	}
}

func TestEngineValidateDocumentLogsSchemaIssues(t *testing.T) {
	logger := &recordingLogger{}
	engine := validation.NewEngine(validation.WithLogger(logger))

	report, err := engine.ValidateDocument([]byte(`{"sections": [
		{"key": "hero", "name": "Hero", "fields": [{"key": "t", "type": "text", "label": "T", "required": true}]},
		{"key": "hero", "name": "Duplicate"}
	]}`), content.Content{"hero": map[string]any{"t": "ok"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsValid {
		t.Fatalf("expected valid report, got %v", report.Errors)
	}

	found := false
	for _, entry := range logger.debug {
		if entry.msg == "engine.schema.issue" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected schema issue to be logged, got %#v", logger.debug)
	}

	if _, err := engine.ValidateDocument([]byte(`{`), nil); !errors.Is(err, schema.ErrSchemaDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestReportErr(t *testing.T) {
	report := validation.NewEngine().Validate(landingSchema(), content.Content{})
	err := report.Err()
	if err == nil {
		t.Fatalf("expected error for invalid report")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !errors.Is(err, validation.ErrContentInvalid) {
		t.Fatalf("expected ErrContentInvalid in chain, got %v", err)
	}
	carried, ok := validation.ReportFrom(err)
	if !ok || !reflect.DeepEqual(carried.Errors, report.Errors) {
		t.Fatalf("expected carried report, got %#v", carried)
	}
}

func TestEngineValuesAndEnablement(t *testing.T) {
	engine := validation.NewEngine()
	doc := content.Content{
		"hero":           map[string]any{"title": "Welcome"},
		"promo.headline": "Sale",
	}

	enablement := engine.Enablement(landingSchema(), doc)
	if !enablement["hero"].Enabled || !enablement["promo"].Enabled || enablement["faq"].Enabled {
		t.Fatalf("unexpected enablement %#v", enablement)
	}

	values := engine.Values(landingSchema(), doc)
	if _, ok := values["faq"]; ok {
		t.Fatalf("expected disabled faq to be omitted")
	}
	if values["promo"]["headline"] != "Sale" || values["hero"]["title"] != "Welcome" {
		t.Fatalf("unexpected values %#v", values)
	}
	if slides, ok := values["hero"]["slides"].([]any); !ok || len(slides) != 0 {
		t.Fatalf("expected empty slides default, got %#v", values["hero"]["slides"])
	}
}
