package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Issue records a malformation found while reading a config schema. Issues
// never stop parsing; callers log or surface them.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Parse decodes a stored config_schema document. Only invalid JSON returns an
// error; shape problems degrade to an empty or partial schema plus issues.
func Parse(data []byte) (TemplateConfigSchema, []Issue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return TemplateConfigSchema{Sections: []SectionDefinition{}}, nil, nil
	}

	var raw any
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return TemplateConfigSchema{Sections: []SectionDefinition{}}, nil, fmt.Errorf("%w: %v", ErrSchemaDecode, err)
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return TemplateConfigSchema{Sections: []SectionDefinition{}}, []Issue{{Message: "config schema is not an object"}}, nil
	}
	parsed, issues := FromMap(doc)
	return parsed, issues, nil
}

// FromMap builds a schema from an already decoded document. A document with a
// flat fields list and no sections becomes a single required "main" section.
func FromMap(doc map[string]any) (TemplateConfigSchema, []Issue) {
	p := &parser{}
	out := TemplateConfigSchema{Sections: []SectionDefinition{}}
	if doc == nil {
		return out, nil
	}

	rawSections, hasSections := doc["sections"]
	sectionList, sectionsOK := rawSections.([]any)
	if hasSections && rawSections != nil && !sectionsOK {
		p.report("sections", "expected an array, treating as empty")
	}

	if len(sectionList) == 0 {
		if rawFields, ok := doc["fields"]; ok {
			fields := p.fields("fields", rawFields)
			out.Legacy = true
			out.Sections = append(out.Sections, SectionDefinition{
				Key:      LegacySectionKey,
				Name:     LegacySectionKey,
				Order:    IntPtr(0),
				Required: true,
				Fields:   fields,
				Implicit: true,
			})
			return out, p.issues
		}
	}

	seen := make(map[string]struct{}, len(sectionList))
	for i, entry := range sectionList {
		path := fmt.Sprintf("sections[%d]", i)
		rawSection, ok := entry.(map[string]any)
		if !ok {
			p.report(path, "expected an object, skipping")
			continue
		}
		section := SectionDefinition{
			Key:         stringValue(rawSection["key"]),
			Name:        stringValue(rawSection["name"]),
			Description: stringValue(rawSection["description"]),
			Order:       intValue(rawSection["order"]),
			Required:    boolValue(rawSection["required"]),
		}
		if section.Key == "" {
			p.report(path, "section key missing, skipping")
			continue
		}
		if _, dup := seen[section.Key]; dup {
			p.report(path, fmt.Sprintf("duplicate section key %q, keeping the first", section.Key))
			continue
		}
		seen[section.Key] = struct{}{}
		section.Fields = p.fields(path+".fields", rawSection["fields"])
		out.Sections = append(out.Sections, section)
	}

	return out, p.issues
}

// ToMap renders the schema in its persisted document shape.
func (s TemplateConfigSchema) ToMap() map[string]any {
	if s.Legacy && len(s.Sections) == 1 && s.Sections[0].Implicit {
		fields := s.Sections[0].Fields
		if fields == nil {
			fields = []FieldDefinition{}
		}
		return map[string]any{"fields": encodeAny(fields)}
	}
	sections := make([]SectionDefinition, 0, len(s.Sections))
	for _, section := range s.Sections {
		if section.Fields == nil {
			section.Fields = []FieldDefinition{}
		}
		sections = append(sections, section)
	}
	return map[string]any{"sections": encodeAny(sections)}
}

type parser struct {
	issues []Issue
}

func (p *parser) report(path, message string) {
	p.issues = append(p.issues, Issue{Path: path, Message: message})
}

func (p *parser) fields(path string, raw any) []FieldDefinition {
	out := []FieldDefinition{}
	if raw == nil {
		return out
	}
	list, ok := raw.([]any)
	if !ok {
		p.report(path, "expected an array, treating as empty")
		return out
	}

	seen := make(map[string]struct{}, len(list))
	for i, entry := range list {
		fieldPath := fmt.Sprintf("%s[%d]", path, i)
		rawField, ok := entry.(map[string]any)
		if !ok {
			p.report(fieldPath, "expected an object, skipping")
			continue
		}
		field := FieldDefinition{
			Key:         stringValue(rawField["key"]),
			Type:        FieldType(strings.ToLower(stringValue(rawField["type"]))),
			Label:       stringValue(rawField["label"]),
			Description: stringValue(rawField["description"]),
			Required:    boolValue(rawField["required"]),
			MinSlides:   intValue(rawField["minSlides"]),
			MaxSlides:   intValue(rawField["maxSlides"]),
			MinFAQs:     intValue(rawField["minFAQs"]),
			MaxFAQs:     intValue(rawField["maxFAQs"]),
			MinRows:     intValue(rawField["minRows"]),
			MaxRows:     intValue(rawField["maxRows"]),
			Columns:     p.columns(fieldPath+".columns", rawField["columns"]),
		}
		if field.Key == "" {
			p.report(fieldPath, "field key missing, skipping")
			continue
		}
		if _, dup := seen[field.Key]; dup {
			p.report(fieldPath, fmt.Sprintf("duplicate field key %q, keeping the first", field.Key))
			continue
		}
		seen[field.Key] = struct{}{}
		if !IsKnownFieldType(field.Type) {
			p.report(fieldPath, fmt.Sprintf("unknown field type %q", field.Type))
		}
		out = append(out, field)
	}
	return out
}

func (p *parser) columns(path string, raw any) []Column {
	if raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		p.report(path, "expected an array, ignoring")
		return nil
	}
	out := make([]Column, 0, len(list))
	for i, entry := range list {
		rawColumn, ok := entry.(map[string]any)
		if !ok {
			p.report(fmt.Sprintf("%s[%d]", path, i), "expected an object, skipping")
			continue
		}
		out = append(out, Column{
			Key:   stringValue(rawColumn["key"]),
			Label: stringValue(rawColumn["label"]),
			Type:  stringValue(rawColumn["type"]),
		})
	}
	return out
}

// IsKnownFieldType reports whether value is one of the built-in field types.
func IsKnownFieldType(value FieldType) bool {
	for _, known := range KnownFieldTypes() {
		if known == value {
			return true
		}
	}
	return false
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

func boolValue(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

func intValue(value any) *int {
	switch typed := value.(type) {
	case int:
		return IntPtr(typed)
	case int64:
		return IntPtr(int(typed))
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return nil
		}
		return IntPtr(int(typed))
	case json.Number:
		if parsed, err := typed.Int64(); err == nil {
			return IntPtr(int(parsed))
		}
		if parsed, err := typed.Float64(); err == nil {
			return IntPtr(int(parsed))
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return IntPtr(parsed)
		}
	}
	return nil
}

func encodeAny(value any) any {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil
	}
	return out
}
