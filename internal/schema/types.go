package schema

// FieldType identifies the editor widget and validation rules of a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldURL      FieldType = "url"
	FieldImage    FieldType = "image"
	FieldSlider   FieldType = "slider"
	FieldFAQ      FieldType = "faq"
	FieldTable    FieldType = "table"
	FieldRichText FieldType = "richtext"
	FieldCheckbox FieldType = "checkbox"
)

// KnownFieldTypes lists the built-in field types in display order.
func KnownFieldTypes() []FieldType {
	return []FieldType{
		FieldText,
		FieldTextarea,
		FieldURL,
		FieldImage,
		FieldSlider,
		FieldFAQ,
		FieldTable,
		FieldRichText,
		FieldCheckbox,
	}
}

// LegacySectionKey names the implicit section wrapping pre-section schemas.
const LegacySectionKey = "main"

const (
	DefaultMinSlides = 1
	DefaultMaxSlides = 10
	DefaultMinFAQs   = 1
	DefaultMaxFAQs   = 20
	DefaultMinRows   = 1
	DefaultMaxRows   = 50
)

// TemplateConfigSchema is the config_schema document of a template.
type TemplateConfigSchema struct {
	Sections []SectionDefinition `json:"sections"`

	// Legacy is set when the document only carried a flat fields list and was
	// wrapped into the implicit main section.
	Legacy bool `json:"-"`
}

// SectionDefinition groups fields that are enabled, validated and ordered together.
type SectionDefinition struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Order       *int              `json:"order,omitempty"`
	Required    bool              `json:"required"`
	Fields      []FieldDefinition `json:"fields"`

	Implicit bool `json:"-"`
}

// FieldDefinition describes a single configurable slot in a section. Bounds are
// pointers so an explicit zero survives a round trip.
type FieldDefinition struct {
	Key         string    `json:"key"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`

	MinSlides *int     `json:"minSlides,omitempty"`
	MaxSlides *int     `json:"maxSlides,omitempty"`
	MinFAQs   *int     `json:"minFAQs,omitempty"`
	MaxFAQs   *int     `json:"maxFAQs,omitempty"`
	MinRows   *int     `json:"minRows,omitempty"`
	MaxRows   *int     `json:"maxRows,omitempty"`
	Columns   []Column `json:"columns,omitempty"`
}

// Column describes one table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Bounds reports the effective cardinality range of list fields. ok is false
// for scalar types.
func (f FieldDefinition) Bounds() (min, max int, ok bool) {
	switch f.Type {
	case FieldSlider:
		return intOr(f.MinSlides, DefaultMinSlides), intOr(f.MaxSlides, DefaultMaxSlides), true
	case FieldFAQ:
		return intOr(f.MinFAQs, DefaultMinFAQs), intOr(f.MaxFAQs, DefaultMaxFAQs), true
	case FieldTable:
		return intOr(f.MinRows, DefaultMinRows), intOr(f.MaxRows, DefaultMaxRows), true
	default:
		return 0, 0, false
	}
}

// DisplayLabel returns the label, falling back to the key.
func (f FieldDefinition) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// OrderValue returns the explicit order, or 0 when it is missing.
func (s SectionDefinition) OrderValue() int {
	return intOr(s.Order, 0)
}

// DisplayName returns the section name, falling back to the key.
func (s SectionDefinition) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}

// Field returns the field definition with the given key.
func (s SectionDefinition) Field(key string) (FieldDefinition, bool) {
	for _, field := range s.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// Section returns the section definition with the given key.
func (s TemplateConfigSchema) Section(key string) (SectionDefinition, bool) {
	for _, section := range s.Sections {
		if section.Key == key {
			return section, true
		}
	}
	return SectionDefinition{}, false
}

// Ordered returns the sections sorted for display and validation.
func (s TemplateConfigSchema) Ordered() []SectionDefinition {
	return SortSections(s.Sections)
}

// IntPtr is a helper for building definitions in code.
func IntPtr(value int) *int {
	return &value
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
