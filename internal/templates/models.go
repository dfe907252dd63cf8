package templates

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-pagebuilder/internal/schema"
)

// Template is a reusable page layout whose config_schema defines the
// sections and fields editors fill in.
type Template struct {
	bun.BaseModel `bun:"table:page_templates,alias:ptpl"`

	ID           uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Slug         string         `bun:"slug,notnull,unique" json:"slug"`
	Name         string         `bun:"name,notnull" json:"name"`
	Description  *string        `bun:"description" json:"description,omitempty"`
	Version      int            `bun:"version,notnull,default:1" json:"version"`
	ConfigSchema map[string]any `bun:"config_schema,type:jsonb" json:"config_schema"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Schema parses the stored config_schema leniently.
func (t *Template) Schema() (schema.TemplateConfigSchema, []schema.Issue) {
	if t == nil {
		return schema.TemplateConfigSchema{Sections: []schema.SectionDefinition{}}, nil
	}
	return schema.FromMap(t.ConfigSchema)
}

func cloneTemplate(src *Template) *Template {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Description != nil {
		description := *src.Description
		copied.Description = &description
	}
	copied.ConfigSchema = cloneDocument(src.ConfigSchema)
	return &copied
}

func cloneDocument(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneAny(value)
	}
	return out
}

func cloneAny(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneDocument(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneAny(item)
		}
		return out
	default:
		return value
	}
}
