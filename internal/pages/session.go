package pages

import (
	"sync"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/internal/validation"
)

// EditSession holds the editor-side state of one page-load cycle. It
// normalizes section enablement once when opened, applies every edit through
// the content mutator and revalidates the whole page after each change. The
// latest snapshot always supersedes earlier ones.
type EditSession struct {
	engine *validation.Engine
	schema schema.TemplateConfigSchema

	mu      sync.Mutex
	content content.Content
	report  validation.Report
	issues  []schema.Issue
	dirty   bool
}

// NewEditSession opens a session over the stored content.
func NewEditSession(engine *validation.Engine, s schema.TemplateConfigSchema, stored content.Content) *EditSession {
	if engine == nil {
		engine = validation.NewEngine()
	}
	if stored == nil {
		stored = content.Content{}
	}

	normalized, issues, changed := sections.NewNormalizer(engine.Resolver()).Normalize(s, stored)
	session := &EditSession{
		engine:  engine,
		schema:  s,
		content: normalized,
		issues:  issues,
		dirty:   changed,
	}
	session.report = engine.Validate(s, normalized)
	return session
}

// Schema returns the template schema the session validates against.
func (e *EditSession) Schema() schema.TemplateConfigSchema {
	return e.schema
}

// Content returns a deep copy of the current content.
func (e *EditSession) Content() content.Content {
	e.mu.Lock()
	defer e.mu.Unlock()
	return content.Clone(e.content)
}

// Report returns the report for the current content.
func (e *EditSession) Report() validation.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report
}

// Issues lists content problems found while normalizing.
func (e *EditSession) Issues() []schema.Issue {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]schema.Issue, len(e.issues))
	copy(out, e.issues)
	return out
}

// Dirty reports whether the content differs from what was loaded.
func (e *EditSession) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// SetField stores a field value. sectionKey "" writes a legacy flat field.
func (e *EditSession) SetField(sectionKey, fieldKey string, value any) (validation.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := sections.SetField(e.engine.Resolver(), e.schema, e.content, sectionKey, fieldKey, value)
	if err != nil {
		return e.report, err
	}
	return e.replace(next), nil
}

// SetEnabled toggles an optional section.
func (e *EditSession) SetEnabled(sectionKey string, enabled bool) (validation.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := sections.SetEnabled(e.schema, e.content, sectionKey, enabled)
	if err != nil {
		return e.report, err
	}
	return e.replace(next), nil
}

// Update applies a transformation to the current content, for edits that are
// built outside the session such as upload binding.
func (e *EditSession) Update(fn func(content.Content) (content.Content, error)) (validation.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.content)
	if err != nil {
		return e.report, err
	}
	return e.replace(next), nil
}

// Enablement returns the current decision of every section.
func (e *EditSession) Enablement() map[string]sections.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.Enablement(e.schema, e.content)
}

// MarkSaved clears the dirty flag after the content was persisted.
func (e *EditSession) MarkSaved() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
}

func (e *EditSession) replace(next content.Content) validation.Report {
	e.content = next
	e.dirty = true
	e.report = e.engine.Validate(e.schema, next)
	return e.report
}
