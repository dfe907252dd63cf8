package validation

import (
	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/fields"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// Engine validates page content against a template schema. It holds no state
// between calls: every call receives a full snapshot and returns a fresh
// report, so callers may revalidate on every edit.
type Engine struct {
	registry *fields.Registry
	resolver *content.Resolver
	logger   interfaces.Logger

	maxBounds bool
	validator *sections.Validator
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRegistry swaps the field kinds used for validation.
func WithRegistry(registry *fields.Registry) EngineOption {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithResolver swaps the content lookup chain.
func WithResolver(resolver *content.Resolver) EngineOption {
	return func(e *Engine) {
		if resolver != nil {
			e.resolver = resolver
		}
	}
}

// WithMaxBounds reports maximum slide, FAQ and row counts as errors. Off by
// default, so oversized lists still validate.
func WithMaxBounds(enabled bool) EngineOption {
	return func(e *Engine) {
		e.maxBounds = enabled
	}
}

// WithLogger sets the logger used for schema diagnostics.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine builds an engine with the built-in field kinds and lookup chain.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		registry: fields.DefaultRegistry(),
		resolver: content.NewResolver(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.maxBounds && !e.registry.MaxBounds() {
		e.registry = e.registry.Clone(fields.WithMaxBounds(true))
	}
	e.validator = sections.NewValidator(e.registry, e.resolver)
	return e
}

// Resolver returns the lookup chain the engine reads content with.
func (e *Engine) Resolver() *content.Resolver {
	return e.resolver
}

// Validate runs every section in display order and concatenates the errors.
// Content is never modified.
func (e *Engine) Validate(s schema.TemplateConfigSchema, c content.Content) Report {
	report := Report{Errors: []string{}, Issues: []Issue{}}
	for _, section := range schema.SortSections(s.Sections) {
		for _, violation := range e.validator.Validate(section, c) {
			report.Errors = append(report.Errors, violation.Message)
			report.Issues = append(report.Issues, Issue(violation))
		}
	}
	report.IsValid = len(report.Errors) == 0

	e.logger.Debug("engine.validate.complete",
		"sections", len(s.Sections),
		"errors", len(report.Errors),
	)
	return report
}

// ValidateDocument parses a stored config_schema before validating. Schema
// problems are logged and never fail validation; only invalid JSON does.
func (e *Engine) ValidateDocument(configSchema []byte, c content.Content) (Report, error) {
	parsed, issues, err := schema.Parse(configSchema)
	if err != nil {
		return Report{}, err
	}
	e.LogSchemaIssues(issues)
	return e.Validate(parsed, c), nil
}

// LogSchemaIssues reports schema malformations at debug level.
func (e *Engine) LogSchemaIssues(issues []schema.Issue) {
	for _, issue := range issues {
		e.logger.Debug("engine.schema.issue", "path", issue.Path, "message", issue.Message)
	}
}

// Enablement returns the enablement decision of every section keyed by
// section key.
func (e *Engine) Enablement(s schema.TemplateConfigSchema, c content.Content) map[string]sections.Decision {
	out := make(map[string]sections.Decision, len(s.Sections))
	for _, section := range s.Sections {
		out[section.Key] = sections.Resolve(e.resolver, section, c)
	}
	return out
}

// Values resolves every field of an enabled or required section into a
// nested map, ready for rendering.
func (e *Engine) Values(s schema.TemplateConfigSchema, c content.Content) map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.Sections))
	for _, section := range schema.SortSections(s.Sections) {
		if !sections.IsEnabled(e.resolver, section, c) {
			continue
		}
		values := make(map[string]any, len(section.Fields))
		for _, field := range section.Fields {
			values[field.Key] = e.validator.Value(section.Key, field, c)
		}
		out[section.Key] = values
	}
	return out
}
