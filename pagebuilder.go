package pagebuilder

import (
	"context"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/di"
	"github.com/goliatone/go-pagebuilder/internal/fields"
	"github.com/goliatone/go-pagebuilder/internal/media"
	"github.com/goliatone/go-pagebuilder/internal/migrate"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/templates"
	"github.com/goliatone/go-pagebuilder/internal/validation"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// Schema and content model.
type (
	TemplateConfigSchema = schema.TemplateConfigSchema
	SectionDefinition    = schema.SectionDefinition
	FieldDefinition      = schema.FieldDefinition
	FieldType            = schema.FieldType
	Column               = schema.Column
	SchemaIssue          = schema.Issue
	PageContent          = content.Content
	Asset                = content.Asset
	Slide                = content.Slide
	FAQ                  = content.FAQ
	TableRow             = content.TableRow
)

// Engine and reports.
type (
	Engine           = validation.Engine
	EngineOption     = validation.EngineOption
	Report           = validation.Report
	ReportIssue      = validation.Issue
	ReportError      = validation.ReportError
	FieldKind        = fields.Kind
	FieldRegistry    = fields.Registry
	MigrationResult  = migrate.Result
	MigrationChange  = migrate.Change
	Migrator         = migrate.Migrator
	Binder           = media.Binder
	BindInput        = media.BindInput
	Uploader         = interfaces.Uploader
	UploadRequest    = interfaces.UploadRequest
	UploadResult     = interfaces.UploadResult
	Logger           = interfaces.Logger
	LoggerProvider   = interfaces.LoggerProvider
	EditSession      = pages.EditSession
	Template         = templates.Template
	Page             = pages.Page
	TemplateService  = templates.Service
	PageService      = pages.Service
	CreateTemplate   = templates.CreateTemplateInput
	UpdateSchema     = templates.UpdateSchemaInput
	CreatePage       = pages.CreatePageInput
	SaveContent      = pages.SaveContentInput
	TemplateNotFound = templates.NotFoundError
	PageNotFound     = pages.NotFoundError
)

const (
	FieldText     = schema.FieldText
	FieldTextarea = schema.FieldTextarea
	FieldURL      = schema.FieldURL
	FieldImage    = schema.FieldImage
	FieldSlider   = schema.FieldSlider
	FieldFAQ      = schema.FieldFAQ
	FieldTable    = schema.FieldTable
	FieldRichText = schema.FieldRichText
	FieldCheckbox = schema.FieldCheckbox

	StatusDraft     = pages.StatusDraft
	StatusPublished = pages.StatusPublished
)

var (
	ErrContentInvalid = validation.ErrContentInvalid
	ErrSchemaDecode   = schema.ErrSchemaDecode
)

// Container options re-exported for hosts.
type Option = di.Option

var (
	WithBunDB              = di.WithBunDB
	WithSQLDB              = di.WithSQLDB
	WithCache              = di.WithCache
	WithLoggerProvider     = di.WithLoggerProvider
	WithUploader           = di.WithUploader
	WithSanitizer          = di.WithSanitizer
	WithFieldRegistry      = di.WithFieldRegistry
	WithIDGenerator        = di.WithIDGenerator
	WithNow                = di.WithNow
	WithTemplateRepository = di.WithTemplateRepository
	WithPageRepository     = di.WithPageRepository
)

// Module is the top level page builder runtime.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Templates returns the template service.
func (m *Module) Templates() TemplateService {
	return m.container.TemplateService()
}

// Pages returns the page service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Engine returns the validation engine shared by the services.
func (m *Module) Engine() *Engine {
	return m.container.Engine()
}

// Migrator returns the content migrator.
func (m *Module) Migrator() *Migrator {
	return m.container.Migrator()
}

// Binder returns the upload binder. It fails when no uploader was configured.
func (m *Module) Binder() (*Binder, error) {
	return m.container.Binder()
}

// EnsureSchema creates the storage tables for bun storage.
func (m *Module) EnsureSchema(ctx context.Context) error {
	return m.container.EnsureSchema(ctx)
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

// ParseSchema decodes a config_schema document leniently.
func ParseSchema(data []byte) (TemplateConfigSchema, []SchemaIssue, error) {
	return schema.Parse(data)
}

// NewEngine builds a standalone validation engine.
func NewEngine(opts ...EngineOption) *Engine {
	return validation.NewEngine(opts...)
}

// Validate checks content against a schema with the built-in field kinds.
func Validate(s TemplateConfigSchema, c PageContent) Report {
	return validation.NewEngine().Validate(s, c)
}

// Canonicalize rewrites content into the nested section shape.
func Canonicalize(s TemplateConfigSchema, c PageContent) MigrationResult {
	return migrate.Canonicalize(s, c)
}

// SortSections returns sections in display order.
func SortSections(sections []SectionDefinition) []SectionDefinition {
	return schema.SortSections(sections)
}

// ReportFrom extracts a validation report from an error returned by Publish
// or SaveContent.
func ReportFrom(err error) (Report, bool) {
	return validation.ReportFrom(err)
}
