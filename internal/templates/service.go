package templates

import (
	"context"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

const schemaInvalidCode = "TEMPLATE_SCHEMA_INVALID"

// Service manages page templates and their config schemas.
type Service interface {
	Create(ctx context.Context, input CreateTemplateInput) (*Template, error)
	UpdateSchema(ctx context.Context, input UpdateSchemaInput) (*Template, error)
	Get(ctx context.Context, id uuid.UUID) (*Template, error)
	GetBySlug(ctx context.Context, slug string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Schema(ctx context.Context, id uuid.UUID) (schema.TemplateConfigSchema, error)
}

// CreateTemplateInput captures a new template. Slug defaults to the
// normalized name.
type CreateTemplateInput struct {
	Name        string
	Slug        string
	Description *string
	Schema      schema.TemplateConfigSchema
}

// UpdateSchemaInput replaces the config schema of a template.
type UpdateSchemaInput struct {
	TemplateID uuid.UUID
	Schema     schema.TemplateConfigSchema
}

var (
	ErrTemplateRepositoryRequired = errors.New("templates: repository required")
	ErrNameRequired               = errors.New("templates: name required")
	ErrSlugInvalid                = errors.New("templates: slug invalid")
	ErrSlugExists                 = errors.New("templates: slug already exists")
	ErrTemplateIDRequired         = errors.New("templates: template id required")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithIDGenerator overrides the default ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	templates TemplateRepository
	id        IDGenerator
	now       func() time.Time
	logger    interfaces.Logger
}

// NewService constructs a template service.
func NewService(repo TemplateRepository, opts ...ServiceOption) Service {
	if repo == nil {
		panic(ErrTemplateRepositoryRequired)
	}
	s := &service{
		templates: repo,
		id:        uuid.New,
		now:       time.Now,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreateTemplateInput) (*Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	candidate := strings.TrimSpace(input.Slug)
	if candidate == "" {
		candidate = name
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return nil, ErrSlugInvalid
	}

	if existing, err := s.templates.GetBySlug(ctx, normalized); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	document, err := checkSchema(input.Schema)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Template{
		ID:           s.id(),
		Slug:         normalized,
		Name:         name,
		Description:  input.Description,
		Version:      1,
		ConfigSchema: document,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.templates.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("templates.create", "template_id", created.ID.String(), "slug", created.Slug, "sections", len(input.Schema.Sections))
	return created, nil
}

func (s *service) UpdateSchema(ctx context.Context, input UpdateSchemaInput) (*Template, error) {
	if input.TemplateID == uuid.Nil {
		return nil, ErrTemplateIDRequired
	}
	record, err := s.templates.GetByID(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	document, err := checkSchema(input.Schema)
	if err != nil {
		return nil, err
	}

	record.ConfigSchema = document
	record.Version++
	record.UpdatedAt = s.now()
	updated, err := s.templates.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("templates.schema.updated", "template_id", updated.ID.String(), "version", updated.Version)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	if id == uuid.Nil {
		return nil, ErrTemplateIDRequired
	}
	return s.templates.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, value string) (*Template, error) {
	normalized, err := slug.Normalize(strings.TrimSpace(value))
	if err != nil || normalized == "" {
		return nil, ErrSlugInvalid
	}
	return s.templates.GetBySlug(ctx, normalized)
}

func (s *service) List(ctx context.Context) ([]*Template, error) {
	return s.templates.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrTemplateIDRequired
	}
	return s.templates.Delete(ctx, id)
}

// Schema loads and parses a template's config schema. Stored schemas are read
// leniently; malformations are logged and never returned as errors.
func (s *service) Schema(ctx context.Context, id uuid.UUID) (schema.TemplateConfigSchema, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return schema.TemplateConfigSchema{}, err
	}
	parsed, issues := record.Schema()
	for _, issue := range issues {
		s.logger.Warn("templates.schema.issue", "template_id", id.String(), "path", issue.Path, "message", issue.Message)
	}
	return parsed, nil
}

// checkSchema validates an authored schema and renders its stored document.
func checkSchema(def schema.TemplateConfigSchema) (map[string]any, error) {
	if err := schema.ValidateDefinition(def); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "template schema invalid").
			WithTextCode(schemaInvalidCode)
	}
	document := def.ToMap()
	if err := schema.ValidateDocument(document); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "template schema document invalid").
			WithTextCode(schemaInvalidCode)
	}
	return document, nil
}
