package pages

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/validation"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// Service exposes page editing use-cases.
type Service interface {
	Create(ctx context.Context, input CreatePageInput) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, siteID uuid.UUID, slug string) (*Page, error)
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Page, error)
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SaveContent(ctx context.Context, input SaveContentInput) (*Page, validation.Report, error)
	Validate(ctx context.Context, id uuid.UUID) (validation.Report, error)
	Publish(ctx context.Context, id uuid.UUID) (*Page, validation.Report, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*Page, error)

	OpenSession(ctx context.Context, id uuid.UUID) (*EditSession, error)
	SaveSession(ctx context.Context, id uuid.UUID, session *EditSession) (*Page, validation.Report, error)
}

// CreatePageInput captures a new page. Content defaults to an empty document.
type CreatePageInput struct {
	SiteID     uuid.UUID
	TemplateID uuid.UUID
	Slug       string
	Title      string
	Content    content.Content
}

// SaveContentInput replaces the content of a page.
type SaveContentInput struct {
	PageID  uuid.UUID
	Content content.Content
}

// TemplateSchemas loads the parsed config schema of a template.
type TemplateSchemas interface {
	Schema(ctx context.Context, templateID uuid.UUID) (schema.TemplateConfigSchema, error)
}

// Sanitizer cleans rich-text markup before it is stored.
type Sanitizer interface {
	Sanitize(input string) string
}

var (
	ErrPageRepositoryRequired = errors.New("pages: repository required")
	ErrTemplateSourceRequired = errors.New("pages: template source required")
	ErrSiteRequired           = errors.New("pages: site id required")
	ErrTemplateRequired       = errors.New("pages: template id required")
	ErrPageIDRequired         = errors.New("pages: page id required")
	ErrSlugInvalid            = errors.New("pages: slug invalid")
	ErrSlugExists             = errors.New("pages: slug already exists for site")
	ErrSessionRequired        = errors.New("pages: edit session required")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures the service at construction time.
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

// WithEngine overrides the validation engine.
func WithEngine(engine *validation.Engine) ServiceOption {
	return func(s *service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithSanitizer enables rich-text sanitization on save.
func WithSanitizer(sanitizer Sanitizer) ServiceOption {
	return func(s *service) {
		s.sanitizer = sanitizer
	}
}

// WithBlockInvalidPublish controls whether invalid content blocks publishing
// and saving over a published page. Enabled by default.
func WithBlockInvalidPublish(enabled bool) ServiceOption {
	return func(s *service) {
		s.blockInvalid = enabled
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
	pages        PageRepository
	templates    TemplateSchemas
	engine       *validation.Engine
	sanitizer    Sanitizer
	blockInvalid bool
	id           IDGenerator
	now          func() time.Time
	logger       interfaces.Logger
}

// NewService constructs a page service.
func NewService(repo PageRepository, templates TemplateSchemas, opts ...ServiceOption) Service {
	if repo == nil {
		panic(ErrPageRepositoryRequired)
	}
	if templates == nil {
		panic(ErrTemplateSourceRequired)
	}
	s := &service{
		pages:        repo,
		templates:    templates,
		blockInvalid: true,
		id:           uuid.New,
		now:          time.Now,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = validation.NewEngine()
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreatePageInput) (*Page, error) {
	if input.SiteID == uuid.Nil {
		return nil, ErrSiteRequired
	}
	if input.TemplateID == uuid.Nil {
		return nil, ErrTemplateRequired
	}

	candidate := strings.TrimSpace(input.Slug)
	if candidate == "" {
		candidate = input.Title
	}
	normalized, err := slug.Normalize(strings.TrimSpace(candidate))
	if err != nil || normalized == "" {
		return nil, ErrSlugInvalid
	}

	if existing, err := s.pages.GetBySlug(ctx, input.SiteID, normalized); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if _, err := s.templates.Schema(ctx, input.TemplateID); err != nil {
		return nil, err
	}

	doc := input.Content
	if doc == nil {
		doc = content.Content{}
	}

	now := s.now()
	record := &Page{
		ID:         s.id(),
		SiteID:     input.SiteID,
		TemplateID: input.TemplateID,
		Slug:       normalized,
		Title:      strings.TrimSpace(input.Title),
		Status:     StatusDraft,
		Content:    map[string]any(content.Clone(doc)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.pages.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.pageLogger(ctx, created).Info("pages.create")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageIDRequired
	}
	return s.pages.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, siteID uuid.UUID, value string) (*Page, error) {
	if siteID == uuid.Nil {
		return nil, ErrSiteRequired
	}
	normalized, err := slug.Normalize(strings.TrimSpace(value))
	if err != nil || normalized == "" {
		return nil, ErrSlugInvalid
	}
	return s.pages.GetBySlug(ctx, siteID, normalized)
}

func (s *service) ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Page, error) {
	if siteID == uuid.Nil {
		return nil, ErrSiteRequired
	}
	return s.pages.ListBySite(ctx, siteID)
}

func (s *service) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*Page, error) {
	if templateID == uuid.Nil {
		return nil, ErrTemplateRequired
	}
	return s.pages.ListByTemplate(ctx, templateID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrPageIDRequired
	}
	return s.pages.Delete(ctx, id)
}

// SaveContent stores new content and returns its report. Drafts are saved
// even when invalid; a published page only accepts valid content unless
// blocking is disabled.
func (s *service) SaveContent(ctx context.Context, input SaveContentInput) (*Page, validation.Report, error) {
	record, err := s.Get(ctx, input.PageID)
	if err != nil {
		return nil, validation.Report{}, err
	}
	def, err := s.templates.Schema(ctx, record.TemplateID)
	if err != nil {
		return nil, validation.Report{}, err
	}

	doc := input.Content
	if doc == nil {
		doc = content.Content{}
	}
	doc = s.sanitize(def, doc)

	report := s.engine.Validate(def, doc)
	logger := s.pageLogger(ctx, record)
	if record.Status == StatusPublished && s.blockInvalid && !report.IsValid {
		logger.Warn("pages.save.blocked", "errors", len(report.Errors))
		return nil, report, report.Err()
	}

	record.Content = map[string]any(content.Clone(doc))
	record.UpdatedAt = s.now()
	updated, err := s.pages.Update(ctx, record)
	if err != nil {
		return nil, report, err
	}
	logger.Info("pages.save", "valid", report.IsValid, "errors", len(report.Errors))
	return updated, report, nil
}

func (s *service) Validate(ctx context.Context, id uuid.UUID) (validation.Report, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return validation.Report{}, err
	}
	def, err := s.templates.Schema(ctx, record.TemplateID)
	if err != nil {
		return validation.Report{}, err
	}
	return s.engine.Validate(def, record.Document()), nil
}

// Publish marks the page as published. Invalid content blocks publishing with
// a validation-category error carrying the report.
func (s *service) Publish(ctx context.Context, id uuid.UUID) (*Page, validation.Report, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, validation.Report{}, err
	}
	def, err := s.templates.Schema(ctx, record.TemplateID)
	if err != nil {
		return nil, validation.Report{}, err
	}

	report := s.engine.Validate(def, record.Document())
	logger := s.pageLogger(ctx, record)
	if !report.IsValid {
		if s.blockInvalid {
			logger.Warn("pages.publish.blocked", "errors", len(report.Errors))
			return nil, report, report.Err()
		}
		logger.Warn("pages.publish.invalid", "errors", len(report.Errors))
	}

	now := s.now()
	record.Status = StatusPublished
	record.PublishedAt = &now
	record.UpdatedAt = now
	updated, err := s.pages.Update(ctx, record)
	if err != nil {
		return nil, report, err
	}
	logger.Info("pages.publish")
	return updated, report, nil
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Status = StatusDraft
	record.PublishedAt = nil
	record.UpdatedAt = s.now()
	return s.pages.Update(ctx, record)
}

// OpenSession starts an editing cycle for the page.
func (s *service) OpenSession(ctx context.Context, id uuid.UUID) (*EditSession, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	def, err := s.templates.Schema(ctx, record.TemplateID)
	if err != nil {
		return nil, err
	}
	session := NewEditSession(s.engine, def, record.Document())
	for _, issue := range session.Issues() {
		s.pageLogger(ctx, record).Debug("pages.session.issue", "path", issue.Path, "message", issue.Message)
	}
	return session, nil
}

// SaveSession persists the session content and clears its dirty flag.
func (s *service) SaveSession(ctx context.Context, id uuid.UUID, session *EditSession) (*Page, validation.Report, error) {
	if session == nil {
		return nil, validation.Report{}, ErrSessionRequired
	}
	updated, report, err := s.SaveContent(ctx, SaveContentInput{PageID: id, Content: session.Content()})
	if err != nil {
		return nil, report, err
	}
	session.MarkSaved()
	return updated, report, nil
}

// sanitize cleans rich-text values stored in the nested shape. Legacy flat
// and dot-notation values are left alone because they are never written.
func (s *service) sanitize(def schema.TemplateConfigSchema, doc content.Content) content.Content {
	if s.sanitizer == nil {
		return doc
	}
	out := doc
	for _, section := range def.Sections {
		stored, ok := content.Section(out, section.Key)
		if !ok {
			continue
		}
		for _, field := range section.Fields {
			if field.Type != schema.FieldRichText {
				continue
			}
			raw, ok := stored[field.Key].(string)
			if !ok {
				continue
			}
			cleaned := s.sanitizer.Sanitize(raw)
			if cleaned == raw {
				continue
			}
			out = content.SetField(out, section.Key, field.Key, cleaned, false)
			stored, _ = content.Section(out, section.Key)
		}
	}
	return out
}

func (s *service) pageLogger(ctx context.Context, record *Page) interfaces.Logger {
	return logging.WithPageContext(logging.FromContext(ctx, s.logger), record.SiteID.String(), record.ID.String(), record.TemplateID.String())
}
