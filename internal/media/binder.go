package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

var (
	ErrUploaderRequired  = errors.New("media: uploader required")
	ErrFieldNotBindable  = errors.New("media: field does not accept uploads")
	ErrFileRequired      = errors.New("media: file body required")
	ErrUploadIncomplete  = errors.New("media: upload result missing url")
	ErrUploadFailed      = errors.New("media: upload failed")
	ErrSiteOrPageMissing = errors.New("media: site and page ids required")
)

// BindInput describes one uploaded file and the field it belongs to.
type BindInput struct {
	SiteID      uuid.UUID
	PageID      uuid.UUID
	SectionKey  string
	FieldKey    string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader

	// Slide details are only used for slider fields.
	Title       string
	Description string
	ButtonText  string
	ButtonLink  string
}

// Binder hands files to the upload collaborator and stores the returned
// {id, url, filename} triple into page content.
type Binder struct {
	uploader interfaces.Uploader
	resolver *content.Resolver
	logger   interfaces.Logger
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithResolver overrides the lookup chain used to read existing slides.
func WithResolver(resolver *content.Resolver) BinderOption {
	return func(b *Binder) {
		if resolver != nil {
			b.resolver = resolver
		}
	}
}

// WithLogger sets the binder logger.
func WithLogger(logger interfaces.Logger) BinderOption {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBinder constructs a binder around the upload collaborator.
func NewBinder(uploader interfaces.Uploader, opts ...BinderOption) *Binder {
	if uploader == nil {
		panic(ErrUploaderRequired)
	}
	b := &Binder{
		uploader: uploader,
		resolver: content.NewResolver(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind uploads the file and returns the updated content. Image fields receive
// the asset object; slider fields get a new slide appended at the end.
func (b *Binder) Bind(ctx context.Context, def schema.TemplateConfigSchema, c content.Content, input BindInput) (content.Content, interfaces.UploadResult, error) {
	if input.SiteID == uuid.Nil || input.PageID == uuid.Nil {
		return c, interfaces.UploadResult{}, ErrSiteOrPageMissing
	}
	if input.Body == nil {
		return c, interfaces.UploadResult{}, ErrFileRequired
	}
	field, err := bindableField(def, input.SectionKey, input.FieldKey)
	if err != nil {
		return c, interfaces.UploadResult{}, err
	}

	result, err := b.uploader.Upload(ctx, interfaces.UploadRequest{
		SiteID:      input.SiteID,
		PageID:      input.PageID,
		FieldKey:    input.FieldKey,
		Filename:    strings.TrimSpace(input.Filename),
		ContentType: input.ContentType,
		Size:        input.Size,
		Body:        input.Body,
	})
	if err != nil {
		b.logger.Error("media.upload.failed", "field", input.FieldKey, "error", err)
		return c, interfaces.UploadResult{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if strings.TrimSpace(result.URL) == "" {
		return c, result, ErrUploadIncomplete
	}

	var value any
	switch field.Type {
	case schema.FieldImage:
		value = content.Asset{ID: result.ID, URL: result.URL, Filename: result.Filename}.ToMap()
	case schema.FieldSlider:
		value = b.appendSlide(c, input, result)
	}

	next, err := sections.SetField(b.resolver, def, c, input.SectionKey, input.FieldKey, value)
	if err != nil {
		return c, result, err
	}
	b.logger.Info("media.bound",
		"page_id", input.PageID.String(),
		"section", input.SectionKey,
		"field", input.FieldKey,
		"asset_id", result.ID,
	)
	return next, result, nil
}

func (b *Binder) appendSlide(c content.Content, input BindInput, result interfaces.UploadResult) []any {
	existing := []any{}
	if match, ok := b.resolver.Lookup(c, input.SectionKey, input.FieldKey); ok {
		switch list := match.Value.(type) {
		case []any:
			existing = list
		case []map[string]any:
			for _, item := range list {
				existing = append(existing, item)
			}
		}
	}
	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}
	out := make([]any, 0, len(existing)+1)
	out = append(out, existing...)
	out = append(out, content.Slide{
		ID:          id,
		URL:         result.URL,
		Filename:    result.Filename,
		Title:       input.Title,
		Description: input.Description,
		ButtonText:  input.ButtonText,
		ButtonLink:  input.ButtonLink,
		Order:       len(existing),
	}.ToMap())
	return out
}

func bindableField(def schema.TemplateConfigSchema, sectionKey, fieldKey string) (schema.FieldDefinition, error) {
	section, ok := def.Section(sectionKey)
	if !ok {
		return schema.FieldDefinition{}, fmt.Errorf("%w: %s", sections.ErrUnknownSection, sectionKey)
	}
	field, ok := section.Field(fieldKey)
	if !ok {
		return schema.FieldDefinition{}, fmt.Errorf("%w: %s.%s", sections.ErrUnknownField, sectionKey, fieldKey)
	}
	switch field.Type {
	case schema.FieldImage, schema.FieldSlider:
		return field, nil
	default:
		return schema.FieldDefinition{}, fmt.Errorf("%w: %s.%s is %s", ErrFieldNotBindable, sectionKey, fieldKey, field.Type)
	}
}
