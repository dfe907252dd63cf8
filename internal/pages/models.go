package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-pagebuilder/internal/content"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Page is a tenant page built from a template. Content is stored verbatim as
// the editor last wrote it.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	SiteID      uuid.UUID      `bun:"site_id,notnull,type:uuid" json:"site_id"`
	TemplateID  uuid.UUID      `bun:"template_id,notnull,type:uuid" json:"template_id"`
	Slug        string         `bun:"slug,notnull" json:"slug"`
	Title       string         `bun:"title" json:"title"`
	Status      string         `bun:"status,notnull,default:'draft'" json:"status"`
	Content     map[string]any `bun:"content,type:jsonb" json:"content"`
	PublishedAt *time.Time     `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Document returns the page content as an engine document.
func (p *Page) Document() content.Content {
	if p == nil || p.Content == nil {
		return content.Content{}
	}
	return content.Content(p.Content)
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	copied := *src
	if src.PublishedAt != nil {
		publishedAt := *src.PublishedAt
		copied.PublishedAt = &publishedAt
	}
	if src.Content != nil {
		copied.Content = map[string]any(content.Clone(content.Content(src.Content)))
	}
	return &copied
}
