package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunTemplateRepository stores templates in page_templates with the
// config_schema document kept verbatim. Queries built from raw processors go
// through query, which is never cached: the cache key serializer cannot see
// inside the closures, so two different scopes would share one entry.
type BunTemplateRepository struct {
	repo  repository.Repository[*Template]
	query repository.Repository[*Template]
}

// NewBunTemplateRepository creates a template repository without caching.
func NewBunTemplateRepository(db *bun.DB) *BunTemplateRepository {
	return NewBunTemplateRepositoryWithCache(db, nil, nil)
}

// NewBunTemplateRepositoryWithCache wraps the repository with
// go-repository-cache. Templates are read on every validation, so hosts with
// a database usually enable it.
func NewBunTemplateRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunTemplateRepository {
	base := NewTemplateRepository(db)
	cached := base
	if cacheService != nil && serializer != nil {
		cached = repositorycache.New(base, cacheService, serializer)
	}
	return &BunTemplateRepository{repo: cached, query: base}
}

func (r *BunTemplateRepository) Create(ctx context.Context, template *Template) (*Template, error) {
	created, err := r.repo.Create(ctx, template)
	if err != nil {
		return nil, wrapTemplateError(err, template.Slug)
	}
	return created, nil
}

func (r *BunTemplateRepository) Update(ctx context.Context, template *Template) (*Template, error) {
	updated, err := r.repo.Update(ctx, template)
	if err != nil {
		return nil, wrapTemplateError(err, template.ID.String())
	}
	return updated, nil
}

func (r *BunTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, wrapTemplateError(err, id.String())
	}
	return record, nil
}

func (r *BunTemplateRepository) GetBySlug(ctx context.Context, slug string) (*Template, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, wrapTemplateError(err, slug)
	}
	return record, nil
}

// List returns every template ordered by slug, the order the editor's template
// picker shows.
func (r *BunTemplateRepository) List(ctx context.Context) ([]*Template, error) {
	records, _, err := r.query.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.slug ASC")
	}))
	if err != nil {
		return nil, wrapTemplateError(err, "")
	}
	return records, nil
}

func (r *BunTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Template{ID: id}); err != nil {
		return wrapTemplateError(err, id.String())
	}
	return nil
}

func wrapTemplateError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: "template", Key: key}
	}
	return fmt.Errorf("templates: storage: %w", err)
}
