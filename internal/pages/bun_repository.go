package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPageRepository stores pages in the pages table. Content is persisted as
// the JSON document the editor produced. Site and template scoped queries go
// through query, which is never cached: the cache key serializer cannot see
// inside raw processors, so pages of one site would be served for another.
type BunPageRepository struct {
	repo  repository.Repository[*Page]
	query repository.Repository[*Page]
}

// NewBunPageRepository creates a page repository without caching.
func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache wraps the repository with go-repository-cache
// when both the cache service and key serializer are supplied.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRepository(db)
	cached := base
	if cacheService != nil && keySerializer != nil {
		cached = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunPageRepository{repo: cached, query: base}
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, wrapPageError(err, record.Slug)
	}
	return created, nil
}

func (r *BunPageRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, wrapPageError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, wrapPageError(err, id.String())
	}
	return record, nil
}

// GetBySlug resolves a slug within a single site; slugs repeat across sites.
func (r *BunPageRepository) GetBySlug(ctx context.Context, siteID uuid.UUID, slug string) (*Page, error) {
	records, err := r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.site_id = ?", siteID).Where("?TableAlias.slug = ?", slug)
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return records[0], nil
}

func (r *BunPageRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Page, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.site_id = ?", siteID)
	}, 0)
}

// ListByTemplate backs template-wide content migrations.
func (r *BunPageRepository) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*Page, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.template_id = ?", templateID)
	}, 0)
}

func (r *BunPageRepository) List(ctx context.Context) ([]*Page, error) {
	return r.list(ctx, nil, 0)
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Page{ID: id}); err != nil {
		return wrapPageError(err, id.String())
	}
	return nil
}

// list applies scope and orders by slug then id, matching the memory store.
// A positive limit caps the result.
func (r *BunPageRepository) list(ctx context.Context, scope func(*bun.SelectQuery) *bun.SelectQuery, limit int) ([]*Page, error) {
	ordered := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if scope != nil {
			q = scope(q)
		}
		return q.OrderExpr("?TableAlias.slug ASC, ?TableAlias.id ASC")
	})

	var (
		records []*Page
		err     error
	)
	if limit > 0 {
		records, _, err = r.query.List(ctx, ordered, repository.SelectPaginate(limit, 0))
	} else {
		records, _, err = r.query.List(ctx, ordered)
	}
	if err != nil {
		return nil, wrapPageError(err, "")
	}
	return records, nil
}

func wrapPageError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: "page", Key: key}
	}
	return fmt.Errorf("pages: storage: %w", err)
}
