package pages

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for scaffolding and tests.
type MemoryPageRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	slugIndex map[string]uuid.UUID
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied page.
func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePage(record)
	m.pages[copied.ID] = copied
	m.slugIndex[pageSlugKey(copied.SiteID, copied.Slug)] = copied.ID
	return clonePage(copied), nil
}

// Update replaces a stored page.
func (m *MemoryPageRepository) Update(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.pages[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: record.ID.String()}
	}
	delete(m.slugIndex, pageSlugKey(existing.SiteID, existing.Slug))

	copied := clonePage(record)
	m.pages[copied.ID] = copied
	m.slugIndex[pageSlugKey(copied.SiteID, copied.Slug)] = copied.ID
	return clonePage(copied), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: id.String()}
	}
	return clonePage(page), nil
}

// GetBySlug retrieves a page by site and slug.
func (m *MemoryPageRepository) GetBySlug(_ context.Context, siteID uuid.UUID, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[pageSlugKey(siteID, slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return clonePage(m.pages[id]), nil
}

// ListBySite returns the pages of one site ordered by slug.
func (m *MemoryPageRepository) ListBySite(_ context.Context, siteID uuid.UUID) ([]*Page, error) {
	return m.filter(func(record *Page) bool { return record.SiteID == siteID }), nil
}

// ListByTemplate returns the pages built from one template across sites.
func (m *MemoryPageRepository) ListByTemplate(_ context.Context, templateID uuid.UUID) ([]*Page, error) {
	return m.filter(func(record *Page) bool { return record.TemplateID == templateID }), nil
}

// List returns every page.
func (m *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	return m.filter(nil), nil
}

func (m *MemoryPageRepository) filter(keep func(*Page) bool) []*Page {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Page, 0, len(m.pages))
	for _, record := range m.pages {
		if keep == nil || keep(record) {
			out = append(out, clonePage(record))
		}
	}
	sortPages(out)
	return out
}

// Delete removes a page.
func (m *MemoryPageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.pages[id]
	if !ok {
		return &NotFoundError{Resource: "page", Key: id.String()}
	}
	delete(m.slugIndex, pageSlugKey(record.SiteID, record.Slug))
	delete(m.pages, id)
	return nil
}

func pageSlugKey(siteID uuid.UUID, slug string) string {
	return siteID.String() + "|" + slug
}

func sortPages(records []*Page) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Slug == records[j].Slug {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].Slug < records[j].Slug
	})
}
