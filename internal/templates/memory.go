package templates

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryTemplateRepository provides an in-memory implementation of TemplateRepository.
type MemoryTemplateRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Template
	bySlug map[string]uuid.UUID
}

// NewMemoryTemplateRepository constructs an empty memory-backed repository.
func NewMemoryTemplateRepository() *MemoryTemplateRepository {
	return &MemoryTemplateRepository{
		byID:   make(map[uuid.UUID]*Template),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (r *MemoryTemplateRepository) Create(_ context.Context, template *Template) (*Template, error) {
	if template == nil {
		return nil, nil
	}
	cloned := cloneTemplate(template)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[cloned.ID] = cloned
	r.bySlug[cloned.Slug] = cloned.ID
	return cloneTemplate(cloned), nil
}

func (r *MemoryTemplateRepository) Update(_ context.Context, template *Template) (*Template, error) {
	if template == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[template.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: template.ID.String()}
	}
	if existing.Slug != template.Slug {
		delete(r.bySlug, existing.Slug)
	}

	cloned := cloneTemplate(template)
	r.byID[cloned.ID] = cloned
	r.bySlug[cloned.Slug] = cloned.ID
	return cloneTemplate(cloned), nil
}

func (r *MemoryTemplateRepository) GetByID(_ context.Context, id uuid.UUID) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: id.String()}
	}
	return cloneTemplate(record), nil
}

func (r *MemoryTemplateRepository) GetBySlug(_ context.Context, slug string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: slug}
	}
	return cloneTemplate(r.byID[id]), nil
}

func (r *MemoryTemplateRepository) List(_ context.Context) ([]*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Template, 0, len(r.byID))
	for _, record := range r.byID {
		out = append(out, cloneTemplate(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *MemoryTemplateRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[id]
	if !ok {
		return &NotFoundError{Resource: "template", Key: id.String()}
	}
	delete(r.bySlug, record.Slug)
	delete(r.byID, id)
	return nil
}
