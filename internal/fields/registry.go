package fields

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-pagebuilder/internal/schema"
)

var (
	ErrNilRegistry = errors.New("fields: registry is nil")
	ErrNilKind     = errors.New("fields: kind is nil")
	ErrEmptyType   = errors.New("fields: field type is empty")
)

// Registry maps field type names to their kinds.
type Registry struct {
	mu        sync.RWMutex
	kinds     map[schema.FieldType]Kind
	maxBounds bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMaxBounds turns maximum cardinality (maxSlides, maxFAQs, maxRows) into
// validation errors. Off by default: maximums are editor hints only.
func WithMaxBounds(enabled bool) RegistryOption {
	return func(r *Registry) {
		r.maxBounds = enabled
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	reg := &Registry{kinds: make(map[schema.FieldType]Kind)}
	for _, opt := range opts {
		if opt != nil {
			opt(reg)
		}
	}
	return reg
}

// DefaultRegistry creates a registry holding the built-in kinds.
func DefaultRegistry(opts ...RegistryOption) *Registry {
	reg := NewRegistry(opts...)
	for _, kind := range BuiltinKinds() {
		reg.MustRegister(kind)
	}
	return reg
}

// Register adds or replaces the kind for its normalized type.
func (r *Registry) Register(kind Kind) error {
	if r == nil {
		return ErrNilRegistry
	}
	if kind == nil {
		return ErrNilKind
	}
	fieldType := normalizeType(kind.Type())
	if fieldType == "" {
		return fmt.Errorf("%w: %T", ErrEmptyType, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.kinds == nil {
		r.kinds = make(map[schema.FieldType]Kind)
	}
	r.kinds[fieldType] = kind
	return nil
}

// MustRegister registers the kind and panics if registration fails.
func (r *Registry) MustRegister(kind Kind) {
	if err := r.Register(kind); err != nil {
		panic(err)
	}
}

// Get returns the kind registered for the type.
func (r *Registry) Get(fieldType schema.FieldType) (Kind, bool) {
	if r == nil {
		return nil, false
	}
	fieldType = normalizeType(fieldType)
	if fieldType == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.kinds[fieldType]
	return kind, ok
}

// Types lists the registered type names.
func (r *Registry) Types() []schema.FieldType {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schema.FieldType, 0, len(r.kinds))
	for fieldType := range r.kinds {
		out = append(out, fieldType)
	}
	return out
}

// MaxBounds reports whether maximum cardinality is enforced.
func (r *Registry) MaxBounds() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxBounds
}

// Clone creates a copy of the registry with the same kinds and settings, then
// applies opts to the copy.
func (r *Registry) Clone(opts ...RegistryOption) *Registry {
	if r == nil {
		return NewRegistry(opts...)
	}
	r.mu.RLock()
	cloned := NewRegistry(WithMaxBounds(r.maxBounds))
	for fieldType, kind := range r.kinds {
		cloned.kinds[fieldType] = kind
	}
	r.mu.RUnlock()

	for _, opt := range opts {
		if opt != nil {
			opt(cloned)
		}
	}
	return cloned
}

// Validate checks a resolved value against its field definition. Unknown types
// only get the generic required-non-empty check.
func (r *Registry) Validate(subject Subject, value any) []Violation {
	if r.MaxBounds() {
		subject.EnforceMax = true
	}
	if kind, ok := r.Get(subject.Field.Type); ok {
		return kind.Validate(subject, value)
	}
	return validatePresence(subject, value)
}

// Empty returns the empty value of a field type, "" for unknown types.
func (r *Registry) Empty(fieldType schema.FieldType) any {
	if kind, ok := r.Get(fieldType); ok {
		return kind.Empty()
	}
	return ""
}

func normalizeType(fieldType schema.FieldType) schema.FieldType {
	return schema.FieldType(strings.TrimSpace(strings.ToLower(string(fieldType))))
}
