package content

import "github.com/goliatone/go-pagebuilder/internal/schema"

// Source names the storage shape a value was read from.
type Source string

const (
	SourceNested     Source = "nested"
	SourceDot        Source = "dot"
	SourceLegacyFlat Source = "flat"
	SourceDefault    Source = "default"
)

// LookupStrategy reads a field value from one storage shape. sectionKey is ""
// in flat mode.
type LookupStrategy interface {
	Source() Source
	Lookup(c Content, sectionKey, fieldKey string) (any, bool)
}

// Nested reads content[section][field].
type Nested struct{}

func (Nested) Source() Source { return SourceNested }

func (Nested) Lookup(c Content, sectionKey, fieldKey string) (any, bool) {
	section, ok := Section(c, sectionKey)
	if !ok {
		return nil, false
	}
	value, ok := section[fieldKey]
	return value, ok
}

// DotNotation reads content["section.field"].
type DotNotation struct{}

func (DotNotation) Source() Source { return SourceDot }

func (DotNotation) Lookup(c Content, sectionKey, fieldKey string) (any, bool) {
	if sectionKey == "" {
		return nil, false
	}
	value, ok := c[DotKey(sectionKey, fieldKey)]
	return value, ok
}

// LegacyFlat reads content[field].
type LegacyFlat struct{}

func (LegacyFlat) Source() Source { return SourceLegacyFlat }

func (LegacyFlat) Lookup(c Content, _ string, fieldKey string) (any, bool) {
	value, ok := c[fieldKey]
	return value, ok
}

// DotKey builds the transitional "section.field" key.
func DotKey(sectionKey, fieldKey string) string {
	return sectionKey + "." + fieldKey
}

// Match is a resolved value and the shape it came from.
type Match struct {
	Value  any
	Source Source
}

// Resolver walks its strategies in order and returns the first present value.
type Resolver struct {
	strategies []LookupStrategy
}

// DefaultStrategies is nested, then dot notation, then legacy flat.
func DefaultStrategies() []LookupStrategy {
	return []LookupStrategy{Nested{}, DotNotation{}, LegacyFlat{}}
}

// NewResolver builds a resolver. With no strategies the default chain is used.
func NewResolver(strategies ...LookupStrategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	copied := make([]LookupStrategy, len(strategies))
	copy(copied, strategies)
	return &Resolver{strategies: copied}
}

// With returns a resolver with extra strategies appended after the current ones.
func (r *Resolver) With(strategies ...LookupStrategy) *Resolver {
	next := make([]LookupStrategy, 0, len(r.chain())+len(strategies))
	next = append(next, r.chain()...)
	next = append(next, strategies...)
	return &Resolver{strategies: next}
}

// Strategies returns a copy of the lookup chain.
func (r *Resolver) Strategies() []LookupStrategy {
	chain := r.chain()
	out := make([]LookupStrategy, len(chain))
	copy(out, chain)
	return out
}

// Lookup returns the first present value for the field. Only strategies that
// make sense in flat mode run when sectionKey is "".
func (r *Resolver) Lookup(c Content, sectionKey, fieldKey string) (Match, bool) {
	if c == nil || fieldKey == "" {
		return Match{Source: SourceDefault}, false
	}
	for _, strategy := range r.chain() {
		if sectionKey == "" && strategy.Source() != SourceLegacyFlat {
			continue
		}
		value, ok := strategy.Lookup(c, sectionKey, fieldKey)
		if ok && IsPresent(value) {
			return Match{Value: value, Source: strategy.Source()}, true
		}
	}
	return Match{Source: SourceDefault}, false
}

// Value resolves a field and falls back to the empty value of its type.
func (r *Resolver) Value(c Content, sectionKey string, field schema.FieldDefinition) any {
	if match, ok := r.Lookup(c, sectionKey, field.Key); ok {
		return match.Value
	}
	return EmptyValue(field.Type)
}

func (r *Resolver) chain() []LookupStrategy {
	if r == nil || len(r.strategies) == 0 {
		return DefaultStrategies()
	}
	return r.strategies
}

// EmptyValue returns the value a missing field resolves to.
func EmptyValue(fieldType schema.FieldType) any {
	switch fieldType {
	case schema.FieldSlider, schema.FieldFAQ, schema.FieldTable:
		return []any{}
	case schema.FieldCheckbox:
		return false
	default:
		return ""
	}
}
