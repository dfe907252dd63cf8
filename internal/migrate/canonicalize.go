package migrate

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// ChangeKind names one rewrite performed while canonicalizing content.
type ChangeKind string

const (
	// ChangeMoved copies a dot-notation or legacy flat value into its section object.
	ChangeMoved ChangeKind = "moved"
	// ChangeRemoved drops a key that no lookup reads anymore.
	ChangeRemoved ChangeKind = "removed"
	// ChangeEnabled writes the derived enablement flag into a section object.
	ChangeEnabled ChangeKind = "enabled"
)

// Change is one entry of the migration log.
type Change struct {
	Kind    ChangeKind     `json:"kind"`
	Section string         `json:"section,omitempty"`
	Field   string         `json:"field,omitempty"`
	Key     string         `json:"key"`
	Source  content.Source `json:"source,omitempty"`
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeMoved:
		return fmt.Sprintf("moved %s (%s) to %s.%s", c.Key, c.Source, c.Section, c.Field)
	case ChangeEnabled:
		return fmt.Sprintf("mirrored %s.enabled", c.Section)
	default:
		return fmt.Sprintf("%s %s", c.Kind, c.Key)
	}
}

// Result describes a canonicalization run.
type Result struct {
	Content content.Content `json:"content"`
	Changes []Change        `json:"changes"`
	Issues  []schema.Issue  `json:"issues,omitempty"`
}

// Changed reports whether the content was rewritten.
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

// Migrator rewrites stored content into the nested {section: {enabled, field}}
// shape. It is only ever invoked explicitly, never on read.
type Migrator struct {
	resolver *content.Resolver
	logger   interfaces.Logger
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithResolver overrides the lookup chain.
func WithResolver(resolver *content.Resolver) Option {
	return func(m *Migrator) {
		if resolver != nil {
			m.resolver = resolver
		}
	}
}

// WithLogger sets the migrator logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Migrator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMigrator constructs a migrator with the default lookup chain.
func NewMigrator(opts ...Option) *Migrator {
	m := &Migrator{
		resolver: content.NewResolver(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Canonicalize runs a default migrator.
func Canonicalize(s schema.TemplateConfigSchema, c content.Content) Result {
	return NewMigrator().Canonicalize(s, c)
}

// Canonicalize moves every dot-notation and flat value the resolver would read
// into its section object, drops the keys that become unreachable and mirrors
// enablement. Resolved values and enablement are the same before and after.
// The input is not modified.
func (m *Migrator) Canonicalize(s schema.TemplateConfigSchema, c content.Content) Result {
	result := Result{Content: content.Clone(c)}
	if result.Content == nil {
		result.Content = content.Content{}
	}

	blocked := map[string]bool{}
	for _, section := range s.Sections {
		raw, exists := c[section.Key]
		if !exists || raw == nil {
			continue
		}
		if _, ok := content.Section(c, section.Key); !ok {
			blocked[section.Key] = true
			result.Issues = append(result.Issues, schema.Issue{
				Path:    section.Key,
				Message: fmt.Sprintf("section content is %T, not an object; left untouched", raw),
			})
		}
	}

	// Enablement is decided on the original document so moving values never
	// flips a section.
	decisions := make(map[string]bool, len(s.Sections))
	for _, section := range s.Sections {
		decisions[section.Key] = sections.Resolve(m.resolver, section, c).Enabled
	}

	out := result.Content
	for _, section := range s.Ordered() {
		if blocked[section.Key] {
			continue
		}
		for _, field := range section.Fields {
			match, ok := m.resolver.Lookup(c, section.Key, field.Key)
			if !ok || match.Source == content.SourceNested {
				continue
			}
			out = content.SetField(out, section.Key, field.Key, content.CloneValue(match.Value), decisions[section.Key])
			key := field.Key
			if match.Source == content.SourceDot {
				key = content.DotKey(section.Key, field.Key)
			}
			result.Changes = append(result.Changes, Change{
				Kind:    ChangeMoved,
				Section: section.Key,
				Field:   field.Key,
				Key:     key,
				Source:  match.Source,
			})
		}
	}

	for _, key := range m.unreachableKeys(s, out, blocked) {
		delete(out, key)
		result.Changes = append(result.Changes, Change{Kind: ChangeRemoved, Key: key})
	}

	mirrored, issues, _ := sections.Mirror(m.resolver, s, out)
	result.Issues = append(result.Issues, issues...)
	for _, section := range s.Sections {
		if blocked[section.Key] {
			continue
		}
		before, hadBefore := boolFlag(c, section.Key)
		after, _ := boolFlag(mirrored, section.Key)
		if !hadBefore || before != after {
			result.Changes = append(result.Changes, Change{Kind: ChangeEnabled, Section: section.Key, Key: section.Key + "." + content.EnabledKey})
		}
	}
	result.Content = mirrored

	m.logger.Debug("migrate.canonicalize",
		"changes", len(result.Changes),
		"issues", len(result.Issues),
	)
	return result
}

// unreachableKeys lists dot-notation keys of known fields and flat keys whose
// every reader now finds a nested value first. Keys shared with a section key
// are kept.
func (m *Migrator) unreachableKeys(s schema.TemplateConfigSchema, out content.Content, blocked map[string]bool) []string {
	sectionKeys := map[string]bool{}
	for _, section := range s.Sections {
		sectionKeys[section.Key] = true
	}

	flatReaders := map[string][]string{}
	var keys []string
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			dot := content.DotKey(section.Key, field.Key)
			if _, ok := out[dot]; ok && !blocked[section.Key] {
				keys = append(keys, dot)
			}
			flatReaders[field.Key] = append(flatReaders[field.Key], section.Key)
		}
	}

	for fieldKey, readers := range flatReaders {
		if sectionKeys[fieldKey] || fieldKey == content.EnabledKey {
			continue
		}
		value, ok := out[fieldKey]
		if !ok {
			continue
		}
		reachable := false
		for _, sectionKey := range readers {
			if blocked[sectionKey] {
				reachable = true
				break
			}
			if !content.IsPresent(value) {
				continue
			}
			if nested, ok := (content.Nested{}).Lookup(out, sectionKey, fieldKey); !ok || !content.IsPresent(nested) {
				reachable = true
				break
			}
		}
		if !reachable {
			keys = append(keys, fieldKey)
		}
	}
	sort.Strings(keys)
	return keys
}

func boolFlag(c content.Content, sectionKey string) (bool, bool) {
	section, ok := content.Section(c, sectionKey)
	if !ok {
		return false, false
	}
	flag, ok := section[content.EnabledKey].(bool)
	return flag, ok
}
