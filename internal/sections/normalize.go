package sections

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/schema"
)

// Mirror writes every section's computed enablement into content[key].enabled
// and returns the new document. The input is not modified. Sections stored as
// something other than an object are left as they are and reported.
func Mirror(resolver *content.Resolver, s schema.TemplateConfigSchema, c content.Content) (content.Content, []schema.Issue, bool) {
	out := c
	changed := false
	var issues []schema.Issue

	for _, section := range s.Sections {
		decision := Resolve(resolver, section, c)
		raw, exists := c[section.Key]
		if exists && raw != nil {
			if _, ok := content.Section(c, section.Key); !ok {
				issues = append(issues, schema.Issue{
					Path:    section.Key,
					Message: fmt.Sprintf("section content is %T, not an object; enablement not mirrored", raw),
				})
				continue
			}
		}
		if current, ok := storedBool(c, section.Key); ok && current == decision.Enabled {
			continue
		}
		out = content.SetEnabled(out, section.Key, decision.Enabled)
		changed = true
	}

	if !changed && out == nil {
		out = content.Content{}
	}
	return out, issues, changed
}

func storedBool(c content.Content, sectionKey string) (bool, bool) {
	section, ok := content.Section(c, sectionKey)
	if !ok {
		return false, false
	}
	flag, ok := section[content.EnabledKey].(bool)
	return flag, ok
}

// Normalizer mirrors enablement once per page-load cycle. Later calls return
// the content unchanged so the stored flags stay authoritative.
type Normalizer struct {
	resolver *content.Resolver

	mu   sync.Mutex
	done bool
}

// NewNormalizer creates a normalizer for one page-load cycle.
func NewNormalizer(resolver *content.Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// Normalize mirrors enablement on the first call and is a no-op afterwards.
func (n *Normalizer) Normalize(s schema.TemplateConfigSchema, c content.Content) (content.Content, []schema.Issue, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.done {
		return c, nil, false
	}
	n.done = true
	return Mirror(n.resolver, s, c)
}

// Done reports whether normalization already ran.
func (n *Normalizer) Done() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.done
}
