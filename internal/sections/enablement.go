package sections

import (
	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/schema"
)

// DecisionSource names the rule that decided a section's enablement.
type DecisionSource string

const (
	DecidedByRequired DecisionSource = "required"
	DecidedByFlag     DecisionSource = "explicit"
	DecidedByData     DecisionSource = "data"
	DecidedByDefault  DecisionSource = "default"
)

// Decision is the computed enablement of a section.
type Decision struct {
	Enabled bool
	Source  DecisionSource
}

type rule func(resolver *content.Resolver, section schema.SectionDefinition, c content.Content) (Decision, bool)

// decisionTable is evaluated in order; the first rule that applies wins.
var decisionTable = []rule{
	requiredRule,
	explicitFlagRule,
	dataPresenceRule,
}

// Resolve decides whether a section is enabled. A nil resolver uses the
// default lookup chain.
func Resolve(resolver *content.Resolver, section schema.SectionDefinition, c content.Content) Decision {
	for _, apply := range decisionTable {
		if decision, ok := apply(resolver, section, c); ok {
			return decision
		}
	}
	return Decision{Enabled: false, Source: DecidedByDefault}
}

// IsEnabled is Resolve reduced to its flag.
func IsEnabled(resolver *content.Resolver, section schema.SectionDefinition, c content.Content) bool {
	return Resolve(resolver, section, c).Enabled
}

func requiredRule(_ *content.Resolver, section schema.SectionDefinition, _ content.Content) (Decision, bool) {
	if !section.Required {
		return Decision{}, false
	}
	return Decision{Enabled: true, Source: DecidedByRequired}, true
}

func explicitFlagRule(_ *content.Resolver, section schema.SectionDefinition, c content.Content) (Decision, bool) {
	flag, ok := ExplicitFlag(c, section.Key)
	if !ok {
		return Decision{}, false
	}
	return Decision{Enabled: flag, Source: DecidedByFlag}, true
}

func dataPresenceRule(resolver *content.Resolver, section schema.SectionDefinition, c content.Content) (Decision, bool) {
	for _, field := range section.Fields {
		match, ok := resolver.Lookup(c, section.Key, field.Key)
		if ok && content.HasData(match.Value) {
			return Decision{Enabled: true, Source: DecidedByData}, true
		}
	}
	return Decision{}, false
}

// ExplicitFlag reads content[sectionKey].enabled. A stored key always decides:
// bools and bool-like strings parse as flags, anything else (null, 0, "")
// reduces to its truthiness. ok is false only when the key is missing.
func ExplicitFlag(c content.Content, sectionKey string) (bool, bool) {
	section, ok := content.Section(c, sectionKey)
	if !ok {
		return false, false
	}
	raw, ok := section[content.EnabledKey]
	if !ok {
		return false, false
	}
	if flag, ok := content.ParseBool(raw); ok {
		return flag, true
	}
	return content.IsPresent(raw), true
}
