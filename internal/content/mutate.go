package content

// SetField returns a copy of c with value stored at c[sectionKey][fieldKey].
// When the section object is missing it is created with enabled set to the
// given current enablement; an existing section keeps its enabled flag (or
// its lack of one) and its sibling fields. Dot-notation keys are never written. With sectionKey "" the value is
// written flat, which only legacy flat forms use.
func SetField(c Content, sectionKey, fieldKey string, value any, enabled bool) Content {
	out := shallowCopy(c)
	if fieldKey == "" {
		return out
	}
	if sectionKey == "" {
		out[fieldKey] = value
		return out
	}

	section := sectionCopy(c, sectionKey, enabled)
	section[fieldKey] = value
	out[sectionKey] = section
	return out
}

// SetEnabled returns a copy of c with the section's enabled flag set.
func SetEnabled(c Content, sectionKey string, enabled bool) Content {
	out := shallowCopy(c)
	if sectionKey == "" {
		return out
	}
	section := sectionCopy(c, sectionKey, enabled)
	section[EnabledKey] = enabled
	out[sectionKey] = section
	return out
}

func shallowCopy(c Content) Content {
	out := make(Content, len(c)+1)
	for key, value := range c {
		out[key] = value
	}
	return out
}

func sectionCopy(c Content, sectionKey string, enabled bool) map[string]any {
	existing, ok := Section(c, sectionKey)
	if !ok {
		return map[string]any{EnabledKey: enabled}
	}
	section := make(map[string]any, len(existing)+1)
	for key, value := range existing {
		section[key] = value
	}
	return section
}
