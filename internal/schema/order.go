package schema

import "sort"

// SortSections returns a copy of sections in display order. Sections without
// an explicit order keep their input slot; the ordered ones are sorted by
// Order ascending into the remaining slots. The sort is stable so colliding
// orders keep their input order.
func SortSections(sections []SectionDefinition) []SectionDefinition {
	if len(sections) == 0 {
		return []SectionDefinition{}
	}

	out := make([]SectionDefinition, len(sections))
	copy(out, sections)

	slots := make([]int, 0, len(sections))
	ordered := make([]SectionDefinition, 0, len(sections))
	for i, section := range sections {
		if section.Order == nil {
			continue
		}
		slots = append(slots, i)
		ordered = append(ordered, section)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return *ordered[i].Order < *ordered[j].Order
	})

	for i, slot := range slots {
		out[slot] = ordered[i]
	}
	return out
}
