package replacements

// LegendGroup lists the markers of one category.
type LegendGroup struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Patterns []Pattern `json:"patterns"`
}

// Legend is the ordered set of marker groups shown to editors. It is metadata
// only and has no effect on substitution.
type Legend []LegendGroup

// Group returns the named group.
func (l Legend) Group(name string) (LegendGroup, bool) {
	for _, group := range l {
		if group.Name == name {
			return group, true
		}
	}
	return LegendGroup{}, false
}

// Without returns a copy of the legend with the named group removed.
func (l Legend) Without(name string) Legend {
	out := make(Legend, 0, len(l))
	for _, group := range l {
		if group.Name != name {
			out = append(out, cloneGroup(group))
		}
	}
	return out
}

// WithoutPatterns returns a copy of the legend with keys dropped from the
// named group.
func (l Legend) WithoutPatterns(name string, keys ...string) Legend {
	drop := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		drop[key] = struct{}{}
	}
	out := make(Legend, 0, len(l))
	for _, group := range l {
		copied := cloneGroup(group)
		if group.Name == name {
			kept := copied.Patterns[:0]
			for _, pattern := range copied.Patterns {
				if _, ok := drop[pattern.Key]; !ok {
					kept = append(kept, pattern)
				}
			}
			copied.Patterns = kept
		}
		out = append(out, copied)
	}
	return out
}

// Merge appends the groups of other, combining groups sharing a name.
func (l Legend) Merge(other Legend) Legend {
	out := make(Legend, 0, len(l)+len(other))
	for _, group := range l {
		out = append(out, cloneGroup(group))
	}
	for _, group := range other {
		merged := false
		for i := range out {
			if out[i].Name == group.Name {
				out[i].Patterns = append(out[i].Patterns, group.Patterns...)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, cloneGroup(group))
		}
	}
	return out
}

func cloneGroup(group LegendGroup) LegendGroup {
	copied := group
	copied.Patterns = append([]Pattern(nil), group.Patterns...)
	return copied
}
