// tags.go - Tag list shared by journal entries and records

package models

import "strings"

// Tags keeps insertion order for display; matching ignores order.
type Tags []string

// Normalize trims tags, drops blanks and duplicates, and never returns nil.
func (t Tags) Normalize() Tags {
	out := make(Tags, 0, len(t))
	seen := make(map[string]struct{}, len(t))
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (t Tags) Has(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// HasAll reports whether every tag in want is present, in any order.
func (t Tags) HasAll(want Tags) bool {
	for _, tag := range want {
		if !t.Has(tag) {
			return false
		}
	}
	return true
}
