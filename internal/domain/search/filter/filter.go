package filter

import "strings"

// Facet is one filter dimension.
type Facet string

// Facet constants, in the order they are sent upstream.
const (
	Category Facet = "category"
	Style    Facet = "style"
	Occasion Facet = "occasion"
)

// Facets lists every facet in wire order.
var Facets = []Facet{Category, Style, Occasion}

// catalog holds the selectable values per facet, without the "All" entry.
var catalog = map[Facet][]string{
	Category: {
		"Dresses", "Tops", "Bottoms", "Outerwear", "Shoes",
		"Accessories", "Activewear", "Formal", "Casual",
	},
	Style: {
		"Casual", "Formal", "Business", "Bohemian", "Minimalist",
		"Vintage", "Trendy", "Classic", "Edgy",
	},
	Occasion: {
		"Work", "Weekend", "Date Night", "Party", "Wedding",
		"Travel", "Gym", "Beach", "Formal Event",
	},
}

// allLabels are the "no constraint" sentinels shown at the top of each list.
var allLabels = map[Facet]string{
	Category: "All Categories",
	Style:    "All Styles",
	Occasion: "All Occasions",
}

// IsValid reports whether f is a known facet.
func (f Facet) IsValid() bool {
	_, ok := catalog[f]
	return ok
}

// AllLabel returns the sentinel label meaning "any value" for the facet.
func (f Facet) AllLabel() string { return allLabels[f] }

// Options returns a copy of the selectable values for the facet.
func (f Facet) Options() []string {
	src := catalog[f]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Set is the current filter selection. Empty fields mean no constraint.
type Set struct {
	Category string `json:"category"`
	Style    string `json:"style"`
	Occasion string `json:"occasion"`
}

// New builds a normalized Set.
func New(category, style, occasion string) Set {
	return Set{
		Category: normalizeValue(Category, category),
		Style:    normalizeValue(Style, style),
		Occasion: normalizeValue(Occasion, occasion),
	}
}

// Normalized returns s with sentinels mapped to empty and whitespace trimmed.
func (s Set) Normalized() Set {
	return New(s.Category, s.Style, s.Occasion)
}

// Get returns the value selected for a facet.
func (s Set) Get(f Facet) string {
	switch f {
	case Category:
		return s.Category
	case Style:
		return s.Style
	case Occasion:
		return s.Occasion
	default:
		return ""
	}
}

// With returns a copy of s with one facet replaced (normalized).
func (s Set) With(f Facet, value string) Set {
	v := normalizeValue(f, value)
	switch f {
	case Category:
		s.Category = v
	case Style:
		s.Style = v
	case Occasion:
		s.Occasion = v
	}
	return s
}

// IsEmpty reports whether no facet is constrained.
func (s Set) IsEmpty() bool {
	n := s.Normalized()
	return n.Category == "" && n.Style == "" && n.Occasion == ""
}

// Fields returns the non-empty facets as form fields, keyed by facet name.
func (s Set) Fields() map[string]string {
	n := s.Normalized()
	out := make(map[string]string, len(Facets))
	for _, f := range Facets {
		if v := n.Get(f); v != "" {
			out[string(f)] = v
		}
	}
	return out
}

func normalizeValue(f Facet, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if label, ok := allLabels[f]; ok && strings.EqualFold(v, label) {
		return ""
	}
	return v
}
