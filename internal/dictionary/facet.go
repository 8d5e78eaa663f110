// Package dictionary builds the immutable vocabulary index the query parser matches against.
package dictionary

import (
	"fmt"
	"strings"
)

// Facet names one axis of query understanding.
type Facet int

const (
	ProductType Facet = iota
	Feature
	Style
	Classification
)

// AllFacets lists every facet in load order.
var AllFacets = []Facet{ProductType, Feature, Style, Classification}

var facetNames = map[Facet]string{
	ProductType:    "product_type",
	Feature:        "feature",
	Style:          "style",
	Classification: "classification",
}

// String returns the snake_case name used in file names and database rows.
func (f Facet) String() string {
	if name, ok := facetNames[f]; ok {
		return name
	}
	return fmt.Sprintf("facet(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Facet) MarshalText() ([]byte, error) {
	if _, ok := facetNames[f]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFacet, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Facet) UnmarshalText(text []byte) error {
	parsed, err := ParseFacet(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFacet resolves a facet name. Hyphens and case are ignored.
func ParseFacet(name string) (Facet, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for f, n := range facetNames {
		if n == normalized {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFacet, name)
}

func (f Facet) valid() bool {
	_, ok := facetNames[f]
	return ok
}
