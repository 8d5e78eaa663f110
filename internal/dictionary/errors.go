package dictionary

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDictionaryLoad is the root of every vocabulary loading failure.
	ErrDictionaryLoad = errors.New("dictionary load failed")
	// ErrUnknownFacet is returned for facet names outside AllFacets.
	ErrUnknownFacet = errors.New("unknown facet")
	// ErrSourceMissing means a source provided no vocabulary for a facet.
	ErrSourceMissing = errors.New("facet source missing")
)

// LoadError describes which entry made a vocabulary unusable.
type LoadError struct {
	Facet   Facet
	Term    string
	Variant string
	Reason  string
	Err     error
}

func (e *LoadError) Error() string {
	parts := []string{fmt.Sprintf("facet=%s", e.Facet)}
	if e.Term != "" {
		parts = append(parts, fmt.Sprintf("term=%q", e.Term))
	}
	if e.Variant != "" {
		parts = append(parts, fmt.Sprintf("variant=%q", e.Variant))
	}
	msg := fmt.Sprintf("%s: %s (%s)", ErrDictionaryLoad, e.Reason, strings.Join(parts, " "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap lets errors.Is match both ErrDictionaryLoad and the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrDictionaryLoad, e.Err}
	}
	return []error{ErrDictionaryLoad}
}
