package service

import (
	"math"
	"sort"
	"strings"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/textutil"
	"github.com/confluence-ai/query-analyzer/internal/utils"
)

// Default fuzzy thresholds
const (
	DefaultMinSimilarity               = 0.75
	DefaultClassificationMinSimilarity = 0.8
	DefaultMinFuzzyLength              = 4
)

// MatchMethod records how a candidate was found
type MatchMethod string

const (
	MethodExact MatchMethod = "exact"
	MethodFuzzy MatchMethod = "fuzzy"
)

// MatchCandidate is one dictionary hit covering tokens [Start, End)
type MatchCandidate struct {
	Facet     dictionary.Facet `json:"facet"`
	Canonical string           `json:"canonical"`
	Score     float64          `json:"score"`
	Method    MatchMethod      `json:"method"`
	Start     int              `json:"start"`
	End       int              `json:"end"`
}

// FacetDescriptor configures a FacetMatcher
type FacetDescriptor struct {
	Facet         dictionary.Facet
	MinSimilarity float64
	// MinFuzzyLength is the shortest phrase, in runes, tried fuzzily
	MinFuzzyLength int
	// ContextWords limits a canonical term to hits with one of its words
	// (substring match) within ContextSpan tokens on either side
	ContextWords map[string][]string
	ContextSpan  int
	// Exclusive groups terms that are never reported together; the first one in the query stays
	Exclusive [][]string
}

// furnitureParts anchor material words such as "leather" to a piece of furniture
var furnitureParts = []string{"sofa", "couch", "settee", "chair", "recliner", "ottoman", "bed", "back", "seat", "arm", "cushion"}

// DefaultDescriptor returns the stock thresholds for a facet
func DefaultDescriptor(f dictionary.Facet) FacetDescriptor {
	desc := FacetDescriptor{
		Facet:          f,
		MinSimilarity:  DefaultMinSimilarity,
		MinFuzzyLength: DefaultMinFuzzyLength,
	}
	switch f {
	case dictionary.Classification:
		desc.MinSimilarity = DefaultClassificationMinSimilarity
	case dictionary.Feature:
		desc.ContextWords = map[string][]string{"Leather upholstery": furnitureParts}
		desc.ContextSpan = 2
		desc.Exclusive = [][]string{{"L shape", "C shape"}}
	}
	return desc
}

// FacetMatcher finds the terms of one facet in a token sequence.
// It is stateless and safe for concurrent use.
type FacetMatcher struct {
	desc FacetDescriptor
}

// NewFacetMatcher creates a matcher for desc
func NewFacetMatcher(desc FacetDescriptor) *FacetMatcher {
	return &FacetMatcher{desc: desc}
}

// Facet returns the facet this matcher searches
func (m *FacetMatcher) Facet() dictionary.Facet {
	return m.desc.Facet
}

// Match runs an exact sweep and then a fuzzy sweep over the tokens.
// Both sweeps try the longest windows first and never reuse a consumed token,
// so an exact hit always wins over a fuzzy one on the same tokens.
func (m *FacetMatcher) Match(idx *dictionary.Index, tokens []string) []MatchCandidate {
	maxLen := min(idx.MaxPhraseLen(m.desc.Facet), len(tokens))
	if maxLen == 0 {
		return nil
	}

	consumed := make([]bool, len(tokens))
	var out []MatchCandidate

	for size := maxLen; size >= 1; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			if anyConsumed(consumed, start, start+size) {
				continue
			}
			canonical, ok := m.lookupExact(idx, tokens[start:start+size])
			if !ok || !m.inContext(canonical, tokens, start, start+size) {
				continue
			}
			out = append(out, MatchCandidate{
				Facet:     m.desc.Facet,
				Canonical: canonical,
				Score:     1.0,
				Method:    MethodExact,
				Start:     start,
				End:       start + size,
			})
			markConsumed(consumed, start, start+size)
		}
	}

	for size := maxLen; size >= 1; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			if anyConsumed(consumed, start, start+size) {
				continue
			}
			window := tokens[start : start+size]
			if !m.fuzzyEligible(window) {
				continue
			}
			phrase := splitForm(window)
			best, ok := m.bestFuzzy(idx, phrase)
			if !ok || !m.inContext(best.Canonical, tokens, start, start+size) {
				continue
			}
			out = append(out, MatchCandidate{
				Facet:     m.desc.Facet,
				Canonical: best.Canonical,
				Score:     best.Similarity,
				Method:    MethodFuzzy,
				Start:     start,
				End:       start + size,
			})
			markConsumed(consumed, start, start+size)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return m.dropExcluded(out)
}

// inContext checks the ContextWords of canonical against the tokens around [start, end)
func (m *FacetMatcher) inContext(canonical string, tokens []string, start, end int) bool {
	words, ok := m.desc.ContextWords[canonical]
	if !ok {
		return true
	}
	from := max(0, start-m.desc.ContextSpan)
	to := min(len(tokens), end+m.desc.ContextSpan)
	for i := from; i < to; i++ {
		if i >= start && i < end {
			continue
		}
		for _, w := range words {
			if strings.Contains(tokens[i], w) {
				return true
			}
		}
	}
	return false
}

// dropExcluded keeps only the earliest term of each exclusive group. out is position ordered.
func (m *FacetMatcher) dropExcluded(out []MatchCandidate) []MatchCandidate {
	if len(m.desc.Exclusive) == 0 {
		return out
	}
	group := make(map[string]int)
	for g, terms := range m.desc.Exclusive {
		for _, t := range terms {
			group[t] = g
		}
	}

	winner := make(map[int]string)
	kept := out[:0]
	for _, c := range out {
		g, ok := group[c.Canonical]
		if ok {
			if w, taken := winner[g]; taken && w != c.Canonical {
				continue
			}
			winner[g] = c.Canonical
		}
		kept = append(kept, c)
	}
	return kept
}

// lookupExact tries the split form first and the merged form second
func (m *FacetMatcher) lookupExact(idx *dictionary.Index, window []string) (string, bool) {
	split := splitForm(window)
	if canonical, ok := idx.LookupExact(m.desc.Facet, split); ok {
		return canonical, true
	}
	merged := mergedForm(window)
	if merged == split {
		return "", false
	}
	return idx.LookupExact(m.desc.Facet, merged)
}

func (m *FacetMatcher) fuzzyEligible(window []string) bool {
	if textutil.IsStopword(window[0]) || textutil.IsStopword(window[len(window)-1]) {
		return false
	}
	for _, tok := range window {
		if textutil.ContainsDigit(tok) {
			return false
		}
	}
	return utils.RuneLen(splitForm(window)) >= m.desc.MinFuzzyLength
}

func (m *FacetMatcher) bestFuzzy(idx *dictionary.Index, phrase string) (dictionary.FuzzyCandidate, bool) {
	for _, c := range idx.CandidatesFuzzy(m.desc.Facet, phrase, fuzzyBudget(phrase, m.desc.MinSimilarity)) {
		// candidates are sorted, the first one clearing the threshold is the best
		if c.Similarity >= m.desc.MinSimilarity {
			return c, true
		}
	}
	return dictionary.FuzzyCandidate{}, false
}

// fuzzyBudget is the largest edit distance that can still reach minSimilarity.
// With d <= (1-t)*max(a, b) and max(a, b) <= a + d it follows that d <= a*(1-t)/t.
func fuzzyBudget(phrase string, minSimilarity float64) int {
	if minSimilarity <= 0 {
		return utils.RuneLen(phrase)
	}
	n := float64(utils.RuneLen(phrase))
	return int(math.Floor(n*(1-minSimilarity)/minSimilarity + 1e-9))
}

func splitForm(window []string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(strings.Join(window, " "), "-", " ")), " ")
}

func mergedForm(window []string) string {
	return textutil.Merge(strings.Join(window, " "))
}

func anyConsumed(consumed []bool, from, to int) bool {
	for i := from; i < to; i++ {
		if consumed[i] {
			return true
		}
	}
	return false
}

func markConsumed(consumed []bool, from, to int) {
	for i := from; i < to; i++ {
		consumed[i] = true
	}
}

// CanonicalTerms returns distinct canonical terms ordered by first position in the query
func CanonicalTerms(candidates []MatchCandidate) []string {
	ordered := make([]MatchCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	terms := make([]string, 0, len(ordered))
	seen := make(map[string]struct{}, len(ordered))
	for _, c := range ordered {
		if _, dup := seen[c.Canonical]; dup {
			continue
		}
		seen[c.Canonical] = struct{}{}
		terms = append(terms, c.Canonical)
	}
	return terms
}
