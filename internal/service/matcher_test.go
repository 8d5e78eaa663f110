package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
)

func defaultIndex(t *testing.T) *dictionary.Index {
	t.Helper()
	idx, err := dictionary.LoadFrom(context.Background(), dictionary.NewEmbeddedSource())
	require.NoError(t, err)
	return idx
}

func TestFacetMatcher_Exact(t *testing.T) {
	idx := defaultIndex(t)

	tests := []struct {
		name   string
		facet  dictionary.Facet
		tokens string
		want   []string
	}{
		{name: "single word", facet: dictionary.ProductType, tokens: "modern sofa with ornate legs", want: []string{"Sofa"}},
		{name: "plural variant", facet: dictionary.Feature, tokens: "modern sofa with ornate legs", want: []string{"Ornate leg"}},
		{name: "longest phrase wins", facet: dictionary.ProductType, tokens: "glass coffee table", want: []string{"Coffee Table"}},
		{name: "multi word beats its parts", facet: dictionary.ProductType, tokens: "sofa cum bed", want: []string{"Sofa Bed"}},
		{name: "hyphen split form", facet: dictionary.Feature, tokens: "l-shaped sofa", want: []string{"L shape"}},
		{name: "hyphenated style", facet: dictionary.Style, tokens: "mid-century modern armchair", want: []string{"Mid-Century Modern"}},
		{name: "order of appearance", facet: dictionary.ProductType, tokens: "recliner or sofa", want: []string{"Recliner", "Sofa"}},
		{name: "duplicates collapse", facet: dictionary.ProductType, tokens: "sofa couch settee", want: []string{"Sofa"}},
		{name: "classification", facet: dictionary.Classification, tokens: "3-seater leather sofa", want: []string{"3 seater"}},
		{name: "nothing", facet: dictionary.Style, tokens: "sofa with storage", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFacetMatcher(DefaultDescriptor(tt.facet))
			got := m.Match(idx, strings.Fields(tt.tokens))
			for _, c := range got {
				assert.Equal(t, MethodExact, c.Method)
				assert.Equal(t, 1.0, c.Score)
				assert.Equal(t, tt.facet, c.Facet)
			}
			assert.Equal(t, tt.want, CanonicalTerms(got))
		})
	}
}

func TestFacetMatcher_Spans(t *testing.T) {
	idx := defaultIndex(t)
	m := NewFacetMatcher(DefaultDescriptor(dictionary.ProductType))

	got := m.Match(idx, strings.Fields("a glass coffee table and a sofa"))
	require.Len(t, got, 2)
	assert.Equal(t, MatchCandidate{Facet: dictionary.ProductType, Canonical: "Coffee Table", Score: 1, Method: MethodExact, Start: 2, End: 4}, got[0])
	assert.Equal(t, MatchCandidate{Facet: dictionary.ProductType, Canonical: "Sofa", Score: 1, Method: MethodExact, Start: 6, End: 7}, got[1])
}

func TestFacetMatcher_MergedForm(t *testing.T) {
	src := dictionary.Sources{
		dictionary.ProductType:    {Terms: map[string][]string{"Sofa": nil}},
		dictionary.Feature:        {Terms: map[string][]string{"Headboard": {"headboard"}}},
		dictionary.Style:          {Terms: map[string][]string{"Modern": nil}},
		dictionary.Classification: {Terms: map[string][]string{"2 seater": nil}},
	}
	idx, err := dictionary.Load(src)
	require.NoError(t, err)

	m := NewFacetMatcher(DefaultDescriptor(dictionary.Feature))
	got := m.Match(idx, []string{"bed", "with", "head-board"})
	require.Len(t, got, 1)
	assert.Equal(t, "Headboard", got[0].Canonical)
	assert.Equal(t, MethodExact, got[0].Method)
}

func TestFacetMatcher_Fuzzy(t *testing.T) {
	idx := defaultIndex(t)

	tests := []struct {
		name     string
		facet    dictionary.Facet
		tokens   string
		want     []string
		minScore float64
	}{
		{name: "joined words", facet: dictionary.Classification, tokens: "kingsize bed", want: []string{"King size"}, minScore: 0.8},
		{name: "misspelled phrase", facet: dictionary.ProductType, tokens: "dinning tabel", want: []string{"Dining Table"}, minScore: 0.75},
		{name: "short phrase skipped", facet: dictionary.ProductType, tokens: "bad", want: []string{}},
		{name: "stopword edge skipped", facet: dictionary.Style, tokens: "for", want: []string{}},
		{name: "digits skipped", facet: dictionary.Classification, tokens: "7 seatr", want: []string{}},
		{name: "below threshold", facet: dictionary.ProductType, tokens: "lamp shade", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFacetMatcher(DefaultDescriptor(tt.facet))
			got := m.Match(idx, strings.Fields(tt.tokens))
			assert.Equal(t, tt.want, CanonicalTerms(got))
			for _, c := range got {
				assert.Equal(t, MethodFuzzy, c.Method)
				assert.GreaterOrEqual(t, c.Score, tt.minScore)
				assert.Less(t, c.Score, 1.0)
			}
		})
	}
}

func TestFacetMatcher_ExactBeatsFuzzy(t *testing.T) {
	idx := defaultIndex(t)
	m := NewFacetMatcher(DefaultDescriptor(dictionary.Style))

	// "a modern" is close to "modern" but the exact single word is consumed first
	got := m.Match(idx, strings.Fields("a modern sofa"))
	require.Len(t, got, 1)
	assert.Equal(t, MethodExact, got[0].Method)
	assert.Equal(t, 1, got[0].Start)
}

func TestFacetMatcher_EmptyInput(t *testing.T) {
	idx := defaultIndex(t)
	m := NewFacetMatcher(DefaultDescriptor(dictionary.ProductType))
	assert.Empty(t, m.Match(idx, nil))
	assert.Equal(t, []string{}, CanonicalTerms(nil))
}

func TestFacetMatcher_ContextWords(t *testing.T) {
	idx := defaultIndex(t)
	m := NewFacetMatcher(DefaultDescriptor(dictionary.Feature))

	tests := []struct {
		name   string
		tokens string
		want   []string
	}{
		{name: "next to furniture", tokens: "leather sofa", want: []string{"Leather upholstery"}},
		{name: "two tokens away", tokens: "faux leather reclining chair", want: []string{"Leather upholstery"}},
		{name: "substring of a part", tokens: "leather 3-seater", want: []string{"Leather upholstery"}},
		{name: "no furniture nearby", tokens: "leather jacket", want: []string{}},
		{name: "furniture too far", tokens: "leather jacket and matching wooden sofa", want: []string{}},
		{name: "other features unaffected", tokens: "velvet with storage", want: []string{"Fabric upholstery", "Storage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalTerms(m.Match(idx, strings.Fields(tt.tokens))))
		})
	}
}

func TestFacetMatcher_Exclusive(t *testing.T) {
	idx := defaultIndex(t)
	m := NewFacetMatcher(DefaultDescriptor(dictionary.Feature))

	assert.Equal(t, []string{"L shape"}, CanonicalTerms(m.Match(idx, strings.Fields("l-shaped or c-shaped sofa"))))
	assert.Equal(t, []string{"C shape", "Storage"}, CanonicalTerms(m.Match(idx, strings.Fields("c shape sofa not l shape with storage"))))
	assert.Equal(t, []string{"L shape"}, CanonicalTerms(m.Match(idx, strings.Fields("l shape sectional"))))
}

func TestDefaultDescriptor(t *testing.T) {
	assert.Equal(t, DefaultMinSimilarity, DefaultDescriptor(dictionary.Style).MinSimilarity)
	assert.Equal(t, DefaultClassificationMinSimilarity, DefaultDescriptor(dictionary.Classification).MinSimilarity)
	assert.Equal(t, DefaultMinFuzzyLength, DefaultDescriptor(dictionary.Feature).MinFuzzyLength)
}

func TestFuzzyBudget(t *testing.T) {
	assert.Equal(t, 1, fuzzyBudget("sofaa", 0.75))
	assert.Equal(t, 2, fuzzyBudget("kingsize", 0.8))
	assert.Equal(t, 4, fuzzyBudget("dinning tabel", 0.75))
	assert.Equal(t, 1, fuzzyBudget("bed", 0.75))
	assert.Equal(t, 0, fuzzyBudget("bed", 0.8))
}
