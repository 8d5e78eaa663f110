package dictionary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSources() Sources {
	return Sources{
		ProductType: {Terms: map[string][]string{
			"Sofa":     {"sofa", "couch"},
			"Sofa Bed": {"sofa-cum-bed"},
			"Bed":      {"cot"},
		}},
		Feature: {Terms: map[string][]string{
			"L shape":    {"l-shape", "lshape"},
			"Ornate leg": {"ornate legs"},
		}},
		Style: {Terms: map[string][]string{
			"Modern":             {"contemporary"},
			"Mid-Century Modern": {"mid century"},
		}},
		Classification: {
			Terms: map[string][]string{
				"2 seater": {"two seater", "loveseat"},
				"3 seater": {"three seater"},
			},
			Implied: map[string]map[string]float64{
				"Sofa": {"2 seater": 1.0},
			},
		},
	}
}

func mustLoad(t *testing.T, src Sources) *Index {
	t.Helper()
	idx, err := Load(src)
	require.NoError(t, err)
	return idx
}

func TestLoad_Default(t *testing.T) {
	idx, err := LoadFrom(context.Background(), NewEmbeddedSource())
	require.NoError(t, err)

	for _, f := range AllFacets {
		assert.NotEmpty(t, idx.Terms(f), f.String())
	}
	assert.Equal(t, map[string]float64{"2 seater": 1.0}, idx.Implied("Sofa"))
	assert.Len(t, idx.Version(), 16)
}

func TestLookupExact(t *testing.T) {
	idx := mustLoad(t, testSources())

	tests := []struct {
		name   string
		facet  Facet
		phrase string
		want   string
		ok     bool
	}{
		{name: "canonical registered as its own variant", facet: ProductType, phrase: "Sofa", want: "Sofa", ok: true},
		{name: "variant", facet: ProductType, phrase: "couch", want: "Sofa", ok: true},
		{name: "case and spacing folded", facet: ProductType, phrase: "  COUCH ", want: "Sofa", ok: true},
		{name: "hyphenated variant keyed in split form", facet: Feature, phrase: "l shape", want: "L shape", ok: true},
		{name: "hyphenated phrase looked up split", facet: Feature, phrase: "L-Shape", want: "L shape", ok: true},
		{name: "merged variant", facet: Feature, phrase: "lshape", want: "L shape", ok: true},
		{name: "multi word", facet: ProductType, phrase: "sofa cum bed", want: "Sofa Bed", ok: true},
		{name: "wrong facet", facet: Style, phrase: "sofa", ok: false},
		{name: "unknown", facet: ProductType, phrase: "table", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idx.LookupExact(tt.facet, tt.phrase)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(Sources)
		wantErr error
		reason  string
	}{
		{
			name:    "missing facet",
			mutate:  func(s Sources) { delete(s, Style) },
			wantErr: ErrSourceMissing,
		},
		{
			name:    "empty facet",
			mutate:  func(s Sources) { s[Feature] = &FacetSource{} },
			wantErr: ErrSourceMissing,
		},
		{
			name:   "empty canonical",
			mutate: func(s Sources) { s[Style].Terms["  "] = []string{"plain"} },
			reason: "empty canonical term",
		},
		{
			name:   "variant normalizing to empty",
			mutate: func(s Sources) { s[Style].Terms["Modern"] = []string{"!!"} },
			reason: "variant normalizes to empty",
		},
		{
			name:   "variant claimed by two canonicals",
			mutate: func(s Sources) { s[ProductType].Terms["Bed"] = []string{"couch"} },
			reason: `variant already maps to "Bed"`,
		},
		{
			name: "implied outside classification",
			mutate: func(s Sources) {
				s[Style].Implied = map[string]map[string]float64{"Sofa": {"2 seater": 1}}
			},
			reason: "implied classifications are only allowed in the classification source",
		},
		{
			name: "implied unknown product type",
			mutate: func(s Sources) {
				s[Classification].Implied = map[string]map[string]float64{"Table": {"2 seater": 1}}
			},
			reason: "implied classification names an unknown product type",
		},
		{
			name: "implied confidence out of range",
			mutate: func(s Sources) {
				s[Classification].Implied = map[string]map[string]float64{"Sofa": {"2 seater": 1.5}}
			},
			reason: "implied confidence 1.5 outside (0, 1]",
		},
		{
			name:    "unsupported facet",
			mutate:  func(s Sources) { s[Facet(42)] = &FacetSource{Terms: map[string][]string{"x": nil}} },
			wantErr: ErrUnknownFacet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testSources()
			tt.mutate(src)

			idx, err := Load(src)
			require.Error(t, err)
			assert.Nil(t, idx)
			assert.True(t, errors.Is(err, ErrDictionaryLoad))

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
			if tt.reason != "" {
				assert.Equal(t, tt.reason, loadErr.Reason)
			}
		})
	}
}

func TestCandidatesFuzzy(t *testing.T) {
	idx := mustLoad(t, testSources())

	got := idx.CandidatesFuzzy(ProductType, "sofaa", 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "Sofa", got[0].Canonical)
	assert.Equal(t, 1, got[0].Distance)
	assert.InDelta(t, 0.8, got[0].Similarity, 1e-9)

	// One entry per canonical term
	seen := map[string]bool{}
	for _, c := range got {
		assert.False(t, seen[c.Canonical], c.Canonical)
		seen[c.Canonical] = true
	}

	assert.Empty(t, idx.CandidatesFuzzy(ProductType, "wardrobe", 2))
	assert.Empty(t, idx.CandidatesFuzzy(ProductType, "", 2))
}

func TestCandidatesFuzzy_Ordering(t *testing.T) {
	src := testSources()
	src[ProductType] = &FacetSource{Terms: map[string][]string{
		"Cat":   {"cat"},
		"Cot":   {"cot"},
		"Coats": {"cut"},
	}}
	src[Classification].Implied = nil
	idx := mustLoad(t, src)

	got := idx.CandidatesFuzzy(ProductType, "cxt", 1)
	require.Len(t, got, 3)
	// equal similarity: shorter canonical first, then lexical
	assert.Equal(t, []string{"Cat", "Cot", "Coats"}, []string{got[0].Canonical, got[1].Canonical, got[2].Canonical})
}

func TestWordsAndPhraseLength(t *testing.T) {
	idx := mustLoad(t, testSources())

	assert.True(t, idx.HasWord("sofa"))
	assert.True(t, idx.HasWord("seater"))
	assert.True(t, idx.HasWord("cum"))
	assert.False(t, idx.HasWord("table"))
	assert.IsIncreasing(t, idx.Words())

	assert.Equal(t, 3, idx.MaxPhraseLen(ProductType))
	assert.Equal(t, 2, idx.MaxPhraseLen(Feature))
	assert.Equal(t, 3, idx.MaxPhraseLen(Style))
}

func TestPrefixTerms(t *testing.T) {
	idx := mustLoad(t, testSources())

	assert.Equal(t, []string{"Mid-Century Modern", "Modern"}, idx.PrefixTerms(Style, "m", 0))
	assert.Equal(t, []string{"Mid-Century Modern"}, idx.PrefixTerms(Style, "Mid", 10))
	assert.Equal(t, []string{"Modern"}, idx.PrefixTerms(Style, "cont", 10))
	assert.Len(t, idx.PrefixTerms(Style, "m", 1), 1)
	assert.Nil(t, idx.PrefixTerms(Style, "", 10))
}

func TestVersion(t *testing.T) {
	a := mustLoad(t, testSources())
	b := mustLoad(t, testSources())
	assert.Equal(t, a.Version(), b.Version(), "same content must hash the same")

	changed := testSources()
	changed[Style].Terms["Rustic"] = []string{"farmhouse"}
	c := mustLoad(t, changed)
	assert.NotEqual(t, a.Version(), c.Version())
}

func TestImpliedReturnsCopy(t *testing.T) {
	idx := mustLoad(t, testSources())

	implied := idx.Implied("Sofa")
	implied["2 seater"] = 0.1
	assert.Equal(t, 1.0, idx.Implied("Sofa")["2 seater"])
	assert.Nil(t, idx.Implied("Bed"))
}

func TestStats(t *testing.T) {
	idx := mustLoad(t, testSources())
	assert.Equal(t, map[string]int{
		"product_type":   3,
		"feature":        2,
		"style":          2,
		"classification": 2,
	}, idx.Stats())
}

func TestParseFacet(t *testing.T) {
	f, err := ParseFacet("Product-Type")
	require.NoError(t, err)
	assert.Equal(t, ProductType, f)

	_, err = ParseFacet("color")
	assert.ErrorIs(t, err, ErrUnknownFacet)

	text, err := Classification.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "classification", string(text))

	var back Facet
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, Classification, back)
}
