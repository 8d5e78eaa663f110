package dictionary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/confluence-ai/query-analyzer/internal/textutil"
	"github.com/confluence-ai/query-analyzer/internal/utils"
)

// FuzzyCandidate is one canonical term close to a phrase.
type FuzzyCandidate struct {
	Canonical  string  `json:"canonical"`
	Variant    string  `json:"variant"`
	Distance   int     `json:"distance"`
	Similarity float64 `json:"similarity"`
}

type variantEntry struct {
	key       string
	canonical string
}

type facetIndex struct {
	exact     map[string]string
	variants  []variantEntry
	terms     []string
	maxPhrase int
}

// Index is the read-only vocabulary snapshot for all facets.
// It is safe for concurrent use once Load returns.
type Index struct {
	facets   map[Facet]*facetIndex
	words    map[string]struct{}
	wordList []string
	implied  map[string]map[string]float64
	version  string
}

// Load validates the raw vocabularies and builds an Index.
// Every facet in AllFacets must be present and non-empty.
func Load(sources Sources) (*Index, error) {
	for f := range sources {
		if !f.valid() {
			return nil, &LoadError{Facet: f, Reason: "source for unsupported facet", Err: ErrUnknownFacet}
		}
	}

	idx := &Index{
		facets:  make(map[Facet]*facetIndex, len(AllFacets)),
		words:   make(map[string]struct{}),
		implied: make(map[string]map[string]float64),
	}

	for _, f := range AllFacets {
		src := sources[f]
		if src == nil || len(src.Terms) == 0 {
			return nil, &LoadError{Facet: f, Reason: "no vocabulary", Err: ErrSourceMissing}
		}
		if f != Classification && len(src.Implied) > 0 {
			return nil, &LoadError{Facet: f, Reason: "implied classifications are only allowed in the classification source"}
		}

		fi, err := buildFacet(f, src)
		if err != nil {
			return nil, err
		}
		idx.facets[f] = fi

		for _, v := range fi.variants {
			for _, w := range strings.Fields(v.key) {
				idx.words[w] = struct{}{}
			}
		}
	}

	if err := idx.loadImplied(sources[Classification].Implied); err != nil {
		return nil, err
	}

	idx.wordList = make([]string, 0, len(idx.words))
	for w := range idx.words {
		idx.wordList = append(idx.wordList, w)
	}
	sort.Strings(idx.wordList)
	idx.version = idx.computeVersion()

	return idx, nil
}

func buildFacet(f Facet, src *FacetSource) (*facetIndex, error) {
	fi := &facetIndex{exact: make(map[string]string)}

	canonicals := make([]string, 0, len(src.Terms))
	for c := range src.Terms {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	register := func(canonical, variant string) error {
		key := textutil.Key(variant)
		if key == "" {
			return &LoadError{Facet: f, Term: canonical, Variant: variant, Reason: "variant normalizes to empty"}
		}
		if existing, ok := fi.exact[key]; ok {
			if existing != canonical {
				return &LoadError{
					Facet:   f,
					Term:    canonical,
					Variant: variant,
					Reason:  fmt.Sprintf("variant already maps to %q", existing),
				}
			}
			return nil
		}
		fi.exact[key] = canonical
		fi.variants = append(fi.variants, variantEntry{key: key, canonical: canonical})
		if n := len(strings.Fields(key)); n > fi.maxPhrase {
			fi.maxPhrase = n
		}
		return nil
	}

	seen := make(map[string]string, len(canonicals))
	for _, raw := range canonicals {
		canonical := strings.TrimSpace(raw)
		if canonical == "" {
			return nil, &LoadError{Facet: f, Reason: "empty canonical term"}
		}
		if prev, dup := seen[canonical]; dup && prev != raw {
			return nil, &LoadError{Facet: f, Term: canonical, Reason: "canonical term declared twice"}
		}
		seen[canonical] = raw

		if err := register(canonical, canonical); err != nil {
			return nil, err
		}
		for _, v := range src.Terms[raw] {
			if err := register(canonical, v); err != nil {
				return nil, err
			}
		}
		fi.terms = append(fi.terms, canonical)
	}

	sort.Strings(fi.terms)
	sort.Slice(fi.variants, func(i, j int) bool {
		return fi.variants[i].key < fi.variants[j].key
	})
	return fi, nil
}

func (idx *Index) loadImplied(implied map[string]map[string]float64) error {
	products := idx.facets[ProductType]
	classes := idx.facets[Classification]

	for productType, defaults := range implied {
		if !containsTerm(products.terms, productType) {
			return &LoadError{Facet: Classification, Term: productType, Reason: "implied classification names an unknown product type"}
		}
		out := make(map[string]float64, len(defaults))
		for class, confidence := range defaults {
			if !containsTerm(classes.terms, class) {
				return &LoadError{Facet: Classification, Term: class, Reason: "implied classification names an unknown classification"}
			}
			if confidence <= 0 || confidence > 1 {
				return &LoadError{Facet: Classification, Term: class, Reason: fmt.Sprintf("implied confidence %g outside (0, 1]", confidence)}
			}
			out[class] = confidence
		}
		idx.implied[productType] = out
	}
	return nil
}

func containsTerm(sorted []string, term string) bool {
	i := sort.SearchStrings(sorted, term)
	return i < len(sorted) && sorted[i] == term
}

// computeVersion hashes every (facet, variant, canonical) triple and the implied table.
func (idx *Index) computeVersion() string {
	h := sha256.New()
	for _, f := range AllFacets {
		for _, v := range idx.facets[f].variants {
			fmt.Fprintf(h, "%s\t%s\t%s\n", f, v.key, v.canonical)
		}
	}

	products := make([]string, 0, len(idx.implied))
	for p := range idx.implied {
		products = append(products, p)
	}
	sort.Strings(products)
	for _, p := range products {
		classes := make([]string, 0, len(idx.implied[p]))
		for c := range idx.implied[p] {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			fmt.Fprintf(h, "implied\t%s\t%s\t%g\n", p, c, idx.implied[p][c])
		}
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}

// LookupExact returns the canonical term whose variant equals the folded phrase.
func (idx *Index) LookupExact(f Facet, phrase string) (string, bool) {
	fi, ok := idx.facets[f]
	if !ok {
		return "", false
	}
	canonical, ok := fi.exact[textutil.Key(phrase)]
	return canonical, ok
}

// CandidatesFuzzy returns canonical terms with a variant within maxDistance edits of phrase.
// Each canonical term appears once with its best variant. Results are ordered by
// similarity, then shorter canonical term, then lexical order.
func (idx *Index) CandidatesFuzzy(f Facet, phrase string, maxDistance int) []FuzzyCandidate {
	fi, ok := idx.facets[f]
	key := textutil.Key(phrase)
	if !ok || key == "" || maxDistance < 0 {
		return nil
	}

	best := make(map[string]FuzzyCandidate)
	for _, v := range fi.variants {
		d, ok := utils.WithinDistance(key, v.key, maxDistance)
		if !ok {
			continue
		}
		sim := similarityFromDistance(key, v.key, d)
		if prev, seen := best[v.canonical]; seen && prev.Similarity >= sim {
			continue
		}
		best[v.canonical] = FuzzyCandidate{
			Canonical:  v.canonical,
			Variant:    v.key,
			Distance:   d,
			Similarity: sim,
		}
	}

	out := make([]FuzzyCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		li, lj := utils.RuneLen(out[i].Canonical), utils.RuneLen(out[j].Canonical)
		if li != lj {
			return li < lj
		}
		return out[i].Canonical < out[j].Canonical
	})
	return out
}

func similarityFromDistance(a, b string, d int) float64 {
	longest := max(utils.RuneLen(a), utils.RuneLen(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(d)/float64(longest)
}

// MaxPhraseLen is the longest variant of the facet, in words.
func (idx *Index) MaxPhraseLen(f Facet) int {
	if fi, ok := idx.facets[f]; ok {
		return fi.maxPhrase
	}
	return 0
}

// Words returns every word appearing in any variant of any facet, sorted.
func (idx *Index) Words() []string {
	return idx.wordList
}

// HasWord reports whether word appears in the union vocabulary.
func (idx *Index) HasWord(word string) bool {
	_, ok := idx.words[word]
	return ok
}

// Terms returns the canonical terms of a facet in lexical order.
func (idx *Index) Terms(f Facet) []string {
	fi, ok := idx.facets[f]
	if !ok {
		return nil
	}
	out := make([]string, len(fi.terms))
	copy(out, fi.terms)
	return out
}

// PrefixTerms returns canonical terms having a variant that starts with prefix.
// A limit of zero or less returns every match.
func (idx *Index) PrefixTerms(f Facet, prefix string, limit int) []string {
	fi, ok := idx.facets[f]
	key := textutil.Key(prefix)
	if !ok || key == "" {
		return nil
	}

	// variants are sorted, so matching keys form one contiguous run
	start := sort.Search(len(fi.variants), func(i int) bool {
		return fi.variants[i].key >= key
	})
	seen := make(map[string]struct{})
	var out []string
	for i := start; i < len(fi.variants) && strings.HasPrefix(fi.variants[i].key, key); i++ {
		c := fi.variants[i].canonical
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Implied returns the default classifications of a product type.
func (idx *Index) Implied(productType string) map[string]float64 {
	defaults, ok := idx.implied[productType]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// Version is a stable content hash of the vocabulary.
func (idx *Index) Version() string {
	return idx.version
}

// Stats returns the number of canonical terms per facet.
func (idx *Index) Stats() map[string]int {
	out := make(map[string]int, len(idx.facets))
	for f, fi := range idx.facets {
		out[f.String()] = len(fi.terms)
	}
	return out
}
