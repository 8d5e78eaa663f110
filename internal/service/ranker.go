package service

import (
	"sort"
	"strings"

	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/textutil"
	"github.com/confluence-ai/query-analyzer/internal/utils"
)

// Ranker orders autocomplete candidates against the typed prefix
type Ranker struct {
	weightPrefix     float64
	weightSimilarity float64
	weightBrevity    float64
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightPrefix, weightSimilarity, weightBrevity float64) *Ranker {
	return &Ranker{
		weightPrefix:     weightPrefix,
		weightSimilarity: weightSimilarity,
		weightBrevity:    weightBrevity,
	}
}

// RankItems scores items against prefix and sorts them by score, then name.
// The input slice is not modified.
func (r *Ranker) RankItems(prefix string, items []model.NamedItem) []model.NamedItem {
	key := textutil.Key(prefix)
	ranked := make([]model.NamedItem, len(items))
	for i, item := range items {
		item.Score = r.score(key, textutil.Key(item.Name))
		ranked[i] = item
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// RankTerms orders plain terms the same way and returns them without scores
func (r *Ranker) RankTerms(prefix string, terms []string) []string {
	items := make([]model.NamedItem, len(terms))
	for i, t := range terms {
		items[i] = model.NamedItem{Name: t}
	}
	ranked := r.RankItems(prefix, items)

	out := make([]string, len(ranked))
	for i, item := range ranked {
		out[i] = item.Name
	}
	return out
}

func (r *Ranker) score(prefix, name string) float64 {
	if prefix == "" || name == "" {
		return 0
	}
	return r.weightPrefix*prefixScore(prefix, name) +
		r.weightSimilarity*leadSimilarity(prefix, name) +
		r.weightBrevity*brevityScore(prefix, name)
}

// prefixScore is 1 for a whole-name prefix, 0.5 when a later word starts with it
func prefixScore(prefix, name string) float64 {
	if strings.HasPrefix(name, prefix) {
		return 1.0
	}
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, prefix) {
			return 0.5
		}
	}
	return 0
}

// leadSimilarity compares the prefix with the name's opening of the same length
func leadSimilarity(prefix, name string) float64 {
	runes := []rune(name)
	n := min(len(runes), utils.RuneLen(prefix))
	return utils.Similarity(prefix, string(runes[:n]))
}

func brevityScore(prefix, name string) float64 {
	return min(1.0, float64(utils.RuneLen(prefix))/float64(utils.RuneLen(name)))
}
