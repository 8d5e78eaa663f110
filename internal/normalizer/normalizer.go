// Package normalizer folds raw query text into tokens and repairs misspelled words
// against the dictionary vocabulary.
package normalizer

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/confluence-ai/query-analyzer/internal/textutil"
	"github.com/confluence-ai/query-analyzer/internal/utils"
)

// minCorrectionLen is the shortest token considered for spelling correction.
const minCorrectionLen = 3

// Vocabulary is the single-word vocabulary corrections are drawn from.
// *dictionary.Index satisfies it.
type Vocabulary interface {
	HasWord(word string) bool
	Words() []string
}

// Correction records one replaced token.
type Correction struct {
	Position    int    `json:"position"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// NormalizedQuery is the folded and corrected form of a raw query.
type NormalizedQuery struct {
	Tokens       []string     `json:"tokens"`
	Corrected    bool         `json:"corrected"`
	OriginalText string       `json:"original_text"`
	Corrections  []Correction `json:"corrections,omitempty"`
}

// Text joins the tokens with single spaces.
func (q NormalizedQuery) Text() string {
	return strings.Join(q.Tokens, " ")
}

// Normalizer is stateless apart from its logger and safe for concurrent use.
type Normalizer struct {
	logger zerolog.Logger
}

// New creates a normalizer that reports skipped ambiguous corrections at debug level.
func New(logger zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize folds raw, splits it on whitespace and corrects tokens against vocab.
// The token count always equals the number of whitespace-separated folded tokens.
func (n *Normalizer) Normalize(vocab Vocabulary, raw string) NormalizedQuery {
	q := NormalizedQuery{
		Tokens:       strings.Fields(textutil.Fold(raw)),
		OriginalText: raw,
	}
	if q.Tokens == nil {
		q.Tokens = []string{}
	}
	if vocab == nil {
		return q
	}

	for i, tok := range q.Tokens {
		fixed := n.correctToken(vocab, tok)
		if fixed != tok {
			q.Corrections = append(q.Corrections, Correction{Position: i, Original: tok, Replacement: fixed})
			q.Tokens[i] = fixed
			q.Corrected = true
		}
	}
	return q
}

// correctToken corrects each hyphen-separated part on its own.
func (n *Normalizer) correctToken(vocab Vocabulary, tok string) string {
	if !strings.Contains(tok, "-") {
		return n.correctWord(vocab, tok)
	}
	parts := strings.Split(tok, "-")
	for i, p := range parts {
		parts[i] = n.correctWord(vocab, p)
	}
	return strings.Join(parts, "-")
}

func (n *Normalizer) correctWord(vocab Vocabulary, word string) string {
	length := utils.RuneLen(word)
	if length < minCorrectionLen || textutil.ContainsDigit(word) || textutil.ContainsCurrency(word) {
		return word
	}
	if vocab.HasWord(word) || textutil.IsStopword(word) || textutil.IsCommonWord(word) {
		return word
	}

	budget := utils.MaxEditsForLength(length)
	bestDistance := budget + 1
	var nearest []string
	for _, candidate := range vocab.Words() {
		d, ok := utils.WithinDistance(word, candidate, budget)
		if !ok {
			continue
		}
		switch {
		case d < bestDistance:
			bestDistance = d
			nearest = append(nearest[:0], candidate)
		case d == bestDistance:
			nearest = append(nearest, candidate)
		}
	}

	switch len(nearest) {
	case 0:
		return word
	case 1:
		return nearest[0]
	default:
		n.logger.Debug().
			Str("event", "AmbiguousCorrectionSkipped").
			Str("token", word).
			Int("distance", bestDistance).
			Strs("candidates", nearest).
			Msg("ambiguous spelling correction skipped")
		return word
	}
}
