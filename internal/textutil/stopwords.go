package textutil

import "sort"

// stopwords are function words and price vocabulary. They are never spell-corrected
// and never start or end a fuzzy phrase.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// function words
		"a", "an", "the", "and", "or", "for", "with", "without", "in", "on", "of", "to",
		"at", "by", "from", "i", "me", "my", "we", "our", "is", "are", "that", "this",
		"which", "please", "like", "some", "any", "something", "around", "about", "approx",
		// shopping verbs
		"need", "want", "wanted", "looking", "look", "show", "find", "buy", "get",
		// price keywords
		"under", "below", "above", "over", "between", "than", "less", "more", "max", "min",
		"maximum", "minimum", "within", "upto", "up", "budget", "price", "priced", "cost",
		"costs", "costing", "starting", "least",
		// currency and magnitude words
		"inr", "usd", "eur", "rupees", "dollars", "lakh", "lakhs", "lac", "lacs", "k",
	} {
		stopwords[w] = struct{}{}
	}
}

// commonWords are everyday words that sit one edit away from short dictionary
// terms ("red" -> "bed", "set" -> "seat"). They are left as typed.
var commonWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// colours
		"red", "white", "black", "grey", "gray", "blue", "green", "brown", "pink", "beige",
		"cream", "gold", "silver", "dark", "light",
		// rooms and places
		"room", "living", "bedroom", "hall", "home", "house", "office", "kids", "kid", "wall",
		// everyday adjectives and nouns
		"set", "new", "big", "small", "tall", "low", "high", "long", "wide", "best", "good",
		"cheap", "nice", "soft", "hard", "top", "old", "used",
	} {
		commonWords[w] = struct{}{}
	}
}

// IsCommonWord reports whether a folded token is an everyday word that is never spell-corrected.
func IsCommonWord(token string) bool {
	_, ok := commonWords[token]
	return ok
}

// IsStopword reports whether a folded token is a stopword.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Stopwords returns the stopword list in lexical order.
func Stopwords() []string {
	out := make([]string, 0, len(stopwords))
	for w := range stopwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
