package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/textutil"
)

// Building blocks of an amount. Every amount expression has the same five groups:
// prefix currency, number, magnitude word, attached "l", suffix currency.
const (
	currencyPrefix = `(\$|₹|€|\binr|\busd|\beur)`
	currencySuffix = `(inr|usd|eur)`
	amountNumber   = `(\d[\d,]*(?:\.\d+)?)`
	amountScale    = `(?:\s*(k|lakhs?|lacs?)|(l))?`
	amountGroups   = 5
)

var (
	anyAmount      = `(?:` + currencyPrefix + `\s*)?` + amountNumber + amountScale + `(?:\s*` + currencySuffix + `)?\b`
	prefixedAmount = currencyPrefix + `\s*` + amountNumber + amountScale + `(?:\s*` + currencySuffix + `)?\b`
	suffixedAmount = `(?:` + currencyPrefix + `\s*)?` + amountNumber + amountScale + `\s*` + currencySuffix + `\b`

	// Counts and sizes that follow a number range: "2-3 seater", "between 4 and 6 drawers"
	nonPriceUnit = `(?:[\s-]*(seaters?|seats?|persons?|people|pax|drawers?|doors?|tiers?|shelves|kg|cm|mm|ft|feet|inch(?:es)?)\b)?`
)

// Smallest upper bound accepted for a dash or "to" range without currency or
// magnitude, so that "2-3 sofas" is not read as a budget.
const minBareRangeValue = 100

type priceRule struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string) *model.PriceRange
}

// PriceExtractor reads a budget out of query text.
// Rules are tried in order and the first one that yields a range wins.
type PriceExtractor struct {
	rules []priceRule
}

// NewPriceExtractor builds the rule table
func NewPriceExtractor() *PriceExtractor {
	return &PriceExtractor{rules: []priceRule{
		{
			name:    "between",
			pattern: regexp.MustCompile(`\bbetween\s+` + anyAmount + `\s*(?:-|and\b|to\b)\s*` + anyAmount + nonPriceUnit),
			build:   buildBetween,
		},
		{
			name:    "range",
			pattern: regexp.MustCompile(anyAmount + `\s*(?:-|to\b)\s*` + anyAmount + nonPriceUnit),
			build:   buildRange,
		},
		{
			name:    "upper",
			pattern: regexp.MustCompile(`\b(?:under|below|less\s+than|max(?:imum)?|up\s*to|within)\s*(?:of\s+)?` + anyAmount),
			build:   buildUpper,
		},
		{
			name:    "lower",
			pattern: regexp.MustCompile(`\b(?:above|over|more\s+than|min(?:imum)?|at\s+least|starting(?:\s+(?:at|from))?|from)\s*` + anyAmount),
			build:   buildLower,
		},
		{
			name:    "context",
			pattern: regexp.MustCompile(`\b(?:budget|price|priced|cost|costs|costing)\b(?:\s+(?:of|is|around|about|approx|at))?\s*` + anyAmount),
			build:   buildPoint,
		},
		{
			name:    "currency-prefixed",
			pattern: regexp.MustCompile(prefixedAmount),
			build:   buildPoint,
		},
		{
			name:    "currency-suffixed",
			pattern: regexp.MustCompile(suffixedAmount),
			build:   buildPoint,
		},
	}}
}

// RuleNames lists the rules in evaluation order
func (e *PriceExtractor) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.name
	}
	return names
}

// Extract returns the first budget found in text, or nil
func (e *PriceExtractor) Extract(text string) *model.PriceRange {
	pr, _ := e.ExtractWithRule(text)
	return pr
}

// ExtractWithRule also names the rule that produced the range
func (e *PriceExtractor) ExtractWithRule(text string) (*model.PriceRange, string) {
	folded := strings.Join(strings.Fields(textutil.Fold(text)), " ")
	if folded == "" {
		return nil, ""
	}
	for _, rule := range e.rules {
		for _, m := range rule.pattern.FindAllStringSubmatch(folded, -1) {
			if pr := rule.build(m[1:]); pr != nil {
				return pr, rule.name
			}
		}
	}
	return nil, ""
}

type amount struct {
	raw        float64
	multiplier float64
	currency   string
}

func (a amount) value() float64 {
	return roundCents(a.raw * a.multiplier)
}

func (a amount) scaled() bool {
	return a.multiplier > 1
}

// parseAmount reads the five groups of one amount expression
func parseAmount(g []string) (amount, bool) {
	if len(g) < amountGroups || g[1] == "" {
		return amount{}, false
	}
	raw, err := strconv.ParseFloat(strings.ReplaceAll(g[1], ",", ""), 64)
	if err != nil {
		return amount{}, false
	}

	a := amount{raw: raw, multiplier: 1}
	switch {
	case g[2] == "k":
		a.multiplier = 1_000
	case g[2] != "", g[3] != "":
		a.multiplier = 100_000
	}

	switch {
	case g[0] != "":
		a.currency = normalizeCurrency(g[0])
	case g[4] != "":
		a.currency = normalizeCurrency(g[4])
	}
	return a, true
}

// buildBetween takes "between X and Y" at face value unless a unit marks it as a count
func buildBetween(m []string) *model.PriceRange {
	lo, hi, ok := parseBounds(m)
	if !ok {
		return nil
	}
	return rangeOf(lo, hi)
}

// buildRange also rejects small bare ranges such as "2-3 sofas"
func buildRange(m []string) *model.PriceRange {
	lo, hi, ok := parseBounds(m)
	if !ok {
		return nil
	}
	if lo.currency == "" && hi.currency == "" && !lo.scaled() && !hi.scaled() &&
		math.Max(lo.value(), hi.value()) < minBareRangeValue {
		return nil
	}
	return rangeOf(lo, hi)
}

// parseBounds reads both amounts of a range match and the trailing unit group
func parseBounds(m []string) (amount, amount, bool) {
	if len(m) > 2*amountGroups && m[2*amountGroups] != "" {
		return amount{}, amount{}, false
	}
	lo, ok := parseAmount(m[:amountGroups])
	if !ok {
		return amount{}, amount{}, false
	}
	hi, ok := parseAmount(m[amountGroups : 2*amountGroups])
	if !ok {
		return amount{}, amount{}, false
	}

	// "50-60k": a bare lower number borrows the upper bound's magnitude
	if !lo.scaled() && hi.scaled() && lo.raw < hi.raw {
		lo.multiplier = hi.multiplier
	}
	return lo, hi, true
}

func rangeOf(lo, hi amount) *model.PriceRange {
	minV, maxV := lo.value(), hi.value()
	if minV > maxV {
		minV, maxV = maxV, minV
	}
	currency := lo.currency
	if currency == "" {
		currency = hi.currency
	}
	return &model.PriceRange{Min: &minV, Max: &maxV, Currency: currencyPtr(currency)}
}

func buildUpper(m []string) *model.PriceRange {
	a, ok := parseAmount(m)
	if !ok {
		return nil
	}
	v := a.value()
	return &model.PriceRange{Max: &v, Currency: currencyPtr(a.currency)}
}

func buildLower(m []string) *model.PriceRange {
	a, ok := parseAmount(m)
	if !ok {
		return nil
	}
	v := a.value()
	return &model.PriceRange{Min: &v, Currency: currencyPtr(a.currency)}
}

func buildPoint(m []string) *model.PriceRange {
	a, ok := parseAmount(m)
	if !ok {
		return nil
	}
	minV, maxV := a.value(), a.value()
	return &model.PriceRange{Min: &minV, Max: &maxV, Currency: currencyPtr(a.currency)}
}

// normalizeCurrency keeps symbols as written and upper-cases codes
func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func currencyPtr(c string) *string {
	if c == "" {
		return nil
	}
	return &c
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
