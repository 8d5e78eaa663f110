package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceExtractor_Rules(t *testing.T) {
	e := NewPriceExtractor()

	tests := []struct {
		name     string
		input    string
		rule     string
		min      *float64
		max      *float64
		currency *string
	}{
		{name: "upper with k", input: "sofa under 20k", rule: "upper", max: float64Ptr(20000)},
		{name: "between with rupee symbol", input: "bed between ₹10,000 and ₹15,000", rule: "between", min: float64Ptr(10000), max: float64Ptr(15000), currency: stringPtr("₹")},
		{name: "between with magnitudes", input: "couch between 40k and 60k", rule: "between", min: float64Ptr(40000), max: float64Ptr(60000)},
		{name: "dash range borrows magnitude", input: "sofa 50-60k", rule: "range", min: float64Ptr(50000), max: float64Ptr(60000)},
		{name: "en dash range", input: "sofa 50k–60k", rule: "range", min: float64Ptr(50000), max: float64Ptr(60000)},
		{name: "to range", input: "sofa 10k to 20k", rule: "range", min: float64Ptr(10000), max: float64Ptr(20000)},
		{name: "reversed range swapped", input: "sofa 60k-50k", rule: "range", min: float64Ptr(50000), max: float64Ptr(60000)},
		{name: "between small numbers", input: "between 10 and 20", rule: "between", min: float64Ptr(10), max: float64Ptr(20)},
		{name: "between single digits", input: "stool between 2 and 3", rule: "between", min: float64Ptr(2), max: float64Ptr(3)},
		{name: "bare lower kept when larger", input: "between 500 and 60k", rule: "between", min: float64Ptr(500), max: float64Ptr(60000)},
		{name: "lower with code", input: "table above 5000 inr", rule: "lower", min: float64Ptr(5000), currency: stringPtr("INR")},
		{name: "at least dollars", input: "chair at least $200", rule: "lower", min: float64Ptr(200), currency: stringPtr("$")},
		{name: "starting from", input: "beds starting from 8k", rule: "lower", min: float64Ptr(8000)},
		{name: "upto decimal lakh", input: "recliner upto 1.5 lakh", rule: "upper", max: float64Ptr(150000)},
		{name: "attached l", input: "sofa under 2l", rule: "upper", max: float64Ptr(200000)},
		{name: "less than", input: "desk less than 7,500", rule: "upper", max: float64Ptr(7500)},
		{name: "budget keyword", input: "budget of 25000", rule: "context", min: float64Ptr(25000), max: float64Ptr(25000)},
		{name: "priced keyword", input: "priced at 999", rule: "context", min: float64Ptr(999), max: float64Ptr(999)},
		{name: "lacs keyword", input: "cost 12 lacs", rule: "context", min: float64Ptr(1200000), max: float64Ptr(1200000)},
		{name: "currency prefix point", input: "$500 chair", rule: "currency-prefixed", min: float64Ptr(500), max: float64Ptr(500), currency: stringPtr("$")},
		{name: "euro code prefix", input: "EUR 300 lamp", rule: "currency-prefixed", min: float64Ptr(300), max: float64Ptr(300), currency: stringPtr("EUR")},
		{name: "currency suffix point", input: "500 usd chair", rule: "currency-suffixed", min: float64Ptr(500), max: float64Ptr(500), currency: stringPtr("USD")},
		{name: "indian grouping", input: "sofa 1,00,000 INR", rule: "currency-suffixed", min: float64Ptr(100000), max: float64Ptr(100000), currency: stringPtr("INR")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := e.ExtractWithRule(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.min, got.Min)
			assert.Equal(t, tt.max, got.Max)
			assert.Equal(t, tt.currency, got.Currency)
			assert.True(t, got.Valid())
		})
	}
}

func TestPriceExtractor_NoMatch(t *testing.T) {
	e := NewPriceExtractor()

	inputs := []string{
		"",
		"modern sofa with ornate legs",
		"sofa 20000",
		"2-3 seater sofa",
		"2-3 sofas",
		"between 2 and 3 seater",
		"between 4 and 6 drawers",
		"10 to 12 inches",
		"max 20kg",
		"minimalist sofa",
		"oversized 3 seater",
		"wooden dining table for 6",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Nil(t, e.Extract(in))
		})
	}
}

func TestPriceExtractor_FirstRuleWins(t *testing.T) {
	e := NewPriceExtractor()

	// Both an upper bound and a range are present; the range rule is earlier
	got, rule := e.ExtractWithRule("under 30k, ideally 10k-20k")
	require.NotNil(t, got)
	assert.Equal(t, "range", rule)
	assert.Equal(t, float64Ptr(10000), got.Min)
	assert.Equal(t, float64Ptr(20000), got.Max)

	// "between" is tried before the dash range even when it appears later
	got, rule = e.ExtractWithRule("50-60k between 10 and 20")
	require.NotNil(t, got)
	assert.Equal(t, "between", rule)
	assert.Equal(t, float64Ptr(10), got.Min)
	assert.Equal(t, float64Ptr(20), got.Max)
	assert.Nil(t, got.Currency)

	// A rejected bare range does not hide a later valid one
	got, rule = e.ExtractWithRule("2-3 seater sofa 15k-25k")
	require.NotNil(t, got)
	assert.Equal(t, "range", rule)
	assert.Equal(t, float64Ptr(15000), got.Min)
}

func TestPriceExtractor_RuleNames(t *testing.T) {
	assert.Equal(t, []string{
		"between", "range", "upper", "lower", "context", "currency-prefixed", "currency-suffixed",
	}, NewPriceExtractor().RuleNames())
}

func float64Ptr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }
