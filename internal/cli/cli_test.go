package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/service"
)

func setupTestServices(t *testing.T) {
	t.Helper()
	s, err := dictionary.NewStore(context.Background(), dictionary.NewEmbeddedSource(), zerolog.Nop())
	require.NoError(t, err)

	store = s
	queryParser = service.NewQueryParser(s, service.DefaultParserOptions(), zerolog.Nop())
	suggestionService = service.NewSuggestionService(s, nil, service.NewRanker(0.6, 0.3, 0.1), 10, zerolog.Nop())

	t.Cleanup(func() {
		store, queryParser, suggestionService = nil, nil, nil
		parseJSON, suggestJSON, suggestLimit, validateDir = false, false, 10, ""
	})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestParseCmd_Text(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "parse", "modren", "sofaa", "under", "20k")
	require.NoError(t, err)
	assert.Contains(t, out, "Did you mean:   modern sofa under 20k")
	assert.Contains(t, out, "Product types:  Sofa")
	assert.Contains(t, out, "Styles:         Modern")
	assert.Contains(t, out, "Classification: 2 seater (1.00)")
	assert.Contains(t, out, "Price:          * .. 20000")
}

func TestParseCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "parse", "--json", "bed between ₹10,000 and ₹15,000")
	require.NoError(t, err)

	var result model.ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"Bed"}, result.ProductTypes)
	require.NotNil(t, result.PriceRange)
	assert.Equal(t, 10000.0, *result.PriceRange.Min)
	assert.Equal(t, "₹", *result.PriceRange.Currency)
}

func TestParseCmd_RequiresQuery(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "parse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSuggestCmd(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "suggest", "rus")
	require.NoError(t, err)
	assert.Contains(t, out, "style    Rustic")

	out, err = run(t, "suggest", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No suggestions.")
}

func TestSuggestCmd_HasLimitFlag(t *testing.T) {
	flag := suggestCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestValidateCmd_ConfiguredStore(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Dictionary embedded is valid")
	assert.Contains(t, out, "product_type")
	assert.Contains(t, out, "classification")
}

func TestValidateCmd_Dir(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()
	files := map[string]string{
		"product_type.yaml":   "terms:\n  Sofa: [sofa, couch]\n",
		"feature.yaml":        "terms:\n  Storage: [storage]\n",
		"style.json":          `{"terms": {"Modern": ["modern", "contemporary"],}}`,
		"classification.yaml": "terms:\n  2 seater: [loveseat]\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	out, err := run(t, "validate", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Dictionary dir:"+dir+" is valid")
	assert.Contains(t, out, "style           1 terms")
}

func TestValidateCmd_Conflict(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()
	files := map[string]string{
		"product_type.yaml":   "terms:\n  Sofa: [couch]\n  Bed: [couch]\n",
		"feature.yaml":        "terms:\n  Storage: [storage]\n",
		"style.yaml":          "terms:\n  Modern: [modern]\n",
		"classification.yaml": "terms:\n  2 seater: [loveseat]\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	_, err := run(t, "validate", "--dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, dictionary.ErrDictionaryLoad)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "queryctl version dev\n", out)
}

func TestFormatPrice(t *testing.T) {
	lo, hi, cur := 500.0, 1500.5, "USD"
	assert.Equal(t, "-", formatPrice(nil))
	assert.Equal(t, "500 .. 1500.5 USD", formatPrice(&model.PriceRange{Min: &lo, Max: &hi, Currency: &cur}))
	assert.Equal(t, "500 .. *", formatPrice(&model.PriceRange{Min: &lo}))
}
