package dictionary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVocabulary(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestDirSource_MixedFormats(t *testing.T) {
	dir := t.TempDir()
	writeVocabulary(t, dir, map[string]string{
		"product_type.yaml": "terms:\n  Sofa: [couch]\n  Bed: [cot]\n",
		"feature.yml":       "terms:\n  Storage: [storage box]\n",
		"style.json":        "{\n  // hand edited\n  \"terms\": {\"Rustic\": [\"farmhouse\",],},\n}",
		"classification.yaml": "terms:\n  2 seater: [loveseat]\n" +
			"implied:\n  Sofa:\n    2 seater: 0.9\n",
	})

	src := NewDirSource(dir)
	assert.Equal(t, "dir:"+dir, src.Name())

	idx, err := LoadFrom(context.Background(), src)
	require.NoError(t, err)

	got, ok := idx.LookupExact(Style, "farmhouse")
	assert.True(t, ok)
	assert.Equal(t, "Rustic", got)

	got, ok = idx.LookupExact(Feature, "Storage Box")
	assert.True(t, ok)
	assert.Equal(t, "Storage", got)

	assert.Equal(t, map[string]float64{"2 seater": 0.9}, idx.Implied("Sofa"))
}

func TestDirSource_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeVocabulary(t, dir, map[string]string{
		"product_type.yaml":   "terms:\n  Sofa: [couch]\n",
		"feature.yaml":        "terms:\n  Storage: []\n",
		"classification.yaml": "terms:\n  2 seater: []\n",
	})

	_, err := LoadFrom(context.Background(), NewDirSource(dir))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDictionaryLoad))
	assert.True(t, errors.Is(err, ErrSourceMissing))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, Style, loadErr.Facet)
}

func TestFSSource_Malformed(t *testing.T) {
	fsys := fstest.MapFS{
		"vocab/product_type.yaml":   {Data: []byte("terms:\n  Sofa: [couch]\n")},
		"vocab/feature.yaml":        {Data: []byte("termz:\n  Storage: []\n")},
		"vocab/style.yaml":          {Data: []byte("terms:\n  Modern: []\n")},
		"vocab/classification.yaml": {Data: []byte("terms:\n  2 seater: []\n")},
	}

	_, err := LoadFrom(context.Background(), NewFSSource(fsys, "vocab"))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, Feature, loadErr.Facet)
	assert.Contains(t, loadErr.Reason, "decode vocab/feature.yaml")
}

func TestFSSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbeddedSource().Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeFacetFile(t *testing.T) {
	fsrc, err := DecodeFacetFile("style.JSON", []byte(`{"terms": {"Boho": ["bohemian"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"bohemian"}, fsrc.Terms["Boho"])

	_, err = DecodeFacetFile("style.yaml", []byte(""))
	assert.Error(t, err)

	_, err = DecodeFacetFile("style.yaml", []byte("terms: [not, a, map]"))
	assert.Error(t, err)
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(testSources())
	assert.Equal(t, "static", src.Name())

	idx, err := LoadFrom(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, idx.Terms(ProductType), 3)
}
