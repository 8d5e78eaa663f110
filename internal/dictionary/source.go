package dictionary

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/confluence-ai/query-analyzer/internal/utils"
)

//go:embed data/*.yaml
var defaultData embed.FS

// FacetSource is the raw vocabulary of one facet: canonical term -> variants.
// Implied is read from the classification source only.
type FacetSource struct {
	Terms   map[string][]string           `yaml:"terms" json:"terms"`
	Implied map[string]map[string]float64 `yaml:"implied,omitempty" json:"implied,omitempty"`
}

// Sources holds the raw vocabularies of every facet.
type Sources map[Facet]*FacetSource

// Source supplies raw vocabularies. Implementations must be safe to call again on reload.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Sources, error)
}

// LoadFrom fetches from src and builds an Index.
func LoadFrom(ctx context.Context, src Source) (*Index, error) {
	sources, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch from %s: %w", ErrDictionaryLoad, src.Name(), err)
	}
	return Load(sources)
}

// FSSource reads one file per facet from a file system.
// Files are named after the facet with a .yaml, .yml or .json extension.
type FSSource struct {
	fsys fs.FS
	dir  string
	name string
}

// NewEmbeddedSource serves the vocabulary compiled into the binary.
func NewEmbeddedSource() *FSSource {
	return &FSSource{fsys: defaultData, dir: "data", name: "embedded"}
}

// NewDirSource reads vocabulary files from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir), dir: ".", name: "dir:" + dir}
}

// NewFSSource reads vocabulary files from dir inside fsys.
func NewFSSource(fsys fs.FS, dir string) *FSSource {
	return &FSSource{fsys: fsys, dir: dir, name: "fs:" + dir}
}

func (s *FSSource) Name() string { return s.name }

// Fetch reads the facet files concurrently.
func (s *FSSource) Fetch(ctx context.Context) (Sources, error) {
	results := make([]*FacetSource, len(AllFacets))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range AllFacets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fsrc, err := s.readFacet(f)
			if err != nil {
				return err
			}
			results[i] = fsrc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(Sources, len(AllFacets))
	for i, f := range AllFacets {
		out[f] = results[i]
	}
	return out, nil
}

func (s *FSSource) readFacet(f Facet) (*FacetSource, error) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		name := path.Join(s.dir, f.String()+ext)
		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &LoadError{Facet: f, Reason: "read " + name, Err: err}
		}
		fsrc, err := DecodeFacetFile(name, data)
		if err != nil {
			return nil, &LoadError{Facet: f, Reason: "decode " + name, Err: err}
		}
		return fsrc, nil
	}
	return nil, &LoadError{Facet: f, Reason: "no vocabulary file in " + s.name, Err: ErrSourceMissing}
}

// DecodeFacetFile decodes a YAML or JSON vocabulary document, chosen by file extension.
func DecodeFacetFile(name string, data []byte) (*FacetSource, error) {
	var fsrc FacetSource
	if strings.EqualFold(path.Ext(name), ".json") {
		if err := utils.DecodeLenientJSON(data, &fsrc); err != nil {
			return nil, err
		}
		return &fsrc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fsrc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return &fsrc, nil
}

// StaticSource serves an in-memory vocabulary.
type StaticSource struct {
	sources Sources
}

// NewStaticSource wraps already decoded vocabularies.
func NewStaticSource(sources Sources) *StaticSource {
	return &StaticSource{sources: sources}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Fetch(ctx context.Context) (Sources, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.sources, nil
}
