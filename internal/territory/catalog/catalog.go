// Package catalog holds the fixed region reference data.
//
// A Catalog is fully built and validated before it is returned, so consumers
// never observe a partially loaded catalog. Unknown names are errors; the
// catalog never hands out a zero-area default.
package catalog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"zenith/internal/territory/models"
	dErrors "zenith/pkg/domain-errors"
)

//go:embed data/regions.yaml
var embeddedRegions []byte

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "catalog.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

type fileRegion struct {
	Name     string  `yaml:"name"`
	Area     float64 `yaml:"area"`
	Category string  `yaml:"category"`
	Active   *bool   `yaml:"active"`
}

type file struct {
	Version int          `yaml:"version"`
	Regions []fileRegion `yaml:"regions"`
}

// Catalog is an immutable name-indexed set of regions.
type Catalog struct {
	regions []models.Region
	byName  map[string]int
	digest  string
}

// Load parses the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return LoadFrom(embeddedRegions)
}

// LoadFile parses a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return LoadFrom(raw)
}

// LoadFrom parses and validates raw YAML catalog data.
func LoadFrom(raw []byte) (*Catalog, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("regions.yaml: %w", err)
	}

	c := &Catalog{
		regions: make([]models.Region, 0, len(f.Regions)),
		byName:  make(map[string]int, len(f.Regions)),
	}
	for _, fr := range f.Regions {
		if _, dup := c.byName[fr.Name]; dup {
			return nil, fmt.Errorf("regions.yaml: duplicate region %q", fr.Name)
		}
		category, err := models.ParseCategory(fr.Category)
		if err != nil {
			return nil, fmt.Errorf("regions.yaml: %w", err)
		}
		active := true
		if fr.Active != nil {
			active = *fr.Active
		}
		c.byName[fr.Name] = len(c.regions)
		c.regions = append(c.regions, models.Region{
			Name:     fr.Name,
			Area:     fr.Area,
			Category: category,
			Active:   active,
		})
	}

	sum := sha256.Sum256(raw)
	c.digest = hex.EncodeToString(sum[:])
	return c, nil
}

// validateDocument checks raw against the catalog schema. YAML is round-tripped
// through JSON so the validator sees JSON-native types.
func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("regions.yaml: %w", err)
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("regions.yaml: %w", err)
	}
	var v any
	if err := json.Unmarshal(encoded, &v); err != nil {
		return fmt.Errorf("regions.yaml: %w", err)
	}
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("regions.yaml does not match schema: %w", err)
	}
	return nil
}

// Lookup returns the region called name.
func (c *Catalog) Lookup(name string) (models.Region, error) {
	i, ok := c.byName[name]
	if !ok {
		return models.Region{}, dErrors.Newf(dErrors.CodeUnknownRegion, "unknown region %q", name)
	}
	return c.regions[i], nil
}

// Select resolves name to a selection snapshot.
func (c *Catalog) Select(name string) (models.SelectedRegion, error) {
	r, err := c.Lookup(name)
	if err != nil {
		return models.SelectedRegion{}, err
	}
	return r.Snapshot(), nil
}

// ListByCategory returns regions of category in catalog order.
func (c *Catalog) ListByCategory(category models.Category) []models.Region {
	var out []models.Region
	for _, r := range c.regions {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// ListActive returns claimable regions in catalog order.
func (c *Catalog) ListActive() []models.Region {
	out := make([]models.Region, 0, len(c.regions))
	for _, r := range c.regions {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

func (c *Catalog) All() []models.Region {
	out := make([]models.Region, len(c.regions))
	copy(out, c.regions)
	return out
}

func (c *Catalog) Len() int {
	return len(c.regions)
}

// Digest is the hex sha256 of the source document.
func (c *Catalog) Digest() string {
	return c.digest
}
