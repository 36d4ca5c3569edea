// Package catalog maps category/type pairs to their defaults: criticality,
// required validations and display metadata. A Catalog is immutable once
// built and is injected into the services that need it.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/confidence"
)

// Entry describes one object type.
type Entry struct {
	Category            string                 `yaml:"category" json:"category"`
	Type                string                 `yaml:"type" json:"type"`
	DisplayName         string                 `yaml:"display_name" json:"display_name"`
	Color               string                 `yaml:"color" json:"color"`
	Criticality         confidence.Criticality `yaml:"criticality" json:"criticality"`
	RequiredValidations []string               `yaml:"required_validations" json:"required_validations"`
}

type document struct {
	ValidationTypes []string `yaml:"validation_types"`
	Types           []Entry  `yaml:"types"`
}

// Catalog is a read-only lookup of entries and known validation types.
type Catalog struct {
	entries         map[string]Entry
	validationTypes map[string]struct{}
}

func key(category, typ string) string {
	return category + "/" + typ
}

// New builds a catalog, validating every entry.
func New(validationTypes []string, entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries:         make(map[string]Entry, len(entries)),
		validationTypes: make(map[string]struct{}, len(validationTypes)),
	}
	for _, v := range validationTypes {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("catalog: empty validation type")
		}
		c.validationTypes[v] = struct{}{}
	}
	for _, e := range entries {
		if e.Category == "" || e.Type == "" {
			return nil, fmt.Errorf("catalog: entry %q/%q needs category and type", e.Category, e.Type)
		}
		if !e.Criticality.IsValid() {
			return nil, fmt.Errorf("catalog: %s/%s has unknown criticality %q", e.Category, e.Type, e.Criticality)
		}
		for _, v := range e.RequiredValidations {
			if _, ok := c.validationTypes[v]; !ok {
				return nil, fmt.Errorf("catalog: %s/%s requires unknown validation type %q", e.Category, e.Type, v)
			}
		}
		k := key(e.Category, e.Type)
		if _, dup := c.entries[k]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry %s", k)
		}
		e.RequiredValidations = append([]string(nil), e.RequiredValidations...)
		c.entries[k] = e
	}
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: document is empty")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "catalog: decode")
	}
	return New(doc.ValidationTypes, doc.Types)
}

// Load reads a YAML catalog from path. An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: read %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: %s", path)
	}
	return c, nil
}

// Lookup returns the entry for a category/type pair. The returned entry owns
// its RequiredValidations slice.
func (c *Catalog) Lookup(category, typ string) (Entry, error) {
	e, ok := c.entries[key(category, typ)]
	if !ok {
		return Entry{}, apperrors.InvalidInput("catalog.lookup", "unknown category/type %s/%s", category, typ)
	}
	e.RequiredValidations = append([]string(nil), e.RequiredValidations...)
	return e, nil
}

// KnownValidation reports whether t is a validation type of this catalog.
func (c *Catalog) KnownValidation(t string) bool {
	_, ok := c.validationTypes[t]
	return ok
}

// ValidationTypes returns the known validation types, sorted.
func (c *Catalog) ValidationTypes() []string {
	out := make([]string, 0, len(c.validationTypes))
	for v := range c.validationTypes {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Entries returns every entry ordered by category then type.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Type < out[j].Type
	})
	return out
}
