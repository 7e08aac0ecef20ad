// Package palette holds the catalogue of templates from which form nodes
// are created. Palettes are built in or loaded from YAML, JSON or HCL files.
package palette

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hanpama/formtree/internal/form"
)

// Entry is a named palette template.
type Entry struct {
	Name          string `json:"name" yaml:"name"`
	form.Template `yaml:",inline"`
}

// Palette is an ordered, name-indexed set of templates.
type Palette struct {
	entries []Entry
	byName  map[string]int
}

// New builds a palette. Names must be unique and non-empty and every
// template must have a known type.
func New(entries ...Entry) (*Palette, error) {
	p := &Palette{byName: make(map[string]int, len(entries))}
	var errs []error
	for _, e := range entries {
		switch {
		case e.Name == "":
			errs = append(errs, fmt.Errorf("template of type %q has no name", e.Type))
			continue
		case !e.Type.Valid() || e.Type == form.KindUnsupported:
			errs = append(errs, fmt.Errorf("template %q: %w: %q", e.Name, form.ErrInvalidTemplate, e.Type))
			continue
		}
		if _, dup := p.byName[e.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate template %q", e.Name))
			continue
		}
		p.byName[e.Name] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return p, nil
}

// Lookup returns the template registered under name.
func (p *Palette) Lookup(name string) (form.Template, bool) {
	i, ok := p.byName[name]
	if !ok {
		return form.Template{}, false
	}
	return p.entries[i].Template, true
}

// Entries returns the palette entries in declaration order.
func (p *Palette) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Len returns the number of templates.
func (p *Palette) Len() int { return len(p.entries) }

type fileShape struct {
	Templates []Entry `json:"templates" yaml:"templates"`
}

// Load reads a palette file, picking the format from its extension:
// .yaml/.yml, .json or .hcl.
func Load(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	case ".hcl":
		return ParseHCL(data, path)
	default:
		return nil, fmt.Errorf("palette: unsupported file extension %q", filepath.Ext(path))
	}
}

// ParseJSON decodes a palette from JSON: {"templates": [...]}.
func ParseJSON(data []byte) (*Palette, error) {
	var f fileShape
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("palette: decode json: %w", err)
	}
	return New(f.Templates...)
}
