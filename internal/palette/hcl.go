package palette

import (
	"fmt"

	"github.com/hanpama/formtree/internal/form"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type hclFile struct {
	Templates []*hclTemplate `hcl:"template,block"`
}

type hclTemplate struct {
	Name                 string         `hcl:"name,label"`
	Type                 string         `hcl:"type"`
	Label                string         `hcl:"label,optional"`
	DefaultCols          *int           `hcl:"default_cols,optional"`
	DefaultRows          *int           `hcl:"default_rows,optional"`
	DefaultTabs          *int           `hcl:"default_tabs,optional"`
	PlaceholderByDefault bool           `hcl:"placeholder_by_default,optional"`
	Placeholder          string         `hcl:"placeholder,optional"`
	Attributes           hcl.Expression `hcl:"attributes,optional"`
}

// ParseHCL decodes a palette from HCL:
//
//	template "short-text" {
//	  type                   = "text"
//	  label                  = "Short answer"
//	  placeholder_by_default = true
//	  attributes = {
//	    required = true
//	  }
//	}
func ParseHCL(data []byte, filename string) (*Palette, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("palette: parse %s: %w", filename, diags)
	}
	var root hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("palette: decode %s: %w", filename, diags)
	}

	entries := make([]Entry, 0, len(root.Templates))
	for _, t := range root.Templates {
		attrs, err := evalAttributes(t.Attributes)
		if err != nil {
			return nil, fmt.Errorf("palette: template %q: %w", t.Name, err)
		}
		entries = append(entries, Entry{
			Name: t.Name,
			Template: form.Template{
				Type:                 form.Kind(t.Type),
				Label:                t.Label,
				DefaultCols:          t.DefaultCols,
				DefaultRows:          t.DefaultRows,
				DefaultTabs:          t.DefaultTabs,
				PlaceholderByDefault: t.PlaceholderByDefault,
				Placeholder:          t.Placeholder,
				Attrs:                attrs,
			},
		})
	}
	return New(entries...)
}

// evalAttributes evaluates the attributes expression without variables. A
// missing attribute evaluates to null and yields nil.
func evalAttributes(expr hcl.Expression) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, err
	}
	if native == nil {
		return nil, nil
	}
	attrs, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("attributes must be an object, got %s", val.Type().FriendlyName())
	}
	return attrs, nil
}
