package palette

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a palette from YAML:
//
//	templates:
//	  - name: short-text
//	    type: text
//	    label: Short answer
//	    placeholderByDefault: true
//	  - name: grid
//	    type: table
//	    defaultRows: 3
//
// The YAML goes through the JSON shape first, so attribute values get the
// same Go types a JSON palette or a decoded document would give them.
func ParseYAML(data []byte) (*Palette, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("palette: decode yaml: %w", err)
	}
	js, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("palette: decode yaml: %w", err)
	}
	var f fileShape
	if err := json.Unmarshal(js, &f); err != nil {
		return nil, fmt.Errorf("palette: decode yaml: %w", err)
	}
	return New(f.Templates...)
}
