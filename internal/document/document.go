// Package document is the persisted shape of a form: a versioned envelope
// around the root node list, encoded as JSON or YAML.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hanpama/formtree/internal/form"
	"gopkg.in/yaml.v3"
)

// Version is the current document format version.
const Version = 1

var (
	// ErrUnsupportedVersion indicates a document written by an unknown format version.
	ErrUnsupportedVersion = errors.New("document: unsupported version")

	// ErrUnknownFormat indicates a path whose extension maps to no codec.
	ErrUnknownFormat = errors.New("document: unknown format")
)

// Document is the envelope handed to persistence collaborators. Every field
// is a plain value, so encoding and decoding reproduce the same tree.
type Document struct {
	Version int          `json:"version"`
	Nodes   []*form.Node `json:"nodes"`
}

// New wraps nodes in a current-version document.
func New(nodes []*form.Node) *Document {
	if nodes == nil {
		nodes = []*form.Node{}
	}
	return &Document{Version: Version, Nodes: nodes}
}

// Format selects a codec.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Marshal encodes d in the given format.
func Marshal(d *Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return MarshalJSON(d)
	case FormatYAML:
		return MarshalYAML(d)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Unmarshal decodes and validates a document in the given format.
func Unmarshal(data []byte, f Format) (*Document, error) {
	switch f {
	case FormatJSON:
		return UnmarshalJSON(data)
	case FormatYAML:
		return UnmarshalYAML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// MarshalJSON encodes d as indented JSON.
func MarshalJSON(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalJSON decodes a JSON document and checks its version and tree
// invariants.
func UnmarshalJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("document: decode json: %w", err)
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

// MarshalYAML encodes d as YAML. The tree goes through its JSON-compatible
// form so both encodings share one shape.
func MarshalYAML(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// UnmarshalYAML decodes a YAML document and checks it like UnmarshalJSON.
func UnmarshalYAML(data []byte) (*Document, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("document: decode yaml: %w", err)
	}
	js, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("document: decode yaml: %w", err)
	}
	return UnmarshalJSON(js)
}

func (d *Document) check() error {
	if d.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if d.Nodes == nil {
		d.Nodes = []*form.Node{}
	}
	if err := form.Validate(d.Nodes); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return nil
}
