package form

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Template describes a palette entry from which nodes are created.
type Template struct {
	Type  Kind   `json:"type" yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	DefaultCols *int `json:"defaultCols,omitempty" yaml:"defaultCols,omitempty"`
	DefaultRows *int `json:"defaultRows,omitempty" yaml:"defaultRows,omitempty"`
	DefaultTabs *int `json:"defaultTabs,omitempty" yaml:"defaultTabs,omitempty"`

	// PlaceholderByDefault gives new leaf nodes a "placeholder" attribute.
	PlaceholderByDefault bool   `json:"placeholderByDefault,omitempty" yaml:"placeholderByDefault,omitempty"`
	Placeholder          string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	// Attrs are copied onto every new leaf node.
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

const (
	defaultCols = 2
	defaultRows = 2
	defaultTabs = 2
)

type factoryOptions struct {
	newID func() string
}

// NodeOption configures NewNode.
type NodeOption func(*factoryOptions)

// WithIDGenerator replaces the UUID id source.
func WithIDGenerator(gen func() string) NodeOption {
	return func(o *factoryOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// NewID returns a fresh node id.
func NewID() string { return uuid.NewString() }

// NewNode creates a node of the template's kind with a fresh id. Containers
// get empty child lists sized from the template (2 when unset, at least 1).
// An unknown type yields ErrInvalidTemplate.
func NewNode(t Template, opts ...NodeOption) (*Node, error) {
	o := factoryOptions{newID: NewID}
	for _, opt := range opts {
		opt(&o)
	}
	if !t.Type.Valid() || t.Type == KindUnsupported {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTemplate, t.Type)
	}

	n := &Node{ID: o.newID(), Type: t.Type, Label: t.Label}
	switch t.Type {
	case KindColumns:
		n.Cols = size(t.DefaultCols, defaultCols)
		n.Columns = make([][]*Node, n.Cols)
		for i := range n.Columns {
			n.Columns[i] = []*Node{}
		}
	case KindTable:
		n.Rows = size(t.DefaultRows, defaultRows)
		n.Cols = size(t.DefaultCols, defaultCols)
		n.Cells = make([][][]*Node, n.Rows)
		for r := range n.Cells {
			n.Cells[r] = emptyRow(n.Cols)
		}
	case KindTabs:
		count := size(t.DefaultTabs, defaultTabs)
		n.Tabs = make([]*Tab, count)
		for i := range n.Tabs {
			n.Tabs[i] = &Tab{Name: tabName(i + 1), Children: []*Node{}}
		}
	default:
		if len(t.Attrs) > 0 {
			n.Attrs = maps.Clone(t.Attrs)
		}
		if t.PlaceholderByDefault {
			if n.Attrs == nil {
				n.Attrs = map[string]any{}
			}
			n.Attrs[AttrPlaceholder] = t.Placeholder
		}
	}
	return n, nil
}

// MustNewNode is NewNode for templates known to be valid. It panics on an
// invalid template.
func MustNewNode(t Template, opts ...NodeOption) *Node {
	n, err := NewNode(t, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Unsupported builds the visible placeholder that stands in for a template
// whose type is not recognised.
func Unsupported(t Template, opts ...NodeOption) *Node {
	o := factoryOptions{newID: NewID}
	for _, opt := range opts {
		opt(&o)
	}
	return &Node{
		ID:    o.newID(),
		Type:  KindUnsupported,
		Label: fmt.Sprintf("Unsupported field: %s", t.Type),
		Attrs: map[string]any{AttrOriginalType: string(t.Type)},
	}
}

// Heading builds a heading node.
func Heading(text string, opts ...NodeOption) *Node {
	return MustNewNode(Template{Type: KindHeading, Label: text}, opts...)
}

func size(v *int, def int) int {
	if v == nil {
		return def
	}
	return max(*v, 1)
}

// Well-known attribute keys.
const (
	AttrPlaceholder  = "placeholder"
	AttrRequired     = "required"
	AttrOptions      = "options"
	AttrHelpText     = "helpText"
	AttrOriginalType = "originalType"
)
