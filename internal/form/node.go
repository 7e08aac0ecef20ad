package form

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Node is one element of a form tree: a leaf field, a heading, or a layout
// container. Which payload fields are meaningful depends on Type:
//
//   - columns: Columns holds one node list per column, len(Columns) == Cols.
//   - table:   Cells[row][col] is a node list, len(Cells) == Rows and every
//     row has Cols cells.
//   - tabs:    Tabs holds at least one named node list.
//
// Nodes reachable from a root list are treated as immutable. Every mutation
// in this package returns copies of the changed node and its ancestors.
type Node struct {
	ID    string
	Type  Kind
	Label string
	Attrs map[string]any

	Cols int
	Rows int

	Columns [][]*Node
	Cells   [][][]*Node
	Tabs    []*Tab
}

// Tab is one named panel of a tabs container.
type Tab struct {
	Name     string  `json:"name"`
	Children []*Node `json:"children"`
}

// Slot addresses one child list of a container. Columns use Col, tables use
// Row and Col, tabs use Row as the tab index.
type Slot struct {
	Row int
	Col int
}

// Col addresses column c of a columns container.
func Col(c int) Slot { return Slot{Col: c} }

// Cell addresses the (row, col) cell of a table.
func Cell(row, col int) Slot { return Slot{Row: row, Col: col} }

// TabAt addresses tab i of a tabs container.
func TabAt(i int) Slot { return Slot{Row: i} }

func (s Slot) String() string { return fmt.Sprintf("[%d,%d]", s.Row, s.Col) }

// Attr returns the attribute stored under key.
func (n *Node) Attr(key string) (any, bool) {
	if n == nil || n.Attrs == nil {
		return nil, false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// Slot returns the child list addressed by at. It reports false when n is
// not a container or at falls outside its shape.
func (n *Node) Slot(at Slot) ([]*Node, bool) {
	switch n.Type {
	case KindColumns:
		if at.Col < 0 || at.Col >= len(n.Columns) {
			return nil, false
		}
		return n.Columns[at.Col], true
	case KindTable:
		if at.Row < 0 || at.Row >= len(n.Cells) {
			return nil, false
		}
		row := n.Cells[at.Row]
		if at.Col < 0 || at.Col >= len(row) {
			return nil, false
		}
		return row[at.Col], true
	case KindTabs:
		if at.Row < 0 || at.Row >= len(n.Tabs) {
			return nil, false
		}
		return n.Tabs[at.Row].Children, true
	}
	return nil, false
}

// Slots enumerates the child slots of n in search order: columns left to
// right, table cells row-major, tabs first to last.
func (n *Node) Slots() []Slot {
	var out []Slot
	switch n.Type {
	case KindColumns:
		for c := range n.Columns {
			out = append(out, Col(c))
		}
	case KindTable:
		for r, row := range n.Cells {
			for c := range row {
				out = append(out, Cell(r, c))
			}
		}
	case KindTabs:
		for i := range n.Tabs {
			out = append(out, TabAt(i))
		}
	}
	return out
}

// clone returns a shallow copy of n. Child containers are shared until
// replaced by withSlot or a structural edit.
func (n *Node) clone() *Node {
	c := *n
	return &c
}

// withSlot returns a copy of n whose slot at holds list. The caller must
// have checked that at is addressable.
func (n *Node) withSlot(at Slot, list []*Node) *Node {
	out := n.clone()
	switch n.Type {
	case KindColumns:
		cols := append([][]*Node(nil), n.Columns...)
		cols[at.Col] = list
		out.Columns = cols
	case KindTable:
		cells := append([][][]*Node(nil), n.Cells...)
		row := append([][]*Node(nil), cells[at.Row]...)
		row[at.Col] = list
		cells[at.Row] = row
		out.Cells = cells
	case KindTabs:
		tabs := append([]*Tab(nil), n.Tabs...)
		t := *tabs[at.Row]
		t.Children = list
		tabs[at.Row] = &t
		out.Tabs = tabs
	}
	return out
}

// mapSlots runs f over every child slot of n. Slots for which f reports a
// change are spliced into a copy of n; when nothing changes n itself is
// returned.
func (n *Node) mapSlots(f func(at Slot, list []*Node) ([]*Node, bool)) (*Node, bool) {
	out := n
	changed := false
	for _, at := range n.Slots() {
		list, _ := n.Slot(at)
		next, ok := f(at, list)
		if !ok {
			continue
		}
		out = out.withSlot(at, next)
		changed = true
	}
	return out, changed
}

type wireTab struct {
	Name     string  `json:"name"`
	Children []*Node `json:"children"`
}

type wireNode struct {
	ID       string          `json:"id"`
	Type     Kind            `json:"type"`
	Label    string          `json:"label"`
	Attrs    map[string]any  `json:"attrs,omitempty"`
	Cols     int             `json:"cols,omitempty"`
	Rows     int             `json:"rows,omitempty"`
	Children json.RawMessage `json:"children,omitempty"`
	Tabs     []wireTab       `json:"tabs,omitempty"`
}

// MarshalJSON encodes n in the document shape: columns and tables both keep
// their child lists under "children".
func (n Node) MarshalJSON() ([]byte, error) {
	w := wireNode{
		ID:    n.ID,
		Type:  n.Type,
		Label: n.Label,
		Attrs: n.Attrs,
		Cols:  n.Cols,
		Rows:  n.Rows,
	}
	var err error
	switch n.Type {
	case KindColumns:
		cols := make([][]*Node, len(n.Columns))
		for i, list := range n.Columns {
			cols[i] = nonNil(list)
		}
		w.Children, err = json.Marshal(cols)
	case KindTable:
		cells := make([][][]*Node, len(n.Cells))
		for r, row := range n.Cells {
			cells[r] = make([][]*Node, len(row))
			for c, list := range row {
				cells[r][c] = nonNil(list)
			}
		}
		w.Children, err = json.Marshal(cells)
	case KindTabs:
		w.Tabs = make([]wireTab, len(n.Tabs))
		for i, t := range n.Tabs {
			w.Tabs[i] = wireTab{Name: t.Name, Children: nonNil(t.Children)}
		}
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the document shape produced by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Node{
		ID:    w.ID,
		Type:  w.Type,
		Label: w.Label,
		Attrs: w.Attrs,
		Cols:  w.Cols,
		Rows:  w.Rows,
	}
	switch w.Type {
	case KindColumns:
		if len(w.Children) > 0 {
			if err := json.Unmarshal(w.Children, &n.Columns); err != nil {
				return fmt.Errorf("node %s: columns: %w", w.ID, err)
			}
		}
	case KindTable:
		if len(w.Children) > 0 {
			if err := json.Unmarshal(w.Children, &n.Cells); err != nil {
				return fmt.Errorf("node %s: table: %w", w.ID, err)
			}
		}
	case KindTabs:
		n.Tabs = make([]*Tab, len(w.Tabs))
		for i, t := range w.Tabs {
			n.Tabs[i] = &Tab{Name: t.Name, Children: nonNil(t.Children)}
		}
	}
	return nil
}

func nonNil(list []*Node) []*Node {
	if list == nil {
		return []*Node{}
	}
	return list
}
