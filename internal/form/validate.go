package form

import "fmt"

// Validate checks the structural invariants of a tree: known kinds, unique
// non-empty ids, at most one heading, counters matching child list lengths
// and at least one tab per tabs node. It returns a ValidationError listing
// every violation, or nil.
func Validate(nodes []*Node) error {
	v := &validator{seen: map[string]bool{}}
	v.list(nodes)
	if len(v.violations) == 0 {
		return nil
	}
	return v.violations
}

type validator struct {
	seen       map[string]bool
	headings   int
	violations ValidationError
}

func (v *validator) add(id, format string, args ...any) {
	v.violations = append(v.violations, &Violation{NodeID: id, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) list(nodes []*Node) {
	for _, n := range nodes {
		if n == nil {
			v.add("", "nil node in child list")
			continue
		}
		v.node(n)
	}
}

func (v *validator) node(n *Node) {
	switch {
	case n.ID == "":
		v.add("", "node of type %q has no id", n.Type)
	case v.seen[n.ID]:
		v.add(n.ID, "duplicate id")
	}
	v.seen[n.ID] = true

	if !n.Type.Valid() {
		v.add(n.ID, "unknown type %q", n.Type)
	}
	if n.Type == KindHeading {
		v.headings++
		if v.headings == 2 {
			v.add(n.ID, "more than one heading")
		}
	}

	switch n.Type {
	case KindColumns:
		if n.Cols < 1 {
			v.add(n.ID, "columns must have at least one column, has %d", n.Cols)
		}
		if len(n.Columns) != n.Cols {
			v.add(n.ID, "columns counter %d does not match %d column lists", n.Cols, len(n.Columns))
		}
	case KindTable:
		if n.Rows < 1 || n.Cols < 1 {
			v.add(n.ID, "table must have at least one row and column, has %dx%d", n.Rows, n.Cols)
		}
		if len(n.Cells) != n.Rows {
			v.add(n.ID, "table row counter %d does not match %d rows", n.Rows, len(n.Cells))
		}
		for r, row := range n.Cells {
			if len(row) != n.Cols {
				v.add(n.ID, "table row %d has %d cells, want %d", r, len(row), n.Cols)
			}
		}
	case KindTabs:
		if len(n.Tabs) == 0 {
			v.add(n.ID, "tabs node has no tabs")
		}
		for i, t := range n.Tabs {
			if t == nil {
				v.add(n.ID, "tab %d is nil", i)
			}
		}
	default:
		if len(n.Columns) > 0 || len(n.Cells) > 0 || len(n.Tabs) > 0 {
			v.add(n.ID, "leaf of type %q carries child lists", n.Type)
		}
	}

	for _, at := range n.Slots() {
		if n.Type == KindTabs && n.Tabs[at.Row] == nil {
			continue
		}
		list, _ := n.Slot(at)
		v.list(list)
	}
}
