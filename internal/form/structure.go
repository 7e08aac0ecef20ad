package form

import (
	"fmt"
	"slices"
)

// Structural edits change the shape of a container. Each one writes the
// Cols/Rows counters from the new list lengths in the same copy that carries
// the new lists, so counters never drift from the children.
//
// A container whose last column, row or tab is deleted is removed from its
// parent; the removed result reports that case.

// structural applies fn to the container parentID when it has the wanted
// kind. fn returning a nil node removes the container.
func structural(nodes []*Node, parentID string, kind Kind, fn func(*Node) (*Node, bool)) (out []*Node, removed bool, ok bool) {
	out, ok = replace(nodes, parentID, func(n *Node) (*Node, bool) {
		if n.Type != kind {
			return nil, false
		}
		next, ok := fn(n)
		if ok && next == nil {
			removed = true
		}
		return next, ok
	})
	return out, removed && ok, ok
}

// InsertColumn adds an empty column at index at (clamped to [0, cols]).
func InsertColumn(nodes []*Node, parentID string, at int) ([]*Node, bool) {
	out, _, ok := structural(nodes, parentID, KindColumns, func(n *Node) (*Node, bool) {
		at = clamp(at, 0, len(n.Columns))
		c := n.clone()
		c.Columns = slices.Insert(slices.Clone(n.Columns), at, []*Node{})
		c.Cols = len(c.Columns)
		return c, true
	})
	return out, ok
}

// DeleteColumn removes column col of a columns container and every node in
// it.
func DeleteColumn(nodes []*Node, parentID string, col int) (out []*Node, removed bool, ok bool) {
	return structural(nodes, parentID, KindColumns, func(n *Node) (*Node, bool) {
		if col < 0 || col >= len(n.Columns) {
			return nil, false
		}
		if len(n.Columns) == 1 {
			return nil, true
		}
		c := n.clone()
		c.Columns = slices.Delete(slices.Clone(n.Columns), col, col+1)
		c.Cols = len(c.Columns)
		return c, true
	})
}

// InsertTableRow adds a row of empty cells at index at (clamped to [0, rows]).
func InsertTableRow(nodes []*Node, parentID string, at int) ([]*Node, bool) {
	out, _, ok := structural(nodes, parentID, KindTable, func(n *Node) (*Node, bool) {
		at = clamp(at, 0, len(n.Cells))
		c := n.clone()
		c.Cells = slices.Insert(slices.Clone(n.Cells), at, emptyRow(n.Cols))
		c.Rows = len(c.Cells)
		return c, true
	})
	return out, ok
}

// InsertTableColumn adds an empty cell at column index at of every row.
// Rows shorter than the counter, as found in unvalidated trees, get the cell
// appended.
func InsertTableColumn(nodes []*Node, parentID string, at int) ([]*Node, bool) {
	out, _, ok := structural(nodes, parentID, KindTable, func(n *Node) (*Node, bool) {
		at = clamp(at, 0, n.Cols)
		c := n.clone()
		c.Cells = make([][][]*Node, len(n.Cells))
		for r, row := range n.Cells {
			c.Cells[r] = slices.Insert(slices.Clone(row), min(at, len(row)), []*Node{})
		}
		c.Cols = n.Cols + 1
		return c, true
	})
	return out, ok
}

// DeleteTableRow removes row r of a table and every node in its cells.
func DeleteTableRow(nodes []*Node, parentID string, r int) (out []*Node, removed bool, ok bool) {
	return structural(nodes, parentID, KindTable, func(n *Node) (*Node, bool) {
		if r < 0 || r >= len(n.Cells) {
			return nil, false
		}
		if len(n.Cells) == 1 {
			return nil, true
		}
		c := n.clone()
		c.Cells = slices.Delete(slices.Clone(n.Cells), r, r+1)
		c.Rows = len(c.Cells)
		return c, true
	})
}

// DeleteTableColumn removes cell col from every row of a table. Rows too
// short to have that cell are left as they are.
func DeleteTableColumn(nodes []*Node, parentID string, col int) (out []*Node, removed bool, ok bool) {
	return structural(nodes, parentID, KindTable, func(n *Node) (*Node, bool) {
		if col < 0 || col >= n.Cols {
			return nil, false
		}
		if n.Cols == 1 {
			return nil, true
		}
		c := n.clone()
		c.Cells = make([][][]*Node, len(n.Cells))
		for r, row := range n.Cells {
			if col >= len(row) {
				c.Cells[r] = row
				continue
			}
			c.Cells[r] = slices.Delete(slices.Clone(row), col, col+1)
		}
		c.Cols = n.Cols - 1
		return c, true
	})
}

// AddTab appends an empty tab. An empty name becomes "Tab n" where n is the
// new tab's 1-based position.
func AddTab(nodes []*Node, parentID, name string) ([]*Node, bool) {
	out, _, ok := structural(nodes, parentID, KindTabs, func(n *Node) (*Node, bool) {
		if name == "" {
			name = tabName(len(n.Tabs) + 1)
		}
		c := n.clone()
		c.Tabs = append(slices.Clone(n.Tabs), &Tab{Name: name, Children: []*Node{}})
		return c, true
	})
	return out, ok
}

// RenameTab changes the name of tab i.
func RenameTab(nodes []*Node, parentID string, i int, name string) ([]*Node, bool) {
	out, _, ok := structural(nodes, parentID, KindTabs, func(n *Node) (*Node, bool) {
		if i < 0 || i >= len(n.Tabs) {
			return nil, false
		}
		c := n.clone()
		c.Tabs = slices.Clone(n.Tabs)
		t := *n.Tabs[i]
		t.Name = name
		c.Tabs[i] = &t
		return c, true
	})
	return out, ok
}

// DeleteTab removes tab i with its contents. Deleting the only tab removes
// the tabs container itself, since a tabs node without tabs is invalid.
func DeleteTab(nodes []*Node, parentID string, i int) (out []*Node, removed bool, ok bool) {
	return structural(nodes, parentID, KindTabs, func(n *Node) (*Node, bool) {
		if i < 0 || i >= len(n.Tabs) {
			return nil, false
		}
		if len(n.Tabs) == 1 {
			return nil, true
		}
		c := n.clone()
		c.Tabs = slices.Delete(slices.Clone(n.Tabs), i, i+1)
		return c, true
	})
}

func emptyRow(cols int) [][]*Node {
	row := make([][]*Node, cols)
	for i := range row {
		row[i] = []*Node{}
	}
	return row
}

func tabName(n int) string { return fmt.Sprintf("Tab %d", n) }
