package form_test

import (
	"fmt"
	"testing"

	"github.com/hanpama/formtree/internal/form"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

// seqIDs returns an id source yielding prefix1, prefix2, ...
func seqIDs(prefix string) form.NodeOption {
	n := 0
	return form.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	})
}

func leaf(id string, kind form.Kind, label string) *form.Node {
	return &form.Node{ID: id, Type: kind, Label: label}
}

func columns(id string, cols ...[]*form.Node) *form.Node {
	return &form.Node{ID: id, Type: form.KindColumns, Cols: len(cols), Columns: cols}
}

func tabs(id string, tabs ...*form.Tab) *form.Node {
	return &form.Node{ID: id, Type: form.KindTabs, Tabs: tabs}
}

func table(id string, rows ...[][]*form.Node) *form.Node {
	n := &form.Node{ID: id, Type: form.KindTable, Rows: len(rows), Cells: rows}
	if len(rows) > 0 {
		n.Cols = len(rows[0])
	}
	return n
}

func list(nodes ...*form.Node) []*form.Node {
	if nodes == nil {
		return []*form.Node{}
	}
	return nodes
}

// fixture builds:
//
//	heading h "Survey"
//	columns cols
//	  [col 0] text a
//	  [col 1] tabs t
//	            [tab 0] text b, text c, text d
//	            [tab 1]
//	table tb 2x2
//	  [row 1, col 0] number e
func fixture() []*form.Node {
	return []*form.Node{
		leaf("h", form.KindHeading, "Survey"),
		columns("cols",
			list(leaf("a", form.KindText, "A")),
			list(tabs("t",
				&form.Tab{Name: "Tab 1", Children: list(
					leaf("b", form.KindText, "B"),
					leaf("c", form.KindText, "C"),
					leaf("d", form.KindText, "D"),
				)},
				&form.Tab{Name: "Tab 2", Children: list()},
			)),
		),
		table("tb",
			[][]*form.Node{list(), list()},
			[][]*form.Node{list(leaf("e", form.KindNumber, "E")), list()},
		),
	}
}

func ids(nodes []*form.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func slotIDs(t *testing.T, nodes []*form.Node, parentID string, at form.Slot) []string {
	t.Helper()
	parent := form.Find(nodes, parentID)
	require.NotNil(t, parent, "parent %s", parentID)
	l, ok := parent.Slot(at)
	require.True(t, ok, "slot %s of %s", at, parentID)
	return ids(l)
}

func requireValid(t *testing.T, nodes []*form.Node) {
	t.Helper()
	require.NoError(t, form.Validate(nodes))
}
