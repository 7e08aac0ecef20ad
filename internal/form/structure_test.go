package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/formtree/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteColumn(t *testing.T) {
	tree := fixture()
	out, removed, ok := form.DeleteColumn(tree, "cols", 1)
	require.True(t, ok)
	assert.False(t, removed)

	c := form.Find(out, "cols")
	assert.Equal(t, 1, c.Cols)
	assert.Len(t, c.Columns, 1)
	assert.Equal(t, []string{"a"}, ids(c.Columns[0]))
	assert.Nil(t, form.Find(out, "t"), "nested tabs discarded with its column")
	assert.Nil(t, form.Find(out, "b"))
	assert.Equal(t, 2, form.Find(tree, "cols").Cols, "input tree must not change")
	requireValid(t, out)
}

func TestDeleteColumn_LastRemovesContainer(t *testing.T) {
	tree, _, ok := form.DeleteColumn(fixture(), "cols", 0)
	require.True(t, ok)
	out, removed, ok := form.DeleteColumn(tree, "cols", 0)
	require.True(t, ok)
	assert.True(t, removed)
	assert.Nil(t, form.Find(out, "cols"))
	assert.Equal(t, []string{"h", "tb"}, ids(out))
	requireValid(t, out)
}

func TestInsertColumn(t *testing.T) {
	tests := []struct {
		name string
		at   int
		want [][]string
	}{
		{name: "front", at: 0, want: [][]string{{}, {"a"}, {"t"}}},
		{name: "middle", at: 1, want: [][]string{{"a"}, {}, {"t"}}},
		{name: "end", at: 2, want: [][]string{{"a"}, {"t"}, {}}},
		{name: "clamped", at: 40, want: [][]string{{"a"}, {"t"}, {}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := form.InsertColumn(fixture(), "cols", tc.at)
			require.True(t, ok)
			c := form.Find(out, "cols")
			assert.Equal(t, 3, c.Cols)
			got := make([][]string, len(c.Columns))
			for i, l := range c.Columns {
				got[i] = ids(l)
			}
			assert.Equal(t, tc.want, got)
			requireValid(t, out)
		})
	}
}

func TestTableRowsAndColumns(t *testing.T) {
	tree := fixture()

	out, ok := form.InsertTableRow(tree, "tb", 1)
	require.True(t, ok)
	tb := form.Find(out, "tb")
	assert.Equal(t, 3, tb.Rows)
	assert.Equal(t, []string{"e"}, ids(tb.Cells[2][0]))
	requireValid(t, out)

	out, ok = form.InsertTableColumn(out, "tb", 0)
	require.True(t, ok)
	tb = form.Find(out, "tb")
	assert.Equal(t, 3, tb.Cols)
	assert.Equal(t, []string{"e"}, ids(tb.Cells[2][1]))
	requireValid(t, out)

	out, removed, ok := form.DeleteTableColumn(out, "tb", 1)
	require.True(t, ok)
	assert.False(t, removed)
	tb = form.Find(out, "tb")
	assert.Equal(t, 2, tb.Cols)
	assert.Nil(t, form.Find(out, "e"))
	requireValid(t, out)

	out, removed, ok = form.DeleteTableRow(out, "tb", 0)
	require.True(t, ok)
	assert.False(t, removed)
	tb = form.Find(out, "tb")
	assert.Equal(t, 2, tb.Rows)
	assert.Len(t, tb.Cells, 2)
	requireValid(t, out)

	tb = form.Find(tree, "tb")
	assert.Equal(t, 2, tb.Rows, "input tree must not change")
	assert.Equal(t, 2, tb.Cols)
}

func TestDeleteTableRow_DropsCellContents(t *testing.T) {
	out, removed, ok := form.DeleteTableRow(fixture(), "tb", 1)
	require.True(t, ok)
	assert.False(t, removed)
	assert.Nil(t, form.Find(out, "e"))
	assert.Equal(t, 1, form.Find(out, "tb").Rows)
	requireValid(t, out)
}

func TestTable_LastRowOrColumnRemovesContainer(t *testing.T) {
	single := []*form.Node{table("tb", [][]*form.Node{list(leaf("x", form.KindText, ""))})}

	out, removed, ok := form.DeleteTableRow(single, "tb", 0)
	require.True(t, ok)
	assert.True(t, removed)
	assert.Empty(t, out)

	out, removed, ok = form.DeleteTableColumn(single, "tb", 0)
	require.True(t, ok)
	assert.True(t, removed)
	assert.Empty(t, out)
}

func TestTabs(t *testing.T) {
	out, ok := form.AddTab(fixture(), "t", "")
	require.True(t, ok)
	tn := form.Find(out, "t")
	require.Len(t, tn.Tabs, 3)
	assert.Equal(t, "Tab 3", tn.Tabs[2].Name)
	assert.NotNil(t, tn.Tabs[2].Children)

	out, ok = form.AddTab(out, "t", "Extra")
	require.True(t, ok)
	assert.Equal(t, "Extra", form.Find(out, "t").Tabs[3].Name)

	out, ok = form.RenameTab(out, "t", 0, "Personal")
	require.True(t, ok)
	assert.Equal(t, "Personal", form.Find(out, "t").Tabs[0].Name)
	assert.Equal(t, []string{"b", "c", "d"}, slotIDs(t, out, "t", form.TabAt(0)))

	out, removed, ok := form.DeleteTab(out, "t", 0)
	require.True(t, ok)
	assert.False(t, removed)
	tn = form.Find(out, "t")
	assert.Len(t, tn.Tabs, 3)
	assert.Equal(t, "Tab 2", tn.Tabs[0].Name)
	assert.Nil(t, form.Find(out, "b"))
	requireValid(t, out)
}

func TestDeleteTab_LastRemovesTabsNode(t *testing.T) {
	tree, removed, ok := form.DeleteTab(fixture(), "t", 1)
	require.True(t, ok)
	require.False(t, removed)

	out, removed, ok := form.DeleteTab(tree, "t", 0)
	require.True(t, ok)
	assert.True(t, removed)
	assert.Nil(t, form.Find(out, "t"))
	assert.Nil(t, form.Find(out, "b"))

	c := form.Find(out, "cols")
	require.NotNil(t, c)
	assert.Equal(t, 2, c.Cols, "parent columns keep their shape")
	assert.Empty(t, c.Columns[1])
	requireValid(t, out)
}

func TestStructural_NoOp(t *testing.T) {
	tests := []struct {
		name string
		edit func([]*form.Node) ([]*form.Node, bool)
	}{
		{"delete column out of range", func(n []*form.Node) ([]*form.Node, bool) {
			out, _, ok := form.DeleteColumn(n, "cols", 2)
			return out, ok
		}},
		{"delete column on table", func(n []*form.Node) ([]*form.Node, bool) {
			out, _, ok := form.DeleteColumn(n, "tb", 0)
			return out, ok
		}},
		{"delete column unknown", func(n []*form.Node) ([]*form.Node, bool) {
			out, _, ok := form.DeleteColumn(n, "nope", 0)
			return out, ok
		}},
		{"insert column on tabs", func(n []*form.Node) ([]*form.Node, bool) {
			return form.InsertColumn(n, "t", 0)
		}},
		{"delete row negative", func(n []*form.Node) ([]*form.Node, bool) {
			out, _, ok := form.DeleteTableRow(n, "tb", -1)
			return out, ok
		}},
		{"delete table column past end", func(n []*form.Node) ([]*form.Node, bool) {
			out, _, ok := form.DeleteTableColumn(n, "tb", 2)
			return out, ok
		}},
		{"delete tab out of range", func(n []*form.Node) ([]*form.Node, bool) {
			out, _, ok := form.DeleteTab(n, "t", 2)
			return out, ok
		}},
		{"rename tab out of range", func(n []*form.Node) ([]*form.Node, bool) {
			return form.RenameTab(n, "t", -1, "x")
		}},
		{"add tab on columns", func(n []*form.Node) ([]*form.Node, bool) {
			return form.AddTab(n, "cols", "x")
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := tc.edit(fixture())
			assert.False(t, ok)
			if diff := cmp.Diff(fixture(), out); diff != "" {
				t.Fatalf("tree changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableColumns_RaggedRows(t *testing.T) {
	ragged := []*form.Node{{ID: "tb", Type: form.KindTable, Rows: 1, Cols: 3, Cells: [][][]*form.Node{
		{list(leaf("x", form.KindText, "")), list()},
	}}}

	out, removed, ok := form.DeleteTableColumn(ragged, "tb", 2)
	require.True(t, ok)
	assert.False(t, removed)
	tb := form.Find(out, "tb")
	assert.Equal(t, 2, tb.Cols)
	assert.Len(t, tb.Cells[0], 2)
	assert.NotNil(t, form.Find(out, "x"))

	out, ok = form.InsertTableColumn(ragged, "tb", 3)
	require.True(t, ok)
	tb = form.Find(out, "tb")
	assert.Equal(t, 4, tb.Cols)
	require.Len(t, tb.Cells[0], 3)
	assert.Empty(t, tb.Cells[0][2])
}
