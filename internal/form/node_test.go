package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	json "github.com/goccy/go-json"
	"github.com/hanpama/formtree/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeJSON_Shape(t *testing.T) {
	tree := []*form.Node{
		columns("c", list(leaf("a", form.KindText, "A")), list()),
		table("tb", [][]*form.Node{list(), list(leaf("b", form.KindNumber, "B"))}),
		tabs("t", &form.Tab{Name: "Tab 1", Children: nil}),
	}
	data, err := json.Marshal(tree)
	require.NoError(t, err)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	require.Len(t, generic, 3)

	assert.Equal(t, "columns", generic[0]["type"])
	assert.EqualValues(t, 2, generic[0]["cols"])
	cols := generic[0]["children"].([]any)
	require.Len(t, cols, 2)
	assert.Len(t, cols[0], 1)
	assert.Equal(t, []any{}, cols[1], "empty column encodes as []")

	assert.EqualValues(t, 1, generic[1]["rows"])
	cells := generic[1]["children"].([]any)
	require.Len(t, cells, 1)
	assert.Len(t, cells[0], 2)

	tabList := generic[2]["tabs"].([]any)
	require.Len(t, tabList, 1)
	assert.Equal(t, map[string]any{"name": "Tab 1", "children": []any{}}, tabList[0])
	assert.NotContains(t, generic[2], "children")
}

func TestNodeJSON_RoundTrip(t *testing.T) {
	tree := fixture()
	tree, _ = form.Update(tree, "a", form.Patch{Attrs: map[string]any{"required": true, "options": []any{"x", "y"}}})

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	var back []*form.Node
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(tree, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	requireValid(t, back)
}

func TestNodeJSON_BadChildren(t *testing.T) {
	var n form.Node
	err := json.Unmarshal([]byte(`{"id":"c","type":"columns","cols":1,"children":{"x":1}}`), &n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node c")
}
