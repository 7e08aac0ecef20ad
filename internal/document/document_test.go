package document_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/formtree/internal/document"
	"github.com/hanpama/formtree/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNodes(t *testing.T) []*form.Node {
	t.Helper()
	n := 0
	ids := form.WithIDGenerator(func() string {
		n++
		return string(rune('a' + n - 1))
	})
	nodes := []*form.Node{form.Heading("Survey", ids)}
	cols := form.MustNewNode(form.Template{Type: form.KindColumns}, ids)
	tabs := form.MustNewNode(form.Template{Type: form.KindTabs, DefaultTabs: func() *int { v := 1; return &v }()}, ids)
	name := form.MustNewNode(form.Template{Type: form.KindText, Label: "Name", Attrs: map[string]any{"required": true}}, ids)
	pick := form.MustNewNode(form.Template{Type: form.KindSelect, Label: "Colour", Attrs: map[string]any{"options": []any{"red", "yes"}, "max": float64(2)}}, ids)

	var ok bool
	nodes, ok = form.Insert(nodes, cols, "", form.Slot{})
	require.True(t, ok)
	nodes, ok = form.Insert(nodes, name, cols.ID, form.Col(0))
	require.True(t, ok)
	nodes, ok = form.Insert(nodes, tabs, cols.ID, form.Col(1))
	require.True(t, ok)
	nodes, ok = form.Insert(nodes, pick, tabs.ID, form.TabAt(0))
	require.True(t, ok)
	nodes, ok = form.Insert(nodes, form.MustNewNode(form.Template{Type: form.KindTable}, ids), "", form.Slot{})
	require.True(t, ok)
	return nodes
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []document.Format{document.FormatJSON, document.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			doc := document.New(sampleNodes(t))
			data, err := document.Marshal(doc, f)
			require.NoError(t, err)

			back, err := document.Unmarshal(data, f)
			require.NoError(t, err)
			if diff := cmp.Diff(doc, back); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshal_EmptyDocument(t *testing.T) {
	doc, err := document.UnmarshalJSON([]byte(`{"version":1}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.Nodes)
	assert.Empty(t, doc.Nodes)
}

func TestUnmarshal_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		target error
	}{
		{name: "version", data: `{"version":2,"nodes":[]}`, target: document.ErrUnsupportedVersion},
		{name: "counter drift", data: `{"version":1,"nodes":[{"id":"c","type":"columns","cols":2,"children":[[]]}]}`},
		{name: "empty tabs", data: `{"version":1,"nodes":[{"id":"t","type":"tabs","tabs":[]}]}`},
		{name: "syntax", data: `{"version":`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := document.UnmarshalJSON([]byte(tc.data))
			require.Error(t, err)
			if tc.target != nil {
				assert.True(t, errors.Is(err, tc.target))
			}
		})
	}
}

func TestUnmarshal_ValidationErrorExposed(t *testing.T) {
	_, err := document.UnmarshalJSON([]byte(`{"version":1,"nodes":[{"id":"c","type":"columns","cols":2,"children":[[]]}]}`))
	ve, ok := form.AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve, 1)
	assert.Equal(t, "c", ve[0].NodeID)
}

func TestFormatOf(t *testing.T) {
	f, err := document.FormatOf("form.JSON")
	require.NoError(t, err)
	assert.Equal(t, document.FormatJSON, f)

	f, err = document.FormatOf("dir/form.yml")
	require.NoError(t, err)
	assert.Equal(t, document.FormatYAML, f)

	_, err = document.FormatOf("form.txt")
	assert.True(t, errors.Is(err, document.ErrUnknownFormat))
}
