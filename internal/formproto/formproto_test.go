package formproto_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/formtree/internal/document"
	"github.com/hanpama/formtree/internal/form"
	"github.com/hanpama/formtree/internal/formproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

func buildDescriptor(t *testing.T) protoreflect.FileDescriptor {
	t.Helper()
	fd, err := formproto.Build()
	require.NoError(t, err)
	return fd
}

func sample() []*form.Node {
	return []*form.Node{
		{ID: "h", Type: form.KindHeading, Label: "Survey"},
		{ID: "cols", Type: form.KindColumns, Cols: 2, Columns: [][]*form.Node{
			{{ID: "a", Type: form.KindText, Label: "A", Attrs: map[string]any{
				"required":    true,
				"placeholder": "Your name",
				"options":     []any{"x", "y"},
				"max":         float64(5),
			}}},
			{{ID: "t", Type: form.KindTabs, Tabs: []*form.Tab{
				{Name: "Tab 1", Children: []*form.Node{{ID: "b", Type: form.KindEmail, Label: "B"}}},
				{Name: "Tab 2", Children: []*form.Node{}},
			}}},
		}},
		{ID: "tb", Type: form.KindTable, Rows: 2, Cols: 2, Cells: [][][]*form.Node{
			{{}, {}},
			{{{ID: "e", Type: form.KindNumber, Label: "E"}}, {}},
		}},
	}
}

func TestBuild_Descriptor(t *testing.T) {
	fd := buildDescriptor(t)
	assert.Equal(t, formproto.FilePath, fd.Path())
	assert.Equal(t, protoreflect.FullName(formproto.PackageName), fd.Package())

	for _, name := range []protoreflect.Name{"Document", "Node", "Attribute", "Column", "Row", "Cell", "Tab"} {
		assert.NotNil(t, fd.Messages().ByName(name), name)
	}

	kind := fd.Enums().ByName("Kind")
	require.NotNil(t, kind)
	assert.Equal(t, protoreflect.Name("KIND_UNSPECIFIED"), kind.Values().ByNumber(0).Name())
	for _, k := range form.Kinds() {
		assert.NotNil(t, kind.Values().ByName(protoreflect.Name("KIND_"+upper(string(k)))), k)
	}

	again := buildDescriptor(t)
	node, node2 := fd.Messages().ByName("Node"), again.Messages().ByName("Node")
	for i := 0; i < node.Fields().Len(); i++ {
		f := node.Fields().Get(i)
		assert.Equal(t, f.Number(), node2.Fields().ByName(f.Name()).Number(), "field numbers must be stable")
	}
}

func upper(s string) string {
	return string(bytes.ToUpper([]byte(s)))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	fd := buildDescriptor(t)
	msg, err := formproto.Encode(fd, sample())
	require.NoError(t, err)

	back, err := formproto.Decode(msg)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, form.Validate(back))
}

func TestMarshalBinary_RoundTrip(t *testing.T) {
	fd := buildDescriptor(t)
	data, err := formproto.MarshalBinary(fd, sample())
	require.NoError(t, err)

	again, err := formproto.MarshalBinary(fd, sample())
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding must be deterministic")

	back, err := formproto.UnmarshalBinary(fd, data)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSON(t *testing.T) {
	fd := buildDescriptor(t)
	data, err := formproto.MarshalJSON(fd, sample())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"KIND_COLUMNS"`)

	back, err := formproto.UnmarshalJSON(fd, data)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_UnknownKind(t *testing.T) {
	fd := buildDescriptor(t)
	_, err := formproto.Encode(fd, []*form.Node{{ID: "x", Type: "hologram"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, formproto.ErrUnknownKind))
}

func TestDecode_Rejects(t *testing.T) {
	fd := buildDescriptor(t)

	msg, err := formproto.Encode(fd, sample())
	require.NoError(t, err)
	msg.Set(fd.Messages().ByName("Document").Fields().ByName("version"), protoreflect.ValueOfInt32(7))
	_, err = formproto.Decode(msg)
	assert.True(t, errors.Is(err, document.ErrUnsupportedVersion))

	node := dynamicpb.NewMessage(fd.Messages().ByName("Node"))
	_, err = formproto.Decode(node)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	fd := buildDescriptor(t)
	var buf bytes.Buffer
	require.NoError(t, formproto.Render(fd, &buf))

	out := buf.String()
	assert.Contains(t, out, "package formtree.v1;")
	assert.Contains(t, out, "message Node {")
	assert.Contains(t, out, "enum Kind {")
	assert.Contains(t, out, "KIND_UNSPECIFIED = 0;")
	assert.Contains(t, out, "attrs = 3613;")

	dir := t.TempDir()
	fp, err := formproto.RenderDir(fd, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "formtree", "v1", "document.proto"), fp)
	data, err := os.ReadFile(fp)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestRenderSnapshot(t *testing.T) {
	fd := buildDescriptor(t)
	var buf bytes.Buffer
	require.NoError(t, formproto.Render(fd, &buf))
	actual := buf.String()

	snapshotPath := filepath.Join("testdata", "document.proto")

	// If snapshot doesn't exist, create it
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		require.NoError(t, os.MkdirAll("testdata", 0755))
		err := os.WriteFile(snapshotPath, []byte(actual), 0644)
		require.NoError(t, err, "failed to write snapshot file")
		t.Logf("Created snapshot file: %s", snapshotPath)
		return
	}

	expected, err := os.ReadFile(snapshotPath)
	require.NoError(t, err, "failed to read snapshot file")

	if diff := cmp.Diff(string(expected), actual); diff != "" {
		t.Errorf("Rendered proto snapshot mismatch (-want +got):\n%s", diff)
	}
}
