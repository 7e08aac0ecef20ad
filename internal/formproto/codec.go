package formproto

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/hanpama/formtree/internal/document"
	"github.com/hanpama/formtree/internal/form"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

var ErrUnknownKind = errors.New("formproto: unknown kind")

type descriptors struct {
	document  protoreflect.MessageDescriptor
	node      protoreflect.MessageDescriptor
	attribute protoreflect.MessageDescriptor
	column    protoreflect.MessageDescriptor
	row       protoreflect.MessageDescriptor
	cell      protoreflect.MessageDescriptor
	tab       protoreflect.MessageDescriptor
	kind      protoreflect.EnumDescriptor
}

func lookup(fd protoreflect.FileDescriptor) (*descriptors, error) {
	msgs := fd.Messages()
	d := &descriptors{
		document:  msgs.ByName("Document"),
		node:      msgs.ByName("Node"),
		attribute: msgs.ByName("Attribute"),
		column:    msgs.ByName("Column"),
		row:       msgs.ByName("Row"),
		cell:      msgs.ByName("Cell"),
		tab:       msgs.ByName("Tab"),
		kind:      fd.Enums().ByName("Kind"),
	}
	if d.document == nil || d.node == nil || d.attribute == nil || d.column == nil ||
		d.row == nil || d.cell == nil || d.tab == nil || d.kind == nil {
		return nil, fmt.Errorf("formproto: %s does not describe form documents", fd.Path())
	}
	return d, nil
}

func get(m protoreflect.Message, name protoreflect.Name) protoreflect.Value {
	return m.Get(m.Descriptor().Fields().ByName(name))
}

func set(m protoreflect.Message, name protoreflect.Name, v protoreflect.Value) {
	m.Set(m.Descriptor().Fields().ByName(name), v)
}

func mutableList(m protoreflect.Message, name protoreflect.Name) protoreflect.List {
	return m.Mutable(m.Descriptor().Fields().ByName(name)).List()
}

// Encode converts nodes into a dynamic Document message described by fd.
func Encode(fd protoreflect.FileDescriptor, nodes []*form.Node) (*dynamicpb.Message, error) {
	d, err := lookup(fd)
	if err != nil {
		return nil, err
	}
	msg := dynamicpb.NewMessage(d.document)
	set(msg, "version", protoreflect.ValueOfInt32(document.Version))
	if err := d.encodeNodes(mutableList(msg, "nodes"), nodes); err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *descriptors) encodeNodes(list protoreflect.List, nodes []*form.Node) error {
	for _, n := range nodes {
		m, err := d.encodeNode(n)
		if err != nil {
			return err
		}
		list.Append(protoreflect.ValueOfMessage(m))
	}
	return nil
}

func (d *descriptors) encodeNode(n *form.Node) (*dynamicpb.Message, error) {
	if n == nil {
		return nil, errors.New("formproto: nil node")
	}
	ev := d.kind.Values().ByName(kindValueName(n.Type))
	if ev == nil || !n.Type.Valid() {
		return nil, fmt.Errorf("%w %q on node %s", ErrUnknownKind, n.Type, n.ID)
	}

	m := dynamicpb.NewMessage(d.node)
	set(m, "id", protoreflect.ValueOfString(n.ID))
	set(m, "type", protoreflect.ValueOfEnum(ev.Number()))
	set(m, "label", protoreflect.ValueOfString(n.Label))
	set(m, "cols", protoreflect.ValueOfInt32(int32(n.Cols)))
	set(m, "rows", protoreflect.ValueOfInt32(int32(n.Rows)))

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := mutableList(m, "attrs")
	for _, k := range keys {
		data, err := json.Marshal(n.Attrs[k])
		if err != nil {
			return nil, fmt.Errorf("formproto: node %s attribute %q: %w", n.ID, k, err)
		}
		am := dynamicpb.NewMessage(d.attribute)
		set(am, "key", protoreflect.ValueOfString(k))
		set(am, "json", protoreflect.ValueOfString(string(data)))
		attrs.Append(protoreflect.ValueOfMessage(am))
	}

	columns := mutableList(m, "columns")
	for _, col := range n.Columns {
		cm := dynamicpb.NewMessage(d.column)
		if err := d.encodeNodes(mutableList(cm, "nodes"), col); err != nil {
			return nil, err
		}
		columns.Append(protoreflect.ValueOfMessage(cm))
	}

	rows := mutableList(m, "table")
	for _, row := range n.Cells {
		rm := dynamicpb.NewMessage(d.row)
		cells := mutableList(rm, "cells")
		for _, cell := range row {
			cm := dynamicpb.NewMessage(d.cell)
			if err := d.encodeNodes(mutableList(cm, "nodes"), cell); err != nil {
				return nil, err
			}
			cells.Append(protoreflect.ValueOfMessage(cm))
		}
		rows.Append(protoreflect.ValueOfMessage(rm))
	}

	tabs := mutableList(m, "tabs")
	for _, tab := range n.Tabs {
		tm := dynamicpb.NewMessage(d.tab)
		set(tm, "name", protoreflect.ValueOfString(tab.Name))
		if err := d.encodeNodes(mutableList(tm, "nodes"), tab.Children); err != nil {
			return nil, err
		}
		tabs.Append(protoreflect.ValueOfMessage(tm))
	}
	return m, nil
}

// Decode converts a Document message back into a node tree. The result is
// not validated; callers that need the tree invariants run form.Validate.
func Decode(msg protoreflect.Message) ([]*form.Node, error) {
	md := msg.Descriptor()
	d, err := lookup(md.ParentFile())
	if err != nil {
		return nil, err
	}
	if md.FullName() != d.document.FullName() {
		return nil, fmt.Errorf("formproto: cannot decode %s, want %s", md.FullName(), d.document.FullName())
	}
	if v := get(msg, "version").Int(); v != document.Version {
		return nil, fmt.Errorf("formproto: %w %d", document.ErrUnsupportedVersion, v)
	}
	return d.decodeNodes(get(msg, "nodes").List())
}

func (d *descriptors) decodeNodes(list protoreflect.List) ([]*form.Node, error) {
	out := make([]*form.Node, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		n, err := d.decodeNode(list.Get(i).Message())
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (d *descriptors) decodeNode(m protoreflect.Message) (*form.Node, error) {
	n := &form.Node{
		ID:    get(m, "id").String(),
		Label: get(m, "label").String(),
		Cols:  int(get(m, "cols").Int()),
		Rows:  int(get(m, "rows").Int()),
	}
	num := get(m, "type").Enum()
	ev := d.kind.Values().ByNumber(num)
	if ev == nil || num == 0 {
		return nil, fmt.Errorf("%w %d on node %s", ErrUnknownKind, num, n.ID)
	}
	n.Type = kindFromValueName(ev.Name())

	attrs := get(m, "attrs").List()
	if attrs.Len() > 0 {
		n.Attrs = make(map[string]any, attrs.Len())
	}
	for i := 0; i < attrs.Len(); i++ {
		am := attrs.Get(i).Message()
		key := get(am, "key").String()
		var v any
		if err := json.Unmarshal([]byte(get(am, "json").String()), &v); err != nil {
			return nil, fmt.Errorf("formproto: node %s attribute %q: %w", n.ID, key, err)
		}
		n.Attrs[key] = v
	}

	switch n.Type {
	case form.KindColumns:
		columns := get(m, "columns").List()
		n.Columns = make([][]*form.Node, 0, columns.Len())
		for i := 0; i < columns.Len(); i++ {
			col, err := d.decodeNodes(get(columns.Get(i).Message(), "nodes").List())
			if err != nil {
				return nil, err
			}
			n.Columns = append(n.Columns, col)
		}
	case form.KindTable:
		rows := get(m, "table").List()
		n.Cells = make([][][]*form.Node, 0, rows.Len())
		for i := 0; i < rows.Len(); i++ {
			cells := get(rows.Get(i).Message(), "cells").List()
			row := make([][]*form.Node, 0, cells.Len())
			for j := 0; j < cells.Len(); j++ {
				cell, err := d.decodeNodes(get(cells.Get(j).Message(), "nodes").List())
				if err != nil {
					return nil, err
				}
				row = append(row, cell)
			}
			n.Cells = append(n.Cells, row)
		}
	case form.KindTabs:
		tabs := get(m, "tabs").List()
		n.Tabs = make([]*form.Tab, 0, tabs.Len())
		for i := 0; i < tabs.Len(); i++ {
			tm := tabs.Get(i).Message()
			children, err := d.decodeNodes(get(tm, "nodes").List())
			if err != nil {
				return nil, err
			}
			n.Tabs = append(n.Tabs, &form.Tab{Name: get(tm, "name").String(), Children: children})
		}
	}
	return n, nil
}

// MarshalJSON encodes nodes with the canonical protobuf JSON mapping.
func MarshalJSON(fd protoreflect.FileDescriptor, nodes []*form.Node) ([]byte, error) {
	msg, err := Encode(fd, nodes)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func UnmarshalJSON(fd protoreflect.FileDescriptor, data []byte) ([]*form.Node, error) {
	d, err := lookup(fd)
	if err != nil {
		return nil, err
	}
	msg := dynamicpb.NewMessage(d.document)
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("formproto: %w", err)
	}
	return Decode(msg)
}

// MarshalBinary encodes nodes in the protobuf wire format. Output is
// deterministic for equal trees.
func MarshalBinary(fd protoreflect.FileDescriptor, nodes []*form.Node) ([]byte, error) {
	msg, err := Encode(fd, nodes)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}

// UnmarshalBinary is the inverse of MarshalBinary.
func UnmarshalBinary(fd protoreflect.FileDescriptor, data []byte) ([]*form.Node, error) {
	d, err := lookup(fd)
	if err != nil {
		return nil, err
	}
	msg := dynamicpb.NewMessage(d.document)
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("formproto: %w", err)
	}
	return Decode(msg)
}
