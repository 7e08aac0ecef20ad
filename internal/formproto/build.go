// Package formproto exposes form trees as protobuf messages. The descriptor
// is built at runtime so it always tracks the set of node kinds.
package formproto

import (
	"strings"

	"github.com/hanpama/formtree/internal/form"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	FilePath    = "formtree/v1/document.proto"
	PackageName = "formtree.v1"

	kindPrefix = "KIND_"
)

type field struct {
	name     protoreflect.Name
	typ      *protobuilder.FieldType
	repeated bool
	desc     string
}

// Build returns the descriptor of formtree/v1/document.proto.
func Build() (protoreflect.FileDescriptor, error) {
	fb := protobuilder.NewFile(FilePath)
	fb.SetPackageName(PackageName)
	fb.SetSyntax(protoreflect.Proto3)

	kind := buildKind()
	fb.AddEnum(kind)

	document := protobuilder.NewMessage("Document")
	document.SetComments(comment("Document is a versioned form tree."))
	node := protobuilder.NewMessage("Node")
	node.SetComments(comment("Node is one field or container.\nOnly the list matching type is populated."))
	attribute := protobuilder.NewMessage("Attribute")
	attribute.SetComments(comment("Attribute carries one JSON-encoded attribute value."))
	column := protobuilder.NewMessage("Column")
	row := protobuilder.NewMessage("Row")
	cell := protobuilder.NewMessage("Cell")
	tab := protobuilder.NewMessage("Tab")

	addFields(document,
		field{name: "version", typ: protobuilder.FieldTypeScalar(protoreflect.Int32Kind)},
		field{name: "nodes", typ: protobuilder.FieldTypeMessage(node), repeated: true},
	)
	addFields(node,
		field{name: "id", typ: protobuilder.FieldTypeScalar(protoreflect.StringKind)},
		field{name: "type", typ: protobuilder.FieldTypeEnum(kind)},
		field{name: "label", typ: protobuilder.FieldTypeScalar(protoreflect.StringKind)},
		field{name: "attrs", typ: protobuilder.FieldTypeMessage(attribute), repeated: true, desc: "Sorted by key."},
		field{name: "cols", typ: protobuilder.FieldTypeScalar(protoreflect.Int32Kind)},
		field{name: "rows", typ: protobuilder.FieldTypeScalar(protoreflect.Int32Kind)},
		field{name: "columns", typ: protobuilder.FieldTypeMessage(column), repeated: true},
		field{name: "table", typ: protobuilder.FieldTypeMessage(row), repeated: true},
		field{name: "tabs", typ: protobuilder.FieldTypeMessage(tab), repeated: true},
	)
	addFields(attribute,
		field{name: "key", typ: protobuilder.FieldTypeScalar(protoreflect.StringKind)},
		field{name: "json", typ: protobuilder.FieldTypeScalar(protoreflect.StringKind)},
	)
	addFields(column,
		field{name: "nodes", typ: protobuilder.FieldTypeMessage(node), repeated: true},
	)
	addFields(row,
		field{name: "cells", typ: protobuilder.FieldTypeMessage(cell), repeated: true},
	)
	addFields(cell,
		field{name: "nodes", typ: protobuilder.FieldTypeMessage(node), repeated: true},
	)
	addFields(tab,
		field{name: "name", typ: protobuilder.FieldTypeScalar(protoreflect.StringKind)},
		field{name: "nodes", typ: protobuilder.FieldTypeMessage(node), repeated: true},
	)

	for _, mb := range []*protobuilder.MessageBuilder{document, node, attribute, column, row, cell, tab} {
		fb.AddMessage(mb)
	}
	return fb.Build()
}

func buildKind() *protobuilder.EnumBuilder {
	eb := protobuilder.NewEnum("Kind")
	eb.SetComments(comment("Kind mirrors the node type."))

	zero := protobuilder.NewEnumValue(kindPrefix + "UNSPECIFIED")
	zero.SetNumber(0)
	eb.AddValue(zero)

	kinds := form.Kinds()
	evbs := make([]*protobuilder.EnumValueBuilder, 0, len(kinds))
	for _, k := range kinds {
		evb := protobuilder.NewEnumValue(kindValueName(k))
		eb.AddValue(evb)
		evbs = append(evbs, evb)
	}
	allocateEnumValueNumbers(evbs)
	return eb
}

func addFields(mb *protobuilder.MessageBuilder, fields ...field) {
	fbs := make([]*protobuilder.FieldBuilder, 0, len(fields))
	for _, f := range fields {
		fb := protobuilder.NewField(f.name, f.typ)
		fb.SetComments(comment(f.desc))
		if f.repeated {
			fb.SetRepeated()
		}
		mb.AddField(fb)
		fbs = append(fbs, fb)
	}
	allocateFieldNumbers(fbs)
}

func kindValueName(k form.Kind) protoreflect.Name {
	return protoreflect.Name(kindPrefix + strings.ToUpper(string(k)))
}

func kindFromValueName(name protoreflect.Name) form.Kind {
	return form.Kind(strings.ToLower(strings.TrimPrefix(string(name), kindPrefix)))
}
