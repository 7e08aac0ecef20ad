// Package formsdl describes the data a form collects as a GraphQL input
// object, one field per answerable leaf.
package formsdl

import (
	"fmt"
	"strings"

	"github.com/hanpama/formtree/internal/form"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

const (
	scalarString  = "String"
	scalarFloat   = "Float"
	scalarBoolean = "Boolean"
)

// Build returns a schema document with the input object <Name>Submission
// and any enums its fields need. Headings, paragraphs, placeholders and
// containers contribute no fields; container children are flattened in
// document order.
func Build(name string, nodes []*form.Node) *ast.SchemaDocument {
	typeName := pascalCase(name)
	if typeName == "" {
		typeName = "Form"
	}
	b := &builder{
		prefix: typeName,
		types:  unique{},
		fields: unique{},
	}
	b.types.name(typeName + "Submission")

	input := &ast.Definition{
		Kind:        ast.InputObject,
		Name:        typeName + "Submission",
		Description: fmt.Sprintf("Answers submitted for the %s form.", name),
	}
	form.Walk(nodes, func(n *form.Node, _ int) bool {
		if f := b.field(n); f != nil {
			input.Fields = append(input.Fields, f)
		}
		return true
	})

	doc := &ast.SchemaDocument{}
	doc.Definitions = append(doc.Definitions, input)
	doc.Definitions = append(doc.Definitions, b.enums...)
	return doc
}

type builder struct {
	prefix string
	types  unique
	fields unique
	enums  ast.DefinitionList
}

func (b *builder) field(n *form.Node) *ast.FieldDefinition {
	if !answerable(n.Type) {
		return nil
	}
	base := camelCase(n.Label)
	if base == "" {
		base = camelCase(string(n.Type))
	}
	fieldName := b.fields.name(base)

	typeName := scalarString
	switch n.Type {
	case form.KindCheckbox:
		typeName = scalarBoolean
	case form.KindNumber, form.KindRating:
		typeName = scalarFloat
	case form.KindSelect, form.KindRadio:
		if enum := b.enum(fieldName, n); enum != nil {
			typeName = enum.Name
		}
	}

	var typ *ast.Type
	if v, _ := n.Attr(form.AttrRequired); v == true {
		typ = ast.NonNullNamedType(typeName, nil)
	} else {
		typ = ast.NamedType(typeName, nil)
	}

	desc := n.ID
	if n.Label != "" {
		desc = fmt.Sprintf("%s (%s)", n.Label, n.ID)
	}
	if v, _ := n.Attr(form.AttrHelpText); v != nil && v != "" {
		desc += "\n" + fmt.Sprint(v)
	}
	return &ast.FieldDefinition{Name: fieldName, Type: typ, Description: desc}
}

func (b *builder) enum(fieldName string, n *form.Node) *ast.Definition {
	v, _ := n.Attr(form.AttrOptions)
	options, _ := v.([]any)
	seen := unique{}
	var values ast.EnumValueList
	for _, o := range options {
		label := fmt.Sprint(o)
		v := upperSnake(label)
		if v == "" {
			continue
		}
		values = append(values, &ast.EnumValueDefinition{Name: seen.name(v), Description: label})
	}
	if len(values) == 0 {
		return nil
	}
	def := &ast.Definition{
		Kind:       ast.Enum,
		Name:       b.types.name(b.prefix + pascalCase(fieldName)),
		EnumValues: values,
	}
	b.enums = append(b.enums, def)
	return def
}

func answerable(k form.Kind) bool {
	switch k {
	case form.KindHeading, form.KindParagraph, form.KindUnsupported:
		return false
	}
	return k.IsLeaf()
}

// Render formats doc as SDL.
func Render(doc *ast.SchemaDocument) string {
	var b strings.Builder
	formatter.NewFormatter(&b).FormatSchemaDocument(doc)
	return b.String()
}
