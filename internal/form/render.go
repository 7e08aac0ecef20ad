package form

import (
	"fmt"
	"slices"
	"strings"
)

// Render produces an indented outline of the tree, one line per node and
// one line per container slot. Attribute keys are sorted so the output is
// deterministic.
func Render(nodes []*Node) string {
	var b strings.Builder
	renderList(&b, nodes, 0)
	return b.String()
}

func renderList(b *strings.Builder, nodes []*Node, depth int) {
	for _, n := range nodes {
		renderNode(b, n, depth)
	}
}

func renderNode(b *strings.Builder, n *Node, depth int) {
	indent(b, depth)
	b.WriteString(string(n.Type))
	if n.Label != "" {
		fmt.Fprintf(b, " %q", n.Label)
	}
	switch n.Type {
	case KindColumns:
		fmt.Fprintf(b, " cols=%d", n.Cols)
	case KindTable:
		fmt.Fprintf(b, " rows=%d cols=%d", n.Rows, n.Cols)
	}
	renderAttrs(b, n.Attrs)
	fmt.Fprintf(b, " #%s\n", n.ID)

	for _, at := range n.Slots() {
		indent(b, depth+1)
		switch n.Type {
		case KindColumns:
			fmt.Fprintf(b, "[col %d]\n", at.Col)
		case KindTable:
			fmt.Fprintf(b, "[row %d, col %d]\n", at.Row, at.Col)
		case KindTabs:
			fmt.Fprintf(b, "[tab %d %q]\n", at.Row, n.Tabs[at.Row].Name)
		}
		list, _ := n.Slot(at)
		renderList(b, list, depth+2)
	}
}

func renderAttrs(b *strings.Builder, attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	b.WriteString(" {")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s=%v", k, attrs[k])
	}
	b.WriteString("}")
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}
