package form

import "maps"

// Every mutation below rewrites the root list from the top: the node that
// changes and each of its ancestors are copied, untouched subtrees are shared.
// The bool result reports whether anything changed. A missing id is not an
// error; the input list comes back as is.

// replace finds the node with the given id anywhere in nodes and substitutes
// fn's result for it. fn returning (nil, true) drops the node.
func replace(nodes []*Node, id string, fn func(*Node) (*Node, bool)) ([]*Node, bool) {
	if id == "" {
		return nodes, false
	}
	for i, n := range nodes {
		if n.ID == id {
			next, ok := fn(n)
			if !ok {
				return nodes, false
			}
			out := make([]*Node, 0, len(nodes))
			out = append(out, nodes[:i]...)
			if next != nil {
				out = append(out, next)
			}
			return append(out, nodes[i+1:]...), true
		}
		next, ok := n.mapSlots(func(_ Slot, list []*Node) ([]*Node, bool) {
			return replace(list, id, fn)
		})
		if ok {
			out := append([]*Node(nil), nodes...)
			out[i] = next
			return out, true
		}
	}
	return nodes, false
}

// Insert appends n to the root list when parentID is empty, otherwise to the
// slot at of the container with id parentID, wherever it is nested. An
// address outside the container's shape leaves the tree unchanged.
func Insert(nodes []*Node, n *Node, parentID string, at Slot) ([]*Node, bool) {
	if n == nil {
		return nodes, false
	}
	if parentID == "" {
		out := make([]*Node, 0, len(nodes)+1)
		out = append(out, nodes...)
		return append(out, n), true
	}
	return replace(nodes, parentID, func(parent *Node) (*Node, bool) {
		list, ok := parent.Slot(at)
		if !ok {
			return nil, false
		}
		next := make([]*Node, 0, len(list)+1)
		next = append(next, list...)
		return parent.withSlot(at, append(next, n)), true
	})
}

// Remove drops the node with the given id together with its subtree. Slots
// emptied this way stay in place; a tab whose contents are removed is kept.
func Remove(nodes []*Node, id string) ([]*Node, bool) {
	return replace(nodes, id, func(*Node) (*Node, bool) { return nil, true })
}

// Patch is a shallow change to a node's content. Id and type are not
// patchable; a type change is a delete followed by an insert.
type Patch struct {
	Label *string `json:"label,omitempty" yaml:"label,omitempty"`
	// Attrs are merged key by key over the existing attributes.
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	// Unset lists attribute keys to delete.
	Unset []string `json:"unset,omitempty" yaml:"unset,omitempty"`
}

// LabelPatch is a Patch that only sets the label.
func LabelPatch(label string) Patch { return Patch{Label: &label} }

// IsZero reports whether p changes nothing.
func (p Patch) IsZero() bool {
	return p.Label == nil && len(p.Attrs) == 0 && len(p.Unset) == 0
}

func (p Patch) apply(n *Node) *Node {
	out := n.clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if len(p.Attrs) > 0 || len(p.Unset) > 0 {
		attrs := make(map[string]any, len(n.Attrs)+len(p.Attrs))
		maps.Copy(attrs, n.Attrs)
		maps.Copy(attrs, p.Attrs)
		for _, k := range p.Unset {
			delete(attrs, k)
		}
		if len(attrs) == 0 {
			attrs = nil
		}
		out.Attrs = attrs
	}
	return out
}

// Update replaces the node with the given id by a copy with p applied.
func Update(nodes []*Node, id string, p Patch) ([]*Node, bool) {
	return replace(nodes, id, func(n *Node) (*Node, bool) { return p.apply(n), true })
}

// Move repositions the element at index from to index to within a single
// list: the root list when parentID is empty, otherwise the slot at of the
// container parentID. to is the position after the element has been taken
// out and is clamped into range; a from outside the list is rejected.
// Moving between different slots is a Remove followed by an Insert.
func Move(nodes []*Node, from, to int, parentID string, at Slot) ([]*Node, bool) {
	if parentID == "" {
		return splice(nodes, from, to)
	}
	return replace(nodes, parentID, func(parent *Node) (*Node, bool) {
		list, ok := parent.Slot(at)
		if !ok {
			return nil, false
		}
		moved, ok := splice(list, from, to)
		if !ok {
			return nil, false
		}
		return parent.withSlot(at, moved), true
	})
}

func splice(list []*Node, from, to int) ([]*Node, bool) {
	if from < 0 || from >= len(list) {
		return list, false
	}
	to = clamp(to, 0, len(list)-1)
	n := list[from]
	out := make([]*Node, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)
	out = append(out[:to], append([]*Node{n}, out[to:]...)...)
	return out, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
