package form

// Find returns the node with the given id, searching depth-first: columns
// left to right, table cells row-major, tabs first to last. It returns nil
// when no such node exists.
func Find(nodes []*Node, id string) *Node {
	if id == "" {
		return nil
	}
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		for _, at := range n.Slots() {
			list, _ := n.Slot(at)
			if found := Find(list, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// Location describes where a node lives: the id of its container ("" for
// the root list), the slot inside that container and its index in the
// slot's list.
type Location struct {
	ParentID string
	Slot     Slot
	Index    int
}

// Locate returns the location of the node with the given id.
func Locate(nodes []*Node, id string) (Location, bool) {
	return locate(nodes, id, "", Slot{})
}

func locate(nodes []*Node, id, parentID string, at Slot) (Location, bool) {
	for i, n := range nodes {
		if n.ID == id {
			return Location{ParentID: parentID, Slot: at, Index: i}, true
		}
		for _, s := range n.Slots() {
			list, _ := n.Slot(s)
			if loc, ok := locate(list, id, n.ID, s); ok {
				return loc, true
			}
		}
	}
	return Location{}, false
}

// Path returns the chain of nodes from a root-level node down to the node
// with the given id, inclusive. It returns nil when the id is absent.
func Path(nodes []*Node, id string) []*Node {
	for _, n := range nodes {
		if n.ID == id {
			return []*Node{n}
		}
		for _, at := range n.Slots() {
			list, _ := n.Slot(at)
			if sub := Path(list, id); sub != nil {
				return append([]*Node{n}, sub...)
			}
		}
	}
	return nil
}

// Walk visits every node in pre-order. Returning false from fn skips the
// children of that node.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(*Node, int) bool) {
	for _, n := range nodes {
		if !fn(n, depth) {
			continue
		}
		for _, at := range n.Slots() {
			list, _ := n.Slot(at)
			walk(list, depth+1, fn)
		}
	}
}

// Count returns the total number of nodes in the tree.
func Count(nodes []*Node) int {
	total := 0
	Walk(nodes, func(*Node, int) bool {
		total++
		return true
	})
	return total
}
