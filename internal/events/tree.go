package events

import "github.com/hanpama/formtree/internal/form"

// FieldAdded is emitted after a node is inserted.
type FieldAdded struct {
	ID       string
	Type     form.Kind
	ParentID string
	Slot     form.Slot
	Index    int
}

// FieldDeleted is emitted after a node and its subtree are removed.
type FieldDeleted struct {
	ID string
}

// FieldUpdated is emitted after a node's label or attributes change.
type FieldUpdated struct {
	ID    string
	Patch form.Patch
}

// FieldMoved is emitted after a node is reordered within its list.
type FieldMoved struct {
	ParentID string
	Slot     form.Slot
	From     int
	To       int
}

// HeadingSet is emitted when the form heading is created or renamed.
type HeadingSet struct {
	ID      string
	Text    string
	Created bool
}

// StructureChanged is emitted after a column, table row or column, or tab
// edit. Removed is set when the edit deleted the whole container.
type StructureChanged struct {
	Op       string
	ParentID string
	Index    int
	Removed  bool
}

// SelectionCleared is emitted when the selected node stops existing.
type SelectionCleared struct {
	ID string
}
