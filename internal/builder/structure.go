package builder

import (
	"context"

	"github.com/hanpama/formtree/internal/events"
	"github.com/hanpama/formtree/internal/form"
)

type structuralEdit func(nodes []*form.Node) (out []*form.Node, removed bool, ok bool)

func growing(f func([]*form.Node) ([]*form.Node, bool)) structuralEdit {
	return func(nodes []*form.Node) ([]*form.Node, bool, bool) {
		out, ok := f(nodes)
		return out, false, ok
	}
}

// structural runs a container edit. Deleting a container's last column,
// row or tab removes the container itself; the selection is cleared when
// it pointed at anything that went away.
func (b *Builder) structural(ctx context.Context, op, parentID string, index int, edit structuralEdit) bool {
	applied, _ := b.run(ctx, op, parentID, func(ctx context.Context, c *command) (bool, error) {
		out, removed, ok := edit(b.nodes)
		if !ok {
			c.miss(ctx, "container or index not found", "index", index)
			return false, nil
		}
		b.nodes = out
		if removed {
			c.log.InfoContext(ctx, "container removed with its last slot")
		}
		emit(c, events.StructureChanged{Op: op, ParentID: parentID, Index: index, Removed: removed})
		b.dropStaleSelection(c)
		return true, nil
	})
	return applied
}

// InsertColumn adds an empty column at index at of a columns node.
func (b *Builder) InsertColumn(ctx context.Context, parentID string, at int) bool {
	return b.structural(ctx, "insertColumn", parentID, at, growing(func(n []*form.Node) ([]*form.Node, bool) {
		return form.InsertColumn(n, parentID, at)
	}))
}

// DeleteColumn drops column col of a columns node with its contents.
func (b *Builder) DeleteColumn(ctx context.Context, parentID string, col int) bool {
	return b.structural(ctx, "deleteColumn", parentID, col, func(n []*form.Node) ([]*form.Node, bool, bool) {
		return form.DeleteColumn(n, parentID, col)
	})
}

// InsertTableRow adds a row of empty cells at index at of a table.
func (b *Builder) InsertTableRow(ctx context.Context, parentID string, at int) bool {
	return b.structural(ctx, "insertTableRow", parentID, at, growing(func(n []*form.Node) ([]*form.Node, bool) {
		return form.InsertTableRow(n, parentID, at)
	}))
}

// InsertTableColumn adds an empty cell at column at of every table row.
func (b *Builder) InsertTableColumn(ctx context.Context, parentID string, at int) bool {
	return b.structural(ctx, "insertTableColumn", parentID, at, growing(func(n []*form.Node) ([]*form.Node, bool) {
		return form.InsertTableColumn(n, parentID, at)
	}))
}

// DeleteTableRow drops row of a table with its contents.
func (b *Builder) DeleteTableRow(ctx context.Context, parentID string, row int) bool {
	return b.structural(ctx, "deleteTableRow", parentID, row, func(n []*form.Node) ([]*form.Node, bool, bool) {
		return form.DeleteTableRow(n, parentID, row)
	})
}

// DeleteTableColumn drops column col of a table with its contents.
func (b *Builder) DeleteTableColumn(ctx context.Context, parentID string, col int) bool {
	return b.structural(ctx, "deleteTableColumn", parentID, col, func(n []*form.Node) ([]*form.Node, bool, bool) {
		return form.DeleteTableColumn(n, parentID, col)
	})
}

// AddTab appends a tab; an empty name becomes "Tab n".
func (b *Builder) AddTab(ctx context.Context, parentID, name string) bool {
	return b.structural(ctx, "addTab", parentID, -1, growing(func(n []*form.Node) ([]*form.Node, bool) {
		return form.AddTab(n, parentID, name)
	}))
}

// RenameTab renames tab i of a tabs node.
func (b *Builder) RenameTab(ctx context.Context, parentID string, i int, name string) bool {
	return b.structural(ctx, "renameTab", parentID, i, growing(func(n []*form.Node) ([]*form.Node, bool) {
		return form.RenameTab(n, parentID, i, name)
	}))
}

// DeleteTab drops tab i and its contents. Deleting the last tab removes
// the tabs node.
func (b *Builder) DeleteTab(ctx context.Context, parentID string, i int) bool {
	return b.structural(ctx, "deleteTab", parentID, i, func(n []*form.Node) ([]*form.Node, bool, bool) {
		return form.DeleteTab(n, parentID, i)
	})
}
