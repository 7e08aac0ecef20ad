package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hanpama/formtree/internal/document"
	"github.com/hanpama/formtree/internal/form"
	"gopkg.in/yaml.v3"
)

// ErrUnknownCommand reports a command whose op the builder does not know.
var ErrUnknownCommand = errors.New("builder: unknown command")

type Op string

const (
	OpAdd               Op = "add"
	OpDelete            Op = "delete"
	OpUpdate            Op = "update"
	OpMove              Op = "move"
	OpHeading           Op = "heading"
	OpInsertColumn      Op = "insertColumn"
	OpDeleteColumn      Op = "deleteColumn"
	OpInsertTableRow    Op = "insertTableRow"
	OpInsertTableColumn Op = "insertTableColumn"
	OpDeleteTableRow    Op = "deleteTableRow"
	OpDeleteTableColumn Op = "deleteTableColumn"
	OpAddTab            Op = "addTab"
	OpRenameTab         Op = "renameTab"
	OpDeleteTab         Op = "deleteTab"
	OpSelect            Op = "select"
)

// Command is one inbound edit, as sent by a palette or drag-and-drop
// surface or replayed from a script. Which fields matter depends on Op:
//
//	add                  template | entry, parentId, row, col
//	delete               targetId
//	update               targetId, patch
//	move                 from, to, parentId, row, col
//	heading              text
//	insertColumn, ...    parentId, index
//	addTab, renameTab    parentId, index, name
//	select               targetId
//
// A slot is addressed by col for columns, (row, col) for tables and row
// for tabs.
type Command struct {
	Op Op `json:"op" yaml:"op"`
	// Ref names the node created by add or heading for later commands of
	// the same Replay.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`

	Template *form.Template `json:"template,omitempty" yaml:"template,omitempty"`
	// Entry names a palette entry; it is used when Template is nil.
	Entry string `json:"entry,omitempty" yaml:"entry,omitempty"`

	ParentID string `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Row      int    `json:"row,omitempty" yaml:"row,omitempty"`
	Col      int    `json:"col,omitempty" yaml:"col,omitempty"`

	TargetID string      `json:"targetId,omitempty" yaml:"targetId,omitempty"`
	Patch    *form.Patch `json:"patch,omitempty" yaml:"patch,omitempty"`

	From int `json:"from,omitempty" yaml:"from,omitempty"`
	To   int `json:"to,omitempty" yaml:"to,omitempty"`

	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Index int    `json:"index,omitempty" yaml:"index,omitempty"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (c Command) slot() form.Slot { return form.Slot{Row: c.Row, Col: c.Col} }

// Result reports what a command did. ID is set by add and heading.
type Result struct {
	Applied bool   `json:"applied"`
	ID      string `json:"id,omitempty"`
}

// Apply dispatches cmd to the matching Builder method. Misses are
// reported through Result.Applied; only rejected commands return errors.
func (b *Builder) Apply(ctx context.Context, cmd Command) (Result, error) {
	switch cmd.Op {
	case OpAdd:
		tmpl, err := b.template(cmd)
		if err != nil {
			return Result{}, err
		}
		id, err := b.AddField(ctx, tmpl, cmd.ParentID, cmd.slot())
		return Result{Applied: id != "", ID: id}, err
	case OpDelete:
		return Result{Applied: b.DeleteField(ctx, cmd.TargetID)}, nil
	case OpUpdate:
		var p form.Patch
		if cmd.Patch != nil {
			p = *cmd.Patch
		}
		return Result{Applied: b.UpdateField(ctx, cmd.TargetID, p)}, nil
	case OpMove:
		return Result{Applied: b.MoveField(ctx, cmd.From, cmd.To, cmd.ParentID, cmd.slot())}, nil
	case OpHeading:
		id := b.SetHeading(ctx, cmd.Text)
		return Result{Applied: true, ID: id}, nil
	case OpInsertColumn:
		return Result{Applied: b.InsertColumn(ctx, cmd.ParentID, cmd.Index)}, nil
	case OpDeleteColumn:
		return Result{Applied: b.DeleteColumn(ctx, cmd.ParentID, cmd.Index)}, nil
	case OpInsertTableRow:
		return Result{Applied: b.InsertTableRow(ctx, cmd.ParentID, cmd.Index)}, nil
	case OpInsertTableColumn:
		return Result{Applied: b.InsertTableColumn(ctx, cmd.ParentID, cmd.Index)}, nil
	case OpDeleteTableRow:
		return Result{Applied: b.DeleteTableRow(ctx, cmd.ParentID, cmd.Index)}, nil
	case OpDeleteTableColumn:
		return Result{Applied: b.DeleteTableColumn(ctx, cmd.ParentID, cmd.Index)}, nil
	case OpAddTab:
		return Result{Applied: b.AddTab(ctx, cmd.ParentID, cmd.Name)}, nil
	case OpRenameTab:
		return Result{Applied: b.RenameTab(ctx, cmd.ParentID, cmd.Index, cmd.Name)}, nil
	case OpDeleteTab:
		return Result{Applied: b.DeleteTab(ctx, cmd.ParentID, cmd.Index)}, nil
	case OpSelect:
		return Result{Applied: b.Select(cmd.TargetID)}, nil
	}
	err := fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Op)
	b.run(ctx, string(cmd.Op), "", func(ctx context.Context, c *command) (bool, error) {
		return false, c.reject(ctx, err)
	})
	return Result{}, err
}

func (b *Builder) template(cmd Command) (form.Template, error) {
	if cmd.Template != nil {
		return *cmd.Template, nil
	}
	if b.opt.Palette != nil {
		if t, ok := b.opt.Palette.Lookup(cmd.Entry); ok {
			return t, nil
		}
	}
	return form.Template{}, fmt.Errorf("%w: no palette entry %q", form.ErrInvalidTemplate, cmd.Entry)
}

// Replay applies cmds in order and stops at the first error. "$name" in
// parentId or targetId stands for the id recorded by an earlier command
// with ref "name".
func (b *Builder) Replay(ctx context.Context, cmds []Command) ([]Result, error) {
	refs := map[string]string{}
	resolve := func(id string) (string, error) {
		name, ok := strings.CutPrefix(id, "$")
		if !ok {
			return id, nil
		}
		if resolved, ok := refs[name]; ok {
			return resolved, nil
		}
		return "", fmt.Errorf("unknown reference %q", id)
	}

	results := make([]Result, 0, len(cmds))
	for i, cmd := range cmds {
		var err error
		if cmd.ParentID, err = resolve(cmd.ParentID); err == nil {
			cmd.TargetID, err = resolve(cmd.TargetID)
		}
		if err != nil {
			return results, fmt.Errorf("builder: command %d (%s): %w", i+1, cmd.Op, err)
		}
		res, err := b.Apply(ctx, cmd)
		if err != nil {
			return results, fmt.Errorf("builder: command %d (%s): %w", i+1, cmd.Op, err)
		}
		if cmd.Ref != "" && res.ID != "" {
			refs[cmd.Ref] = res.ID
		}
		results = append(results, res)
	}
	return results, nil
}

// ParseScript decodes a list of commands. YAML goes through the same JSON
// shape, so attribute values decode identically in both formats.
func ParseScript(data []byte, f document.Format) ([]Command, error) {
	switch f {
	case document.FormatJSON:
	case document.FormatYAML:
		var generic []any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("builder: decode yaml script: %w", err)
		}
		var err error
		if data, err = json.Marshal(generic); err != nil {
			return nil, fmt.Errorf("builder: decode yaml script: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", document.ErrUnknownFormat, f)
	}
	var cmds []Command
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("builder: decode script: %w", err)
	}
	return cmds, nil
}
