// Package builder owns a form tree and serializes every edit to it.
// All tree changes go through the pure functions of package form; the
// Builder adds the heading precondition, selection bookkeeping, logging and
// event publishing on top.
package builder

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hanpama/formtree/internal/cmdid"
	"github.com/hanpama/formtree/internal/eventbus"
	"github.com/hanpama/formtree/internal/events"
	"github.com/hanpama/formtree/internal/form"
)

var (
	// ErrHeadingRequired rejects field additions on a form whose heading is
	// missing or blank.
	ErrHeadingRequired = errors.New("builder: set a heading before adding fields")
	// ErrHeadingTemplate rejects heading templates; a form has one heading,
	// managed by SetHeading.
	ErrHeadingTemplate = errors.New("builder: headings are set with SetHeading")
)

// Builder is safe for concurrent use. Event handlers run after the edit has
// been committed and may call back into the Builder.
type Builder struct {
	opt Options
	log *slog.Logger

	mu       sync.Mutex
	nodes    []*form.Node
	selected string
	modal    string
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	if o.Logger == nil {
		o.Logger = defaultOptions().Logger
	}
	return &Builder{
		opt:   *o,
		log:   o.Logger.With("component", "builder"),
		nodes: slices.Clone(o.Nodes),
	}
}

// command collects the events of one edit so they can be published once
// the lock is released.
type command struct {
	name    string
	target  string
	log     *slog.Logger
	bus     *eventbus.Bus
	pending []func(context.Context)
}

func emit[T any](c *command, e T) {
	c.pending = append(c.pending, func(ctx context.Context) { eventbus.Publish(ctx, c.bus, e) })
}

func (c *command) reject(ctx context.Context, err error) error {
	c.log.WarnContext(ctx, "command rejected", "error", err)
	emit(c, events.CommandRejected{Name: c.name, Reason: err})
	return err
}

func (c *command) miss(ctx context.Context, msg string, args ...any) {
	c.log.DebugContext(ctx, msg, args...)
}

func (b *Builder) run(ctx context.Context, name, target string, fn func(context.Context, *command) (bool, error)) (bool, error) {
	ctx, cid := cmdid.NewContext(ctx)
	c := &command{
		name:   name,
		target: target,
		log:    b.log.With("command", name, "target", target, "cid", cid),
		bus:    b.opt.Bus,
	}
	start := time.Now()
	eventbus.Publish(ctx, b.opt.Bus, events.CommandStart{Name: name, Target: target})

	b.mu.Lock()
	applied, err := fn(ctx, c)
	b.mu.Unlock()

	for _, p := range c.pending {
		p(ctx)
	}
	d := time.Since(start)
	if applied {
		c.log.DebugContext(ctx, "command applied", "duration", d)
	}
	eventbus.Publish(ctx, b.opt.Bus, events.CommandFinish{
		Name:     name,
		Target:   target,
		Applied:  applied,
		Err:      err,
		Duration: d,
	})
	return applied, err
}

// heading returns the heading node, which lives in the root list.
func heading(nodes []*form.Node) *form.Node {
	for _, n := range nodes {
		if n.Type == form.KindHeading {
			return n
		}
	}
	return nil
}

// titled reports whether the form has a heading with a non-blank title.
func titled(nodes []*form.Node) bool {
	h := heading(nodes)
	return h != nil && strings.TrimSpace(h.Label) != ""
}

// dropStaleSelection clears the selection when the selected node is no
// longer in the tree. Callers hold b.mu.
func (b *Builder) dropStaleSelection(c *command) {
	if b.selected == "" || form.Find(b.nodes, b.selected) != nil {
		return
	}
	emit(c, events.SelectionCleared{ID: b.selected})
	b.selected = ""
}

func (b *Builder) nodeOptions() []form.NodeOption {
	if b.opt.NewID == nil {
		return nil
	}
	return []form.NodeOption{form.WithIDGenerator(b.opt.NewID)}
}

// AddField creates a node from tmpl and appends it to the slot at of the
// container parentID, or to the root list when parentID is empty. It
// returns the new node's id, or "" when the parent or slot does not exist.
//
// A form without a titled heading rejects the call with ErrHeadingRequired. A
// template of unknown type fails with form.ErrInvalidTemplate in strict
// mode and is inserted as an unsupported placeholder otherwise.
func (b *Builder) AddField(ctx context.Context, tmpl form.Template, parentID string, at form.Slot) (string, error) {
	var id string
	_, err := b.run(ctx, "add", parentID, func(ctx context.Context, c *command) (bool, error) {
		if !titled(b.nodes) {
			return false, c.reject(ctx, ErrHeadingRequired)
		}
		if tmpl.Type == form.KindHeading {
			return false, c.reject(ctx, ErrHeadingTemplate)
		}
		n, err := form.NewNode(tmpl, b.nodeOptions()...)
		if err != nil {
			if b.opt.Strict {
				return false, c.reject(ctx, err)
			}
			c.log.WarnContext(ctx, "inserting placeholder for unsupported template", "type", tmpl.Type)
			n = form.Unsupported(tmpl, b.nodeOptions()...)
		}
		out, ok := form.Insert(b.nodes, n, parentID, at)
		if !ok {
			c.miss(ctx, "parent slot not found", "slot", at.String())
			return false, nil
		}
		b.nodes = out
		loc, _ := form.Locate(out, n.ID)
		emit(c, events.FieldAdded{ID: n.ID, Type: n.Type, ParentID: parentID, Slot: at, Index: loc.Index})
		id = n.ID
		return true, nil
	})
	return id, err
}

// DeleteField removes the node id and its subtree. The selection is
// cleared when it pointed into the removed subtree.
func (b *Builder) DeleteField(ctx context.Context, id string) bool {
	applied, _ := b.run(ctx, "delete", id, func(ctx context.Context, c *command) (bool, error) {
		out, ok := form.Remove(b.nodes, id)
		if !ok {
			c.miss(ctx, "node not found")
			return false, nil
		}
		b.nodes = out
		emit(c, events.FieldDeleted{ID: id})
		b.dropStaleSelection(c)
		return true, nil
	})
	return applied
}

// UpdateField applies patch to the node id.
func (b *Builder) UpdateField(ctx context.Context, id string, patch form.Patch) bool {
	applied, _ := b.run(ctx, "update", id, func(ctx context.Context, c *command) (bool, error) {
		out, ok := form.Update(b.nodes, id, patch)
		if !ok {
			c.miss(ctx, "node not found")
			return false, nil
		}
		b.nodes = out
		emit(c, events.FieldUpdated{ID: id, Patch: patch})
		return true, nil
	})
	return applied
}

// MoveField repositions an element within one slot. See form.Move.
func (b *Builder) MoveField(ctx context.Context, from, to int, parentID string, at form.Slot) bool {
	applied, _ := b.run(ctx, "move", parentID, func(ctx context.Context, c *command) (bool, error) {
		out, ok := form.Move(b.nodes, from, to, parentID, at)
		if !ok {
			c.miss(ctx, "move target not found", "from", from, "to", to, "slot", at.String())
			return false, nil
		}
		b.nodes = out
		emit(c, events.FieldMoved{ParentID: parentID, Slot: at, From: from, To: to})
		return true, nil
	})
	return applied
}

// SetHeading renames the heading, creating it at index 0 when the form has
// none. It returns the heading's id.
func (b *Builder) SetHeading(ctx context.Context, text string) string {
	var id string
	b.run(ctx, "heading", "", func(ctx context.Context, c *command) (bool, error) {
		if h := heading(b.nodes); h != nil {
			b.nodes, _ = form.Update(b.nodes, h.ID, form.LabelPatch(text))
			id = h.ID
			emit(c, events.HeadingSet{ID: id, Text: text})
			return true, nil
		}
		h := form.Heading(text, b.nodeOptions()...)
		b.nodes = append([]*form.Node{h}, b.nodes...)
		id = h.ID
		emit(c, events.HeadingSet{ID: id, Text: text, Created: true})
		return true, nil
	})
	return id
}

// Nodes returns the current root list. The nodes are never modified in
// place, so the snapshot stays valid after later edits.
func (b *Builder) Nodes() []*form.Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.nodes)
}

// FindSelected looks a node up by id; it returns nil when there is none.
func (b *Builder) FindSelected(id string) *form.Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return form.Find(b.nodes, id)
}

// Select marks id as the selected node. An empty id clears the selection;
// an id not in the tree is refused.
func (b *Builder) Select(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id != "" && form.Find(b.nodes, id) == nil {
		return false
	}
	b.selected = id
	return true
}

// Selected returns the selected id, or "" when nothing is selected.
func (b *Builder) Selected() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// OpenModal records name as the open modal. It does not touch the selection.
func (b *Builder) OpenModal(name string) {
	b.mu.Lock()
	b.modal = name
	b.mu.Unlock()
}

// CloseModal clears the open modal.
func (b *Builder) CloseModal() { b.OpenModal("") }

// Modal returns the open modal's name, or "".
func (b *Builder) Modal() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.modal
}
