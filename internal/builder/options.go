package builder

import (
	"io"
	"log/slog"

	"github.com/hanpama/formtree/internal/eventbus"
	"github.com/hanpama/formtree/internal/form"
	"github.com/hanpama/formtree/internal/palette"
)

// Options configures a Builder.
//
// Defaults:
// - Logger:  discards everything
// - Bus:     nil, events are dropped
// - Strict:  false, unknown templates become placeholder nodes
// - Palette: the built-in palette, used by commands naming an entry
type Options struct {
	Logger  *slog.Logger
	Bus     *eventbus.Bus
	Strict  bool
	NewID   func() string
	Nodes   []*form.Node
	Palette *palette.Palette
}

type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Palette: palette.Builtin(),
	}
}

func WithLogger(l *slog.Logger) Option         { return func(o *Options) { o.Logger = l } }
func WithBus(b *eventbus.Bus) Option           { return func(o *Options) { o.Bus = b } }
func WithStrict(strict bool) Option            { return func(o *Options) { o.Strict = strict } }
func WithIDGenerator(gen func() string) Option { return func(o *Options) { o.NewID = gen } }
func WithPalette(p *palette.Palette) Option    { return func(o *Options) { o.Palette = p } }

// WithNodes seeds the builder with an existing tree, e.g. a decoded
// document. The tree is not validated here; structural edits tolerate
// ragged tables.
func WithNodes(nodes []*form.Node) Option {
	return func(o *Options) { o.Nodes = nodes }
}
