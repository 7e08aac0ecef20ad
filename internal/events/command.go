package events

import "time"

// CommandStart is emitted before a builder command runs.
// Context carries the command id.
type CommandStart struct {
	Name   string
	Target string
}

// CommandFinish is emitted after a builder command completes, whether or
// not it changed the tree.
type CommandFinish struct {
	Name     string
	Target   string
	Applied  bool
	Err      error
	Duration time.Duration
}

// CommandRejected is emitted when a command is refused before touching the
// tree.
type CommandRejected struct {
	Name   string
	Reason error
}
