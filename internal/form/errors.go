package form

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTemplate indicates a template whose type is not a known kind.
var ErrInvalidTemplate = errors.New("form: invalid template")

// Violation is one broken structural invariant.
type Violation struct {
	NodeID  string `json:"nodeId,omitempty"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a tree.
type ValidationError []*Violation

func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("form: invalid tree:\n")
	for _, v := range e {
		b.WriteString("- ")
		b.WriteString(v.Message)
		if v.NodeID != "" {
			fmt.Fprintf(&b, " (node %s)", v.NodeID)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (ValidationError, bool) {
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
