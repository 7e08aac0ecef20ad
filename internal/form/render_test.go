package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/formtree/internal/form"
)

func TestRender(t *testing.T) {
	tree := fixture()
	tree, _ = form.Update(tree, "a", form.Patch{Attrs: map[string]any{"required": true, "placeholder": "Your name"}})

	want := `heading "Survey" #h
columns cols=2 #cols
  [col 0]
    text "A" {placeholder=Your name, required=true} #a
  [col 1]
    tabs #t
      [tab 0 "Tab 1"]
        text "B" #b
        text "C" #c
        text "D" #d
      [tab 1 "Tab 2"]
table rows=2 cols=2 #tb
  [row 0, col 0]
  [row 0, col 1]
  [row 1, col 0]
    number "E" #e
  [row 1, col 1]
`
	if diff := cmp.Diff(want, form.Render(tree)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}
