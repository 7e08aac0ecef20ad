package form

import "slices"

// Kind selects the variant of a Node.
type Kind string

const (
	KindHeading Kind = "heading"

	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindNumber      Kind = "number"
	KindEmail       Kind = "email"
	KindPhone       Kind = "phone"
	KindDate        Kind = "date"
	KindTime        Kind = "time"
	KindSelect      Kind = "select"
	KindRadio       Kind = "radio"
	KindCheckbox    Kind = "checkbox"
	KindFile        Kind = "file"
	KindRating      Kind = "rating"
	KindParagraph   Kind = "paragraph"
	KindUnsupported Kind = "unsupported"

	KindColumns Kind = "columns"
	KindTable   Kind = "table"
	KindTabs    Kind = "tabs"
)

var kinds = map[Kind]struct{}{
	KindHeading:     {},
	KindText:        {},
	KindTextarea:    {},
	KindNumber:      {},
	KindEmail:       {},
	KindPhone:       {},
	KindDate:        {},
	KindTime:        {},
	KindSelect:      {},
	KindRadio:       {},
	KindCheckbox:    {},
	KindFile:        {},
	KindRating:      {},
	KindParagraph:   {},
	KindUnsupported: {},
	KindColumns:     {},
	KindTable:       {},
	KindTabs:        {},
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// IsContainer reports whether nodes of this kind hold child node lists.
func (k Kind) IsContainer() bool {
	return k == KindColumns || k == KindTable || k == KindTabs
}

// IsLeaf reports whether k is a known, non-container kind.
func (k Kind) IsLeaf() bool { return k.Valid() && !k.IsContainer() }

func (k Kind) String() string { return string(k) }

// Kinds returns every known kind in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
