package palette

import "github.com/hanpama/formtree/internal/form"

func ptr(v int) *int { return &v }

var builtinEntries = []Entry{
	{Name: "text", Template: form.Template{Type: form.KindText, Label: "Short answer", PlaceholderByDefault: true, Placeholder: "Type your answer"}},
	{Name: "textarea", Template: form.Template{Type: form.KindTextarea, Label: "Long answer", PlaceholderByDefault: true, Placeholder: "Type your answer"}},
	{Name: "number", Template: form.Template{Type: form.KindNumber, Label: "Number"}},
	{Name: "email", Template: form.Template{Type: form.KindEmail, Label: "Email", PlaceholderByDefault: true, Placeholder: "name@example.com"}},
	{Name: "phone", Template: form.Template{Type: form.KindPhone, Label: "Phone"}},
	{Name: "date", Template: form.Template{Type: form.KindDate, Label: "Date"}},
	{Name: "time", Template: form.Template{Type: form.KindTime, Label: "Time"}},
	{Name: "select", Template: form.Template{Type: form.KindSelect, Label: "Dropdown", Attrs: map[string]any{form.AttrOptions: []any{"Option 1", "Option 2"}}}},
	{Name: "radio", Template: form.Template{Type: form.KindRadio, Label: "Multiple choice", Attrs: map[string]any{form.AttrOptions: []any{"Option 1", "Option 2"}}}},
	{Name: "checkbox", Template: form.Template{Type: form.KindCheckbox, Label: "Checkbox"}},
	{Name: "file", Template: form.Template{Type: form.KindFile, Label: "File upload"}},
	{Name: "rating", Template: form.Template{Type: form.KindRating, Label: "Rating", Attrs: map[string]any{"max": float64(5)}}},
	{Name: "paragraph", Template: form.Template{Type: form.KindParagraph, Label: "Paragraph"}},
	{Name: "columns", Template: form.Template{Type: form.KindColumns, Label: "Columns", DefaultCols: ptr(2)}},
	{Name: "table", Template: form.Template{Type: form.KindTable, Label: "Table", DefaultRows: ptr(2), DefaultCols: ptr(2)}},
	{Name: "tabs", Template: form.Template{Type: form.KindTabs, Label: "Tabs", DefaultTabs: ptr(2)}},
}

// Builtin returns the default palette: one template per field kind.
func Builtin() *Palette {
	p, err := New(builtinEntries...)
	if err != nil {
		panic(err)
	}
	return p
}
