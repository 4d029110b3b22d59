// Package view defines the rendering collaborator used by wizard pages and a
// terminal implementation of it.
package view

// Row is one label/value line of a summary.
type Row struct {
	Label string
	Value string
}

// Option is one entry of an exclusive-choice control.
type Option struct {
	ID          string
	Label       string
	Description string
}

// Renderer is the display surface a page draws on. Calls append to the page's
// current display; Clear removes everything rendered so far.
type Renderer interface {
	// Heading renders a bold line of text.
	Heading(text string)

	// Rows renders label/value rows in order.
	Rows(rows []Row)

	// Choice renders an exclusive-choice control. onChange is called with the
	// option ID whenever the selection changes.
	Choice(name string, options []Option, selected string, onChange func(id string))

	// Input renders a free-text control. onChange is called with the new value.
	Input(name, label, value string, onChange func(value string))

	// Clear removes all previously rendered items.
	Clear()
}
