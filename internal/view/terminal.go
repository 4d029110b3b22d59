package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const labelWidth = 30

type controlKind int

const (
	choiceControl controlKind = iota
	inputControl
)

type control struct {
	kind     controlKind
	name     string
	label    string
	options  []Option
	value    string
	onChange func(string)
}

// Answerer supplies values for rendered controls.
type Answerer interface {
	Choose(name string, options []Option, selected string) (string, error)
	Text(name, label, value string) (string, error)
}

// Terminal renders pages as styled text and answers their controls through an
// Answerer. Each page draws on its own Surface.
type Terminal struct {
	out      io.Writer
	answers  Answerer
	surfaces map[string]*Surface

	heading  lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
}

// NewTerminal creates a terminal renderer writing to out.
func NewTerminal(out io.Writer, answers Answerer) *Terminal {
	r := lipgloss.NewRenderer(out)
	return &Terminal{
		out:      out,
		answers:  answers,
		surfaces: make(map[string]*Surface),
		heading:  r.NewStyle().Bold(true),
		label:    r.NewStyle().Foreground(lipgloss.Color("#595959")).Width(labelWidth),
		value:    r.NewStyle(),
		selected: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#0078D4")),
		muted:    r.NewStyle().Faint(true).MarginLeft(4),
	}
}

// Surface returns the drawing surface of a page, creating it on first use.
func (t *Terminal) Surface(page string) *Surface {
	s, ok := t.surfaces[page]
	if !ok {
		s = &Surface{term: t, page: page}
		t.surfaces[page] = s
	}
	return s
}

// Interact answers every control currently rendered on the page's surface.
// Controls re-rendered by a change callback are answered once per call.
func (t *Terminal) Interact(page string) error {
	s := t.Surface(page)
	answered := make(map[string]bool)
	for {
		c := s.nextUnanswered(answered)
		if c == nil {
			return nil
		}
		answered[c.name] = true

		var (
			v   string
			err error
		)
		switch c.kind {
		case choiceControl:
			v, err = t.answers.Choose(c.name, c.options, c.value)
		case inputControl:
			v, err = t.answers.Text(c.name, c.label, c.value)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.name, err)
		}
		if v != c.value {
			c.value = v
			c.onChange(v)
		}
	}
}

// Surface is a page-scoped Renderer.
type Surface struct {
	term     *Terminal
	page     string
	controls []*control
}

func (s *Surface) nextUnanswered(answered map[string]bool) *control {
	for _, c := range s.controls {
		if !answered[c.name] {
			return c
		}
	}
	return nil
}

// Controls returns the names of the controls currently rendered.
func (s *Surface) Controls() []string {
	names := make([]string, 0, len(s.controls))
	for _, c := range s.controls {
		names = append(names, c.name)
	}
	return names
}

func (s *Surface) Heading(text string) {
	fmt.Fprintln(s.term.out, s.term.heading.Render(text))
}

func (s *Surface) Rows(rows []Row) {
	for _, r := range rows {
		fmt.Fprintln(s.term.out, s.term.label.Render(r.Label)+s.term.value.Render(r.Value))
	}
}

func (s *Surface) Choice(name string, options []Option, selected string, onChange func(id string)) {
	s.replace(&control{kind: choiceControl, name: name, options: options, value: selected, onChange: onChange})
	for _, o := range options {
		marker := "( ) "
		text := o.Label
		if o.ID == selected {
			marker = "(•) "
			text = s.term.selected.Render(o.Label)
		}
		fmt.Fprintln(s.term.out, marker+text)
		if o.Description != "" {
			fmt.Fprintln(s.term.out, s.term.muted.Render(o.Description))
		}
	}
}

func (s *Surface) Input(name, label, value string, onChange func(value string)) {
	s.replace(&control{kind: inputControl, name: name, label: label, value: value, onChange: onChange})
	fmt.Fprintln(s.term.out, s.term.label.Render(label)+s.term.value.Render(value))
}

func (s *Surface) Clear() {
	s.controls = nil
	fmt.Fprintln(s.term.out, strings.Repeat("─", labelWidth))
}

// replace keeps one control per name so a re-render never duplicates controls.
func (s *Surface) replace(c *control) {
	for i, existing := range s.controls {
		if existing.name == c.name {
			s.controls[i] = c
			return
		}
	}
	s.controls = append(s.controls, c)
}
